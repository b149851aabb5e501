package formatter

import (
	"fmt"

	"forge-relay/internal/model"
)

// pullRequestVerb remaps the payload action for display.
func pullRequestVerb(action model.Action, pr model.PullRequest) string {
	switch {
	case action == model.ActionClosed && pr.Merged:
		return "merged"
	case action == model.ActionOpened && pr.Draft:
		return "drafted"
	case action == model.ActionReadyForReview:
		return "readied"
	case action == model.ActionConvertedToDraft:
		return "un-readied"
	}
	return action.String()
}

// branchPair renders "base...head", qualifying both with their owner when
// the pull request crosses repositories.
func branchPair(pr model.PullRequest, p palette) string {
	base, head := pr.Base.Ref, pr.Head.Ref
	if pr.Base.User.Login != pr.Head.User.Login {
		base = pr.Base.User.Login + ":" + base
		head = pr.Head.User.Login + ":" + head
	}
	return p.branch(base) + "..." + p.branch(head)
}

func pullRequestSummary(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.PullRequestFields)
	if !ok {
		return ""
	}
	pr := f.PullRequest
	verb := pullRequestVerb(ev.Action, pr)

	whose := ""
	if verb == "merged" && pr.User.Login != "" && pr.User.Login != ev.Sender {
		whose = p.name(pr.User.Login) + "'s "
	}
	line := fmt.Sprintf("%s %s %spull request #%d: %s (%s)",
		p.prefix(ev.Repository.Name, ev.Sender), verb, whose, pr.Number,
		emojize(pr.Title), branchPair(pr, p))
	return p.link(line, pr.HTMLURL)
}

func pullRequestTitleEdit(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.PullRequestFields)
	if !ok || !titleChanged(f.Changes) {
		return ""
	}
	pr := f.PullRequest
	line := fmt.Sprintf(`%s retitled PR #%d: "%s" ➜ "%s"`,
		p.prefix(ev.Repository.Name, ev.Sender), pr.Number,
		emojize(f.Changes.Title.From), emojize(pr.Title))
	return p.link(line, pr.HTMLURL)
}

func reviewStateText(state string) string {
	switch state {
	case model.ReviewApproved:
		return "approved"
	case model.ReviewChangesRequested:
		return "requested changes on"
	}
	return "left a review on"
}

func reviewSummary(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.ReviewFields)
	if !ok {
		return ""
	}
	pr := f.PullRequest
	line := fmt.Sprintf("%s %s pull request #%d",
		p.prefix(ev.Repository.Name, ev.Sender), reviewStateText(f.Review.State), pr.Number)
	if !isBlank(f.Review.Body) {
		line += ": " + emojize(ShortCommentBody(f.Review.Body))
	}
	url := f.Review.HTMLURL
	if url == "" {
		url = pr.HTMLURL
	}
	return p.link(line, url)
}

func reviewDismissal(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.ReviewFields)
	if !ok {
		return ""
	}
	whose := "their"
	if reviewer := f.Review.User.Login; reviewer != "" && reviewer != ev.Sender {
		whose = p.name(reviewer) + "'s"
	}
	line := fmt.Sprintf("%s dismissed %s review on pull request #%d",
		p.prefix(ev.Repository.Name, ev.Sender), whose, f.PullRequest.Number)
	return p.link(line, f.Review.HTMLURL)
}

func reviewCommentMessage(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.ReviewCommentFields)
	if !ok {
		return ""
	}
	line := fmt.Sprintf("%s left a file comment in pull request #%d %s: %s",
		p.prefix(ev.Repository.Name, ev.Sender), f.PullRequest.Number,
		p.hash(shortHash(f.Comment.CommitID)), emojize(ShortCommentBody(f.Comment.Body)))
	return p.link(line, f.Comment.HTMLURL)
}
