package formatter

import (
	"fmt"
	"strings"

	"forge-relay/internal/model"
)

// issueType names what an issue-shaped object is for display.
func issueType(iss model.Issue) string {
	if iss.PullRequest != nil || strings.Contains(iss.HTMLURL, "/pull/") {
		return "pull request"
	}
	return "issue"
}

// target is the issue or pull request an assignee, label or milestone
// event is about.
type target struct {
	kind    string
	number  int
	title   string
	htmlURL string
}

func targetOf(ev model.Event) (target, bool) {
	switch f := ev.Fields.(type) {
	case *model.IssuesFields:
		return target{kind: issueType(f.Issue), number: f.Issue.Number, title: f.Issue.Title, htmlURL: f.Issue.HTMLURL}, true
	case *model.PullRequestFields:
		pr := f.PullRequest
		return target{kind: "pull request", number: pr.Number, title: pr.Title, htmlURL: pr.HTMLURL}, true
	}
	return target{}, false
}

func issueSummary(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.IssuesFields)
	if !ok {
		return ""
	}
	line := fmt.Sprintf("%s %s issue #%d: %s",
		p.prefix(ev.Repository.Name, ev.Sender), ev.Action, f.Issue.Number, emojize(f.Issue.Title))
	return p.link(line, f.Issue.HTMLURL)
}

func issueTransferIn(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.IssuesFields)
	if !ok || f.Changes == nil || f.Changes.OldRepository == nil || f.Changes.OldIssue == nil {
		return ""
	}
	old := f.Changes.OldIssue
	line := fmt.Sprintf("[%s] %s#%d by %s was transferred to issue #%d: %s",
		p.repo(ev.Repository.Name), f.Changes.OldRepository.FullName, old.Number,
		p.name(old.User.Login), f.Issue.Number, emojize(f.Issue.Title))
	return p.link(line, f.Issue.HTMLURL)
}

func issueTransferOut(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.IssuesFields)
	if !ok || f.Changes == nil || f.Changes.NewRepository == nil || f.Changes.NewIssue == nil {
		return ""
	}
	dst := f.Changes.NewIssue
	line := fmt.Sprintf("%s transferred issue #%d by %s to %s#%d: %s",
		p.prefix(ev.Repository.Name, ev.Sender), f.Issue.Number, p.name(f.Issue.User.Login),
		f.Changes.NewRepository.FullName, dst.Number, emojize(f.Issue.Title))
	return p.link(line, dst.HTMLURL)
}

func issueTitleEdit(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.IssuesFields)
	if !ok || !titleChanged(f.Changes) {
		return ""
	}
	line := fmt.Sprintf(`%s retitled issue #%d: "%s" ➜ "%s"`,
		p.prefix(ev.Repository.Name, ev.Sender), f.Issue.Number,
		emojize(f.Changes.Title.From), emojize(f.Issue.Title))
	return p.link(line, f.Issue.HTMLURL)
}

func assigneeMessage(ev model.Event, p palette) string {
	t, ok := targetOf(ev)
	if !ok {
		return ""
	}
	var assignee *model.User
	switch f := ev.Fields.(type) {
	case *model.IssuesFields:
		assignee = f.Assignee
	case *model.PullRequestFields:
		assignee = f.Assignee
	}
	if assignee == nil {
		return ""
	}

	prefix := p.prefix(ev.Repository.Name, ev.Sender)
	var line string
	switch {
	case assignee.Login == ev.Sender && ev.Action == model.ActionAssigned:
		line = fmt.Sprintf("%s self-assigned %s #%d", prefix, t.kind, t.number)
	case assignee.Login == ev.Sender:
		line = fmt.Sprintf("%s self-unassigned %s #%d", prefix, t.kind, t.number)
	case ev.Action == model.ActionAssigned:
		line = fmt.Sprintf("%s assigned %s #%d to %s", prefix, t.kind, t.number, p.name(assignee.Login))
	default:
		line = fmt.Sprintf("%s unassigned %s #%d from %s", prefix, t.kind, t.number, p.name(assignee.Login))
	}
	line += fmt.Sprintf(" (%s)", emojize(t.title))
	return p.link(line, t.htmlURL)
}

func labelMessage(ev model.Event, p palette) string {
	t, ok := targetOf(ev)
	if !ok {
		return ""
	}
	var label *model.Label
	switch f := ev.Fields.(type) {
	case *model.IssuesFields:
		label = f.Label
	case *model.PullRequestFields:
		label = f.Label
	}
	if label == nil {
		return ""
	}

	verb, prep := "added", "to"
	if ev.Action == model.ActionUnlabeled {
		verb, prep = "removed", "from"
	}
	line := fmt.Sprintf("%s %s the label '%s' %s %s #%d (%s)",
		p.prefix(ev.Repository.Name, ev.Sender), verb, label.Name, prep, t.kind, t.number, emojize(t.title))
	return p.link(line, t.htmlURL)
}

func milestoneMessage(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.IssuesFields)
	if !ok || f.Milestone == nil {
		return ""
	}
	verb, prep := "added", "to"
	if ev.Action == model.ActionDemilestoned {
		verb, prep = "removed", "from"
	}
	line := fmt.Sprintf("%s %s %s #%d (%s) %s the %s milestone",
		p.prefix(ev.Repository.Name, ev.Sender), verb, issueType(f.Issue), f.Issue.Number,
		emojize(f.Issue.Title), prep, f.Milestone.Title)
	return p.link(line, f.Issue.HTMLURL)
}

func issueCommentMessage(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.IssueCommentFields)
	if !ok {
		return ""
	}
	line := fmt.Sprintf("%s commented on %s #%d: %s",
		p.prefix(ev.Repository.Name, ev.Sender), issueType(f.Issue), f.Issue.Number,
		emojize(ShortCommentBody(f.Comment.Body)))
	return p.link(line, f.Comment.HTMLURL)
}

func commitCommentMessage(ev model.Event, p palette) string {
	f, ok := ev.Fields.(*model.CommitCommentFields)
	if !ok {
		return ""
	}
	line := fmt.Sprintf("%s commented on commit %s: %s",
		p.prefix(ev.Repository.Name, ev.Sender), p.hash(shortHash(f.Comment.CommitID)),
		emojize(ShortCommentBody(f.Comment.Body)))
	return p.link(line, f.Comment.HTMLURL)
}
