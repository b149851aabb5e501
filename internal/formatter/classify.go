package formatter

import (
	"strings"

	"forge-relay/internal/model"
)

// Rule names the formatter selected for an event.
type Rule int

const (
	RuleNoOp Rule = iota
	RulePing
	RulePush
	RuleCommitComment
	RulePullRequestSummary
	RulePullRequestTitleEdit
	RuleAssignee
	RuleLabel
	RuleReviewSummary
	RuleReviewDismissal
	RuleReviewComment
	RuleIssueSummary
	RuleIssueTransferIn
	RuleIssueTransferOut
	RuleIssueTitleEdit
	RuleMilestone
	RuleIssueComment
	RuleWiki
	RuleStar
	RuleStatus
	RuleRelease
)

var ruleNames = [...]string{
	RuleNoOp:                 "noop",
	RulePing:                 "ping",
	RulePush:                 "push",
	RuleCommitComment:        "commit_comment",
	RulePullRequestSummary:   "pull_request_summary",
	RulePullRequestTitleEdit: "pull_request_title_edit",
	RuleAssignee:             "assignee",
	RuleLabel:                "label",
	RuleReviewSummary:        "review_summary",
	RuleReviewDismissal:      "review_dismissal",
	RuleReviewComment:        "review_comment",
	RuleIssueSummary:         "issue_summary",
	RuleIssueTransferIn:      "issue_transfer_in",
	RuleIssueTransferOut:     "issue_transfer_out",
	RuleIssueTitleEdit:       "issue_title_edit",
	RuleMilestone:            "milestone",
	RuleIssueComment:         "issue_comment",
	RuleWiki:                 "wiki",
	RuleStar:                 "star",
	RuleStatus:               "status",
	RuleRelease:              "release",
}

func (r Rule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return ruleNames[RuleNoOp]
}

// Classify selects the formatter for ev. Events whose Fields variant does
// not match their Kind classify as RuleNoOp.
func Classify(ev model.Event) Rule {
	switch f := ev.Fields.(type) {
	case *model.PingFields:
		if ev.Kind == model.KindPing {
			return RulePing
		}
	case *model.PushFields:
		if ev.Kind == model.KindPush {
			return RulePush
		}
	case *model.CommitCommentFields:
		if ev.Kind == model.KindCommitComment {
			return RuleCommitComment
		}
	case *model.PullRequestFields:
		if ev.Kind == model.KindPullRequest {
			return classifyPullRequest(ev.Action, f)
		}
	case *model.ReviewFields:
		if ev.Kind == model.KindPullRequestReview {
			return classifyReview(ev.Action, f)
		}
	case *model.ReviewCommentFields:
		if ev.Kind == model.KindPullRequestReviewComment && ev.Action == model.ActionCreated {
			return RuleReviewComment
		}
	case *model.IssuesFields:
		if ev.Kind == model.KindIssues {
			return classifyIssues(ev.Action, f)
		}
	case *model.IssueCommentFields:
		if ev.Kind == model.KindIssueComment && ev.Action == model.ActionCreated {
			return RuleIssueComment
		}
	case *model.GollumFields:
		if ev.Kind == model.KindGollum {
			return RuleWiki
		}
	case *model.WatchFields:
		if ev.Kind == model.KindWatch {
			return RuleStar
		}
	case *model.StatusFields:
		if ev.Kind == model.KindStatus {
			return RuleStatus
		}
	case *model.ReleaseFields:
		if ev.Kind == model.KindRelease && ev.Action == model.ActionPublished {
			return RuleRelease
		}
	}
	return RuleNoOp
}

func classifyPullRequest(action model.Action, f *model.PullRequestFields) Rule {
	switch action {
	case model.ActionOpened, model.ActionReopened, model.ActionClosed,
		model.ActionReadyForReview, model.ActionConvertedToDraft:
		return RulePullRequestSummary
	case model.ActionEdited:
		if titleChanged(f.Changes) {
			return RulePullRequestTitleEdit
		}
	case model.ActionAssigned, model.ActionUnassigned:
		if f.Assignee != nil {
			return RuleAssignee
		}
	case model.ActionLabeled, model.ActionUnlabeled:
		// A label deleted before delivery arrives without a label object.
		if f.Label != nil {
			return RuleLabel
		}
	}
	return RuleNoOp
}

func classifyReview(action model.Action, f *model.ReviewFields) Rule {
	switch action {
	case model.ActionSubmitted:
		switch f.Review.State {
		case model.ReviewApproved, model.ReviewChangesRequested:
			return RuleReviewSummary
		case model.ReviewCommented:
			// Replies to review comments also fire an empty "commented"
			// review; the comment itself arrives as its own event.
			if isBlank(f.Review.Body) {
				return RuleNoOp
			}
			return RuleReviewSummary
		}
	case model.ActionDismissed:
		return RuleReviewDismissal
	}
	return RuleNoOp
}

func classifyIssues(action model.Action, f *model.IssuesFields) Rule {
	switch action {
	case model.ActionOpened, model.ActionReopened, model.ActionClosed:
		if f.Changes != nil && f.Changes.OldRepository != nil && f.Changes.OldIssue != nil {
			return RuleIssueTransferIn
		}
		return RuleIssueSummary
	case model.ActionAssigned, model.ActionUnassigned:
		if f.Assignee != nil {
			return RuleAssignee
		}
	case model.ActionLabeled, model.ActionUnlabeled:
		if f.Label != nil {
			return RuleLabel
		}
	case model.ActionMilestoned, model.ActionDemilestoned:
		if f.Milestone != nil {
			return RuleMilestone
		}
	case model.ActionEdited:
		if titleChanged(f.Changes) {
			return RuleIssueTitleEdit
		}
	case model.ActionTransferred:
		if f.Changes != nil && f.Changes.NewRepository != nil && f.Changes.NewIssue != nil {
			return RuleIssueTransferOut
		}
	}
	return RuleNoOp
}

func titleChanged(c *model.Changes) bool {
	return c != nil && c.Title != nil
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
