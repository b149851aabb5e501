package formatter

import (
	"forge-relay/internal/model"
)

// Format classifies ev and renders it with colors. A nil result means the
// event produces no chat output.
func Format(ev model.Event, colors model.ColorScheme) []string {
	return Render(Classify(ev), ev, colors)
}

// Render runs the formatter for rule. The caller is responsible for rule
// having come from Classify(ev).
func Render(rule Rule, ev model.Event, colors model.ColorScheme) []string {
	p := palette{c: colors}

	switch rule {
	case RulePing:
		return one(pingMessage(ev, p))
	case RulePush:
		return pushMessages(ev, p)
	case RuleCommitComment:
		return one(commitCommentMessage(ev, p))
	case RulePullRequestSummary:
		return one(pullRequestSummary(ev, p))
	case RulePullRequestTitleEdit:
		return one(pullRequestTitleEdit(ev, p))
	case RuleAssignee:
		return one(assigneeMessage(ev, p))
	case RuleLabel:
		return one(labelMessage(ev, p))
	case RuleReviewSummary:
		return one(reviewSummary(ev, p))
	case RuleReviewDismissal:
		return one(reviewDismissal(ev, p))
	case RuleReviewComment:
		return one(reviewCommentMessage(ev, p))
	case RuleIssueSummary:
		return one(issueSummary(ev, p))
	case RuleIssueTransferIn:
		return one(issueTransferIn(ev, p))
	case RuleIssueTransferOut:
		return one(issueTransferOut(ev, p))
	case RuleIssueTitleEdit:
		return one(issueTitleEdit(ev, p))
	case RuleMilestone:
		return one(milestoneMessage(ev, p))
	case RuleIssueComment:
		return one(issueCommentMessage(ev, p))
	case RuleWiki:
		return one(wikiMessage(ev, p))
	case RuleStar:
		return one(starMessage(ev, p))
	case RuleStatus:
		return one(statusMessage(ev, p))
	case RuleRelease:
		return one(releaseMessage(ev, p))
	}
	return nil
}

func one(line string) []string {
	if line == "" {
		return nil
	}
	return []string{line}
}
