package model

import "time"

// Kind is the normalized webhook event type carried in X-GitHub-Event.
type Kind int

const (
	KindUnknown Kind = iota
	KindPing
	KindPush
	KindIssues
	KindPullRequest
	KindPullRequestReview
	KindPullRequestReviewComment
	KindIssueComment
	KindCommitComment
	KindGollum
	KindWatch
	KindStatus
	KindRelease
)

var kindNames = map[Kind]string{
	KindUnknown:                  "unknown",
	KindPing:                     "ping",
	KindPush:                     "push",
	KindIssues:                   "issues",
	KindPullRequest:              "pull_request",
	KindPullRequestReview:        "pull_request_review",
	KindPullRequestReviewComment: "pull_request_review_comment",
	KindIssueComment:             "issue_comment",
	KindCommitComment:            "commit_comment",
	KindGollum:                   "gollum",
	KindWatch:                    "watch",
	KindStatus:                   "status",
	KindRelease:                  "release",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// ParseKind maps an event header value to a Kind. Unrecognized values
// collapse to KindUnknown.
func ParseKind(s string) Kind {
	if k, ok := kindsByName[s]; ok {
		return k
	}
	return KindUnknown
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// HasAction reports whether payloads of this kind carry an action field
// that participates in classification.
func (k Kind) HasAction() bool {
	switch k {
	case KindPush, KindWatch, KindStatus, KindGollum, KindPing, KindUnknown:
		return false
	}
	return true
}

// Action is the normalized sub-action of an event.
type Action int

const (
	ActionNone Action = iota
	ActionUnknown
	ActionOpened
	ActionReopened
	ActionClosed
	ActionEdited
	ActionReadyForReview
	ActionConvertedToDraft
	ActionAssigned
	ActionUnassigned
	ActionLabeled
	ActionUnlabeled
	ActionMilestoned
	ActionDemilestoned
	ActionTransferred
	ActionSubmitted
	ActionDismissed
	ActionCreated
	ActionPublished
)

var actionNames = map[Action]string{
	ActionNone:             "",
	ActionUnknown:          "unknown",
	ActionOpened:           "opened",
	ActionReopened:         "reopened",
	ActionClosed:           "closed",
	ActionEdited:           "edited",
	ActionReadyForReview:   "ready_for_review",
	ActionConvertedToDraft: "converted_to_draft",
	ActionAssigned:         "assigned",
	ActionUnassigned:       "unassigned",
	ActionLabeled:          "labeled",
	ActionUnlabeled:        "unlabeled",
	ActionMilestoned:       "milestoned",
	ActionDemilestoned:     "demilestoned",
	ActionTransferred:      "transferred",
	ActionSubmitted:        "submitted",
	ActionDismissed:        "dismissed",
	ActionCreated:          "created",
	ActionPublished:        "published",
}

var actionsByName = func() map[string]Action {
	m := make(map[string]Action, len(actionNames))
	for a, name := range actionNames {
		if a == ActionNone || a == ActionUnknown {
			continue
		}
		m[name] = a
	}
	return m
}()

// ParseAction maps a payload action string to an Action. An empty string is
// ActionNone; anything unrecognized is ActionUnknown.
func ParseAction(s string) Action {
	if s == "" {
		return ActionNone
	}
	if a, ok := actionsByName[s]; ok {
		return a
	}
	return ActionUnknown
}

func (a Action) String() string {
	return actionNames[a]
}

// Repository identifies the repository an event originated from.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
}

// Event is a parsed webhook delivery. It is built once by the parser and
// treated as read-only afterwards.
type Event struct {
	Kind       Kind
	Action     Action
	DeliveryID string
	Repository Repository
	Sender     string
	Fields     Fields
	ReceivedAt time.Time
}
