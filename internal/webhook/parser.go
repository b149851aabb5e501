package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"forge-relay/internal/model"
)

// Parser decodes webhook bodies into events.
type Parser struct {
	now func() time.Time
}

func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// envelope holds the fields shared by every payload.
type envelope struct {
	Action     string            `json:"action"`
	Repository *model.Repository `json:"repository"`
	Sender     *model.User       `json:"sender"`
}

// Parse decodes body as the event named by eventHeader. A missing header is
// read as a ping. Unknown kinds still return the common fields together
// with ErrUnknownEventKind so subscribers can be resolved.
func (p *Parser) Parse(body []byte, eventHeader, deliveryID string) (model.Event, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return model.Event{}, fmt.Errorf("%w: expected a JSON object", ErrMalformedBody)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return model.Event{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	if eventHeader == "" {
		eventHeader = "ping"
	}
	kind := model.ParseKind(eventHeader)

	ev := model.Event{
		Kind:       kind,
		DeliveryID: deliveryID,
		ReceivedAt: p.now(),
	}
	if kind.HasAction() {
		ev.Action = model.ParseAction(env.Action)
	}
	if env.Repository != nil {
		ev.Repository = *env.Repository
	}
	if env.Sender != nil {
		ev.Sender = env.Sender.Login
	}

	fields := newFields(kind, eventHeader)
	if kind == model.KindUnknown {
		ev.Fields = fields
		return ev, fmt.Errorf("%w: %q", ErrUnknownEventKind, eventHeader)
	}
	if err := json.Unmarshal(body, fields); err != nil {
		return model.Event{}, fmt.Errorf("%w: %s: %v", ErrMalformedBody, kind, err)
	}
	ev.Fields = fields
	return ev, nil
}

func newFields(kind model.Kind, name string) model.Fields {
	switch kind {
	case model.KindPing:
		return &model.PingFields{}
	case model.KindPush:
		return &model.PushFields{}
	case model.KindIssues:
		return &model.IssuesFields{}
	case model.KindPullRequest:
		return &model.PullRequestFields{}
	case model.KindPullRequestReview:
		return &model.ReviewFields{}
	case model.KindPullRequestReviewComment:
		return &model.ReviewCommentFields{}
	case model.KindIssueComment:
		return &model.IssueCommentFields{}
	case model.KindCommitComment:
		return &model.CommitCommentFields{}
	case model.KindGollum:
		return &model.GollumFields{}
	case model.KindWatch:
		return &model.WatchFields{}
	case model.KindStatus:
		return &model.StatusFields{}
	case model.KindRelease:
		return &model.ReleaseFields{}
	}
	return &model.UnknownFields{Name: name}
}
