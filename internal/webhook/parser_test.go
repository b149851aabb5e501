package webhook_test

import (
	"errors"
	"testing"

	"forge-relay/internal/model"
	"forge-relay/internal/webhook"
)

func TestParse(t *testing.T) {
	p := webhook.NewParser()

	t.Run("Issues Opened", func(t *testing.T) {
		body := []byte(`{"action":"opened","repository":{"name":"widget","full_name":"acme/widget"},
			"sender":{"login":"ada"},"issue":{"number":7,"title":"Broken","html_url":"https://x/7"}}`)
		ev, err := p.Parse(body, "issues", "d-1")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if ev.Kind != model.KindIssues || ev.Action != model.ActionOpened {
			t.Errorf("kind/action = %s/%s", ev.Kind, ev.Action)
		}
		if ev.Repository.FullName != "acme/widget" || ev.Sender != "ada" || ev.DeliveryID != "d-1" {
			t.Errorf("envelope = %+v", ev)
		}
		f, ok := ev.Fields.(*model.IssuesFields)
		if !ok || f.Issue.Number != 7 || f.Issue.Title != "Broken" {
			t.Errorf("fields = %#v", ev.Fields)
		}
		if ev.ReceivedAt.IsZero() {
			t.Error("ReceivedAt not set")
		}
	})

	t.Run("Missing Header Is Ping", func(t *testing.T) {
		ev, err := p.Parse([]byte(`{"zen":"hi","hook_id":3}`), "", "")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if ev.Kind != model.KindPing {
			t.Errorf("kind = %s", ev.Kind)
		}
		if f := ev.Fields.(*model.PingFields); f.HookID != 3 {
			t.Errorf("hook id = %d", f.HookID)
		}
	})

	t.Run("Action Ignored For Actionless Kinds", func(t *testing.T) {
		ev, err := p.Parse([]byte(`{"action":"started","repository":{"full_name":"a/b"}}`), "watch", "")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if ev.Action != model.ActionNone {
			t.Errorf("action = %v", ev.Action)
		}
	})

	t.Run("Unrecognized Action", func(t *testing.T) {
		ev, err := p.Parse([]byte(`{"action":"locked","issue":{}}`), "issues", "")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if ev.Action != model.ActionUnknown {
			t.Errorf("action = %v", ev.Action)
		}
	})

	t.Run("Unknown Kind Keeps Envelope", func(t *testing.T) {
		ev, err := p.Parse([]byte(`{"repository":{"full_name":"acme/widget"}}`), "deployment", "")
		if !errors.Is(err, webhook.ErrUnknownEventKind) {
			t.Fatalf("Parse() error = %v, want ErrUnknownEventKind", err)
		}
		if ev.Repository.FullName != "acme/widget" {
			t.Errorf("repository = %q", ev.Repository.FullName)
		}
		if f, ok := ev.Fields.(*model.UnknownFields); !ok || f.Name != "deployment" {
			t.Errorf("fields = %#v", ev.Fields)
		}
	})

	t.Run("Malformed Bodies", func(t *testing.T) {
		for _, body := range []string{"", "   ", "payload=%7B%7D", "[1,2]", "{not json", `{"issue":"nope"}`} {
			if _, err := p.Parse([]byte(body), "issues", ""); !errors.Is(err, webhook.ErrMalformedBody) {
				t.Errorf("Parse(%q) error = %v, want ErrMalformedBody", body, err)
			}
		}
	})
}
