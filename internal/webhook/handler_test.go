package webhook_test

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"forge-relay/internal/dispatcher"
	"forge-relay/internal/model"
	"forge-relay/internal/subscription/repository/memory"
	"forge-relay/internal/webhook"
	pkgLog "forge-relay/pkg/log"
	pkgResponse "forge-relay/pkg/response"
)

type fakeDispatcher struct {
	mu   sync.Mutex
	jobs []dispatcher.Job
	err  error
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, job dispatcher.Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
	return d.err
}

func (d *fakeDispatcher) setErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.jobs)
}

type failingStore struct{}

func (failingStore) ListEnabled(ctx context.Context, repoFullName string) ([]model.Subscription, error) {
	return nil, errors.New("connection refused")
}

const pushBody = `{"ref":"refs/heads/main","before":"aaaaaaaaaa","after":"bbbbbbbbbb",
	"compare":"https://github.com/acme/widget/compare/a...b",
	"repository":{"name":"widget","full_name":"Acme/Widget","html_url":"https://github.com/acme/widget"},
	"pusher":{"name":"ada"},"sender":{"login":"ada"},
	"commits":[{"id":"1111111111","message":"fix","distinct":true,"author":{"name":"Ada"}}]}`

func seededStore() memory.Repository {
	return memory.New([]model.Subscription{
		{Channel: "telegram:42", Repository: "acme/widget", Enabled: true},
		{Channel: "slack:C1", Repository: "acme/widget", Enabled: true},
		{Channel: "slack:C2", Repository: "acme/widget", Enabled: false},
		{Channel: "ws:#other", Repository: "acme/other", Enabled: true},
	})
}

func newRouter(h *webhook.Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", h.HandleWebhook)
	r.GET("/webhook", h.HandleProbe)
	return r
}

func post(r *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func channelsOf(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp webhook.ChannelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	if resp.Channels == nil {
		t.Fatalf("channels is null in %q", w.Body.String())
	}
	return resp.Channels
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp pkgResponse.Resp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return resp.Message
}

func TestHandleWebhook(t *testing.T) {
	t.Run("Push Resolves Enabled Channels", func(t *testing.T) {
		d := &fakeDispatcher{}
		cfg := webhook.Config{}
		r := newRouter(webhook.NewHandler(cfg, seededStore(), d, pkgLog.NewNop(), nil))

		w := post(r, pushBody, map[string]string{webhook.HeaderEvent: "push"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if diff := cmp.Diff([]string{"slack:C1", "telegram:42"}, channelsOf(t, w)); diff != "" {
			t.Errorf("channels mismatch (-want +got):\n%s", diff)
		}
		if d.count() != 1 {
			t.Fatalf("dispatched %d jobs, want 1", d.count())
		}
		job := d.jobs[0]
		if job.Event.Kind != model.KindPush || len(job.Subscriptions) != 2 {
			t.Errorf("job = %+v", job)
		}
		if job.Event.DeliveryID == "" {
			t.Error("delivery id not generated")
		}
	})

	t.Run("No Subscribers", func(t *testing.T) {
		d := &fakeDispatcher{}
		cfg := webhook.Config{}
		r := newRouter(webhook.NewHandler(cfg, memory.New(nil), d, pkgLog.NewNop(), nil))

		w := post(r, pushBody, map[string]string{webhook.HeaderEvent: "push"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if got := channelsOf(t, w); len(got) != 0 {
			t.Errorf("channels = %v", got)
		}
		if d.count() != 0 {
			t.Error("dispatched without subscribers")
		}
	})

	t.Run("Unknown Kind Still Acknowledged", func(t *testing.T) {
		d := &fakeDispatcher{}
		cfg := webhook.Config{}
		r := newRouter(webhook.NewHandler(cfg, seededStore(), d, pkgLog.NewNop(), nil))

		w := post(r, `{"repository":{"full_name":"acme/widget"}}`, map[string]string{webhook.HeaderEvent: "deployment"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if diff := cmp.Diff([]string{"slack:C1", "telegram:42"}, channelsOf(t, w)); diff != "" {
			t.Errorf("channels mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Event Without Repository", func(t *testing.T) {
		cfg := webhook.Config{}
		r := newRouter(webhook.NewHandler(cfg, failingStore{}, &fakeDispatcher{}, pkgLog.NewNop(), nil))

		w := post(r, `{"zen":"hi"}`, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if got := channelsOf(t, w); len(got) != 0 {
			t.Errorf("channels = %v", got)
		}
	})

	t.Run("Malformed Body", func(t *testing.T) {
		cfg := webhook.Config{}
		r := newRouter(webhook.NewHandler(cfg, seededStore(), &fakeDispatcher{}, pkgLog.NewNop(), nil))

		w := post(r, "payload=%7B%7D", map[string]string{webhook.HeaderEvent: "push"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("Body Too Large", func(t *testing.T) {
		cfg := webhook.Config{MaxBodyBytes: 16}
		r := newRouter(webhook.NewHandler(cfg, seededStore(), &fakeDispatcher{}, pkgLog.NewNop(), nil))

		w := post(r, pushBody, map[string]string{webhook.HeaderEvent: "push"})
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", w.Code)
		}
	})

	t.Run("Store Failure", func(t *testing.T) {
		d := &fakeDispatcher{}
		cfg := webhook.Config{}
		r := newRouter(webhook.NewHandler(cfg, failingStore{}, d, pkgLog.NewNop(), nil))

		w := post(r, pushBody, map[string]string{webhook.HeaderEvent: "push"})
		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
		if strings.Contains(w.Body.String(), "connection refused") {
			t.Errorf("internal error leaked: %s", w.Body.String())
		}
		if got := messageOf(t, w); got != pkgResponse.DefaultErrorMessage {
			t.Errorf("message = %q", got)
		}
		if d.count() != 0 {
			t.Error("dispatched after store failure")
		}
	})

	t.Run("Dispatch Failure Still Acknowledged", func(t *testing.T) {
		d := &fakeDispatcher{err: dispatcher.ErrQueueFull}
		cfg := webhook.Config{}
		r := newRouter(webhook.NewHandler(cfg, seededStore(), d, pkgLog.NewNop(), nil))

		w := post(r, pushBody, map[string]string{webhook.HeaderEvent: "push"})
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("Duplicate Delivery", func(t *testing.T) {
		d := &fakeDispatcher{}
		cfg := webhook.Config{DedupWindow: time.Minute}
		r := newRouter(webhook.NewHandler(cfg, seededStore(), d, pkgLog.NewNop(), nil))
		headers := map[string]string{webhook.HeaderEvent: "push", webhook.HeaderDelivery: "abc"}

		first := post(r, pushBody, headers)
		second := post(r, pushBody, headers)
		if first.Code != http.StatusOK || second.Code != http.StatusOK {
			t.Fatalf("status = %d/%d", first.Code, second.Code)
		}
		if diff := cmp.Diff(channelsOf(t, first), channelsOf(t, second)); diff != "" {
			t.Errorf("channels differ (-first +second):\n%s", diff)
		}
		if d.count() != 1 {
			t.Errorf("dispatched %d jobs, want 1", d.count())
		}
	})

	t.Run("Redelivery After Dropped Dispatch", func(t *testing.T) {
		d := &fakeDispatcher{err: dispatcher.ErrQueueFull}
		cfg := webhook.Config{DedupWindow: time.Minute}
		r := newRouter(webhook.NewHandler(cfg, seededStore(), d, pkgLog.NewNop(), nil))
		headers := map[string]string{webhook.HeaderEvent: "push", webhook.HeaderDelivery: "dropped-1"}

		if w := post(r, pushBody, headers); w.Code != http.StatusOK {
			t.Fatalf("first status = %d", w.Code)
		}
		d.setErr(nil)
		if w := post(r, pushBody, headers); w.Code != http.StatusOK {
			t.Fatalf("second status = %d", w.Code)
		}
		if d.count() != 2 {
			t.Fatalf("dispatched %d jobs, want 2", d.count())
		}
		if w := post(r, pushBody, headers); w.Code != http.StatusOK {
			t.Fatalf("third status = %d", w.Code)
		}
		if d.count() != 2 {
			t.Errorf("dispatched %d jobs after a relayed delivery, want 2", d.count())
		}
	})

	t.Run("IP Not Allowed", func(t *testing.T) {
		cfg := webhook.Config{AllowedIPs: []string{"192.30.252.0/22"}}
		r := newRouter(webhook.NewHandler(cfg, seededStore(), &fakeDispatcher{}, pkgLog.NewNop(), nil))

		w := post(r, pushBody, map[string]string{webhook.HeaderEvent: "push"})
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
		if got := messageOf(t, w); got != "Forbidden" {
			t.Errorf("message = %q", got)
		}
	})

	t.Run("Rate Limited", func(t *testing.T) {
		cfg := webhook.Config{RateLimitPerMin: 1}
		r := newRouter(webhook.NewHandler(cfg, seededStore(), &fakeDispatcher{}, pkgLog.NewNop(), nil))

		post(r, pushBody, map[string]string{webhook.HeaderEvent: "push"})
		w := post(r, pushBody, map[string]string{webhook.HeaderEvent: "push"})
		if w.Code != http.StatusTooManyRequests {
			t.Errorf("status = %d, want 429", w.Code)
		}
	})
}

func TestHandleWebhookSignature(t *testing.T) {
	cfg := webhook.Config{Secret: "hunter2"}
	valid := sign(sha256.New, "sha256", "hunter2", []byte(pushBody))

	tcs := map[string]struct {
		headers map[string]string
		want    int
		message string
	}{
		"Valid": {
			headers: map[string]string{webhook.HeaderSignature256: valid},
			want:    http.StatusOK,
		},
		"Missing": {
			headers: nil,
			want:    http.StatusUnauthorized,
			message: "Unauthorized",
		},
		"Mismatch": {
			headers: map[string]string{webhook.HeaderSignature256: sign(sha256.New, "sha256", "wrong", []byte(pushBody))},
			want:    http.StatusForbidden,
			message: "Forbidden",
		},
		"Unsupported Digest": {
			headers: map[string]string{webhook.HeaderSignature: "md5=00ff"},
			want:    http.StatusNotImplemented,
			message: `signature rejected: unsupported_digest "md5"`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			d := &fakeDispatcher{}
			r := newRouter(webhook.NewHandler(cfg, seededStore(), d, pkgLog.NewNop(), nil))
			headers := map[string]string{webhook.HeaderEvent: "push"}
			for k, v := range tc.headers {
				headers[k] = v
			}

			w := post(r, pushBody, headers)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tc.want, w.Body.String())
			}
			if tc.want != http.StatusOK && d.count() != 0 {
				t.Error("rejected request was dispatched")
			}
			if tc.message != "" {
				if got := messageOf(t, w); got != tc.message {
					t.Errorf("message = %q, want %q", got, tc.message)
				}
			}
		})
	}
}

func TestHandleProbe(t *testing.T) {
	t.Run("Enabled", func(t *testing.T) {
		cfg := webhook.Config{ProbeEnabled: true}
		r := newRouter(webhook.NewHandler(cfg, seededStore(), &fakeDispatcher{}, pkgLog.NewNop(), nil))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/webhook", nil))
		if w.Code != http.StatusOK || w.Body.String() != "Listening for webhook connections!" {
			t.Errorf("got %d %q", w.Code, w.Body.String())
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		cfg := webhook.Config{}
		r := newRouter(webhook.NewHandler(cfg, seededStore(), &fakeDispatcher{}, pkgLog.NewNop(), nil))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/webhook", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", w.Code)
		}
		if got := w.Header().Get("Allow"); got != http.MethodPost {
			t.Errorf("Allow = %q", got)
		}
	})
}
