package middleware_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"forge-relay/internal/middleware"
)

type mockLogger struct {
	mu    sync.Mutex
	lines []string
}

func (m *mockLogger) record(level, template string, arg ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, level+" "+fmt.Sprintf(template, arg...))
}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)             {}
func (m *mockLogger) Debugf(ctx context.Context, t string, arg ...any)  { m.record("DEBUG", t, arg...) }
func (m *mockLogger) Info(ctx context.Context, arg ...any)              {}
func (m *mockLogger) Infof(ctx context.Context, t string, arg ...any)   { m.record("INFO", t, arg...) }
func (m *mockLogger) Warn(ctx context.Context, arg ...any)              {}
func (m *mockLogger) Warnf(ctx context.Context, t string, arg ...any)   { m.record("WARN", t, arg...) }
func (m *mockLogger) Error(ctx context.Context, arg ...any)             {}
func (m *mockLogger) Errorf(ctx context.Context, t string, arg ...any)  { m.record("ERROR", t, arg...) }
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)             {}
func (m *mockLogger) Fatalf(ctx context.Context, t string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)            {}
func (m *mockLogger) DPanicf(ctx context.Context, t string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)             {}
func (m *mockLogger) Panicf(ctx context.Context, t string, arg ...any)  {}

func TestAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tcs := map[string]struct {
		status int
		level  string
	}{
		"Success":      {http.StatusOK, "DEBUG"},
		"Client Error": {http.StatusForbidden, "WARN"},
		"Server Error": {http.StatusInternalServerError, "ERROR"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			l := &mockLogger{}
			r := gin.New()
			r.Use(middleware.New(l).AccessLog())
			r.POST("/webhook", func(c *gin.Context) { c.Status(tc.status) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook", nil))

			if len(l.lines) != 1 {
				t.Fatalf("got %d log lines, want 1", len(l.lines))
			}
			want := fmt.Sprintf("%s POST /webhook %d ", tc.level, tc.status)
			if !strings.HasPrefix(l.lines[0], want) {
				t.Errorf("line = %q, want prefix %q", l.lines[0], want)
			}
		})
	}
}
