package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"forge-relay/pkg/ircfmt"
	pkgLog "forge-relay/pkg/log"
)

func receive(t *testing.T, ch <-chan []byte) (Line, bool) {
	t.Helper()
	select {
	case data, ok := <-ch:
		if !ok {
			return Line{}, false
		}
		var l Line
		if err := json.Unmarshal(data, &l); err != nil {
			t.Fatalf("bad frame: %v", err)
		}
		return l, true
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for frame")
	}
	return Line{}, false
}

func TestHubBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(pkgLog.NewNop())
	go h.Run(ctx)

	all := &client{hub: h, send: make(chan []byte, clientBuffer)}
	dev := &client{hub: h, send: make(chan []byte, clientBuffer)}
	dev.setChannels([]string{"#dev"})
	h.register <- all
	h.register <- dev

	if err := h.Send(ctx, "#ops", ircfmt.Bold("deploy")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.Send(ctx, "#dev", "build"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l, _ := receive(t, all.send)
	if l.Channel != "#ops" || l.Text != "deploy" || l.Raw != ircfmt.Bold("deploy") {
		t.Errorf("unexpected first frame: %+v", l)
	}
	if l, _ = receive(t, all.send); l.Channel != "#dev" {
		t.Errorf("unexpected second frame: %+v", l)
	}
	if l, _ = receive(t, dev.send); l.Channel != "#dev" || l.Type != "line" {
		t.Errorf("filtered client got %+v", l)
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(pkgLog.NewNop())
	go h.Run(ctx)

	slow := &client{hub: h, send: make(chan []byte)}
	h.register <- slow

	if err := h.Send(ctx, "#dev", "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := receive(t, slow.send); ok {
		t.Errorf("expected slow client to be closed")
	}
}

func TestHubBusy(t *testing.T) {
	h := NewHub(pkgLog.NewNop())
	for i := 0; i < broadcastBuffer; i++ {
		if err := h.Send(context.Background(), "#dev", "x"); err != nil {
			t.Fatalf("unexpected error filling buffer: %v", err)
		}
	}
	if err := h.Send(context.Background(), "#dev", "x"); !errors.Is(err, ErrHubBusy) {
		t.Errorf("expected ErrHubBusy, got %v", err)
	}
}

func TestSubscribedTo(t *testing.T) {
	c := &client{}
	if !c.subscribedTo("#any") {
		t.Errorf("client without subscription should receive everything")
	}
	c.setChannels([]string{"#a", "#b"})
	if !c.subscribedTo("#b") || c.subscribedTo("#c") {
		t.Errorf("unexpected subscription match")
	}
	c.setChannels(nil)
	if !c.subscribedTo("#c") {
		t.Errorf("clearing subscription should receive everything")
	}
}
