package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

// Listen connects to the hub served at url, subscribes to channels (all
// channels when empty) and calls fn for each line until ctx is done or
// the server closes the connection.
func Listen(ctx context.Context, url string, channels []string, fn func(Line)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	if len(channels) > 0 {
		if err := conn.WriteJSON(subscribeMessage{Type: "subscribe", Channels: channels}); err != nil {
			return fmt.Errorf("subscribe: %w", err)
		}
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return fmt.Errorf("server closed: %w", err)
			}
			return fmt.Errorf("read: %w", err)
		}

		var line Line
		if err := json.Unmarshal(data, &line); err != nil || line.Type != "line" {
			continue
		}
		fn(line)
	}
}
