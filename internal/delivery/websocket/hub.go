// Package websocket streams chat lines to websocket listeners.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"forge-relay/internal/delivery"
	"forge-relay/pkg/ircfmt"
	pkgLog "forge-relay/pkg/log"
)

const (
	broadcastBuffer = 64
	clientBuffer    = 16
)

var ErrHubBusy = errors.New("websocket hub busy")

// Line is the JSON frame sent to listeners.
type Line struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Text    string `json:"text"`
	Raw     string `json:"raw"`
}

type broadcastMessage struct {
	channel string
	data    []byte
}

// Hub fans lines out to connected clients. Clients that fall behind are
// disconnected rather than slowing the hub down.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan broadcastMessage
	register   chan *client
	unregister chan *client
	done       chan struct{}
	l          pkgLog.Logger
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub(l pkgLog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan broadcastMessage, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		l:          l,
	}
}

// Run serves the hub until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				if !c.subscribedTo(msg.channel) {
					continue
				}
				select {
				case c.send <- msg.data:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Send implements delivery.Port. It never blocks; a full hub drops the line.
func (h *Hub) Send(ctx context.Context, channel, line string) error {
	data, err := json.Marshal(Line{Type: "line", Channel: channel, Text: ircfmt.Strip(line), Raw: line})
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- broadcastMessage{channel: channel, data: data}:
		return nil
	default:
		h.l.Warnf(ctx, "delivery.websocket.Send: broadcast dropped channel=%s", channel)
		return ErrHubBusy
	}
}

var _ delivery.Port = (*Hub)(nil)

type client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	channels   []string
	channelsMu sync.RWMutex
}

type subscribeMessage struct {
	Type     string   `json:"type"`
	Channels []string `json:"channels"`
}

func (c *client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg subscribeMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "subscribe" {
			continue
		}
		c.setChannels(msg.Channels)
		c.hub.l.Debugf(ctx, "ws subscribed remote=%s channels=%v", c.conn.RemoteAddr(), msg.Channels)
	}
}

func (c *client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (c *client) setChannels(channels []string) {
	c.channelsMu.Lock()
	if len(channels) == 0 {
		c.channels = nil
	} else {
		c.channels = append([]string(nil), channels...)
	}
	c.channelsMu.Unlock()
}

// subscribedTo reports whether the client wants channel. A client with no
// subscription receives everything.
func (c *client) subscribedTo(channel string) bool {
	c.channelsMu.RLock()
	defer c.channelsMu.RUnlock()
	if len(c.channels) == 0 {
		return true
	}
	for _, candidate := range c.channels {
		if candidate == channel {
			return true
		}
	}
	return false
}
