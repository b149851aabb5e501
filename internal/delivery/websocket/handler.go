package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handle upgrades the request and serves the connection until it closes.
func (h *Hub) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.l.Warnf(ctx, "ws upgrade failed: %v", err)
		return
	}
	h.l.Infof(ctx, "ws connected from %s", c.Request.RemoteAddr)

	cl := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}
	select {
	case h.register <- cl:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go cl.writePump()
	cl.readPump(ctx)

	h.l.Infof(ctx, "ws disconnected from %s", c.Request.RemoteAddr)
}
