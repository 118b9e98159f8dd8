// AngelaMos | 2026
// client.go

package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/codeburry/api/internal/config"
	"github.com/codeburry/api/internal/middleware"
)

const maxInboundMessage = 512

type Client struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan []byte
	once   sync.Once
}

func newClient(conn *websocket.Conn, userID string, buffer int) *Client {
	return &Client{
		id:     uuid.New().String(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, buffer),
	}
}

func (c *Client) closeSend() {
	c.once.Do(func() { close(c.send) })
}

// Handler upgrades GET requests to a websocket subscribed to the hub.
// Clients never send anything meaningful; inbound frames are discarded.
type Handler struct {
	hub      *Hub
	cfg      config.RealtimeConfig
	upgrader websocket.Upgrader
}

func NewHandler(
	hub *Hub,
	cfg config.RealtimeConfig,
	originAllowed func(origin string) bool,
) *Handler {
	return &Handler{
		hub: hub,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r.Header.Get("Origin"))
			},
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(conn, middleware.GetUserID(r.Context()), h.cfg.SendBuffer)
	if !h.hub.Register(c) {
		//nolint:errcheck // best-effort close during shutdown
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second),
		)
		_ = conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundMessage)
	//nolint:errcheck // deadline errors surface on the next read
	_ = c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writePump(c *Client) {
	ticker := time.NewTicker(h.cfg.PongTimeout * 9 / 10)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			//nolint:errcheck // write errors end the loop below
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
