// AngelaMos | 2026
// hub.go

package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/codeburry/api/internal/metrics"
)

// Hub fans events out to the clients connected to this process. A client
// that cannot keep up is disconnected rather than allowed to stall others.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHub(m *metrics.Metrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		metrics: m,
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	h.clients[c] = struct{}{}
	if h.metrics != nil {
		h.metrics.RealtimeClients.Inc()
	}
	return true
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.closeSend()
	if h.metrics != nil {
		h.metrics.RealtimeClients.Dec()
	}
}

// Broadcast delivers to local clients only. It satisfies Broadcaster for
// single-instance deployments.
func (h *Hub) Broadcast(_ context.Context, name string, payload any) {
	ev, err := NewEvent(name, payload)
	if err != nil {
		h.logger.Error("realtime event dropped", "event", name, "error", err)
		return
	}
	h.Deliver(ev)
}

func (h *Hub) Deliver(ev Event) {
	frame, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("realtime frame encode failed", "event", ev.Name, "error", err)
		return
	}

	var slow []*Client

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	if h.metrics != nil {
		h.metrics.RealtimeEvents.WithLabelValues(ev.Name).Inc()
	}

	if len(slow) == 0 {
		return
	}

	h.mu.Lock()
	for _, c := range slow {
		h.removeLocked(c)
		if h.metrics != nil {
			h.metrics.RealtimeDropped.Inc()
		}
		h.logger.Warn("realtime client dropped: send buffer full",
			"client_id", c.id,
			"user_id", c.userID,
		)
	}
	h.mu.Unlock()
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}
