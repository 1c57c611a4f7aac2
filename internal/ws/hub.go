package ws

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Event names broadcast to connected viewers
const (
	EventNovoPedido       = "novo_pedido"
	EventPedidoAtualizado = "pedido_atualizado"
)

// Event is one message pushed to every connected client
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub fans events out to all connected order viewers. Slow consumers are
// dropped rather than allowed to stall a broadcast.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]chan Event
}

// NewHub creates an empty broadcast hub
func NewHub() *Hub {
	return &Hub{clients: map[string]chan Event{}}
}

// Subscribe registers a new client and returns its event channel and a
// cancel function that must be called exactly once when the client is done
func (h *Hub) Subscribe(buf int) (string, <-chan Event, func()) {
	if buf <= 0 {
		buf = 16
	}
	id := uuid.NewString()
	ch := make(chan Event, buf)

	h.mu.Lock()
	h.clients[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.clients[id]; ok {
			delete(h.clients, id)
			close(ch)
		}
		h.mu.Unlock()
	}
	return id, ch, cancel
}

// Broadcast delivers an event to every connected client without blocking
func (h *Hub) Broadcast(event string, data any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.clients {
		select {
		case ch <- Event{Event: event, Data: data}:
		default:
			// drop if slow consumer
			log.WithField("client", id).Debug("Dropping event for slow websocket client")
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
