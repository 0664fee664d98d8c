// Package hub fans session status and feedback out to dashboard WebSocket
// clients using the channel-based broadcast pattern.
package hub

import (
	"sync"

	"github.com/formsense/go-formcoach/internal/log"
	"github.com/formsense/go-formcoach/pkg/protocol"
)

// Hub maintains the set of dashboard clients and broadcasts to them.
type Hub struct {
	name string

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// New creates a hub. Call Run in a goroutine before registering clients.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's main loop. It owns the client set.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("hub: client connected", "hub", h.name, "total", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("hub: client disconnected", "hub", h.name, "total", count)

		case data := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Slow consumer; drop it rather than stall the loop.
					close(client.send)
					delete(h.clients, client)
					log.Warn("hub: dropped slow client", "hub", h.name)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish encodes and broadcasts a protocol message. It satisfies
// session.Publisher.
func (h *Hub) Publish(msg *protocol.Message) {
	data, err := msg.Bytes()
	if err != nil {
		log.Error("hub: encode message", "hub", h.name, "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Warn("hub: broadcast channel full, dropping message", "hub", h.name)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
