package websocket

import (
	"encoding/json"
	"sync"

	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/internal/pkg/logger"
)

// Hub fans progress events out to the dashboard clients of a session.
// All delivery is local to this process; there is no cross-instance
// transport.
type Hub struct {
	// SessionID -> list of clients (multiple dashboard tabs)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast delivers a progress event to every client of the session.
// Implements service.ProgressDelivery.
func (h *Hub) Broadcast(sessionID string, event dto.ProgressEvent) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "progress",
		"data": event,
	})

	// Copy the client list: the unregister handler mutates the slice
	// once the lock is released.
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[sessionID]...)
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			// The unregister path owns closing Send; closing here too
			// would close the channel twice.
			h.logger.Warn("Hub", "Client send buffer full, dropping client", map[string]interface{}{"session_id": sessionID})
			h.unregister <- client
		}
	}
}
