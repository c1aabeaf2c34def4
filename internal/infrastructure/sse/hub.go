package sse

import (
	"sync"

	"github.com/google/uuid"

	"github.com/connectone/tradecore/internal/domain/notification"
)

// Hub manages SSE clients. A user may hold several connections (tabs,
// devices); messages fan out to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*notification.SSEClient
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*notification.SSEClient),
	}
}

func (h *Hub) Register(client *notification.SSEClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ClientID] = client
}

func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		c.Close()
		delete(h.clients, clientID)
	}
}

// SendToUser delivers a message to every connection of a user.
// ErrClientNotFound when the user has no open connection and
// ErrChannelFull when every connection's buffer is full.
func (h *Hub) SendToUser(userID uuid.UUID, msg *notification.SSEMessage) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	found := false
	sent := false
	for _, c := range h.clients {
		if c.UserID != userID {
			continue
		}
		found = true
		if trySend(c, msg) {
			sent = true
		}
	}
	if !found {
		return notification.ErrClientNotFound
	}
	if !sent {
		return notification.ErrChannelFull
	}
	return nil
}

func (h *Hub) Broadcast(msg *notification.SSEMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		trySend(c, msg)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop closes every connection, for shutdown.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.Close()
		delete(h.clients, id)
	}
}

func trySend(c *notification.SSEClient, msg *notification.SSEMessage) bool {
	select {
	case c.MessageChan <- msg:
		return true
	default:
		return false
	}
}
