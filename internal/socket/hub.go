// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event là tín hiệu phát cho mọi client. The dashboard only needs a
// cache-invalidation ping, so the payload carries the event name alone.
type Event struct {
	Event string `json:"event"`
}

// EventDataChanged is emitted after every successful store mutation.
var EventDataChanged = Event{Event: "data_changed"}

// client wraps a connection with a write lock. gorilla/websocket allows at
// most one concurrent writer per connection, and store mutations broadcast
// from arbitrary request goroutines.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub quản lý tất cả các client WebSocket.
type Hub struct {
	// clients maps a user's email to their connection.
	clients map[string]*client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
	}
}

// Register thêm một client mới vào Hub.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = &client{conn: conn}
	log.Printf("WebSocket client registered: %s", userID)
}

// Unregister xóa một client khỏi Hub.
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; ok {
		delete(h.clients, userID)
		log.Printf("WebSocket client unregistered: %s", userID)
	}
}

// ClientCount báo số client đang kết nối.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast fans an event out to every connected client. Listeners are not
// ordered relative to each other; a failed write only drops that one client's
// notification.
func (h *Hub) Broadcast(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal broadcast event: %v", err)
		return
	}

	h.mu.RLock()
	targets := make(map[string]*client, len(h.clients))
	for userID, c := range h.clients {
		targets[userID] = c
	}
	h.mu.RUnlock()

	for userID, c := range targets {
		if err := c.write(payload); err != nil {
			log.Printf("Failed to broadcast to %s: %v", userID, err)
		}
	}
}
