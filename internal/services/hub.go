package services

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// NotificationHub fans notification events out to connected websocket clients.
// One user can hold several connections (multiple tabs/devices).
type NotificationHub struct {
	mu    sync.RWMutex
	conns map[string][]*websocket.Conn // user_id → connections
}

var Hub = &NotificationHub{
	conns: make(map[string][]*websocket.Conn),
}

func (h *NotificationHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = append(h.conns[userID], conn)
	log.Printf("🔔 Websocket registered for user %s (%d open)", userID, len(h.conns[userID]))
}

func (h *NotificationHub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.conns[userID]
	for i, c := range conns {
		if c == conn {
			h.conns[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

// Push sends a payload to every open connection of a user.
// Dead connections are dropped on write failure.
func (h *NotificationHub) Push(userID string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.conns[userID]
	if len(conns) == 0 {
		return
	}

	alive := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			continue
		}
		alive = append(alive, conn)
	}
	if len(alive) == 0 {
		delete(h.conns, userID)
		return
	}
	h.conns[userID] = alive
}
