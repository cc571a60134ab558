package services

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func newTestHub() *NotificationHub {
	return &NotificationHub{conns: make(map[string][]*websocket.Conn)}
}

// Pushing to a user with no open connections must not leave an empty
// entry behind for every notified user.
func TestPushWithoutConnectionsLeavesNoEntry(t *testing.T) {
	h := newTestHub()

	h.Push("ghost", map[string]string{"title": "hello"})

	h.mu.RLock()
	defer h.mu.RUnlock()
	assert.Empty(t, h.conns)
}

func TestUnregisterDropsEmptyEntry(t *testing.T) {
	h := newTestHub()
	conn := &websocket.Conn{}

	h.Register("alice", conn)
	h.mu.RLock()
	assert.Len(t, h.conns["alice"], 1)
	h.mu.RUnlock()

	h.Unregister("alice", conn)
	h.mu.RLock()
	defer h.mu.RUnlock()
	assert.NotContains(t, h.conns, "alice")
}
