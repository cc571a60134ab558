package notification

import (
	"net/http"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"

	"krc_coffee_backend/internal/models"
)

func notif(read bool) models.Notification {
	return models.Notification{ID: gocql.TimeUUID(), IsRead: read}
}

func TestMarkAllReadIdempotent(t *testing.T) {
	notifs := []models.Notification{notif(false), notif(true), notif(false)}

	first := unreadIDs(notifs)
	assert.Len(t, first, 2)

	// apply the first pass, then run again: nothing left to flag
	for i := range notifs {
		notifs[i].IsRead = true
	}
	assert.Empty(t, unreadIDs(notifs))
	assert.Empty(t, unreadIDs(notifs))
}

func TestMarkReadAlreadyReadIsNoOp(t *testing.T) {
	// an already-read notification contributes no pending update
	notifs := []models.Notification{notif(true)}
	assert.Empty(t, unreadIDs(notifs))

	// yet the owner is still allowed through, the handler answers 200
	status, _ := ownerGate("alice", "alice")
	assert.Zero(t, status)
}

func TestOwnerGate(t *testing.T) {
	tests := []struct {
		name      string
		owner     string
		requester string
		want      int
	}{
		{"missing notification", "", "alice", http.StatusNotFound},
		{"someone else's notification", "alice", "bob", http.StatusUnauthorized},
		{"own notification", "alice", "alice", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := ownerGate(tt.owner, tt.requester)
			assert.Equal(t, tt.want, status)
			if tt.want == 0 {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

// Deleting a foreign notification must be rejected before any write happens,
// the gate fires ahead of the DELETE statements.
func TestForeignDeleteRejectedUnchanged(t *testing.T) {
	status, msg := ownerGate("alice", "bob")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Not your notification", msg)
}
