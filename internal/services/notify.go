package services

import (
	"log"
	"time"

	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
)

// CreateNotification persists a notification for a user and pushes it to
// any open websocket connections.
func CreateNotification(userID, title, message, notifType string) {
	session, err := database.GetUsersSession()
	if err != nil {
		log.Printf("❌ Notification not created for %s: %v", userID, err)
		return
	}

	n := models.Notification{
		ID:        gocql.TimeUUID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := session.Query(`
		INSERT INTO notifications (user_id, id, title, message, type, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.UserID, n.ID, n.Title, n.Message, n.Type, n.IsRead, n.CreatedAt,
	).Exec(); err != nil {
		log.Printf("❌ Notification insert error: %v", err)
		return
	}

	// id → owner lookup, used by the ownership check on read/delete
	if err := session.Query(`
		INSERT INTO notifications_by_id (id, user_id) VALUES (?, ?)`,
		n.ID, n.UserID,
	).Exec(); err != nil {
		log.Printf("⚠️ Notification lookup insert error: %v", err)
	}

	Hub.Push(userID, n)
}
