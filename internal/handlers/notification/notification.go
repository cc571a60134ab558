package notification

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
)

// GetNotifications lists the caller's notifications, newest first
func GetNotifications(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	userID := c.GetString("user_id")
	iter := session.Query(`
		SELECT id, title, message, type, is_read, created_at
		FROM notifications WHERE user_id = ?`, userID).Iter()

	notifications := []models.Notification{}
	unread := 0
	var n models.Notification
	for iter.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt) {
		n.UserID = userID
		if !n.IsRead {
			unread++
		}
		notifications = append(notifications, n)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Notification list error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(notifications),
		"unread":  unread,
		"data":    notifications,
	})
}

// resolveOwner distinguishes a missing notification from someone else's.
// Returns the owner, or "" when the notification does not exist.
func resolveOwner(session *gocql.Session, notifID gocql.UUID) (string, error) {
	var owner string
	err := session.Query(`SELECT user_id FROM notifications_by_id WHERE id = ?`, notifID).Scan(&owner)
	if err == gocql.ErrNotFound {
		return "", nil
	}
	return owner, err
}

// ownerGate maps a resolved owner to the status rejecting the requester,
// or 0 when access is allowed. Missing is 404, someone else's is 401.
func ownerGate(owner, requester string) (int, string) {
	if owner == "" {
		return http.StatusNotFound, "Notification not found"
	}
	if owner != requester {
		return http.StatusUnauthorized, "Not your notification"
	}
	return 0, ""
}

// MarkRead marks one notification as read. Already-read is a no-op success.
func MarkRead(c *gin.Context) {
	notifID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification ID"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	owner, err := resolveOwner(session, notifID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lookup error"})
		return
	}
	userID := c.GetString("user_id")
	if status, msg := ownerGate(owner, userID); status != 0 {
		c.JSON(status, gin.H{"success": false, "message": msg})
		return
	}

	if err := session.Query(`
		UPDATE notifications SET is_read = true WHERE user_id = ? AND id = ?`,
		userID, notifID,
	).Exec(); err != nil {
		log.Printf("❌ Notification read error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification marked as read"})
}

// unreadIDs filters the notifications that still need a read flag. Running
// it over an already-read list yields nothing, which is what makes
// MarkAllRead idempotent.
func unreadIDs(notifs []models.Notification) []gocql.UUID {
	var ids []gocql.UUID
	for _, n := range notifs {
		if !n.IsRead {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// MarkAllRead marks every notification of the caller as read. Idempotent.
func MarkAllRead(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	userID := c.GetString("user_id")
	iter := session.Query(`SELECT id, is_read FROM notifications WHERE user_id = ?`, userID).Iter()

	var notifs []models.Notification
	var n models.Notification
	for iter.Scan(&n.ID, &n.IsRead) {
		notifs = append(notifs, n)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Notification scan error"})
		return
	}

	updated := 0
	for _, id := range unreadIDs(notifs) {
		if err := session.Query(`
			UPDATE notifications SET is_read = true WHERE user_id = ? AND id = ?`,
			userID, id,
		).Exec(); err != nil {
			log.Printf("⚠️ Could not mark notification %s read: %v", id, err)
			continue
		}
		updated++
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All notifications marked as read", "count": updated})
}

// DeleteNotification removes one notification, ownership checked
func DeleteNotification(c *gin.Context) {
	notifID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification ID"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	owner, err := resolveOwner(session, notifID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lookup error"})
		return
	}
	userID := c.GetString("user_id")
	if status, msg := ownerGate(owner, userID); status != 0 {
		c.JSON(status, gin.H{"success": false, "message": msg})
		return
	}

	if err := session.Query(`DELETE FROM notifications WHERE user_id = ? AND id = ?`,
		userID, notifID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Deletion failed"})
		return
	}
	if err := session.Query(`DELETE FROM notifications_by_id WHERE id = ?`, notifID).Exec(); err != nil {
		log.Printf("⚠️ Notification lookup cleanup error: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification deleted"})
}
