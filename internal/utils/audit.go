package utils

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
)

// LogAction records a successful admin action in the audit log.
// The write happens off the request path.
func LogAction(c *gin.Context, action, resource string, resourceID string, oldValue, newValue interface{}) {
	entry := buildEntry(c, action, resource, resourceID, oldValue, newValue, true, "")
	go writeEntry(entry)
}

// LogFailedAction records a failed action in the audit log
func LogFailedAction(c *gin.Context, action, resource, resourceID, errorMsg string) {
	entry := buildEntry(c, action, resource, resourceID, nil, nil, false, errorMsg)
	go writeEntry(entry)
}

// buildEntry snapshots everything from the gin context synchronously; the
// context is pooled and must not be read after the handler returns.
func buildEntry(c *gin.Context, action, resource, resourceID string, oldValue, newValue interface{}, success bool, errorMsg string) models.AuditLog {
	userID, _ := c.Get("user_id")
	userEmail, _ := c.Get("email")

	var oldValueStr, newValueStr string
	if oldValue != nil {
		if oldBytes, err := json.Marshal(oldValue); err == nil {
			oldValueStr = string(oldBytes)
		}
	}
	if newValue != nil {
		if newBytes, err := json.Marshal(newValue); err == nil {
			newValueStr = string(newBytes)
		}
	}

	return models.AuditLog{
		ID:         gocql.TimeUUID(),
		UserID:     getStringValue(userID),
		UserEmail:  getStringValue(userEmail),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		OldValue:   oldValueStr,
		NewValue:   newValueStr,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		Success:    success,
		ErrorMsg:   errorMsg,
		Timestamp:  time.Now(),
	}
}

func writeEntry(entry models.AuditLog) {
	usersSession, err := database.GetUsersSession()
	if err != nil {
		log.Printf("❌ Audit log write error: %v", err)
		return
	}

	query := `
		INSERT INTO audit_logs (
			id, user_id, user_email, action, resource, resource_id,
			old_value, new_value, ip_address, user_agent, success,
			error_msg, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if err := usersSession.Query(query,
		entry.ID, entry.UserID, entry.UserEmail, entry.Action, entry.Resource,
		entry.ResourceID, entry.OldValue, entry.NewValue, entry.IPAddress,
		entry.UserAgent, entry.Success, entry.ErrorMsg, entry.Timestamp,
	).Exec(); err != nil {
		log.Printf("❌ Audit log write error: %v", err)
	}
}

func getStringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
