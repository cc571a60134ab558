package settings

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
	"krc_coffee_backend/internal/utils"
)

var validSections = map[string]bool{
	models.SettingsCMS:           true,
	models.SettingsPayment:       true,
	models.SettingsTax:           true,
	models.SettingsNotifications: true,
}

// GetSettings returns the JSON blob for one section. A section that was
// never written comes back as an empty object.
func GetSettings(c *gin.Context) {
	section := c.Param("section")
	if !validSections[section] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown settings section"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var s models.Settings
	s.Section = section
	err = session.Query(`SELECT data, updated_by, updated_at FROM settings WHERE section = ?`, section).
		Scan(&s.Data, &s.UpdatedBy, &s.UpdatedAt)
	if err == gocql.ErrNotFound {
		s.Data = "{}"
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Settings read error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"section":    s.Section,
		"data":       json.RawMessage(s.Data),
		"updated_by": s.UpdatedBy,
		"updated_at": s.UpdatedAt,
	}})
}

// UpdateSettings replaces the section blob. The payload must be valid JSON.
func UpdateSettings(c *gin.Context) {
	section := c.Param("section")
	if !validSections[section] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown settings section"})
		return
	}

	var raw json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Payload must be valid JSON"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var oldData string
	session.Query(`SELECT data FROM settings WHERE section = ?`, section).Scan(&oldData)

	adminID := c.GetString("user_id")
	now := time.Now()
	if err := session.Query(`
		INSERT INTO settings (section, data, updated_by, updated_at) VALUES (?, ?, ?, ?)`,
		section, string(raw), adminID, now,
	).Exec(); err != nil {
		log.Printf("❌ Settings update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Settings update failed"})
		return
	}

	utils.LogAction(c, "update", "settings", section,
		map[string]interface{}{"data": oldData}, map[string]interface{}{"data": string(raw)})
	log.Printf("⚙️ Settings updated: %s by %s", section, adminID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Settings updated"})
}

// GetSystemLogs returns recent audit log entries for the admin console
func GetSystemLogs(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	limit := 100
	iter := session.Query(`
		SELECT id, user_id, user_email, action, resource, resource_id, old_value, new_value,
			ip_address, user_agent, success, error_msg, timestamp
		FROM audit_logs LIMIT ?`, limit).Iter()

	logs := []models.AuditLog{}
	var l models.AuditLog
	for iter.Scan(&l.ID, &l.UserID, &l.UserEmail, &l.Action, &l.Resource, &l.ResourceID,
		&l.OldValue, &l.NewValue, &l.IPAddress, &l.UserAgent, &l.Success, &l.ErrorMsg, &l.Timestamp) {
		logs = append(logs, l)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Log read error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(logs), "data": logs})
}
