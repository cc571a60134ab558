package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
)

// GetRewards returns the points balance plus the event history behind it
func GetRewards(c *gin.Context) {
	userID := c.GetString("user_id")

	u, err := FindByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	iter := session.Query(`
		SELECT id, order_id, points, reason, created_at
		FROM reward_events WHERE user_id = ?`, userID).Iter()

	events := []models.RewardEvent{}
	var e models.RewardEvent
	for iter.Scan(&e.ID, &e.OrderID, &e.Points, &e.Reason, &e.CreatedAt) {
		e.UserID = userID
		events = append(events, e)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Reward history error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"balance": u.RewardPoints,
			"events":  events,
		},
	})
}
