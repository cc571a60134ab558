package admin

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
	"krc_coffee_backend/internal/utils"
)

// GetAllUsers lists accounts for the admin console
func GetAllUsers(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	iter := session.Query(`
		SELECT user_id, email, name, phone, role, provider, reward_points, created_at
		FROM users`).Iter()

	users := []models.User{}
	var u models.User
	for iter.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.Role, &u.Provider, &u.RewardPoints, &u.CreatedAt) {
		users = append(users, u)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "User list error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "data": users})
}

// UpdateUserRole promotes or demotes an account. Admins cannot demote
// themselves, that path locks everyone out.
func UpdateUserRole(c *gin.Context) {
	targetID := c.Param("id")

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Role is required"})
		return
	}

	if req.Role != models.RoleCustomer && req.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown role"})
		return
	}

	if targetID == c.GetString("user_id") && req.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You cannot demote yourself"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var currentRole string
	if err := session.Query(`SELECT role FROM users WHERE user_id = ?`, targetID).
		Scan(&currentRole); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	if err := session.Query(`UPDATE users SET role = ? WHERE user_id = ?`,
		req.Role, targetID).Exec(); err != nil {
		log.Printf("❌ Role update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Role update failed"})
		return
	}

	utils.LogAction(c, "update_role", "user", targetID,
		map[string]interface{}{"role": currentRole}, map[string]interface{}{"role": req.Role})
	log.Printf("👤 Role change: %s %s → %s", targetID, currentRole, req.Role)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Role updated"})
}
