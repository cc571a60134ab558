package user

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/utils"
)

// GetProfile returns the caller's account
func GetProfile(c *gin.Context) {
	u, err := FindByID(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	u.Password = ""
	c.JSON(http.StatusOK, gin.H{"success": true, "data": u})
}

// UpdateProfile updates name, phone and optionally the password
func UpdateProfile(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Phone       string `json:"phone"`
		Password    string `json:"password"`
		OldPassword string `json:"old_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}

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

	var sets []string
	var args []interface{}

	if req.Name != "" {
		sets = append(sets, "name = ?")
		args = append(args, req.Name)
	}
	if req.Phone != "" {
		sets = append(sets, "phone = ?")
		args = append(args, req.Phone)
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be at least 8 characters"})
			return
		}
		if u.Provider == "local" {
			ok, err := utils.VerifyPassword(req.OldPassword, u.Password)
			if err != nil || !ok {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Current password is incorrect"})
				return
			}
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Password update failed"})
			return
		}
		sets = append(sets, "password = ?")
		args = append(args, hash)
	}

	if len(sets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Nothing to update"})
		return
	}

	args = append(args, userID)
	query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE user_id = ?"
	if err := session.Query(query, args...).Exec(); err != nil {
		log.Printf("❌ Profile update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Profile update failed"})
		return
	}

	utils.LogAction(c, "update", "user", userID, nil, nil)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated"})
}
