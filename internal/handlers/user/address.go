package user

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
)

// GetAddresses lists the caller's saved addresses
func GetAddresses(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	userID := c.GetString("user_id")
	iter := session.Query(`
		SELECT id, name, phone, address, city, pincode, is_default, created_at
		FROM addresses WHERE user_id = ?`, userID).Iter()

	addresses := []models.Address{}
	var a models.Address
	for iter.Scan(&a.ID, &a.Name, &a.Phone, &a.Address, &a.City, &a.Pincode, &a.IsDefault, &a.CreatedAt) {
		a.UserID = userID
		addresses = append(addresses, a)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Address list error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(addresses), "data": addresses})
}

// AddAddress saves a shipping address
func AddAddress(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		Phone     string `json:"phone" binding:"required"`
		Address   string `json:"address" binding:"required"`
		City      string `json:"city" binding:"required"`
		Pincode   string `json:"pincode" binding:"required"`
		IsDefault bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload: " + err.Error()})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	userID := c.GetString("user_id")
	addr := models.Address{
		ID:        gocql.TimeUUID(),
		UserID:    userID,
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Pincode:   req.Pincode,
		IsDefault: req.IsDefault,
		CreatedAt: time.Now(),
	}

	if req.IsDefault {
		clearDefaultAddress(session, userID)
	}

	if err := session.Query(`
		INSERT INTO addresses (user_id, id, name, phone, address, city, pincode, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		addr.UserID, addr.ID, addr.Name, addr.Phone, addr.Address, addr.City, addr.Pincode,
		addr.IsDefault, addr.CreatedAt,
	).Exec(); err != nil {
		log.Printf("❌ Address insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Address creation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": addr})
}

// UpdateAddress edits one of the caller's addresses
func UpdateAddress(c *gin.Context) {
	addrID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid address ID"})
		return
	}

	var req struct {
		Name      *string `json:"name"`
		Phone     *string `json:"phone"`
		Address   *string `json:"address"`
		City      *string `json:"city"`
		Pincode   *string `json:"pincode"`
		IsDefault *bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	userID := c.GetString("user_id")

	var a models.Address
	if err := session.Query(`
		SELECT name, phone, address, city, pincode, is_default, created_at
		FROM addresses WHERE user_id = ? AND id = ?`, userID, addrID).Scan(
		&a.Name, &a.Phone, &a.Address, &a.City, &a.Pincode, &a.IsDefault, &a.CreatedAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Address not found"})
		return
	}

	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Phone != nil {
		a.Phone = *req.Phone
	}
	if req.Address != nil {
		a.Address = *req.Address
	}
	if req.City != nil {
		a.City = *req.City
	}
	if req.Pincode != nil {
		a.Pincode = *req.Pincode
	}
	if req.IsDefault != nil {
		if *req.IsDefault && !a.IsDefault {
			clearDefaultAddress(session, userID)
		}
		a.IsDefault = *req.IsDefault
	}

	if err := session.Query(`
		UPDATE addresses SET name = ?, phone = ?, address = ?, city = ?, pincode = ?, is_default = ?
		WHERE user_id = ? AND id = ?`,
		a.Name, a.Phone, a.Address, a.City, a.Pincode, a.IsDefault, userID, addrID,
	).Exec(); err != nil {
		log.Printf("❌ Address update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Address update failed"})
		return
	}

	a.ID = addrID
	a.UserID = userID
	c.JSON(http.StatusOK, gin.H{"success": true, "data": a})
}

// DeleteAddress removes one of the caller's addresses
func DeleteAddress(c *gin.Context) {
	addrID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid address ID"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	userID := c.GetString("user_id")

	var name string
	if err := session.Query(`SELECT name FROM addresses WHERE user_id = ? AND id = ?`,
		userID, addrID).Scan(&name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Address not found"})
		return
	}

	if err := session.Query(`DELETE FROM addresses WHERE user_id = ? AND id = ?`,
		userID, addrID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Address deletion failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address deleted"})
}

// clearDefaultAddress unsets is_default on every address of the user, so a
// single default survives
func clearDefaultAddress(session *gocql.Session, userID string) {
	iter := session.Query(`SELECT id, is_default FROM addresses WHERE user_id = ?`, userID).Iter()
	var id gocql.UUID
	var isDefault bool
	for iter.Scan(&id, &isDefault) {
		if isDefault {
			if err := session.Query(`UPDATE addresses SET is_default = false WHERE user_id = ? AND id = ?`,
				userID, id).Exec(); err != nil {
				log.Printf("⚠️ Could not clear default flag on address %s: %v", id, err)
			}
		}
	}
	iter.Close()
}
