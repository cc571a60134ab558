package user

import (
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

// ValidExpiry checks the MM/YY format
func ValidExpiry(expiry string) bool {
	return expiryPattern.MatchString(expiry)
}

// ApplyPrimary marks one method primary and clears the flag everywhere else.
// Returns the updated slice, at most one primary.
func ApplyPrimary(methods []models.PaymentMethod, primaryID gocql.UUID) []models.PaymentMethod {
	for i := range methods {
		methods[i].IsPrimary = methods[i].ID == primaryID
	}
	return methods
}

// GetPaymentMethods lists the caller's saved cards
func GetPaymentMethods(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	userID := c.GetString("user_id")
	methods, err := listPaymentMethods(session, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment method list error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(methods), "data": methods})
}

// AddPaymentMethod saves a card reference. Only the brand, last four digits
// and expiry are ever stored.
func AddPaymentMethod(c *gin.Context) {
	var req struct {
		CardType  string `json:"card_type" binding:"required"`
		Last4     string `json:"last4" binding:"required,len=4,numeric"`
		Expiry    string `json:"expiry" binding:"required"`
		IsPrimary bool   `json:"is_primary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload: " + err.Error()})
		return
	}

	if !ValidExpiry(req.Expiry) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Expiry must be MM/YY"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	userID := c.GetString("user_id")
	method := models.PaymentMethod{
		ID:        gocql.TimeUUID(),
		UserID:    userID,
		CardType:  req.CardType,
		Last4:     req.Last4,
		Expiry:    req.Expiry,
		IsPrimary: req.IsPrimary,
		CreatedAt: time.Now(),
	}

	if req.IsPrimary {
		clearPrimaryMethod(session, userID)
	}

	if err := session.Query(`
		INSERT INTO payment_methods (user_id, id, card_type, last4, expiry, is_primary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		method.UserID, method.ID, method.CardType, method.Last4, method.Expiry,
		method.IsPrimary, method.CreatedAt,
	).Exec(); err != nil {
		log.Printf("❌ Payment method insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment method creation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": method})
}

// SetPrimaryPaymentMethod promotes one card to primary
func SetPrimaryPaymentMethod(c *gin.Context) {
	methodID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment method ID"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	userID := c.GetString("user_id")

	var cardType string
	if err := session.Query(`SELECT card_type FROM payment_methods WHERE user_id = ? AND id = ?`,
		userID, methodID).Scan(&cardType); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment method not found"})
		return
	}

	clearPrimaryMethod(session, userID)
	if err := session.Query(`UPDATE payment_methods SET is_primary = true WHERE user_id = ? AND id = ?`,
		userID, methodID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Primary payment method updated"})
}

// DeletePaymentMethod removes a saved card
func DeletePaymentMethod(c *gin.Context) {
	methodID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment method ID"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	userID := c.GetString("user_id")

	var cardType string
	if err := session.Query(`SELECT card_type FROM payment_methods WHERE user_id = ? AND id = ?`,
		userID, methodID).Scan(&cardType); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment method not found"})
		return
	}

	if err := session.Query(`DELETE FROM payment_methods WHERE user_id = ? AND id = ?`,
		userID, methodID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Deletion failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment method deleted"})
}

func listPaymentMethods(session *gocql.Session, userID string) ([]models.PaymentMethod, error) {
	iter := session.Query(`
		SELECT id, card_type, last4, expiry, is_primary, created_at
		FROM payment_methods WHERE user_id = ?`, userID).Iter()

	methods := []models.PaymentMethod{}
	var m models.PaymentMethod
	for iter.Scan(&m.ID, &m.CardType, &m.Last4, &m.Expiry, &m.IsPrimary, &m.CreatedAt) {
		m.UserID = userID
		methods = append(methods, m)
	}
	return methods, iter.Close()
}

func clearPrimaryMethod(session *gocql.Session, userID string) {
	methods, err := listPaymentMethods(session, userID)
	if err != nil {
		log.Printf("⚠️ Could not list payment methods for %s: %v", userID, err)
		return
	}
	for _, m := range methods {
		if m.IsPrimary {
			if err := session.Query(`UPDATE payment_methods SET is_primary = false WHERE user_id = ? AND id = ?`,
				userID, m.ID).Exec(); err != nil {
				log.Printf("⚠️ Could not clear primary flag on %s: %v", m.ID, err)
			}
		}
	}
}
