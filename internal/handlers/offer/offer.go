package offer

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
	"krc_coffee_backend/internal/utils"
)

// CreateOffer - create a new coupon (admin only)
func CreateOffer(c *gin.Context) {
	var req struct {
		Code          string    `json:"code" binding:"required"`
		Description   string    `json:"description"`
		DiscountType  string    `json:"discount_type" binding:"required"` // "percentage" | "fixed"
		DiscountValue float64   `json:"discount_value" binding:"required"`
		MinOrderValue float64   `json:"min_order_value"`
		ValidUntil    time.Time `json:"valid_until" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload: " + err.Error()})
		return
	}

	if req.DiscountType != models.DiscountPercentage && req.DiscountType != models.DiscountFixed {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid discount type"})
		return
	}

	if req.DiscountType == models.DiscountPercentage && (req.DiscountValue <= 0 || req.DiscountValue > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Percentage must be between 1 and 100"})
		return
	}

	if req.DiscountType == models.DiscountFixed && req.DiscountValue <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Fixed amount must be positive"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))

	// code must be unique
	var existingID gocql.UUID
	if err := session.Query(`SELECT offer_id FROM offers_by_code WHERE code = ? LIMIT 1`, code).Scan(&existingID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "This coupon code already exists"})
		return
	}

	now := time.Now()
	offer := models.Offer{
		ID:            gocql.TimeUUID(),
		Code:          code,
		Description:   req.Description,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinOrderValue: req.MinOrderValue,
		ValidUntil:    req.ValidUntil,
		IsActive:      true,
		IsUsed:        false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := session.Query(`
		INSERT INTO offers (offer_id, code, description, discount_type, discount_value,
			min_order_value, valid_until, is_active, is_used, used_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		offer.ID, offer.Code, offer.Description, offer.DiscountType, offer.DiscountValue,
		offer.MinOrderValue, offer.ValidUntil, offer.IsActive, offer.IsUsed, "",
		offer.CreatedAt, offer.UpdatedAt,
	).Exec(); err != nil {
		log.Printf("❌ Offer creation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not create offer"})
		return
	}

	if err := session.Query(`INSERT INTO offers_by_code (code, offer_id) VALUES (?, ?)`,
		offer.Code, offer.ID).Exec(); err != nil {
		log.Printf("⚠️ Offer code lookup insert error: %v", err)
	}

	utils.LogAction(c, "create", "offer", offer.ID.String(), nil, offer)

	log.Printf("✅ Offer created: %s", offer.Code)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": offer})
}

// GetAllOffers - list every coupon (admin)
func GetAllOffers(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	iter := session.Query(`SELECT offer_id, code, description, discount_type, discount_value,
		min_order_value, valid_until, is_active, is_used, used_by, created_at, updated_at
		FROM offers`).Iter()

	var offers []models.Offer
	var o models.Offer
	for iter.Scan(&o.ID, &o.Code, &o.Description, &o.DiscountType, &o.DiscountValue,
		&o.MinOrderValue, &o.ValidUntil, &o.IsActive, &o.IsUsed, &o.UsedBy,
		&o.CreatedAt, &o.UpdatedAt) {
		offers = append(offers, o)
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Offer list error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": offers, "count": len(offers)})
}

// customerView filters the coupons down to what the storefront shows.
// Only live codes; a redeemed one keeps its is_used flag visible but not
// who used it.
func customerView(offers []models.Offer, now time.Time) []models.Offer {
	view := []models.Offer{}
	for _, o := range offers {
		if !o.EffectiveActive(now) {
			continue
		}
		o.UsedBy = ""
		o.UsedOrderID = nil
		view = append(view, o)
	}
	return view
}

// GetActiveOffers - the coupons the storefront shows to customers
func GetActiveOffers(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	iter := session.Query(`SELECT offer_id, code, description, discount_type, discount_value,
		min_order_value, valid_until, is_active, is_used, used_by, created_at, updated_at
		FROM offers`).Iter()

	var offers []models.Offer
	var o models.Offer
	for iter.Scan(&o.ID, &o.Code, &o.Description, &o.DiscountType, &o.DiscountValue,
		&o.MinOrderValue, &o.ValidUntil, &o.IsActive, &o.IsUsed, &o.UsedBy,
		&o.CreatedAt, &o.UpdatedAt) {
		offers = append(offers, o)
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Offer list error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	view := customerView(offers, time.Now())
	c.JSON(http.StatusOK, gin.H{"success": true, "data": view, "count": len(view)})
}

// UpdateOffer - toggle/extend a coupon. An expired coupon cannot be re-activated.
func UpdateOffer(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid offer ID"})
		return
	}

	var req struct {
		Description *string    `json:"description"`
		IsActive    *bool      `json:"is_active"`
		ValidUntil  *time.Time `json:"valid_until"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var current models.Offer
	if err := session.Query(`SELECT offer_id, code, valid_until, is_active FROM offers WHERE offer_id = ?`, id).
		Scan(&current.ID, &current.Code, &current.ValidUntil, &current.IsActive); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Offer not found"})
		return
	}

	// expired coupons stay off unless the expiry itself is pushed out
	if req.IsActive != nil && *req.IsActive && time.Now().After(current.ValidUntil) &&
		(req.ValidUntil == nil || time.Now().After(*req.ValidUntil)) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "An expired coupon cannot be activated"})
		return
	}

	updates := []string{}
	values := []interface{}{}

	if req.Description != nil {
		updates = append(updates, "description = ?")
		values = append(values, *req.Description)
	}
	if req.IsActive != nil {
		updates = append(updates, "is_active = ?")
		values = append(values, *req.IsActive)
	}
	if req.ValidUntil != nil {
		updates = append(updates, "valid_until = ?")
		values = append(values, *req.ValidUntil)
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No updates provided"})
		return
	}

	updates = append(updates, "updated_at = ?")
	values = append(values, time.Now())
	values = append(values, id)

	query := fmt.Sprintf("UPDATE offers SET %s WHERE offer_id = ?", strings.Join(updates, ", "))
	if err := session.Query(query, values...).Exec(); err != nil {
		log.Printf("❌ Offer update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Update failed"})
		return
	}

	utils.LogAction(c, "update", "offer", id.String(), current, req)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Offer updated"})
}

// DeleteOffer - remove a coupon (admin)
func DeleteOffer(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid offer ID"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var code string
	if err := session.Query(`SELECT code FROM offers WHERE offer_id = ?`, id).Scan(&code); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Offer not found"})
		return
	}

	if err := session.Query(`DELETE FROM offers WHERE offer_id = ?`, id).Exec(); err != nil {
		log.Printf("❌ Offer delete error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Delete failed"})
		return
	}
	session.Query(`DELETE FROM offers_by_code WHERE code = ?`, code).Exec()

	utils.LogAction(c, "delete", "offer", id.String(), code, nil)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Offer deleted"})
}

// ValidateOffer - check a coupon against a candidate subtotal, no side effects
func ValidateOffer(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Coupon code required"})
		return
	}

	subtotal, err := strconv.ParseFloat(c.Query("subtotal"), 64)
	if err != nil || subtotal < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid subtotal"})
		return
	}

	validation := Validate(code, subtotal)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": validation})
}

// Validate looks up a coupon by code and evaluates it against a subtotal
func Validate(code string, subtotal float64) models.OfferValidation {
	o, err := lookupByCode(code)
	if err != nil {
		return models.OfferValidation{Valid: false, Message: "Invalid coupon code"}
	}
	return Evaluate(o, subtotal, time.Now())
}

// Evaluate applies the coupon rules. Pure: no datastore access.
func Evaluate(o models.Offer, subtotal float64, now time.Time) models.OfferValidation {
	if o.IsUsed {
		return models.OfferValidation{Valid: false, Message: "This coupon has already been used"}
	}
	if !o.IsActive {
		return models.OfferValidation{Valid: false, Message: "This coupon is no longer active"}
	}
	if now.After(o.ValidUntil) {
		return models.OfferValidation{Valid: false, Message: "This coupon has expired"}
	}
	if subtotal < o.MinOrderValue {
		return models.OfferValidation{
			Valid:   false,
			Message: fmt.Sprintf("Minimum order value required: ₹%.2f", o.MinOrderValue),
		}
	}

	var discount float64
	switch o.DiscountType {
	case models.DiscountPercentage:
		discount = subtotal * (o.DiscountValue / 100)
	case models.DiscountFixed:
		discount = o.DiscountValue
		if discount > subtotal {
			discount = subtotal
		}
	}

	return models.OfferValidation{
		Valid:    true,
		Discount: discount,
		Type:     o.DiscountType,
		Code:     o.Code,
	}
}

// Redeem atomically marks a coupon used for an order. The LWT guarantees a
// single-use coupon cannot be consumed by two concurrent checkouts.
func Redeem(code, userID string, orderID gocql.UUID) error {
	o, err := lookupByCode(code)
	if err != nil {
		return err
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	var prevUsed bool
	applied, err := session.Query(`
		UPDATE offers SET is_used = ?, used_by = ?, used_order_id = ?, updated_at = ?
		WHERE offer_id = ? IF is_used = ?`,
		true, userID, orderID, time.Now(), o.ID, false,
	).ScanCAS(&prevUsed)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("coupon %s already redeemed", o.Code)
	}

	log.Printf("🎟️ Coupon redeemed: %s by %s (order %s)", o.Code, userID, orderID)
	return nil
}

func lookupByCode(code string) (models.Offer, error) {
	var o models.Offer

	session, err := database.GetOrdersSession()
	if err != nil {
		return o, err
	}

	q := database.GetPreparedGetOfferByCode()
	if q == nil {
		return o, gocql.ErrNoConnections
	}

	var offerID gocql.UUID
	if err := q.Bind(strings.ToUpper(strings.TrimSpace(code))).Scan(&offerID); err != nil {
		return o, err
	}

	err = session.Query(`SELECT offer_id, code, description, discount_type, discount_value,
		min_order_value, valid_until, is_active, is_used, used_by, created_at, updated_at
		FROM offers WHERE offer_id = ?`, offerID).Scan(
		&o.ID, &o.Code, &o.Description, &o.DiscountType, &o.DiscountValue,
		&o.MinOrderValue, &o.ValidUntil, &o.IsActive, &o.IsUsed, &o.UsedBy,
		&o.CreatedAt, &o.UpdatedAt)
	return o, err
}
