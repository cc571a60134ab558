package order

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
)

// fetchOrder reads one order row and decodes the JSON item/shipping snapshots
func fetchOrder(orderID gocql.UUID) (models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return models.Order{}, err
	}

	var o models.Order
	var itemsJSON, shippingJSON string

	err = session.Query(`
		SELECT order_id, user_id, items, shipping, payment_method, stripe_id,
			is_paid, paid_at, is_delivered, delivered_at, status, total_price,
			discount, coupon_code, created_at
		FROM orders WHERE order_id = ?`, orderID).Scan(
		&o.ID, &o.UserID, &itemsJSON, &shippingJSON, &o.PaymentMethod, &o.StripeID,
		&o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt, &o.Status, &o.TotalPrice,
		&o.Discount, &o.CouponCode, &o.CreatedAt)
	if err != nil {
		return models.Order{}, err
	}

	if itemsJSON != "" {
		if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
			return models.Order{}, err
		}
	}
	if shippingJSON != "" {
		if err := json.Unmarshal([]byte(shippingJSON), &o.Shipping); err != nil {
			return models.Order{}, err
		}
	}

	return o, nil
}

// GetMyOrders returns the caller's orders, newest first
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	iter := session.Query(`SELECT order_id FROM orders_by_user WHERE user_id = ?`, userID).Iter()

	orders := []models.Order{}
	var orderID gocql.UUID
	for iter.Scan(&orderID) {
		o, err := fetchOrder(orderID)
		if err != nil {
			log.Printf("⚠️ Order %s referenced but unreadable: %v", orderID, err)
			continue
		}
		orders = append(orders, o)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Order list error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(orders), "data": orders})
}

// GetOrderByID returns one order. Customers only see their own.
func GetOrderByID(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order ID"})
		return
	}

	o, err := fetchOrder(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	if c.GetString("role") != models.RoleAdmin && o.UserID != c.GetString("user_id") {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not your order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": o})
}

// GetAllOrders lists every order for the admin view, optionally filtered
// by ?status=
func GetAllOrders(c *gin.Context) {
	statusFilter := c.Query("status")
	if statusFilter != "" && !models.IsValidStatus(statusFilter) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown status"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	iter := session.Query(`
		SELECT order_id, user_id, items, shipping, payment_method, stripe_id,
			is_paid, paid_at, is_delivered, delivered_at, status, total_price,
			discount, coupon_code, created_at
		FROM orders`).Iter()

	orders := []models.Order{}
	for {
		var o models.Order
		var itemsJSON, shippingJSON string
		if !iter.Scan(&o.ID, &o.UserID, &itemsJSON, &shippingJSON, &o.PaymentMethod, &o.StripeID,
			&o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt, &o.Status, &o.TotalPrice,
			&o.Discount, &o.CouponCode, &o.CreatedAt) {
			break
		}
		if statusFilter != "" && o.Status != statusFilter {
			continue
		}
		json.Unmarshal([]byte(itemsJSON), &o.Items)
		json.Unmarshal([]byte(shippingJSON), &o.Shipping)
		orders = append(orders, o)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Order list error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(orders), "data": orders})
}
