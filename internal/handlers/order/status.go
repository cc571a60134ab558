package order

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/cache"
	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/handlers/catalog"
	"krc_coffee_backend/internal/models"
	"krc_coffee_backend/internal/services"
	"krc_coffee_backend/internal/utils"
)

// UpdateOrderStatus moves an order along the lifecycle. The transition table
// rejects backward or out-of-graph moves, and the LWT on the current status
// keeps two admins from racing each other.
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Status is required"})
		return
	}

	o, err := fetchOrder(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	if err := models.CanTransition(o.Status, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	adminID := c.GetString("user_id")

	switch req.Status {
	case models.StatusDelivered:
		if err := deliverOrder(o); err != nil {
			log.Printf("❌ Deliver error for %s: %v", orderID, err)
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
			return
		}
	case models.StatusCancelled:
		if err := cancelOrder(o, adminID); err != nil {
			log.Printf("❌ Cancel error for %s: %v", orderID, err)
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
			return
		}
	default:
		if err := applyStatus(o, req.Status); err != nil {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
			return
		}
	}

	if o.Status == models.StatusPending {
		cache.DecrPendingOrders()
	}

	utils.LogAction(c, "status_update", "order", orderID.String(),
		map[string]interface{}{"status": o.Status}, map[string]interface{}{"status": req.Status})

	services.CreateNotification(o.UserID, "Order "+req.Status,
		fmt.Sprintf("Your order #%s is now %s", orderID.String()[:8], req.Status),
		models.NotifOrder)

	go sendStatusEmail(o, req.Status)

	log.Printf("📦 Order %s: %s → %s", orderID, o.Status, req.Status)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated", "status": req.Status})
}

// DeliverOrder marks an order Delivered directly, shortcut for the common
// last step
func DeliverOrder(c *gin.Context) {
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

	if err := models.CanTransition(o.Status, models.StatusDelivered); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := deliverOrder(o); err != nil {
		log.Printf("❌ Deliver error for %s: %v", orderID, err)
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
		return
	}

	if o.Status == models.StatusPending {
		cache.DecrPendingOrders()
	}

	utils.LogAction(c, "status_update", "order", orderID.String(),
		map[string]interface{}{"status": o.Status}, map[string]interface{}{"status": models.StatusDelivered})

	services.CreateNotification(o.UserID, "Order delivered",
		fmt.Sprintf("Your order #%s has been delivered", orderID.String()[:8]),
		models.NotifOrder)

	go sendStatusEmail(o, models.StatusDelivered)

	log.Printf("📦 Order %s delivered", orderID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order delivered"})
}

// CancelOrder lets the customer cancel their own order while it is still
// cancellable
func CancelOrder(c *gin.Context) {
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

	userID := c.GetString("user_id")
	if c.GetString("role") != models.RoleAdmin && o.UserID != userID {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not your order"})
		return
	}

	if err := models.CanTransition(o.Status, models.StatusCancelled); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := cancelOrder(o, userID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
		return
	}

	if o.Status == models.StatusPending {
		cache.DecrPendingOrders()
	}

	services.CreateNotification(o.UserID, "Order cancelled",
		fmt.Sprintf("Your order #%s has been cancelled", orderID.String()[:8]),
		models.NotifOrder)
	go sendStatusEmail(o, models.StatusCancelled)

	log.Printf("🗑️ Order %s cancelled by %s", orderID, userID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled"})
}

// applyStatus writes the new status, conditioned on the status we read
func applyStatus(o models.Order, newStatus string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	var prev string
	applied, err := session.Query(`
		UPDATE orders SET status = ? WHERE order_id = ? IF status = ?`,
		newStatus, o.ID, o.Status,
	).ScanCAS(&prev)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("order status changed concurrently (now %s)", prev)
	}
	return nil
}

// paidOnDelivery returns the paid fields for the Delivered transition.
// A COD order is paid at the door; an online order keeps the timestamp
// Stripe already wrote.
func paidOnDelivery(o models.Order, now time.Time) (bool, *time.Time) {
	if o.IsPaid {
		return true, o.PaidAt
	}
	return true, &now
}

// deliverOrder marks the order delivered and paid, then credits reward
// points. Points are credited exactly once because the guarded transition
// into Delivered can only succeed once.
func deliverOrder(o models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	now := time.Now()
	isPaid, paidAt := paidOnDelivery(o, now)

	var prev string
	applied, err := session.Query(`
		UPDATE orders SET status = ?, is_delivered = ?, delivered_at = ?, is_paid = ?, paid_at = ?
		WHERE order_id = ? IF status = ?`,
		models.StatusDelivered, true, now, isPaid, paidAt, o.ID, o.Status,
	).ScanCAS(&prev)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("order status changed concurrently (now %s)", prev)
	}

	points := models.RewardPointsFor(o.TotalPrice)
	if points > 0 {
		if err := creditRewardPoints(o.UserID, o.ID, points); err != nil {
			log.Printf("⚠️ Reward credit failed for order %s: %v", o.ID, err)
		} else {
			services.CreateNotification(o.UserID, "Reward points earned",
				fmt.Sprintf("You earned %d points on order #%s", points, o.ID.String()[:8]),
				models.NotifAccount)
		}
	}

	return nil
}

// cancelOrder writes the terminal status and returns the stock
func cancelOrder(o models.Order, actorID string) error {
	if err := applyStatus(o, models.StatusCancelled); err != nil {
		return err
	}
	catalog.RestockOnCancel(o.Items, o.ID, actorID)
	return nil
}

const rewardCASRetries = 3

// creditRewardPoints bumps users.reward_points with a read-then-CAS loop
// and records the audit event
func creditRewardPoints(userID string, orderID gocql.UUID, points int) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	var applied bool
	for attempt := 0; attempt < rewardCASRetries; attempt++ {
		var current int
		if err := session.Query(`SELECT reward_points FROM users WHERE user_id = ?`, userID).
			Scan(&current); err != nil {
			return err
		}

		var prev int
		applied, err = session.Query(`
			UPDATE users SET reward_points = ? WHERE user_id = ? IF reward_points = ?`,
			current+points, userID, current,
		).ScanCAS(&prev)
		if err != nil {
			return err
		}
		if applied {
			break
		}
	}
	if !applied {
		return fmt.Errorf("reward balance contention for user %s", userID)
	}

	return session.Query(`
		INSERT INTO reward_events (user_id, id, order_id, points, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, gocql.TimeUUID(), orderID, points, "order delivered", time.Now(),
	).Exec()
}

func sendStatusEmail(o models.Order, newStatus string) {
	email, err := lookupUserEmail(o.UserID)
	if err != nil || email == "" {
		log.Printf("⚠️ Status email skipped, no address for user %s", o.UserID)
		return
	}
	if err := utils.SendOrderStatusEmail(o, email, newStatus); err != nil {
		log.Printf("⚠️ Status email error: %v", err)
	}
}

func lookupUserEmail(userID string) (string, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return "", err
	}
	var email string
	err = session.Query(`SELECT email FROM users WHERE user_id = ?`, userID).Scan(&email)
	return email, err
}
