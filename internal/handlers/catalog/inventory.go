package catalog

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/cache"
	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
	"krc_coffee_backend/internal/services"
	"krc_coffee_backend/internal/utils"
)

// ErrInsufficientStock is returned when a decrement would drive stock negative
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrProductGone is returned when the referenced product no longer exists
var ErrProductGone = errors.New("product no longer exists")

const casRetries = 3

// DecrementStock takes qty units off a product's stock. The compare-and-set
// loop keeps concurrent checkouts from overselling: stock never goes negative.
func DecrementStock(productID gocql.UUID, qty int, reason, actorID string) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		return err
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		var stock int
		var name string
		var threshold int
		if err := session.Query(`SELECT stock, name, low_stock_threshold FROM products WHERE product_id = ?`,
			productID).Scan(&stock, &name, &threshold); err != nil {
			if err == gocql.ErrNotFound {
				return ErrProductGone
			}
			return err
		}

		if stock < qty {
			return fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, name, stock, qty)
		}

		newStock := stock - qty
		var prevStock int
		applied, err := session.Query(`
			UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ? IF stock = ?`,
			newStock, time.Now(), productID, stock,
		).ScanCAS(&prevStock)
		if err != nil {
			return err
		}
		if applied {
			recordMovement(session, productID, models.MovementOrder, -qty, stock, newStock, reason, actorID)
			cache.InvalidateProduct(productID.String())
			checkLowStockAlert(productID, name, newStock, threshold)
			return nil
		}
		// lost the race, re-read and retry
	}

	return fmt.Errorf("stock update contention on product %s", productID)
}

// RestockOnCancel returns cancelled order quantities to inventory.
// A vanished product line is skipped, matching checkout's skip rule.
func RestockOnCancel(items []models.OrderItem, orderID gocql.UUID, actorID string) {
	session, err := database.GetCatalogSession()
	if err != nil {
		log.Printf("❌ Restock aborted for order %s: %v", orderID, err)
		return
	}

	for _, item := range items {
		restocked := false
		for attempt := 0; attempt < casRetries && !restocked; attempt++ {
			var stock int
			if err := session.Query(`SELECT stock FROM products WHERE product_id = ?`, item.ProductID).Scan(&stock); err != nil {
				log.Printf("⚠️ Restock skipped, product %s gone: %v", item.ProductID, err)
				break
			}

			newStock := stock + item.Quantity
			var prevStock int
			applied, err := session.Query(`
				UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ? IF stock = ?`,
				newStock, time.Now(), item.ProductID, stock,
			).ScanCAS(&prevStock)
			if err != nil {
				log.Printf("❌ Restock error for product %s: %v", item.ProductID, err)
				break
			}
			if applied {
				recordMovement(session, item.ProductID, models.MovementCancelRestock, item.Quantity,
					stock, newStock, "order "+orderID.String()+" cancelled", actorID)
				cache.InvalidateProduct(item.ProductID.String())
				restocked = true
			}
		}
	}
}

// ApplyMovement computes the resulting stock level for a manual movement.
// A restock adds to the current level, an adjustment overwrites it with any
// non-negative value, zero included.
func ApplyMovement(movType string, current, quantity int) (int, error) {
	var newStock int
	switch movType {
	case models.MovementRestock:
		newStock = current + quantity
	case models.MovementAdjustment:
		newStock = quantity
	default:
		return 0, errors.New("Invalid operation type")
	}
	if newStock < 0 {
		return 0, errors.New("Stock cannot be negative")
	}
	return newStock, nil
}

// UpdateStock - manual stock adjustment from the admin inventory screen
func UpdateStock(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	var req struct {
		Quantity *int   `json:"quantity" binding:"required"`
		Reason   string `json:"reason" binding:"required"`
		Type     string `json:"type" binding:"required"` // "restock" | "adjustment"
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload: " + err.Error()})
		return
	}
	quantity := *req.Quantity

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var currentStock, threshold int
	var productName string
	if err := session.Query(`SELECT stock, name, low_stock_threshold FROM products WHERE product_id = ?`,
		productID).Scan(&currentStock, &productName, &threshold); err != nil {
		log.Printf("❌ Product not found: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	newStock, err := ApplyMovement(req.Type, currentStock, quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	userID := c.GetString("user_id")

	if err := session.Query(`UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ?`,
		newStock, time.Now(), productID).Exec(); err != nil {
		log.Printf("❌ Stock update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Stock update failed"})
		return
	}

	movementID := recordMovement(session, productID, req.Type, quantity, currentStock, newStock, req.Reason, userID)
	cache.InvalidateProduct(productID.String())
	checkLowStockAlert(productID, productName, newStock, threshold)
	utils.LogAction(c, "stock_update", "product", productID.String(), currentStock, newStock)

	log.Printf("✅ Stock updated for %s: %d → %d", productName, currentStock, newStock)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"prev_stock":  currentStock,
			"new_stock":   newStock,
			"movement_id": movementID,
		},
	})
}

// GetStockMovements - movement history for a product (admin)
func GetStockMovements(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit > 100 {
		limit = 100
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	iter := session.Query(`SELECT id, product_id, type, quantity, prev_stock, new_stock, reason, user_id, created_at
		FROM stock_movements WHERE product_id = ? LIMIT ?`, productID, limit).Iter()

	var movements []models.StockMovement
	var m models.StockMovement
	for iter.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.PrevStock, &m.NewStock,
		&m.Reason, &m.UserID, &m.CreatedAt) {
		movements = append(movements, m)
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Stock movements read error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	names := cache.GetProductNames([]gocql.UUID{productID})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": names[productID.String()],
		"data":    movements,
		"count":   len(movements),
	})
}

func recordMovement(session *gocql.Session, productID gocql.UUID, movType string, qty, prevStock, newStock int, reason, userID string) gocql.UUID {
	m := models.StockMovement{
		ID:        gocql.TimeUUID(),
		ProductID: productID,
		Type:      movType,
		Quantity:  qty,
		PrevStock: prevStock,
		NewStock:  newStock,
		Reason:    reason,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	if err := session.Query(`
		INSERT INTO stock_movements (id, product_id, type, quantity, prev_stock, new_stock, reason, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProductID, m.Type, m.Quantity, m.PrevStock, m.NewStock, m.Reason, m.UserID, m.CreatedAt,
	).Exec(); err != nil {
		log.Printf("⚠️ Stock movement insert error: %v", err)
	}

	return m.ID
}

// checkLowStockAlert notifies every admin when a product drops below its threshold
func checkLowStockAlert(productID gocql.UUID, name string, stock, threshold int) {
	if stock >= threshold {
		return
	}

	go func() {
		usersSession, err := database.GetUsersSession()
		if err != nil {
			return
		}

		iter := usersSession.Query(`SELECT user_id, role FROM users`).Iter()
		var userID, role string
		for iter.Scan(&userID, &role) {
			if role == models.RoleAdmin {
				services.CreateNotification(userID,
					"Low stock alert",
					fmt.Sprintf("%s is down to %d units", name, stock),
					models.NotifInfo)
			}
		}
		iter.Close()

		log.Printf("⚠️ Low stock: %s (%s) at %d, threshold %d", name, productID, stock, threshold)
	}()
}
