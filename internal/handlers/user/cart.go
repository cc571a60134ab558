package user

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/cache"
	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
)

// GetCart returns the Redis-backed cart
func GetCart(c *gin.Context) {
	cart, err := cache.GetCart(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Cart read error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(cart), "data": cart})
}

// SaveCart replaces the cart. Prices and names are snapshotted from the
// catalog so the client cannot set its own.
func SaveCart(c *gin.Context) {
	var req struct {
		Items []struct {
			ProductID string `json:"product_id" binding:"required"`
			Quantity  int    `json:"quantity" binding:"required,min=1"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload: " + err.Error()})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	items := []models.CartItem{}
	for _, item := range req.Items {
		pid, err := gocql.ParseUUID(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID: " + item.ProductID})
			return
		}

		var stock int
		var name string
		var price float64
		var isActive bool
		if err := session.Query(`SELECT stock, name, price, is_active FROM products WHERE product_id = ?`,
			pid).Scan(&stock, &name, &price, &isActive); err != nil || !isActive {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product unavailable: " + item.ProductID})
			return
		}

		items = append(items, models.CartItem{
			ProductID: item.ProductID,
			Name:      name,
			Price:     price,
			Quantity:  item.Quantity,
		})
	}

	userID := c.GetString("user_id")
	if err := cache.SaveCart(userID, items); err != nil {
		log.Printf("❌ Cart save error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Cart save failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
}

// ClearCart empties the cart
func ClearCart(c *gin.Context) {
	cache.ClearCart(c.GetString("user_id"))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart cleared"})
}
