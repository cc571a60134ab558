package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"krc_coffee_backend/internal/cache"
	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
)

// GetDashboard aggregates the numbers behind the admin home screen
func GetDashboard(c *gin.Context) {
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var totalOrders, delivered, cancelled int
	var revenue float64
	{
		iter := ordersSession.Query(`SELECT status, total_price FROM orders`).Iter()
		var status string
		var total float64
		for iter.Scan(&status, &total) {
			totalOrders++
			switch status {
			case models.StatusDelivered:
				delivered++
				revenue += total
			case models.StatusCancelled:
				cancelled++
			}
		}
		if err := iter.Close(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Order stats error"})
			return
		}
	}

	catalogSession, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var totalProducts, lowStock int
	{
		iter := catalogSession.Query(`SELECT stock, low_stock_threshold, is_active FROM products`).Iter()
		var stock, threshold int
		var isActive bool
		for iter.Scan(&stock, &threshold, &isActive) {
			if !isActive {
				continue
			}
			totalProducts++
			if stock <= threshold {
				lowStock++
			}
		}
		if err := iter.Close(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Product stats error"})
			return
		}
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var totalUsers int
	if err := usersSession.Query(`SELECT COUNT(*) FROM users`).Scan(&totalUsers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "User stats error"})
		return
	}

	pending := cache.PendingOrders()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"orders": gin.H{
				"total":     totalOrders,
				"pending":   pending,
				"delivered": delivered,
				"cancelled": cancelled,
			},
			"revenue": revenue,
			"products": gin.H{
				"total":     totalProducts,
				"low_stock": lowStock,
			},
			"users": totalUsers,
		},
	})
}
