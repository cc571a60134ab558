package order

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
)

// GetSalesReport aggregates delivered orders per day. Cancelled and
// in-flight orders never count towards revenue.
func GetSalesReport(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		from, err = time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid from date, use YYYY-MM-DD"})
			return
		}
	}
	if v := c.Query("to"); v != "" {
		to, err = time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid to date, use YYYY-MM-DD"})
			return
		}
		to = to.Add(24 * time.Hour)
	}

	iter := session.Query(`
		SELECT status, total_price, discount, delivered_at FROM orders`).Iter()

	type dayBucket struct {
		Date     string  `json:"date"`
		Orders   int     `json:"orders"`
		Revenue  float64 `json:"revenue"`
		Discount float64 `json:"discount"`
	}
	buckets := map[string]*dayBucket{}

	var totalRevenue, totalDiscount float64
	var totalOrders int

	var status string
	var totalPrice, discount float64
	var deliveredAt *time.Time
	for iter.Scan(&status, &totalPrice, &discount, &deliveredAt) {
		if status != models.StatusDelivered || deliveredAt == nil {
			continue
		}
		if !from.IsZero() && deliveredAt.Before(from) {
			continue
		}
		if !to.IsZero() && !deliveredAt.Before(to) {
			continue
		}

		day := deliveredAt.Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &dayBucket{Date: day}
			buckets[day] = b
		}
		b.Orders++
		b.Revenue += totalPrice
		b.Discount += discount

		totalOrders++
		totalRevenue += totalPrice
		totalDiscount += discount

		deliveredAt = nil
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Report query error"})
		return
	}

	days := make([]dayBucket, 0, len(buckets))
	for _, b := range buckets {
		days = append(days, *b)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"days":           days,
			"total_orders":   totalOrders,
			"total_revenue":  totalRevenue,
			"total_discount": totalDiscount,
		},
	})
}
