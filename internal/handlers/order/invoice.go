package order

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/models"
	"krc_coffee_backend/internal/utils"
)

// GetInvoice renders the order invoice as a PDF, with a QR code linking to
// the tracking page
func GetInvoice(c *gin.Context) {
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

	qr, err := utils.GenerateTrackingQR(orderID.String())
	if err != nil {
		log.Printf("⚠️ QR generation failed for %s: %v", orderID, err)
	}

	pdf, err := utils.RenderInvoicePDF(utils.BuildInvoiceHTML(o, qr))
	if err != nil {
		log.Printf("❌ Invoice PDF error for %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Invoice generation failed"})
		return
	}

	log.Printf("📤 Invoice generated for order %s", orderID)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice_%s.pdf"`, orderID.String()[:8]))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
