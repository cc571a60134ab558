package order

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
	"krc_coffee_backend/internal/services"
)

// StripeWebhook handles payment confirmations. Signature verification keeps
// forged calls out.
func StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 65536))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unreadable payload"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"),
		os.Getenv("STRIPE_WEBHOOK_SECRET"))
	if err != nil {
		log.Printf("❌ Stripe webhook signature error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid signature"})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			log.Printf("❌ Stripe webhook decode error: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid event data"})
			return
		}
		if err := markOrderPaid(intent); err != nil {
			log.Printf("❌ Payment mark error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Order update failed"})
			return
		}
	case "payment_intent.payment_failed":
		log.Printf("⚠️ Payment failed for intent %s", event.Data.Object["id"])
	default:
		// Unhandled event types are acknowledged so Stripe stops retrying
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func markOrderPaid(intent stripe.PaymentIntent) error {
	orderIDStr := intent.Metadata["order_id"]
	orderID, err := gocql.ParseUUID(orderIDStr)
	if err != nil {
		log.Printf("⚠️ Payment intent %s has no order_id metadata", intent.ID)
		return nil
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	o, err := fetchOrder(orderID)
	if err != nil {
		log.Printf("⚠️ Paid order %s not found", orderID)
		return nil
	}
	if o.IsPaid {
		// Stripe retries deliveries, a second call is a no-op
		return nil
	}

	if err := session.Query(`
		UPDATE orders SET is_paid = ?, paid_at = ? WHERE order_id = ?`,
		true, time.Now(), orderID,
	).Exec(); err != nil {
		return err
	}

	services.CreateNotification(o.UserID, "Payment received",
		"Your payment for order #"+orderID.String()[:8]+" was received",
		models.NotifOrder)

	log.Printf("💳 Order %s marked paid (intent %s)", orderID, intent.ID)
	return nil
}
