package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"

	"krc_coffee_backend/internal/cache"
	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/handlers/catalog"
	"krc_coffee_backend/internal/handlers/offer"
	"krc_coffee_backend/internal/models"
	"krc_coffee_backend/internal/services"
	"krc_coffee_backend/internal/utils"
)

// CreateOrder places an order: snapshot prices, apply the coupon, decrement
// stock and persist. Items come from the request body, or from the Redis cart
// when the body carries none.
func CreateOrder(c *gin.Context) {
	var req struct {
		Items []struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
		Shipping      models.ShippingAddress `json:"shipping" binding:"required"`
		PaymentMethod string                 `json:"payment_method" binding:"required"`
		CouponCode    string                 `json:"coupon_code"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload: " + err.Error()})
		return
	}

	userID := c.GetString("user_id")
	email := c.GetString("email")

	if req.PaymentMethod != models.PaymentCOD && req.PaymentMethod != models.PaymentOnline {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment method"})
		return
	}

	if req.Shipping.Name == "" || req.Shipping.Phone == "" || req.Shipping.Address == "" ||
		req.Shipping.City == "" || req.Shipping.Pincode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Incomplete shipping address"})
		return
	}

	// 1. Resolve requested lines (body, or the Redis cart)
	type line struct {
		ProductID gocql.UUID
		Quantity  int
	}
	var lines []line

	if len(req.Items) > 0 {
		for _, item := range req.Items {
			if item.Quantity <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Quantity must be positive"})
				return
			}
			pid, err := gocql.ParseUUID(item.ProductID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID: " + item.ProductID})
				return
			}
			lines = append(lines, line{ProductID: pid, Quantity: item.Quantity})
		}
	} else {
		cart, err := cache.GetCart(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Cart read error"})
			return
		}
		for _, item := range cart {
			pid, err := gocql.ParseUUID(item.ProductID)
			if err != nil {
				continue
			}
			lines = append(lines, line{ProductID: pid, Quantity: item.Quantity})
		}
	}

	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Order has no items"})
		return
	}

	// 2. Snapshot current name/price per line; inactive or vanished products
	// are skipped, not fatal
	var items []models.OrderItem
	for _, l := range lines {
		q := database.GetPreparedGetProduct()
		if q == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
			return
		}
		var stock int
		var name string
		var price float64
		var isActive bool
		err := q.Bind(l.ProductID).Scan(&stock, &name, &price, &isActive)
		if err != nil {
			log.Printf("⚠️ Checkout line skipped, product %s gone: %v", l.ProductID, err)
			continue
		}
		if !isActive {
			log.Printf("⚠️ Checkout line skipped, product %s inactive", l.ProductID)
			continue
		}
		if stock < l.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{
				"success":   false,
				"message":   "Insufficient stock",
				"product":   name,
				"available": stock,
				"requested": l.Quantity,
			})
			return
		}
		items = append(items, models.OrderItem{
			ProductID: l.ProductID,
			Name:      name,
			Price:     price,
			Quantity:  l.Quantity,
		})
	}

	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No orderable items"})
		return
	}

	// 3. Totals and optional coupon
	subtotal := models.Subtotal(items)

	var discount float64
	var couponCode string
	if req.CouponCode != "" {
		validation := offer.Validate(req.CouponCode, subtotal)
		if !validation.Valid {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validation.Message})
			return
		}
		discount = validation.Discount
		couponCode = validation.Code
		log.Printf("✅ Coupon applied: %s (₹%.2f off)", couponCode, discount)
	}

	totalPrice := models.OrderTotal(items, discount)
	orderID := gocql.TimeUUID()

	// 4. Redeem the coupon before touching stock; the LWT makes the
	// single-use guarantee hold under concurrent checkouts
	if couponCode != "" {
		if err := offer.Redeem(couponCode, userID, orderID); err != nil {
			log.Printf("❌ Coupon redeem failed: %v", err)
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Coupon already used"})
			return
		}
	}

	// 5. Decrement stock line by line; compensate on failure
	var decremented []models.OrderItem
	for _, item := range items {
		err := catalog.DecrementStock(item.ProductID, item.Quantity, "order "+orderID.String(), userID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductGone) {
				continue
			}
			catalog.RestockOnCancel(decremented, orderID, userID)
			if errors.Is(err, catalog.ErrInsufficientStock) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			} else {
				log.Printf("❌ Stock decrement error: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Stock update failed"})
			}
			return
		}
		decremented = append(decremented, item)
	}

	// 6. Online payments go through Stripe
	var stripeID, clientSecret string
	if req.PaymentMethod == models.PaymentOnline {
		params := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(int64(totalPrice * 100)),
			Currency: stripe.String(os.Getenv("STRIPE_CURRENCY")),
			AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
				Enabled: stripe.Bool(true),
			},
			Metadata: map[string]string{
				"order_id": orderID.String(),
				"user_id":  userID,
				"email":    email,
			},
		}

		intent, err := paymentintent.New(params)
		if err != nil {
			log.Printf("❌ Stripe error: %v", err)
			catalog.RestockOnCancel(decremented, orderID, userID)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment creation failed"})
			return
		}
		stripeID = intent.ID
		clientSecret = intent.ClientSecret
	}

	// 7. Persist. COD stays unpaid until delivery.
	now := time.Now()
	o := models.Order{
		ID:            orderID,
		UserID:        userID,
		Items:         items,
		Shipping:      req.Shipping,
		PaymentMethod: req.PaymentMethod,
		StripeID:      stripeID,
		IsPaid:        false,
		IsDelivered:   false,
		Status:        models.StatusPending,
		TotalPrice:    totalPrice,
		Discount:      discount,
		CouponCode:    couponCode,
		CreatedAt:     now,
	}

	if err := insertOrder(o); err != nil {
		log.Printf("❌ Order insert error: %v", err)
		catalog.RestockOnCancel(decremented, orderID, userID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Order creation failed"})
		return
	}

	cache.IncrPendingOrders()
	cache.ClearCart(userID)

	services.CreateNotification(userID, "Order placed",
		fmt.Sprintf("Your order #%s has been placed (₹%.2f)", orderID.String()[:8], totalPrice),
		models.NotifOrder)

	go func() {
		qr, _ := utils.GenerateTrackingQR(orderID.String())
		html := utils.BuildInvoiceHTML(o, qr)
		if err := utils.SendEmail(email, "✅ Order confirmed - KRC! Coffee", html, nil); err != nil {
			log.Printf("⚠️ Confirmation email error: %v", err)
		}
	}()

	log.Printf("🛒 Order created: %s (₹%.2f, %s) for %s", orderID, totalPrice, req.PaymentMethod, email)

	resp := gin.H{"success": true, "data": o}
	if clientSecret != "" {
		resp["client_secret"] = clientSecret
	}
	c.JSON(http.StatusCreated, resp)
}

func insertOrder(o models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	shippingJSON, err := json.Marshal(o.Shipping)
	if err != nil {
		return err
	}

	if err := session.Query(`
		INSERT INTO orders (order_id, user_id, items, shipping, payment_method, stripe_id,
			is_paid, paid_at, is_delivered, delivered_at, status, total_price, discount,
			coupon_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, string(itemsJSON), string(shippingJSON), o.PaymentMethod, o.StripeID,
		o.IsPaid, o.PaidAt, o.IsDelivered, o.DeliveredAt, o.Status, o.TotalPrice, o.Discount,
		o.CouponCode, o.CreatedAt,
	).Exec(); err != nil {
		return err
	}

	return session.Query(`
		INSERT INTO orders_by_user (user_id, created_at, order_id)
		VALUES (?, ?, ?)`,
		o.UserID, o.CreatedAt, o.ID,
	).Exec()
}
