package models

import (
	"fmt"
	"time"

	"github.com/gocql/gocql"
)

// Payment methods
const (
	PaymentCOD    = "COD"
	PaymentOnline = "online"
)

// Order statuses, closed set. Transitions are guarded by CanTransition.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// statusTransitions is the directed graph of allowed status changes.
// Delivered and Cancelled are terminal.
var statusTransitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusDelivered, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// IsValidStatus checks the status belongs to the enum
func IsValidStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

// IsTerminalStatus returns true for Delivered and Cancelled
func IsTerminalStatus(status string) bool {
	next, ok := statusTransitions[status]
	return ok && len(next) == 0
}

// CanTransition returns nil when from → to is allowed
func CanTransition(from, to string) error {
	if !IsValidStatus(from) {
		return fmt.Errorf("unknown order status %q", from)
	}
	if !IsValidStatus(to) {
		return fmt.Errorf("unknown order status %q", to)
	}
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("invalid status transition %s → %s", from, to)
}

type OrderItem struct {
	ProductID gocql.UUID `json:"product_id"`
	Name      string     `json:"name"`  // snapshot at checkout
	Price     float64    `json:"price"` // snapshot at checkout
	Quantity  int        `json:"quantity"`
}

type ShippingAddress struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

type Order struct {
	ID            gocql.UUID      `json:"id"`
	UserID        string          `json:"user_id"`
	Items         []OrderItem     `json:"items"`
	Shipping      ShippingAddress `json:"shipping"`
	PaymentMethod string          `json:"payment_method"` // "COD" | "online"
	StripeID      string          `json:"stripe_id,omitempty"`
	IsPaid        bool            `json:"is_paid"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	IsDelivered   bool            `json:"is_delivered"`
	DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`
	Status        string          `json:"status"`
	TotalPrice    float64         `json:"total_price"`
	Discount      float64         `json:"discount"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Subtotal sums price × quantity over the line items
func Subtotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// OrderTotal applies the discount to the item subtotal, floored at zero
func OrderTotal(items []OrderItem, discount float64) float64 {
	total := Subtotal(items) - discount
	if total < 0 {
		return 0
	}
	return total
}
