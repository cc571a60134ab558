package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Discount types
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Offer is a discount code with a validity window and a minimum order value.
// Single-use: redemption flips is_used exactly once (LWT in the offer handler).
type Offer struct {
	ID            gocql.UUID  `json:"id"`
	Code          string      `json:"code"` // stored uppercase
	Description   string      `json:"description"`
	DiscountType  string      `json:"discount_type"` // "percentage" | "fixed"
	DiscountValue float64     `json:"discount_value"`
	MinOrderValue float64     `json:"min_order_value"`
	ValidUntil    time.Time   `json:"valid_until"`
	IsActive      bool        `json:"is_active"`
	IsUsed        bool        `json:"is_used"`
	UsedBy        string      `json:"used_by,omitempty"`
	UsedOrderID   *gocql.UUID `json:"used_order_id,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// EffectiveActive: active flag AND not expired
func (o Offer) EffectiveActive(now time.Time) bool {
	return o.IsActive && !now.After(o.ValidUntil)
}

type OfferValidation struct {
	Valid    bool    `json:"valid"`
	Message  string  `json:"message,omitempty"`
	Discount float64 `json:"discount"`
	Type     string  `json:"type,omitempty"`
	Code     string  `json:"code,omitempty"`
}
