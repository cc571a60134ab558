package models

import (
	"math"
	"time"

	"github.com/gocql/gocql"
)

// Roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           string    `json:"user_id"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Password     string    `json:"-"`
	Role         string    `json:"role,omitempty"`
	Provider     string    `json:"provider,omitempty"`
	ProviderID   string    `json:"-"`
	RewardPoints int       `json:"reward_points"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

type Address struct {
	ID        gocql.UUID `json:"id"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	City      string     `json:"city"`
	Pincode   string     `json:"pincode"`
	IsDefault bool       `json:"is_default"`
	CreatedAt time.Time  `json:"created_at"`
}

type PaymentMethod struct {
	ID        gocql.UUID `json:"id"`
	UserID    string     `json:"user_id"`
	CardType  string     `json:"card_type"`
	Last4     string     `json:"last4"`
	Expiry    string     `json:"expiry"` // MM/YY
	IsPrimary bool       `json:"is_primary"`
	CreatedAt time.Time  `json:"created_at"`
}

// RewardEvent is the audit trail behind the user's running points balance
type RewardEvent struct {
	ID        gocql.UUID `json:"id"`
	UserID    string     `json:"user_id"`
	OrderID   gocql.UUID `json:"order_id"`
	Points    int        `json:"points"`
	Reason    string     `json:"reason"`
	CreatedAt time.Time  `json:"created_at"`
}

// RewardPointsFor computes the points earned on an order: 10% of spend,
// rounded down. Never negative.
func RewardPointsFor(orderTotal float64) int {
	if orderTotal <= 0 {
		return 0
	}
	return int(math.Floor(orderTotal * 0.1))
}
