package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID                gocql.UUID `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	Price             float64    `json:"price"`
	Stock             int        `json:"stock"`
	LowStockThreshold int        `json:"low_stock_threshold"`
	CategoryID        gocql.UUID `json:"category_id"`
	ImageURL          string     `json:"image_url"`
	Tags              []string   `json:"tags,omitempty"`
	IsBestSeller      bool       `json:"is_best_seller"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type Category struct {
	ID          gocql.UUID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Stock movement types
const (
	MovementOrder         = "order"
	MovementRestock       = "restock"
	MovementAdjustment    = "adjustment"
	MovementCancelRestock = "cancel_restock"
)

type StockMovement struct {
	ID        gocql.UUID `json:"id"`
	ProductID gocql.UUID `json:"product_id"`
	Type      string     `json:"type"`
	Quantity  int        `json:"quantity"`
	PrevStock int        `json:"prev_stock"`
	NewStock  int        `json:"new_stock"`
	Reason    string     `json:"reason"`
	UserID    string     `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
}
