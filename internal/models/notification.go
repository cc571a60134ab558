package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Notification types
const (
	NotifOrder   = "order"
	NotifOffer   = "offer"
	NotifAccount = "account"
	NotifInfo    = "info"
)

type Notification struct {
	ID        gocql.UUID `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}
