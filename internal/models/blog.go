package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Blog struct {
	ID          gocql.UUID `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Author      string     `json:"author"`
	ImageURL    string     `json:"image_url"`
	IsPublished bool       `json:"is_published"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
