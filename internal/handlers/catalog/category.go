package catalog

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
	"krc_coffee_backend/internal/utils"
)

// GetCategories - list all categories
func GetCategories(c *gin.Context) {
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	iter := session.Query(`SELECT category_id, name, description, image_url, created_at FROM categories`).Iter()

	var categories []models.Category
	var cat models.Category
	for iter.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.ImageURL, &cat.CreatedAt) {
		categories = append(categories, cat)
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Category list error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories, "count": len(categories)})
}

// CreateCategory (admin)
func CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload: " + err.Error()})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	cat := models.Category{
		ID:          gocql.TimeUUID(),
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now(),
	}

	if err := session.Query(`
		INSERT INTO categories (category_id, name, description, image_url, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Description, cat.ImageURL, cat.CreatedAt,
	).Exec(); err != nil {
		log.Printf("❌ Category creation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not create category"})
		return
	}

	utils.LogAction(c, "create", "category", cat.ID.String(), nil, cat)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": cat})
}

// UpdateCategory (admin)
func UpdateCategory(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category ID"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		ImageURL    *string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var cat models.Category
	if err := session.Query(`SELECT category_id, name, description, image_url, created_at
		FROM categories WHERE category_id = ?`, id).Scan(
		&cat.ID, &cat.Name, &cat.Description, &cat.ImageURL, &cat.CreatedAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
		return
	}

	old := cat
	if req.Name != nil {
		cat.Name = *req.Name
	}
	if req.Description != nil {
		cat.Description = *req.Description
	}
	if req.ImageURL != nil {
		cat.ImageURL = *req.ImageURL
	}

	if err := session.Query(`UPDATE categories SET name = ?, description = ?, image_url = ? WHERE category_id = ?`,
		cat.Name, cat.Description, cat.ImageURL, cat.ID).Exec(); err != nil {
		log.Printf("❌ Category update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Update failed"})
		return
	}

	utils.LogAction(c, "update", "category", cat.ID.String(), old, cat)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": cat})
}

// DeleteCategory (admin)
func DeleteCategory(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category ID"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var name string
	if err := session.Query(`SELECT name FROM categories WHERE category_id = ?`, id).Scan(&name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Category not found"})
		return
	}

	if err := session.Query(`DELETE FROM categories WHERE category_id = ?`, id).Exec(); err != nil {
		log.Printf("❌ Category delete error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Delete failed"})
		return
	}

	utils.LogAction(c, "delete", "category", id.String(), name, nil)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted"})
}
