package catalog

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/cache"
	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
	"krc_coffee_backend/internal/services"
	"krc_coffee_backend/internal/utils"
)

// GetProducts - list the catalog, optional ?category= and ?bestsellers=true filters
func GetProducts(c *gin.Context) {
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	iter := session.Query(`SELECT product_id, name, description, price, stock, low_stock_threshold,
		category_id, image_url, tags, is_best_seller, is_active, created_at, updated_at
		FROM products`).Iter()

	categoryFilter := c.Query("category")
	bestsellersOnly := c.Query("bestsellers") == "true"

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.LowStockThreshold,
		&p.CategoryID, &p.ImageURL, &p.Tags, &p.IsBestSeller, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt) {
		if !p.IsActive {
			continue
		}
		if categoryFilter != "" && p.CategoryID.String() != categoryFilter {
			continue
		}
		if bestsellersOnly && !p.IsBestSeller {
			continue
		}
		products = append(products, p)
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Product list error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": products, "count": len(products)})
}

// GetProductByID - fetch a single product
func GetProductByID(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var p models.Product
	if err := session.Query(`SELECT product_id, name, description, price, stock, low_stock_threshold,
		category_id, image_url, tags, is_best_seller, is_active, created_at, updated_at
		FROM products WHERE product_id = ?`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.LowStockThreshold,
		&p.CategoryID, &p.ImageURL, &p.Tags, &p.IsBestSeller, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

// CreateProduct - add a product to the catalog (admin)
func CreateProduct(c *gin.Context) {
	var req struct {
		Name              string   `json:"name" binding:"required"`
		Description       string   `json:"description"`
		Price             float64  `json:"price" binding:"required"`
		Stock             int      `json:"stock"`
		LowStockThreshold int      `json:"low_stock_threshold"`
		CategoryID        string   `json:"category_id" binding:"required"`
		ImageURL          string   `json:"image_url"`
		Tags              []string `json:"tags"`
		IsBestSeller      bool     `json:"is_best_seller"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload: " + err.Error()})
		return
	}

	if req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Price must be positive"})
		return
	}
	if req.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Stock cannot be negative"})
		return
	}

	categoryID, err := gocql.ParseUUID(req.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid category ID"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	if req.LowStockThreshold == 0 {
		req.LowStockThreshold = 10
	}

	now := time.Now()
	p := models.Product{
		ID:                gocql.TimeUUID(),
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		CategoryID:        categoryID,
		ImageURL:          req.ImageURL,
		Tags:              req.Tags,
		IsBestSeller:      req.IsBestSeller,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := session.Query(`
		INSERT INTO products (product_id, name, description, price, stock, low_stock_threshold,
			category_id, image_url, tags, is_best_seller, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.LowStockThreshold,
		p.CategoryID, p.ImageURL, p.Tags, p.IsBestSeller, p.IsActive,
		p.CreatedAt, p.UpdatedAt,
	).Exec(); err != nil {
		log.Printf("❌ Product creation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not create product"})
		return
	}

	services.IndexProduct(p)
	utils.LogAction(c, "create", "product", p.ID.String(), nil, p)

	log.Printf("✅ Product created: %s", p.Name)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": p})
}

// UpdateProduct - edit product fields (admin). Stock changes go through
// the inventory endpoint so movements stay traceable.
func UpdateProduct(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	var req struct {
		Name         *string  `json:"name"`
		Description  *string  `json:"description"`
		Price        *float64 `json:"price"`
		ImageURL     *string  `json:"image_url"`
		Tags         []string `json:"tags"`
		IsBestSeller *bool    `json:"is_best_seller"`
		IsActive     *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}

	if req.Price != nil && *req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Price must be positive"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var p models.Product
	if err := session.Query(`SELECT product_id, name, description, price, stock, low_stock_threshold,
		category_id, image_url, tags, is_best_seller, is_active, created_at, updated_at
		FROM products WHERE product_id = ?`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.LowStockThreshold,
		&p.CategoryID, &p.ImageURL, &p.Tags, &p.IsBestSeller, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	old := p

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}
	if req.IsBestSeller != nil {
		p.IsBestSeller = *req.IsBestSeller
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.UpdatedAt = time.Now()

	if err := session.Query(`
		UPDATE products SET name = ?, description = ?, price = ?, image_url = ?, tags = ?,
			is_best_seller = ?, is_active = ?, updated_at = ?
		WHERE product_id = ?`,
		p.Name, p.Description, p.Price, p.ImageURL, p.Tags,
		p.IsBestSeller, p.IsActive, p.UpdatedAt, p.ID,
	).Exec(); err != nil {
		log.Printf("❌ Product update error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Update failed"})
		return
	}

	cache.InvalidateProduct(p.ID.String())
	services.IndexProduct(p)
	utils.LogAction(c, "update", "product", p.ID.String(), old, p)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

// DeleteProduct - remove a product (admin). Orders keep their snapshots.
func DeleteProduct(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var name string
	if err := session.Query(`SELECT name FROM products WHERE product_id = ?`, id).Scan(&name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	if err := session.Query(`DELETE FROM products WHERE product_id = ?`, id).Exec(); err != nil {
		log.Printf("❌ Product delete error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Delete failed"})
		return
	}

	cache.InvalidateProduct(id.String())
	services.RemoveProductFromIndex(id.String())
	utils.LogAction(c, "delete", "product", id.String(), name, nil)

	log.Printf("🗑️ Product deleted: %s", name)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}
