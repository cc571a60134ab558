package catalog

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/cache"
	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/services"
)

// UploadProductImage - attach an image to a product via MinIO (admin)
func UploadProductImage(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Image file required"})
		return
	}

	if file.Size > 5<<20 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Image too large (max 5 MB)"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var name string
	if err := session.Query(`SELECT name FROM products WHERE product_id = ?`, productID).Scan(&name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	url, err := services.UploadImage(file, "products")
	if err != nil {
		log.Printf("❌ Image upload error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Upload failed"})
		return
	}

	if err := session.Query(`UPDATE products SET image_url = ?, updated_at = ? WHERE product_id = ?`,
		url, time.Now(), productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not save image URL"})
		return
	}

	cache.InvalidateProduct(productID.String())
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"image_url": url}})
}
