package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"krc_coffee_backend/internal/services"
)

// SearchProducts - full-text search over the catalog via Elasticsearch
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Search query required"})
		return
	}

	results, err := services.SearchProducts(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": results, "count": len(results)})
}
