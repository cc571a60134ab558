package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
)

const (
	CartTTL         = 7 * 24 * time.Hour
	ProductCacheTTL = 10 * time.Minute
)

// --- Cart (Redis is the cart's system of record) ---

func GetCart(userID string) ([]models.CartItem, error) {
	ctx := context.Background()
	data, err := database.Redis.Get(ctx, "cart:"+userID).Result()
	if err != nil || data == "" {
		return []models.CartItem{}, nil
	}

	var cart []models.CartItem
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func SaveCart(userID string, items []models.CartItem) error {
	ctx := context.Background()
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return database.Redis.Set(ctx, "cart:"+userID, data, CartTTL).Err()
}

func ClearCart(userID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "cart:"+userID)
}

// --- Product name cache ---

// GetProductNames resolves product names, Redis first, Scylla on miss
func GetProductNames(productIDs []gocql.UUID) map[string]string {
	ctx := context.Background()
	result := make(map[string]string)
	var missing []gocql.UUID

	for _, productID := range productIDs {
		key := "product_name:" + productID.String()
		name, err := database.Redis.Get(ctx, key).Result()
		if err == nil {
			result[productID.String()] = name
		} else {
			missing = append(missing, productID)
		}
	}

	if len(missing) > 0 {
		session, err := database.GetCatalogSession()
		if err == nil {
			for _, productID := range missing {
				var name string
				if err := session.Query("SELECT name FROM products WHERE product_id = ?", productID).Scan(&name); err == nil {
					result[productID.String()] = name
					database.Redis.Set(ctx, "product_name:"+productID.String(), name, ProductCacheTTL)
				}
			}
		}
	}

	return result
}

// InvalidateProduct drops a product's cached entries
func InvalidateProduct(productID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "product:"+productID, "product_name:"+productID)
}

// --- Pending order counter (admin dashboard badge) ---

func IncrPendingOrders() {
	database.Redis.Incr(context.Background(), "orders:pending_count")
}

func DecrPendingOrders() {
	database.Redis.Decr(context.Background(), "orders:pending_count")
}

func PendingOrders() int64 {
	count, _ := database.Redis.Get(context.Background(), "orders:pending_count").Int64()
	if count < 0 {
		return 0
	}
	return count
}
