package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"krc_coffee_backend/internal/handlers/admin"
	"krc_coffee_backend/internal/handlers/blog"
	"krc_coffee_backend/internal/handlers/catalog"
	"krc_coffee_backend/internal/handlers/notification"
	"krc_coffee_backend/internal/handlers/offer"
	"krc_coffee_backend/internal/handlers/order"
	"krc_coffee_backend/internal/handlers/settings"
	"krc_coffee_backend/internal/handlers/user"
	"krc_coffee_backend/internal/middleware"
)

// Setup wires every route under /api
func Setup(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// Auth
	auth := api.Group("/auth")
	{
		auth.POST("/register", user.Register)
		auth.POST("/login", middleware.LoginRateLimit(), user.Login)
		auth.GET("/:provider", user.BeginOAuth)
		auth.GET("/:provider/callback", user.OAuthCallback)
	}

	// Public catalog
	api.GET("/products", catalog.GetProducts)
	api.GET("/products/search", catalog.SearchProducts)
	api.GET("/products/:id", catalog.GetProductByID)
	api.GET("/categories", catalog.GetCategories)
	api.GET("/blogs", blog.GetBlogs)
	api.GET("/blogs/:idOrSlug", blog.GetBlog)
	api.GET("/offers/validate", middleware.AuthRequired(), offer.ValidateOffer)

	// Stripe calls this, signature-verified inside the handler
	api.POST("/payments/webhook", order.StripeWebhook)

	// Notification stream authenticates through ?token=
	api.GET("/notifications/stream", notification.Stream)

	// Authenticated
	authed := api.Group("")
	authed.Use(middleware.AuthRequired())
	{
		authed.GET("/users/me", user.GetProfile)
		authed.PUT("/users/me", user.UpdateProfile)
		authed.GET("/users/me/rewards", user.GetRewards)

		authed.GET("/addresses", user.GetAddresses)
		authed.POST("/addresses", user.AddAddress)
		authed.PUT("/addresses/:id", user.UpdateAddress)
		authed.DELETE("/addresses/:id", user.DeleteAddress)

		authed.GET("/payment-methods", user.GetPaymentMethods)
		authed.POST("/payment-methods", user.AddPaymentMethod)
		authed.PUT("/payment-methods/:id/primary", user.SetPrimaryPaymentMethod)
		authed.DELETE("/payment-methods/:id", user.DeletePaymentMethod)

		authed.GET("/offers", offer.GetActiveOffers)

		authed.GET("/cart", user.GetCart)
		authed.PUT("/cart", user.SaveCart)
		authed.DELETE("/cart", user.ClearCart)

		authed.POST("/orders", middleware.CheckoutRateLimit(), order.CreateOrder)
		authed.GET("/orders", order.GetMyOrders)
		authed.GET("/orders/:id", order.GetOrderByID)
		authed.GET("/orders/:id/invoice", order.GetInvoice)
		authed.PUT("/orders/:id/cancel", order.CancelOrder)

		authed.GET("/notifications", notification.GetNotifications)
		authed.PUT("/notifications/read-all", notification.MarkAllRead)
		authed.PUT("/notifications/:id/read", notification.MarkRead)
		authed.DELETE("/notifications/:id", notification.DeleteNotification)
	}

	// Admin
	adm := api.Group("/admin")
	adm.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adm.GET("/dashboard", admin.GetDashboard)

		adm.POST("/products", catalog.CreateProduct)
		adm.PUT("/products/:id", catalog.UpdateProduct)
		adm.DELETE("/products/:id", catalog.DeleteProduct)
		adm.POST("/products/:id/image", catalog.UploadProductImage)
		adm.PUT("/products/:id/stock", catalog.UpdateStock)
		adm.GET("/products/:id/movements", catalog.GetStockMovements)

		adm.POST("/categories", catalog.CreateCategory)
		adm.PUT("/categories/:id", catalog.UpdateCategory)
		adm.DELETE("/categories/:id", catalog.DeleteCategory)

		adm.GET("/orders", order.GetAllOrders)
		adm.PUT("/orders/:id/status", order.UpdateOrderStatus)
		adm.PUT("/orders/:id/deliver", order.DeliverOrder)
		adm.GET("/reports/sales", order.GetSalesReport)

		adm.POST("/offers", offer.CreateOffer)
		adm.GET("/offers", offer.GetAllOffers)
		adm.PUT("/offers/:id", offer.UpdateOffer)
		adm.DELETE("/offers/:id", offer.DeleteOffer)

		adm.POST("/blogs", blog.CreateBlog)
		adm.PUT("/blogs/:id", blog.UpdateBlog)
		adm.DELETE("/blogs/:id", blog.DeleteBlog)

		adm.GET("/users", admin.GetAllUsers)
		adm.PUT("/users/:id/role", admin.UpdateUserRole)

		adm.GET("/settings/logs/system", settings.GetSystemLogs)
		adm.GET("/settings/:section", settings.GetSettings)
		adm.PUT("/settings/:section", settings.UpdateSettings)
	}
}
