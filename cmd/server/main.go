package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/stripe/stripe-go/v83"

	"krc_coffee_backend/internal/config"
	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/routes"
)

func main() {
	config.Load()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	database.ConnectDatabases()
	defer database.CloseScylla()

	database.InitPreparedStatements()
	initOAuthProviders()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("FRONTEND_URL")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
	}))

	routes.Setup(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 KRC! Coffee backend listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
}

func initOAuthProviders() {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(300)
	store.Options.HttpOnly = true
	gothic.Store = store

	callbackBase := os.Getenv("OAUTH_CALLBACK_URL")
	if callbackBase == "" {
		callbackBase = "http://localhost:8080/api/auth"
	}

	goth.UseProviders(
		google.New(
			os.Getenv("GOOGLE_CLIENT_ID"),
			os.Getenv("GOOGLE_CLIENT_SECRET"),
			callbackBase+"/google/callback",
			"email", "profile",
		),
	)

	log.Println("✅ OAuth providers initialized")
}
