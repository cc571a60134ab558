package user

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
	"krc_coffee_backend/internal/utils"
)

// BeginOAuth starts the provider flow. gothic reads the provider from the
// :provider query param.
func BeginOAuth(c *gin.Context) {
	q := c.Request.URL.Query()
	q.Set("provider", c.Param("provider"))
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// OAuthCallback finishes the flow, creates the account on first sign-in and
// redirects to the frontend with a JWT
func OAuthCallback(c *gin.Context) {
	q := c.Request.URL.Query()
	q.Set("provider", c.Param("provider"))
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ OAuth callback error: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication failed"})
		return
	}

	u, err := findOrCreateOAuthUser(gothUser)
	if err != nil {
		log.Printf("❌ OAuth account error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Account creation failed"})
		return
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Token generation failed"})
		return
	}

	log.Printf("🔐 OAuth login: %s via %s", u.Email, gothUser.Provider)
	c.Redirect(http.StatusTemporaryRedirect,
		os.Getenv("FRONTEND_URL")+"/auth/callback?token="+token)
}

func findOrCreateOAuthUser(gothUser goth.User) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(gothUser.Email))

	if u, err := FindByEmail(email); err == nil {
		return u, nil
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return models.User{}, err
	}

	userID := gocql.TimeUUID().String()
	now := time.Now()

	prev := map[string]interface{}{}
	applied, err := session.Query(`
		INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`,
		email, userID,
	).MapScanCAS(prev)
	if err != nil {
		return models.User{}, err
	}
	if !applied {
		// Lost the race to a concurrent first sign-in, use the winner
		winner, _ := prev["user_id"].(string)
		return FindByID(winner)
	}

	if err := session.Query(`
		INSERT INTO users (user_id, email, password, name, phone, role, provider, provider_id, reward_points, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, email, "", gothUser.Name, "", models.RoleCustomer, gothUser.Provider, gothUser.UserID, 0, now,
	).Exec(); err != nil {
		return models.User{}, err
	}

	go func() {
		if err := utils.SendWelcomeEmail(email, gothUser.Name); err != nil {
			log.Printf("⚠️ Welcome email error: %v", err)
		}
	}()

	log.Printf("✅ OAuth account created: %s (%s)", email, gothUser.Provider)
	return models.User{
		ID:        userID,
		Name:      gothUser.Name,
		Email:     email,
		Role:      models.RoleCustomer,
		Provider:  gothUser.Provider,
		CreatedAt: now,
	}, nil
}
