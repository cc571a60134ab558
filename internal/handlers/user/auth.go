package user

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"krc_coffee_backend/internal/database"
	"krc_coffee_backend/internal/models"
	"krc_coffee_backend/internal/utils"
)

// Register creates a local account. The email lookup table gives us the
// uniqueness check.
func Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Phone    string `json:"phone"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload: " + err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var existingID string
	if err := session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, email).
		Scan(&existingID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "An account with this email already exists"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ Password hash error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Account creation failed"})
		return
	}

	userID := gocql.TimeUUID().String()
	now := time.Now()

	// Claim the email first, LWT makes concurrent registrations lose cleanly
	applied, err := session.Query(`
		INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`,
		email, userID,
	).MapScanCAS(map[string]interface{}{})
	if err != nil {
		log.Printf("❌ Email claim error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Account creation failed"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "An account with this email already exists"})
		return
	}

	if err := session.Query(`
		INSERT INTO users (user_id, email, password, name, phone, role, provider, reward_points, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, email, hash, req.Name, req.Phone, models.RoleCustomer, "local", 0, now,
	).Exec(); err != nil {
		log.Printf("❌ User insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Account creation failed"})
		return
	}

	u := models.User{
		ID:           userID,
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		Role:         models.RoleCustomer,
		Provider:     "local",
		RewardPoints: 0,
		CreatedAt:    now,
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		log.Printf("❌ JWT error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Token generation failed"})
		return
	}

	go func() {
		if err := utils.SendWelcomeEmail(email, req.Name); err != nil {
			log.Printf("⚠️ Welcome email error: %v", err)
		}
	}()

	utils.LogAction(c, "register", "user", userID, nil, map[string]interface{}{"email": email})
	log.Printf("✅ Account created: %s (%s)", email, userID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "data": u})
}

// Login checks credentials and issues a JWT
func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := FindByEmail(email)
	if err != nil {
		utils.LogFailedAction(c, "login", "user", email, "unknown email")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	if u.Provider != "local" || u.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Use " + u.Provider + " sign-in for this account"})
		return
	}

	ok, err := utils.VerifyPassword(req.Password, u.Password)
	if err != nil || !ok {
		utils.LogFailedAction(c, "login", "user", u.ID, "bad password")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		log.Printf("❌ JWT error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Token generation failed"})
		return
	}

	utils.LogAction(c, "login", "user", u.ID, nil, nil)
	log.Printf("🔐 Login: %s", email)

	u.Password = ""
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "data": u})
}

// FindByEmail resolves a user through the email lookup table
func FindByEmail(email string) (models.User, error) {
	q := database.GetPreparedGetUserByEmail()
	if q == nil {
		return models.User{}, gocql.ErrNoConnections
	}
	var userID string
	if err := q.Bind(email).Scan(&userID); err != nil {
		return models.User{}, err
	}
	return FindByID(userID)
}

// FindByID loads the full user row
func FindByID(userID string) (models.User, error) {
	q := database.GetPreparedGetUserByID()
	if q == nil {
		return models.User{}, gocql.ErrNoConnections
	}
	u := models.User{ID: userID}
	err := q.Bind(userID).Scan(
		&u.Email, &u.Password, &u.Name, &u.Phone, &u.Role, &u.Provider, &u.RewardPoints)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}
