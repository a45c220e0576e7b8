package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soulbridgeai/soulbridge-golang/internal/auth"
	"github.com/soulbridgeai/soulbridge-golang/internal/models"
)

//
// --- User Registration & Login ---
//

// RegisterUserInput is the accepted registration payload. It is kept
// separate from models.User so clients can never set role, plan or
// balances directly.
type RegisterUserInput struct {
	DisplayName  string `json:"displayName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	ReferralCode string `json:"referralCode"` // optional invite code
}

// Register is the handler for POST /v1/register.
// New accounts start on the bronze (free) plan with zero credits and no
// trial; the trial and monthly allowance come later through their own
// paths.
func (h *Handlers) Register(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Hash the Password ---
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// 3. --- Resolve the referrer, if a code was supplied ---
	var referrerID *int64
	if input.ReferralCode != "" {
		var id int64
		err := h.DB.QueryRow(
			"SELECT id FROM users WHERE referral_code = ?", strings.TrimSpace(input.ReferralCode),
		).Scan(&id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown referral code"})
			return
		}
		referrerID = &id
	}

	// 4. --- Insert the user ---
	// Every account gets its own referral code up front so the invite
	// page works immediately.
	myCode := strings.ToUpper(uuid.New().String()[:8])
	now := time.Now()

	result, err := h.DB.Exec(`
		INSERT INTO users
		(role, status, email, password_hash, display_name, plan,
		 monthly_credits, trial_active, trial_credits, referral_code, referred_by,
		 created_at, updated_at)
		VALUES ('member', 'active', ?, ?, ?, 'bronze', 0, 0, 0, ?, ?, ?, ?)`,
		input.Email, password.Hash, input.DisplayName, myCode, referrerID, now, now,
	)
	if err != nil {
		// Almost always the unique index on email.
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	}
	userID, _ := result.LastInsertId()

	// 5. --- Record the referral redemption ---
	if referrerID != nil {
		h.recordReferral(c, *referrerID, userID, input.ReferralCode)
	}

	// 6. --- Send Success Response ---
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Account created",
		"userId":       userID,
		"referralCode": myCode,
	})
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/login.
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Look up the user ---
	var (
		userID int64
		status string
		hash   string
	)
	err := h.DB.QueryRow(
		"SELECT id, status, password_hash FROM users WHERE email = ?", input.Email,
	).Scan(&userID, &status, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Same response as a bad password: don't reveal which
			// part was wrong.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	// 3. --- Verify the password ---
	password := models.Password{Hash: hash}
	matches, err := password.Matches(input.Password)
	if err != nil || !matches {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if status == "suspended" {
		c.JSON(http.StatusForbidden, gin.H{"error": "This account is suspended"})
		return
	}

	// 4. --- Issue the token ---
	token, err := auth.GenerateToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetMyProfile is the handler for GET /v1/profile/me.
func (h *Handlers) GetMyProfile(c *gin.Context) {
	userID := currentUserID(c)

	var user models.User
	err := h.DB.QueryRow(`
		SELECT id, role, status, email, display_name, plan,
		       trial_active, referral_code, created_at, updated_at
		FROM users
		WHERE id = ?`, userID,
	).Scan(
		&user.ID, &user.Role, &user.Status, &user.Email, &user.DisplayName,
		&user.Plan, &user.TrialActive, &user.ReferralCode,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	// The balance comes from the ledger, not the raw columns, so the
	// lazy monthly reset applies before the user sees a number.
	balance, err := h.Ledger.GetBalance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable, please try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"credits": balance,
	})
}
