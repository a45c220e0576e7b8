package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soulbridgeai/soulbridge-golang/internal/ai"
	"github.com/soulbridgeai/soulbridge-golang/internal/config"
	"github.com/soulbridgeai/soulbridge-golang/internal/credits"
	"github.com/soulbridgeai/soulbridge-golang/internal/payments"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB      *sql.DB           // Primary Read/Write connection
	AI      *ai.Service       // Gemini-backed companion/moderation service
	Ledger  *credits.Ledger   // Artistic Time credit ledger
	Billing *payments.Service // Stripe subscription billing
	Cfg     *config.Config
}

// logWarn records a non-fatal problem the request survived.
func logWarn(msg string, err error) {
	log.Printf("Warning: %s: %v", msg, err)
}

// currentUserID reads the user ID set by AuthMiddleware.
func currentUserID(c *gin.Context) int64 {
	raw, _ := c.Get("userID")
	id, _ := raw.(int64)
	return id
}

// currentUserPlan reads the plan set by AuthMiddleware.
func currentUserPlan(c *gin.Context) string {
	raw, _ := c.Get("userPlan")
	plan, _ := raw.(string)
	return plan
}

// chargeFeature reserves the feature's credit cost before gated work
// runs. On failure it writes the error response and returns ok=false;
// the caller must simply return. On success the caller does the work
// and, if the work fails, refunds the returned cost.
//
// Failure mapping follows the ledger contract: insufficient credits is
// a user-facing 402 carrying the deficit; anything ambiguous (storage
// down, account missing) denies the feature. Never fail open.
func (h *Handlers) chargeFeature(c *gin.Context, userID int64, feature credits.Feature) (int, bool) {
	cost := h.Ledger.CostOf(feature)

	_, err := h.Ledger.Reserve(c.Request.Context(), userID, cost)
	if err == nil {
		return cost, true
	}

	if ice, ok := credits.IsInsufficient(err); ok {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":     "Not enough Artistic Time for this feature",
			"required":  ice.Required,
			"available": ice.Available,
		})
		return 0, false
	}

	if errors.Is(err, credits.ErrAccountNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
		return 0, false
	}

	// Storage failure or anything unexpected: deny without leaking
	// balance state.
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable, please try again"})
	return 0, false
}

// refundFeature returns credits after gated work failed. The user
// already got an error for the work itself, so a refund failure is
// only logged: the next support ticket has the audit trail.
func (h *Handlers) refundFeature(c *gin.Context, userID int64, cost int, reason string) {
	if cost == 0 {
		return
	}
	if err := h.Ledger.Refund(c.Request.Context(), userID, cost, reason); err != nil {
		log.Printf("Warning: refund of %d credits failed for user %d (%s): %v", cost, userID, reason, err)
	}
}
