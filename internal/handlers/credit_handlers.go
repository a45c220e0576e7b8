package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soulbridgeai/soulbridge-golang/internal/credits"
)

//
// --- Artistic Time (Credit) Handlers ---
//

// GetMyCredits is the handler for GET /v1/credits.
// This read can write: crossing a month boundary refreshes the monthly
// pool before the balance is returned.
func (h *Handlers) GetMyCredits(c *gin.Context) {
	userID := currentUserID(c)

	balance, err := h.Ledger.GetBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, credits.ErrAccountNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable, please try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance": balance,
		"plan":    currentUserPlan(c),
	})
}

// GetFeatureCosts is the handler for GET /v1/credits/costs.
// Public pricing table so the UI can show costs before a click.
func (h *Handlers) GetFeatureCosts(c *gin.Context) {
	features := []credits.Feature{
		credits.FeatureChatMessage,
		credits.FeatureImageGeneration,
		credits.FeatureMeditation,
		credits.FeatureVoiceJournal,
		credits.FeatureMiniStudio,
	}

	costs := make(map[credits.Feature]int, len(features))
	for _, f := range features {
		costs[f] = h.Ledger.CostOf(f)
	}

	c.JSON(http.StatusOK, gin.H{"costs": costs})
}

// StartTrial is the handler for POST /v1/credits/trial.
// One-time per account; the grant lands in the trial pool, which
// deductions drain first.
func (h *Handlers) StartTrial(c *gin.Context) {
	userID := currentUserID(c)

	balance, err := h.Ledger.ActivateTrial(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, credits.ErrTrialAlreadyActive) {
			c.JSON(http.StatusConflict, gin.H{"error": "Trial already claimed"})
			return
		}
		if errors.Is(err, credits.ErrAccountNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable, please try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Trial activated",
		"granted": h.Ledger.TrialGrant(),
		"balance": balance,
	})
}
