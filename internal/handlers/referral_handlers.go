package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soulbridgeai/soulbridge-golang/internal/models"
)

//
// --- Referral Handlers ---
//

// recordReferral credits the referrer for a successful invite and
// stores the redemption row. It is called from Register after the new
// user's row exists; a failure here must not fail the registration, so
// errors are logged and swallowed.
func (h *Handlers) recordReferral(c *gin.Context, referrerID, newUserID int64, code string) {
	// 1. --- Count prior redemptions (sets the reward tier) ---
	var prior int
	if err := h.DB.QueryRow(
		"SELECT COUNT(*) FROM referrals WHERE referrer_id = ?", referrerID,
	).Scan(&prior); err != nil {
		logWarn("Failed to count prior referrals", err)
		return
	}
	reward := models.ReferralRewardFor(prior)

	// 2. --- Store the redemption ---
	if _, err := h.DB.Exec(`
		INSERT INTO referrals
		(referrer_id, referred_user_id, code, reward_credits, created_at)
		VALUES (?, ?, ?, ?, NOW())`,
		referrerID, newUserID, code, reward,
	); err != nil {
		logWarn("Failed to record referral redemption", err)
		return
	}

	// 3. --- Credit the referrer ---
	if err := h.Ledger.Refund(c.Request.Context(), referrerID, reward, "referral_reward"); err != nil {
		logWarn("Failed to credit referral reward", err)
	}
}

// GetMyReferrals is the handler for GET /v1/referrals.
// Returns the user's invite code plus their redemption history and the
// reward their next redemption would earn.
func (h *Handlers) GetMyReferrals(c *gin.Context) {
	userID := currentUserID(c)

	// 1. --- Fetch the user's own invite code ---
	var code string
	if err := h.DB.QueryRow(
		"SELECT referral_code FROM users WHERE id = ?", userID,
	).Scan(&code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load referral code"})
		return
	}

	// 2. --- Fetch redemption history ---
	rows, err := h.DB.Query(`
		SELECT r.id, r.referrer_id, r.referred_user_id, r.code, r.reward_credits,
		       r.created_at, u.display_name
		FROM referrals r
		JOIN users u ON u.id = r.referred_user_id
		WHERE r.referrer_id = ?
		ORDER BY r.created_at DESC`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var referrals []*models.Referral
	var earned int
	for rows.Next() {
		var ref models.Referral
		if err := rows.Scan(
			&ref.ID, &ref.ReferrerID, &ref.ReferredUserID, &ref.Code,
			&ref.RewardCredits, &ref.CreatedAt, &ref.ReferredName,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan referral row"})
			return
		}
		earned += ref.RewardCredits
		referrals = append(referrals, &ref)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating referral rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referralCode":  code,
		"referrals":     referrals,
		"totalEarned":   earned,
		"nextReward":    models.ReferralRewardFor(len(referrals)),
		"totalRedeemed": len(referrals),
	})
}
