package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soulbridgeai/soulbridge-golang/internal/credits"
	"github.com/soulbridgeai/soulbridge-golang/internal/models"
)

//
// --- Companion Chat Handlers ---
//

// ListCompanions is the handler for GET /v1/companions.
// Returns the static catalog with an availability flag for the
// caller's plan; locked companions still show so the UI can upsell.
func (h *Handlers) ListCompanions(c *gin.Context) {
	plan := currentUserPlan(c)

	type companionView struct {
		models.Companion
		Available bool `json:"available"`
	}

	out := make([]companionView, 0, len(models.CompanionCatalog))
	for _, comp := range models.CompanionCatalog {
		out = append(out, companionView{Companion: comp, Available: comp.AvailableTo(plan)})
	}

	c.JSON(http.StatusOK, gin.H{"companions": out})
}

// ChatInput defines the structure of the JSON request body.
type ChatInput struct {
	CompanionID string `json:"companionId" binding:"required"`
	Message     string `json:"message" binding:"required"`
}

// ChatWithCompanion is the handler for POST /v1/chat.
// The flow every credit-gated feature follows: reserve first, do the
// work, refund if the work fails.
func (h *Handlers) ChatWithCompanion(c *gin.Context) {
	userID := currentUserID(c)
	plan := currentUserPlan(c)

	// 1. --- Parse Input ---
	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Resolve the companion & tier gate ---
	companion := models.FindCompanion(input.CompanionID)
	if companion == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown companion"})
		return
	}
	if !companion.AvailableTo(plan) {
		c.JSON(http.StatusForbidden, gin.H{"error": "This companion requires the " + companion.MinPlan + " plan"})
		return
	}

	// 3. --- Reserve credits ---
	cost, ok := h.chargeFeature(c, userID, credits.FeatureChatMessage)
	if !ok {
		return
	}

	// 4. --- Call the model ---
	reply, tokens, err := h.AI.CompanionReply(c.Request.Context(), companion.Persona, input.Message)
	if err != nil {
		h.refundFeature(c, userID, cost, "chat model call failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Companion is unavailable right now, credits were not spent"})
		return
	}

	// 5. --- Save to History ---
	// The user already has their answer; a history failure is logged
	// by the driver but does not fail the request.
	_, dbErr := h.DB.Exec(`
		INSERT INTO chat_history (user_id, companion_id, user_message, ai_response, tokens_used, credits_used)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, companion.ID, input.Message, reply, tokens, cost,
	)
	if dbErr != nil {
		logWarn("Failed to save chat history", dbErr)
	}

	// 6. --- Return the Answer ---
	c.JSON(http.StatusOK, gin.H{
		"companionId": companion.ID,
		"response":    reply,
		"creditsUsed": cost,
	})
}

// GetChatHistory is the handler for GET /v1/chat/history.
func (h *Handlers) GetChatHistory(c *gin.Context) {
	userID := currentUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, companion_id, user_message, ai_response, tokens_used, credits_used
		FROM chat_history
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT 100`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(
			&msg.ID, &msg.UserID, &msg.CompanionID,
			&msg.UserMessage, &msg.AIResponse, &msg.TokensUsed, &msg.CreditsUsed,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan chat row"})
			return
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating chat rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
