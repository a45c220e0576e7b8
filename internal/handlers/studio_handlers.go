package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soulbridgeai/soulbridge-golang/internal/credits"
)

//
// --- Mini Studio Handlers ---
//

// StudioPromptInput is the request body for mini-studio generation.
type StudioPromptInput struct {
	Mood  string `json:"mood" binding:"required"`
	Style string `json:"style"`
}

// GenerateStudioPack is the handler for POST /v1/studio/pack.
// Generates a small pack of creative writing prompts tuned to the
// user's mood. Mini-studio actions cost more than a chat message.
func (h *Handlers) GenerateStudioPack(c *gin.Context) {
	userID := currentUserID(c)

	var input StudioPromptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cost, ok := h.chargeFeature(c, userID, credits.FeatureMiniStudio)
	if !ok {
		return
	}

	persona := `You are the SoulBridge mini studio. Produce exactly five
		numbered creative prompts (journaling, drawing, or photography)
		matched to the user's mood. No commentary around the list.`
	request := "Mood: " + input.Mood
	if input.Style != "" {
		request += "\nPreferred style: " + input.Style
	}

	pack, _, err := h.AI.CompanionReply(c.Request.Context(), persona, request)
	if err != nil {
		h.refundFeature(c, userID, cost, "studio generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Studio is unavailable right now, credits were not spent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prompts":     pack,
		"creditsUsed": cost,
	})
}

// ImagePromptInput is the request body for image generation.
type ImagePromptInput struct {
	Description string `json:"description" binding:"required"`
}

// GenerateImage is the handler for POST /v1/studio/image.
// The heaviest feature in the cost table. The model produces a refined
// rendering prompt; the actual diffusion call runs on the image
// pipeline downstream of this API.
func (h *Handlers) GenerateImage(c *gin.Context) {
	userID := currentUserID(c)

	var input ImagePromptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cost, ok := h.chargeFeature(c, userID, credits.FeatureImageGeneration)
	if !ok {
		return
	}

	persona := `You turn a user's description into a single detailed,
		safe-for-work image generation prompt. Output the prompt text
		only.`

	prompt, _, err := h.AI.CompanionReply(c.Request.Context(), persona, input.Description)
	if err != nil {
		h.refundFeature(c, userID, cost, "image prompt generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Image studio is unavailable right now, credits were not spent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"renderPrompt": prompt,
		"creditsUsed":  cost,
	})
}
