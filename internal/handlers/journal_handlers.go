package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soulbridgeai/soulbridge-golang/internal/credits"
	"github.com/soulbridgeai/soulbridge-golang/internal/models"
)

//
// --- Journal & Meditation Handlers ---
//

// allowedAudioExts are the voice note formats we accept.
var allowedAudioExts = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".wav":  true,
	".webm": true,
	".ogg":  true,
}

// JournalEntryInput is the body for a typed journal entry.
type JournalEntryInput struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// CreateJournalEntry is the handler for POST /v1/journal.
// Typed entries are free; only voice and meditation entries spend
// credits.
func (h *Handlers) CreateJournalEntry(c *gin.Context) {
	userID := currentUserID(c)

	var input JournalEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec(`
		INSERT INTO journal_entries (user_id, kind, title, body, created_at, updated_at)
		VALUES (?, 'text', ?, ?, NOW(), NOW())`,
		userID, input.Title, input.Body,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save entry"})
		return
	}
	entryID, _ := result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{"id": entryID})
}

// UploadVoiceJournal is the handler for POST /v1/journal/voice.
// Validates the upload, charges the voice journal cost, and stores the
// audio; if storage fails after the charge, the credits come back.
func (h *Handlers) UploadVoiceJournal(c *gin.Context) {
	userID := currentUserID(c)

	// 1. Get the file from the request
	file, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No audio file uploaded"})
		return
	}

	// 2. Validate size and extension before spending anything
	if file.Size > h.Cfg.MaxUploadMB*1024*1024 {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("Audio file exceeds the %d MB limit", h.Cfg.MaxUploadMB),
		})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAudioExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported audio format: " + ext})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = "Voice note"
	}

	// 3. Reserve credits
	cost, ok := h.chargeFeature(c, userID, credits.FeatureVoiceJournal)
	if !ok {
		return
	}

	// 4. Save the file under a safe unique name
	uploadPath := "./uploads/voice"
	if _, err := os.Stat(uploadPath); os.IsNotExist(err) {
		os.MkdirAll(uploadPath, 0755)
	}
	newFilename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	savePath := filepath.Join(uploadPath, newFilename)

	if err := c.SaveUploadedFile(file, savePath); err != nil {
		h.refundFeature(c, userID, cost, "voice upload save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save audio, credits were not spent"})
		return
	}

	// 5. Record the entry
	result, err := h.DB.Exec(`
		INSERT INTO journal_entries (user_id, kind, title, body, audio_filename, created_at, updated_at)
		VALUES (?, 'voice', ?, '', ?, NOW(), NOW())`,
		userID, title, newFilename,
	)
	if err != nil {
		os.Remove(savePath)
		h.refundFeature(c, userID, cost, "voice entry insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save entry, credits were not spent"})
		return
	}
	entryID, _ := result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"id":          entryID,
		"filename":    newFilename,
		"creditsUsed": cost,
	})
}

// MeditationInput is the body for meditation generation.
type MeditationInput struct {
	Theme   string `json:"theme" binding:"required"`
	Minutes int    `json:"minutes"`
}

// GenerateMeditation is the handler for POST /v1/journal/meditation.
// Long-form content: the script is generated, charged, and stored as a
// journal entry so it can be replayed.
func (h *Handlers) GenerateMeditation(c *gin.Context) {
	userID := currentUserID(c)

	var input MeditationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Minutes <= 0 || input.Minutes > 30 {
		input.Minutes = 10
	}

	cost, ok := h.chargeFeature(c, userID, credits.FeatureMeditation)
	if !ok {
		return
	}

	script, _, err := h.AI.MeditationScript(c.Request.Context(), input.Theme, input.Minutes)
	if err != nil {
		h.refundFeature(c, userID, cost, "meditation generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Meditation studio is unavailable right now, credits were not spent"})
		return
	}

	result, dbErr := h.DB.Exec(`
		INSERT INTO journal_entries (user_id, kind, title, body, duration_secs, created_at, updated_at)
		VALUES (?, 'meditation', ?, ?, ?, NOW(), NOW())`,
		userID, "Meditation: "+input.Theme, script, input.Minutes*60,
	)
	if dbErr != nil {
		// The user has the script on screen; losing the journal copy
		// is not worth failing the request over.
		logWarn("Failed to save meditation entry", dbErr)
		c.JSON(http.StatusOK, gin.H{"script": script, "creditsUsed": cost})
		return
	}
	entryID, _ := result.LastInsertId()

	c.JSON(http.StatusOK, gin.H{
		"id":          entryID,
		"script":      script,
		"creditsUsed": cost,
	})
}

// ListJournalEntries is the handler for GET /v1/journal.
func (h *Handlers) ListJournalEntries(c *gin.Context) {
	userID := currentUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, kind, title, body, audio_filename, duration_secs, created_at, updated_at
		FROM journal_entries
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 100`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var entries []*models.JournalEntry
	for rows.Next() {
		var entry models.JournalEntry
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Kind, &entry.Title, &entry.Body,
			&entry.AudioFilename, &entry.DurationSecs, &entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan journal row"})
			return
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating journal rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
