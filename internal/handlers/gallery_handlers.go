package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/soulbridgeai/soulbridge-golang/internal/models"
	"github.com/soulbridgeai/soulbridge-golang/internal/moderation"
)

//
// --- Wellness Gallery Handlers ---
//

// GalleryPostInput is the body for a new gallery post.
type GalleryPostInput struct {
	Title    string  `json:"title" binding:"required"`
	Body     string  `json:"body" binding:"required"`
	ImageURL *string `json:"imageUrl"`
}

// CreateGalleryPost is the handler for POST /v1/gallery.
// Every post runs through the local filter; what survives goes to the
// manager review queue, optionally pre-flagged by the AI second pass.
func (h *Handlers) CreateGalleryPost(c *gin.Context) {
	userID := currentUserID(c)

	// 1. --- Bind & Validate JSON ---
	var input GalleryPostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Local moderation filter ---
	if result := moderation.Check(input.Title, input.Body); result.Verdict == moderation.VerdictRejected {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "This post can't be shared",
			"reason": result.Rule,
		})
		return
	}

	// 3. --- AI second pass (advisory) ---
	// A model failure must not block posting: the manager queue is
	// the real gate, the flag only orders it.
	status := "pending"
	if flagged, err := h.AI.FlagContent(c.Request.Context(), input.Title+"\n"+input.Body); err != nil {
		logWarn("Gallery AI moderation pass failed", err)
	} else if flagged {
		status = "flagged"
	}

	// 4. --- Insert the post ---
	publicID := uuid.New().String()
	postSlug := slug.Make(input.Title)

	result, err := h.DB.Exec(`
		INSERT INTO gallery_posts
		(public_id, user_id, title, slug, body, image_url, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		publicID, userID, input.Title, postSlug, input.Body, input.ImageURL, status,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save post"})
		return
	}
	postID, _ := result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"id":       postID,
		"publicId": publicID,
		"slug":     postSlug,
		"status":   status,
		"message":  "Post submitted for review",
	})
}

// GetGallery is the handler for GET /v1/gallery (public).
// Only approved posts are visible.
func (h *Handlers) GetGallery(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT p.id, p.public_id, p.user_id, p.title, p.slug, p.body, p.image_url,
		       p.status, p.rejection_reason, p.created_at, p.updated_at, u.display_name
		FROM gallery_posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.status = 'approved'
		ORDER BY p.created_at DESC
		LIMIT 50`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	posts, err := scanGalleryPosts(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan gallery rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetMyGalleryPosts is the handler for GET /v1/gallery/mine.
// Includes pending and rejected posts with their reasons.
func (h *Handlers) GetMyGalleryPosts(c *gin.Context) {
	userID := currentUserID(c)

	rows, err := h.DB.Query(`
		SELECT p.id, p.public_id, p.user_id, p.title, p.slug, p.body, p.image_url,
		       p.status, p.rejection_reason, p.created_at, p.updated_at, u.display_name
		FROM gallery_posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = ?
		ORDER BY p.created_at DESC`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	posts, err := scanGalleryPosts(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan gallery rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

//
// --- Manager: Gallery Review Handlers ---
//

// GetPendingGalleryPosts is the handler for GET /v1/manager/gallery/pending.
// Flagged posts sort first so managers see the risky ones early.
func (h *Handlers) GetPendingGalleryPosts(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT p.id, p.public_id, p.user_id, p.title, p.slug, p.body, p.image_url,
		       p.status, p.rejection_reason, p.created_at, p.updated_at, u.display_name
		FROM gallery_posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.status IN ('pending', 'flagged')
		ORDER BY FIELD(p.status, 'flagged', 'pending'), p.created_at ASC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	posts, err := scanGalleryPosts(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan gallery rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// ApproveGalleryPost is the handler for PATCH /v1/manager/gallery/:id/approve.
func (h *Handlers) ApproveGalleryPost(c *gin.Context) {
	postID := c.Param("id")

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	var authorID int64
	if err := tx.QueryRow(
		"SELECT user_id FROM gallery_posts WHERE id = ? AND status IN ('pending', 'flagged')", postID,
	).Scan(&authorID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found or already reviewed"})
		return
	}

	if _, err := tx.Exec(
		"UPDATE gallery_posts SET status = 'approved', updated_at = NOW() WHERE id = ?", postID,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve post"})
		return
	}

	if err := h.AddNotification(tx, authorID, "Your gallery post was approved 🎉", "/gallery/mine"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to notify author"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit approval"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post approved"})
}

// RejectGalleryPostInput carries the rejection reason shown to the
// author.
type RejectGalleryPostInput struct {
	Reason string `json:"reason" binding:"required"`
}

// RejectGalleryPost is the handler for PATCH /v1/manager/gallery/:id/reject.
func (h *Handlers) RejectGalleryPost(c *gin.Context) {
	postID := c.Param("id")

	var input RejectGalleryPostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	var authorID int64
	if err := tx.QueryRow(
		"SELECT user_id FROM gallery_posts WHERE id = ? AND status IN ('pending', 'flagged')", postID,
	).Scan(&authorID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found or already reviewed"})
		return
	}

	if _, err := tx.Exec(
		"UPDATE gallery_posts SET status = 'rejected', rejection_reason = ?, updated_at = NOW() WHERE id = ?",
		input.Reason, postID,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject post"})
		return
	}

	if err := h.AddNotification(tx, authorID, "Your gallery post was not approved: "+input.Reason, "/gallery/mine"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to notify author"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit rejection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post rejected"})
}

// scanGalleryPosts maps rows from the shared SELECT column list.
func scanGalleryPosts(rows *sql.Rows) ([]*models.GalleryPost, error) {
	var posts []*models.GalleryPost
	for rows.Next() {
		var post models.GalleryPost
		if err := rows.Scan(
			&post.ID, &post.PublicID, &post.UserID, &post.Title, &post.Slug,
			&post.Body, &post.ImageURL, &post.Status, &post.RejectionReason,
			&post.CreatedAt, &post.UpdatedAt, &post.AuthorName,
		); err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}
