package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Legal Document Handlers ---
//

// GetLegalDocument is the handler for GET /v1/legal/:slug (public).
// Serves the current version of a policy document (terms-of-service,
// privacy-policy, community-guidelines).
func (h *Handlers) GetLegalDocument(c *gin.Context) {
	docSlug := c.Param("slug")

	var (
		title, body, version string
		effectiveDate        sql.NullTime
	)
	err := h.DB.QueryRow(`
		SELECT title, body, version, effective_date
		FROM legal_documents
		WHERE slug = ? AND is_current = 1`, docSlug,
	).Scan(&title, &body, &version, &effectiveDate)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	resp := gin.H{
		"slug":    docSlug,
		"title":   title,
		"body":    body,
		"version": version,
	}
	if effectiveDate.Valid {
		resp["effectiveDate"] = effectiveDate.Time.Format("2006-01-02")
	}

	c.JSON(http.StatusOK, resp)
}

// ListLegalDocuments is the handler for GET /v1/legal (public).
// Returns the catalog of current documents without their bodies.
func (h *Handlers) ListLegalDocuments(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT slug, title, version
		FROM legal_documents
		WHERE is_current = 1
		ORDER BY slug`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	type docListing struct {
		Slug    string `json:"slug"`
		Title   string `json:"title"`
		Version string `json:"version"`
	}
	var docs []docListing
	for rows.Next() {
		var d docListing
		if err := rows.Scan(&d.Slug, &d.Title, &d.Version); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan document row"})
			return
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating document rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

//
// --- Health Handler ---
//

// HealthCheck is the handler for GET /v1/health (public).
// Reports database reachability and whether the AI client is wired.
func (h *Handlers) HealthCheck(c *gin.Context) {
	overall := "healthy"
	status := http.StatusOK

	dbStatus := "ok"
	if err := h.DB.PingContext(c.Request.Context()); err != nil {
		dbStatus = "unreachable"
		overall = "degraded"
		status = http.StatusServiceUnavailable
	}

	aiStatus := "ok"
	if h.AI == nil || h.AI.Client == nil {
		aiStatus = "not configured"
	}

	c.JSON(status, gin.H{
		"status":   overall,
		"database": dbStatus,
		"ai":       aiStatus,
	})
}
