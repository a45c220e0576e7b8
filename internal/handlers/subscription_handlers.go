package handlers

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"

	"github.com/soulbridgeai/soulbridge-golang/internal/credits"
	"github.com/soulbridgeai/soulbridge-golang/internal/models"
)

//
// --- Subscription & Billing Handlers ---
//

// GetSubscriptionPlans is the handler for GET /v1/subscriptions/plans (public).
func (h *Handlers) GetSubscriptionPlans(c *gin.Context) {
	plans := []models.PlanInfo{
		{
			ID:             "bronze",
			Name:           "Bronze",
			PriceUSD:       0,
			MonthlyCredits: h.Ledger.AllowanceFor(credits.PlanBronze),
			Description:    "Free companion chat with trial credits for premium features.",
		},
		{
			ID:             "silver",
			Name:           "Silver",
			PriceUSD:       9.99,
			MonthlyCredits: h.Ledger.AllowanceFor(credits.PlanSilver),
			Description:    "Monthly Artistic Time for images, meditations and the mini studio.",
		},
		{
			ID:             "gold",
			Name:           "Gold",
			PriceUSD:       19.99,
			MonthlyCredits: h.Ledger.AllowanceFor(credits.PlanGold),
			Description:    "The full companion roster and the largest monthly credit allowance.",
		},
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// CheckoutInput is the body for starting a subscription upgrade.
type CheckoutInput struct {
	Plan string `json:"plan" binding:"required,oneof=silver gold"`
}

// CreateCheckoutSession is the handler for POST /v1/subscriptions/checkout.
// Returns the hosted Stripe payment page URL for the requested plan.
func (h *Handlers) CreateCheckoutSession(c *gin.Context) {
	userID := currentUserID(c)

	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var email string
	if err := h.DB.QueryRow("SELECT email FROM users WHERE id = ?", userID).Scan(&email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	url, err := h.Billing.CheckoutURL(c.Request.Context(), userID, email, input.Plan)
	if err != nil {
		logWarn("Stripe checkout session failed", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not start checkout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkoutUrl": url})
}

// CreatePortalSession is the handler for POST /v1/subscriptions/portal.
// Returns the Stripe Customer Portal URL for managing or cancelling.
func (h *Handlers) CreatePortalSession(c *gin.Context) {
	userID := currentUserID(c)

	url, err := h.Billing.PortalURL(c.Request.Context(), userID)
	if err != nil {
		logWarn("Stripe portal session failed", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not open billing portal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"portalUrl": url})
}

// StripeWebhook is the handler for POST /v1/webhooks/stripe (public,
// signature-verified). Plan changes take effect here, not on checkout
// redirect, so a user closing the success page still gets upgraded.
func (h *Handlers) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read payload"})
		return
	}

	event, err := h.Billing.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		logWarn("Stripe webhook signature rejected", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event payload"})
			return
		}
		plan := sess.Metadata["plan"]
		if sess.Customer == nil || plan == "" {
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		if err := h.applyPlanChange(sess.Customer.ID, plan); err != nil {
			logWarn("Failed to apply plan upgrade", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply upgrade"})
			return
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event payload"})
			return
		}
		if sub.Customer == nil {
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		if err := h.applyPlanChange(sub.Customer.ID, "bronze"); err != nil {
			logWarn("Failed to apply plan downgrade", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply downgrade"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// applyPlanChange moves the Stripe customer's user onto the new plan
// and grants the new allowance immediately. Stamping last_reset_date
// keeps the lazy monthly reset from overwriting the grant until the
// next calendar month.
func (h *Handlers) applyPlanChange(stripeCustomerID, plan string) error {
	allowance := h.Ledger.AllowanceFor(credits.Plan(plan))

	result, err := h.DB.Exec(`
		UPDATE users
		SET plan = ?, monthly_credits = ?, last_reset_date = NOW()
		WHERE stripe_customer_id = ?`,
		plan, allowance, stripeCustomerID,
	)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AssignSubscriptionInput is the body for a manual plan assignment.
type AssignSubscriptionInput struct {
	Plan string `json:"plan" binding:"required,oneof=bronze silver gold"`
}

// AssignSubscription is the handler for PATCH /v1/manager/users/:id/plan.
// Lets a manager move a user onto a plan without billing (support
// credits, partner accounts).
func (h *Handlers) AssignSubscription(c *gin.Context) {
	targetID := c.Param("id")

	var input AssignSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	allowance := h.Ledger.AllowanceFor(credits.Plan(input.Plan))

	result, err := h.DB.Exec(`
		UPDATE users
		SET plan = ?, monthly_credits = ?, last_reset_date = NOW()
		WHERE id = ?`,
		input.Plan, allowance, targetID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plan"})
		return
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Plan updated",
		"plan":    input.Plan,
		"credits": allowance,
	})
}
