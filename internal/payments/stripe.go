package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	portal "github.com/stripe/stripe-go/v79/billingportal/session"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/soulbridgeai/soulbridge-golang/internal/config"
)

// Service wraps the Stripe plumbing for subscription billing. The
// handlers own the users table; this package only talks to Stripe and
// to the stripe_customer_id column.
type Service struct {
	DB  *sql.DB
	Cfg *config.Config
}

// New wires the Stripe API key and returns the billing service.
func New(db *sql.DB, cfg *config.Config) *Service {
	stripe.Key = cfg.StripeSecretKey
	return &Service{DB: db, Cfg: cfg}
}

// PriceIDFor maps a plan name to its configured Stripe price. Empty for
// bronze (free) and unknown plans.
func (s *Service) PriceIDFor(plan string) string {
	switch plan {
	case "silver":
		return s.Cfg.StripePriceSilver
	case "gold":
		return s.Cfg.StripePriceGold
	}
	return ""
}

// EnsureCustomer finds or creates a Stripe Customer for the given user
// and persists the ID in users.stripe_customer_id.
func (s *Service) EnsureCustomer(ctx context.Context, userID int64, email string) (string, error) {
	var stripeID sql.NullString
	err := s.DB.QueryRowContext(ctx,
		"SELECT stripe_customer_id FROM users WHERE id = ?", userID,
	).Scan(&stripeID)
	if err != nil {
		return "", err
	}
	if stripeID.Valid && stripeID.String != "" {
		return stripeID.String, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.AddMetadata("user_id", fmt.Sprintf("%d", userID))

	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}

	_, err = s.DB.ExecContext(ctx,
		"UPDATE users SET stripe_customer_id = ? WHERE id = ?", cust.ID, userID,
	)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

// CheckoutURL starts a Checkout Session for upgrading to plan and
// returns the hosted payment page URL.
func (s *Service) CheckoutURL(ctx context.Context, userID int64, email, plan string) (string, error) {
	priceID := s.PriceIDFor(plan)
	if priceID == "" {
		return "", errors.New("payments: no price configured for plan " + plan)
	}

	customerID, err := s.EnsureCustomer(ctx, userID, email)
	if err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.Cfg.CheckoutSuccessURL),
		CancelURL:  stripe.String(s.Cfg.CheckoutCancelURL),
	}
	// Plan metadata goes on both the session (read by the
	// checkout.session.completed webhook) and the subscription (read by
	// later lifecycle events).
	params.AddMetadata("plan", plan)
	params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
		Metadata: map[string]string{"plan": plan},
	}

	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// PortalURL creates a Customer Portal session so the user can manage
// or cancel their subscription.
func (s *Service) PortalURL(ctx context.Context, userID int64) (string, error) {
	var stripeID sql.NullString
	err := s.DB.QueryRowContext(ctx,
		"SELECT stripe_customer_id FROM users WHERE id = ?", userID,
	).Scan(&stripeID)
	if err != nil {
		return "", err
	}
	if !stripeID.Valid || stripeID.String == "" {
		return "", errors.New("payments: user has no stripe customer")
	}

	sess, err := portal.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(stripeID.String),
		ReturnURL: stripe.String(s.Cfg.PortalReturnURL),
	})
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// VerifyEvent checks the webhook signature and parses the event.
func (s *Service) VerifyEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	if s.Cfg.StripeWebhookSecret == "" {
		return stripe.Event{}, errors.New("payments: webhook secret not configured")
	}
	return webhook.ConstructEventWithOptions(
		payload,
		sigHeader,
		s.Cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
}
