package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User Model with Pointers for Nullable Fields
type User struct {
	ID           int64  `json:"id" db:"id"`
	Role         string `json:"role" db:"role"` // member, manager
	Status       string `json:"status" db:"status"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	DisplayName  string `json:"displayName" db:"display_name"`

	// Subscription & credit fields. The credits package owns the
	// balance columns; everything else reads plan for tier gating.
	Plan           string     `json:"plan" db:"plan"` // bronze, silver, gold
	MonthlyCredits int        `json:"monthlyCredits" db:"monthly_credits"`
	LastResetDate  *time.Time `json:"lastResetDate,omitempty" db:"last_reset_date"`
	TrialActive    bool       `json:"trialActive" db:"trial_active"`
	TrialCredits   int        `json:"trialCredits" db:"trial_credits"`

	// Referral fields
	ReferralCode *string `json:"referralCode,omitempty" db:"referral_code"`
	ReferredBy   *int64  `json:"referredBy,omitempty" db:"referred_by"`

	StripeCustomerID *string `json:"-" db:"stripe_customer_id"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
