// Package credits implements the "Artistic Time" credit ledger: a
// per-user balance split across a monthly subscription pool and a
// time-boxed trial pool, with lazy monthly reset, atomic check-and-
// deduct, and refund-on-failure for feature calls that charge first
// and fail later.
package credits

import (
	"context"
	"log"
	"time"
)

// Ledger owns balance computation and mutation. Every credit-gated
// feature goes through Reserve before doing work and Refund when the
// work fails after the charge.
type Ledger struct {
	store Store
	cfg   Config

	// now is a seam for tests that need to sit on a month boundary.
	now func() time.Time
}

func NewLedger(store Store, cfg Config) *Ledger {
	return &Ledger{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

// CostOf returns the credit cost of a feature (0 for unknown features,
// which are treated as free).
func (l *Ledger) CostOf(f Feature) int {
	return l.cfg.CostOf(f)
}

// TrialGrant returns the configured one-time trial credit amount.
func (l *Ledger) TrialGrant() int {
	return l.cfg.TrialGrant
}

// AllowanceFor returns the monthly credit allowance for a plan.
func (l *Ledger) AllowanceFor(p Plan) int {
	return l.cfg.AllowanceFor(p)
}

// GetBalance returns the account's total spendable credits, applying
// the lazy monthly reset first. Note the read has a write side effect:
// when a month boundary has been crossed, the refreshed monthly balance
// and reset date are persisted before the value is returned, so the
// next call within the same instant sees the same number.
func (l *Ledger) GetBalance(ctx context.Context, userID int64) (int, error) {
	acct, err := l.store.Update(ctx, userID, func(acct *Account) error {
		l.applyMonthlyReset(acct)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return acct.Spendable(), nil
}

// Reserve atomically checks and deducts amount credits. The deduction
// drains the trial pool first: trial credits are forfeited at trial
// expiry, so spending them before monthly credits minimizes waste.
// Returns the new spendable balance on success, and one of:
//   - *InsufficientCreditsError when the account cannot afford amount
//     (no mutation persisted);
//   - ErrAccountNotFound / ErrStorageUnavailable as in GetBalance;
//   - ErrInvalidAmount for negative amounts.
//
// An amount of 0 always succeeds: free features pass through without
// touching either pool.
func (l *Ledger) Reserve(ctx context.Context, userID int64, amount int) (int, error) {
	if amount < 0 {
		return 0, ErrInvalidAmount
	}

	acct, err := l.store.Update(ctx, userID, func(acct *Account) error {
		l.applyMonthlyReset(acct)

		if amount == 0 {
			return nil
		}

		spendable := acct.Spendable()
		if spendable < amount {
			return &InsufficientCreditsError{Required: amount, Available: spendable}
		}

		trialDeduction := 0
		if acct.TrialActive && acct.TrialBalance > 0 {
			trialDeduction = min(amount, acct.TrialBalance)
		}
		acct.TrialBalance -= trialDeduction
		acct.MonthlyBalance -= amount - trialDeduction
		return nil
	})
	if err != nil {
		return 0, err
	}
	return acct.Spendable(), nil
}

// Refund credits amount back after a failed feature call. The refund
// goes wholly into whichever pool is currently active (trial when the
// trial flag is set, monthly otherwise). The original deduction may
// have split across both pools; restoring the exact split is not
// required, only that the total spendable balance is made whole.
// The reason string is for the audit log only.
func (l *Ledger) Refund(ctx context.Context, userID int64, amount int, reason string) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	if amount == 0 {
		return nil
	}

	acct, err := l.store.Update(ctx, userID, func(acct *Account) error {
		if acct.TrialActive {
			acct.TrialBalance += amount
		} else {
			acct.MonthlyBalance += amount
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("credits: refunded %d to user %d (%s), balance now %d", amount, userID, reason, acct.Spendable())
	return nil
}

// ActivateTrial claims the one-time trial grant for an account. It
// fails with ErrTrialAlreadyActive if the trial flag is already set;
// trial expiry is handled by the subscription layer, not here.
func (l *Ledger) ActivateTrial(ctx context.Context, userID int64) (int, error) {
	acct, err := l.store.Update(ctx, userID, func(acct *Account) error {
		if acct.TrialActive {
			return ErrTrialAlreadyActive
		}
		acct.TrialActive = true
		acct.TrialBalance = l.cfg.TrialGrant
		return nil
	})
	if err != nil {
		return 0, err
	}
	return acct.Spendable(), nil
}

// applyMonthlyReset overwrites the monthly pool with the plan's full
// allowance when the stored reset date is missing or in a different
// calendar month. Leftover monthly credits are forfeited, not rolled
// over. A no-op for plans with a zero allowance and within the same
// month, which keeps repeated reads idempotent.
func (l *Ledger) applyMonthlyReset(acct *Account) {
	allowance := l.cfg.AllowanceFor(acct.Plan)
	if allowance == 0 {
		return
	}

	now := l.now()
	if acct.LastResetDate != nil && sameMonth(*acct.LastResetDate, now) {
		return
	}

	acct.MonthlyBalance = allowance
	today := now
	acct.LastResetDate = &today
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
