package credits

import "time"

// Account holds the credit-related fields of a user row.
// It is a subset of the 'users' table: the ledger reads and mutates
// only these columns and nothing else.
type Account struct {
	UserID         int64      `json:"userId" db:"id"`
	Plan           Plan       `json:"plan" db:"plan"`
	MonthlyBalance int        `json:"monthlyBalance" db:"monthly_credits"`
	LastResetDate  *time.Time `json:"lastResetDate,omitempty" db:"last_reset_date"`
	TrialActive    bool       `json:"trialActive" db:"trial_active"`
	TrialBalance   int        `json:"trialBalance" db:"trial_credits"`
}

// Spendable returns the total credits the account can spend right now.
// Trial credits only count while the trial is active; a stale stored
// trial balance is ignored once trial_active is false.
func (a *Account) Spendable() int {
	total := a.MonthlyBalance
	if a.TrialActive {
		total += a.TrialBalance
	}
	if total < 0 {
		return 0
	}
	return total
}
