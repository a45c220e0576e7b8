package credits

import (
	"errors"
	"fmt"
)

var (
	// ErrAccountNotFound means the user has no account row. This is a
	// lookup/authorization failure for the request, never retried.
	ErrAccountNotFound = errors.New("credits: account not found")

	// ErrStorageUnavailable means the database could not be reached or
	// the transaction did not complete. No partial effect is visible:
	// callers must not assume credits were deducted unless they got a
	// success result.
	ErrStorageUnavailable = errors.New("credits: storage unavailable")

	// ErrInvalidAmount means a negative amount was passed to Reserve
	// or Refund.
	ErrInvalidAmount = errors.New("credits: amount must be non-negative")

	// ErrTrialAlreadyActive means the one-time trial grant was already
	// claimed for this account.
	ErrTrialAlreadyActive = errors.New("credits: trial already active")
)

// InsufficientCreditsError is the expected business failure of Reserve:
// the account cannot afford the feature. It carries the amounts so the
// caller can render an upgrade prompt. It is not a system fault and is
// never retried.
type InsufficientCreditsError struct {
	Required  int
	Available int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("credits: insufficient balance: need %d, have %d", e.Required, e.Available)
}

// IsInsufficient reports whether err is an insufficient-credits failure
// and returns the typed error when it is.
func IsInsufficient(err error) (*InsufficientCreditsError, bool) {
	var ice *InsufficientCreditsError
	if errors.As(err, &ice) {
		return ice, true
	}
	return nil, false
}
