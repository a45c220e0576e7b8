package credits

import "context"

// Store is the persistence boundary of the ledger. Both *sql.DB-backed
// and in-memory implementations exist; the ledger itself never touches
// SQL directly.
type Store interface {
	// Update loads the account row for userID, holds an exclusive lock
	// on it, runs fn against a working copy, and persists whatever fn
	// changed before returning. If fn returns an error nothing is
	// persisted and the same error comes back. Returns
	// ErrAccountNotFound when there is no such row and wraps driver
	// failures in ErrStorageUnavailable.
	//
	// Every read-modify-write of balances must go through here; this
	// is what closes the check-then-act race between two concurrent
	// reservations for the same user.
	Update(ctx context.Context, userID int64, fn func(acct *Account) error) (Account, error)
}
