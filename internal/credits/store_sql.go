package credits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLStore implements Store on top of the primary MySQL pool. All
// mutation runs inside a single transaction with a SELECT ... FOR UPDATE
// row lock, so two concurrent reservations for the same user serialize
// at the database instead of double-spending.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

func (s *SQLStore) Update(ctx context.Context, userID int64, fn func(acct *Account) error) (Account, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Account{}, fmt.Errorf("%w: begin: %v", ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	acct, err := getAccountForUpdate(ctx, tx, userID)
	if err != nil {
		return Account{}, err
	}

	before := acct
	if err := fn(&acct); err != nil {
		return Account{}, err
	}

	// The reset check runs on every read, so most calls change nothing.
	// Skip the write to keep repeated balance reads from churning rows.
	if acct != before {
		if err := updateAccount(ctx, tx, userID, acct); err != nil {
			return Account{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Account{}, fmt.Errorf("%w: commit: %v", ErrStorageUnavailable, err)
	}
	return acct, nil
}

func getAccountForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (Account, error) {
	var (
		acct      Account
		lastReset sql.NullTime
		trial     sql.NullInt64
	)
	err := tx.QueryRowContext(ctx, `
		SELECT plan, monthly_credits, last_reset_date, trial_active, trial_credits
		FROM users
		WHERE id = ?
		FOR UPDATE`, userID,
	).Scan(&acct.Plan, &acct.MonthlyBalance, &lastReset, &acct.TrialActive, &trial)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("%w: select: %v", ErrStorageUnavailable, err)
	}

	acct.UserID = userID
	if lastReset.Valid {
		t := lastReset.Time
		acct.LastResetDate = &t
	}
	if trial.Valid {
		acct.TrialBalance = int(trial.Int64)
	}
	return acct, nil
}

func updateAccount(ctx context.Context, tx *sql.Tx, userID int64, acct Account) error {
	var lastReset sql.NullTime
	if acct.LastResetDate != nil {
		lastReset = sql.NullTime{Time: *acct.LastResetDate, Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET monthly_credits = ?, last_reset_date = ?, trial_active = ?, trial_credits = ?
		WHERE id = ?`,
		acct.MonthlyBalance, lastReset, acct.TrialActive, acct.TrialBalance, userID,
	)
	if err != nil {
		return fmt.Errorf("%w: update: %v", ErrStorageUnavailable, err)
	}
	return nil
}
