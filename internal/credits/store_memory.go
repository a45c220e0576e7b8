package credits

import (
	"context"
	"sync"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs the test
// suite and local development without a MySQL instance; the lock gives
// the same serialization guarantee the SQL store gets from FOR UPDATE.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[int64]*Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[int64]*Account)}
}

// Put inserts or replaces an account. Test fixture helper.
func (s *MemoryStore) Put(acct Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := acct
	s.accounts[acct.UserID] = &a
}

// Get returns a copy of the stored account, for assertions.
func (s *MemoryStore) Get(userID int64) (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userID]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

func (s *MemoryStore) Update(ctx context.Context, userID int64, fn func(acct *Account) error) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.accounts[userID]
	if !ok {
		return Account{}, ErrAccountNotFound
	}

	// fn works on a copy so a failed reservation leaves the stored
	// row untouched, matching the SQL store's rollback.
	work := *stored
	if err := fn(&work); err != nil {
		return Account{}, err
	}

	*stored = work
	return work, nil
}
