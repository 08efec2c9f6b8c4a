package pending

import (
	"context"
	"errors"
	"sync"
	"time"

	"greeting-sender/internal/domain"
)

type memoryEntry struct {
	tx        domain.PendingTransaction
	expiresAt time.Time
}

// memoryStore keeps entries in process memory. Entries do not survive a cold
// start, so it only suits tests and local runs.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func newMemoryStore(ttl time.Duration, now func() time.Time) *memoryStore {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Put implements Store.
func (s *memoryStore) Put(_ context.Context, tx domain.PendingTransaction) error {
	if tx.Token == "" {
		return errors.New("pending: token is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)
	s.entries[tx.Token] = memoryEntry{tx: tx, expiresAt: now.Add(s.ttl)}
	return nil
}

// Take implements Store.
func (s *memoryStore) Take(_ context.Context, token string) (domain.PendingTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return domain.PendingTransaction{}, ErrNotFound
	}
	delete(s.entries, token)
	if !s.now().Before(e.expiresAt) {
		return domain.PendingTransaction{}, ErrNotFound
	}
	return e.tx, nil
}

// Close implements Store.
func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	return nil
}

func (s *memoryStore) evictLocked(now time.Time) {
	for token, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, token)
		}
	}
}
