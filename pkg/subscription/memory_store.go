package subscription

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation for tests and local
// development. Records are copied on the way in and out so callers cannot
// mutate stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[userID]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	return &record, nil
}

func (s *MemoryStore) Upsert(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := *record
	stored.UpdatedAt = now

	if existing, ok := s.records[record.UserID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}

	s.records[record.UserID] = stored
	return nil
}

// Len returns the number of stored records. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
