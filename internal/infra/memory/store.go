package memory

import (
	"context"
	"sync"

	"simulado-service/internal/domain"
)

// Store is an in-memory implementation of app.AggregateStore, seeded with
// the default aggregate the way a fresh backing document would be.
type Store struct {
	mu    sync.RWMutex
	state domain.Aggregate
}

func NewStore() *Store {
	return &Store{state: domain.DefaultAggregate()}
}

// NewStoreWithState seeds the store for tests.
func NewStoreWithState(state domain.Aggregate) *Store {
	return &Store{state: state.Clone()}
}

// Load returns a deep copy so callers can never mutate committed state.
func (s *Store) Load(_ context.Context) (domain.Aggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone(), nil
}

// Save replaces the whole document, last writer wins.
func (s *Store) Save(_ context.Context, agg domain.Aggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = agg.Clone()
	return nil
}
