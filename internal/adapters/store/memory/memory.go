// Package memory provides an in-process ports.KeyValueStore for local runs
// and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jmhodges/clock"

	"github.com/motivationapp/motivation-service/internal/domain"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Store keeps values in a map guarded by a mutex. Expired keys are dropped
// lazily on read.
type Store struct {
	mu    sync.RWMutex
	data  map[string]entry
	clock clock.Clock
}

// New creates an empty store. A nil clock uses the wall clock.
func New(clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.New()
	}

	return &Store{data: make(map[string]entry), clock: clk}
}

// Get returns a copy of the value at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.NewNotFoundError("key", key)
	}

	if !e.expiresAt.IsZero() && !s.clock.Now().Before(e.expiresAt) {
		s.mu.Lock()
		if cur, still := s.data[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.data, key)
		}
		s.mu.Unlock()

		return nil, domain.NewNotFoundError("key", key)
	}

	return append([]byte(nil), e.value...), nil
}

// Set stores a copy of value.
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.clock.Now().Add(ttl)
	}

	s.mu.Lock()
	s.data[key] = e
	s.mu.Unlock()

	return nil
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()

	return nil
}

// Len reports the number of stored keys, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "store" }

// Check implements ports.HealthChecker. The in-process store is always usable.
func (s *Store) Check(context.Context) error { return nil }
