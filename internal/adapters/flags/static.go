// Package flags provides a config-backed ports.FeatureFlags.
package flags

import (
	"context"
	"sync"

	"github.com/motivationapp/motivation-service/internal/ports"
)

// Static evaluates flags loaded from configuration. Device overrides take
// precedence when the context carries a flag device.
type Static struct {
	mu        sync.RWMutex
	bools     map[string]bool
	ints      map[string]int
	overrides map[string]map[string]bool
}

// NewStatic copies bools into a new evaluator.
func NewStatic(bools map[string]bool) *Static {
	s := &Static{
		bools:     make(map[string]bool, len(bools)),
		ints:      make(map[string]int),
		overrides: make(map[string]map[string]bool),
	}

	for k, v := range bools {
		s.bools[k] = v
	}

	return s
}

// SetInt registers an integer flag.
func (s *Static) SetInt(flag string, value int) {
	s.mu.Lock()
	s.ints[flag] = value
	s.mu.Unlock()
}

// Override pins a boolean flag for one device.
func (s *Static) Override(deviceID, flag string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.overrides[deviceID] == nil {
		s.overrides[deviceID] = make(map[string]bool)
	}

	s.overrides[deviceID][flag] = enabled
}

func (s *Static) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if device := ports.FlagDevice(ctx); device != "" {
		if v, ok := s.overrides[device][flag]; ok {
			return v
		}
	}

	if v, ok := s.bools[flag]; ok {
		return v
	}

	return defaultValue
}

func (s *Static) GetInt(_ context.Context, flag string, defaultValue int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.ints[flag]; ok {
		return v
	}

	return defaultValue
}
