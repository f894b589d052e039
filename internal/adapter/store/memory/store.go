// Package memory provides an in-process run store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/flight-search/flexible-date-search/internal/domain"
)

// Store keeps runs in a map. Runs are stored and returned as deep copies so
// callers never share state with the store.
type Store struct {
	mu   sync.RWMutex
	runs map[string][]byte
}

// New creates an empty store.
func New() *Store {
	return &Store{runs: make(map[string][]byte)}
}

// Save implements domain.RunStore.
func (s *Store) Save(_ context.Context, run *domain.Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encoding run %s: %w", run.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = data
	return nil
}

// Get implements domain.RunStore.
func (s *Store) Get(_ context.Context, id string) (*domain.Run, error) {
	s.mu.RLock()
	data, ok := s.runs[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
	}

	var run domain.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", id, err)
	}
	return &run, nil
}

// Len returns the number of stored runs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

var _ domain.RunStore = (*Store)(nil)
