package events

import (
	"context"
	"sync"
)

type inMemoryStore struct {
	mu       sync.RWMutex
	pending  map[string]Transfer
	ordering []string
}

// NewInMemory creates a concurrency-safe in-memory pending-transfer store.
// It backs single-process deployments and unit tests.
func NewInMemory() Store {
	return &inMemoryStore{pending: make(map[string]Transfer)}
}

func (s *inMemoryStore) Add(_ context.Context, transfer Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pending[transfer.ID]; !exists {
		s.ordering = append(s.ordering, transfer.ID)
	}
	s.pending[transfer.ID] = transfer
	return nil
}

func (s *inMemoryStore) Resolve(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pending[id]; !exists {
		return ErrNotFound
	}
	delete(s.pending, id)
	for i, pendingID := range s.ordering {
		if pendingID == id {
			s.ordering = append(s.ordering[:i], s.ordering[i+1:]...)
			break
		}
	}
	return nil
}

func (s *inMemoryStore) Pending(_ context.Context) ([]Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Transfer, 0, len(s.ordering))
	for _, id := range s.ordering {
		out = append(out, s.pending[id])
	}
	return out, nil
}
