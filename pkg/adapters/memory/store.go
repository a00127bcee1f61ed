package memory

import (
	"context"
	"sync"

	"github.com/remaclabs/remac/pkg/domain"
)

// Store implements ports.RecordingStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Recording
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Recording),
	}
}

// Save persists the recording in memory.
func (s *Store) Save(ctx context.Context, rec *domain.Recording) error {
	// Clone on write so later caller mutations can't reach store state.
	cp := rec.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.ID] = cp
	return nil
}

// Load retrieves a recording from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Recording, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[id]
	if !ok {
		return nil, domain.ErrRecordingNotFound
	}
	return rec.Clone(), nil
}

// List returns all stored recordings.
func (s *Store) List(ctx context.Context) ([]*domain.Recording, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*domain.Recording, 0, len(s.data))
	for _, rec := range s.data {
		recs = append(recs, rec.Clone())
	}
	return recs, nil
}

// Delete removes a recording.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}
