package ports

import (
	"context"

	"github.com/remaclabs/remac/pkg/domain"
)

// RecordingStore defines the interface for persisting finalized Recordings.
// Implementations must serialize their own writes; the engine may save from
// a recorder while a player loads concurrently.
type RecordingStore interface {
	// Save persists the recording, keyed by its ID.
	Save(ctx context.Context, rec *domain.Recording) error

	// Load retrieves a recording by ID.
	// Returns domain.ErrRecordingNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Recording, error)

	// List returns all stored recordings.
	List(ctx context.Context) ([]*domain.Recording, error)

	// Delete removes a recording. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error
}

// Query filters recordings in a Searcher.
// Empty fields match everything.
type Query struct {
	Name     string
	Category string
	Tags     []string
}

// Searcher is an optional capability of a RecordingStore.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]*domain.Recording, error)
}
