// Package recorder captures an ordered sequence of API calls made during a
// live session into a Recording. Recording is exclusive: a Recorder holds
// at most one active Recording, and a second start fails instead of
// queueing or replacing.
package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/remaclabs/remac/internal/logging"
	"github.com/remaclabs/remac/pkg/analyzer"
	"github.com/remaclabs/remac/pkg/domain"
	"github.com/remaclabs/remac/pkg/ports"
)

// Recorder captures calls into an in-progress Recording and manages
// persistence of finalized ones through the injected store.
type Recorder struct {
	store    ports.RecordingStore
	analyzer *analyzer.Analyzer
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	mu     sync.Mutex
	active *domain.Recording
	paused bool
}

// Option configures the Recorder.
type Option func(*Recorder)

// WithLogger configures a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Recorder) {
		r.hooks = hooks
	}
}

// WithAnalyzer overrides the analyzer used to finalize recordings.
func WithAnalyzer(a *analyzer.Analyzer) Option {
	return func(r *Recorder) {
		r.analyzer = a
	}
}

// New creates a Recorder persisting into the given store.
func New(store ports.RecordingStore, opts ...Option) *Recorder {
	r := &Recorder{
		store:    store,
		analyzer: analyzer.New(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins a new recording session and returns its ID.
// Returns domain.ErrRecordingActive if a session is already in progress.
func (r *Recorder) Start(name, description string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return "", domain.ErrRecordingActive
	}

	now := time.Now().UTC()
	r.active = &domain.Recording{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Created:     now,
		Updated:     now,
	}
	r.paused = false

	r.logger.Info("recording started", "id", r.active.ID, "name", name)
	if r.hooks.OnRecordingStart != nil {
		r.hooks.OnRecordingStart(context.Background(), &domain.RecordingEvent{
			Timestamp:   now,
			Type:        domain.EventRecordingStart,
			RecordingID: r.active.ID,
		})
	}
	return r.active.ID, nil
}

// Record appends a call to the active recording, assigning the next ID and
// a timestamp. It is silently ignored when no recording is active or the
// session is paused, so instrumented call sites need no conditional.
func (r *Recorder) Record(call domain.Call) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil || r.paused {
		return
	}

	call.ID = len(r.active.Calls) + 1
	if call.Timestamp.IsZero() {
		call.Timestamp = time.Now().UTC()
	}
	r.active.Calls = append(r.active.Calls, call)
	r.active.Updated = time.Now().UTC()

	if r.hooks.OnCallRecorded != nil {
		r.hooks.OnCallRecorded(context.Background(), &domain.CallEvent{
			Timestamp:   call.Timestamp,
			Type:        domain.EventCallRecorded,
			RecordingID: r.active.ID,
			CallID:      call.ID,
			Method:      call.Method,
			Path:        call.Path,
			Duration:    call.Duration,
			IsError:     call.Failed(),
		})
	}
}

// Stop finalizes the active recording: the analyzer runs and its parameter
// suggestions become the recording's parameters. The finalized recording is
// returned and the active state cleared.
func (r *Recorder) Stop() (*domain.Recording, error) {
	r.mu.Lock()
	rec := r.active
	r.active = nil
	r.paused = false
	r.mu.Unlock()

	if rec == nil {
		return nil, domain.ErrNoActiveRecording
	}

	analysis := r.analyzer.Analyze(rec)
	rec.Parameters = analysis.ParameterSuggestions
	rec.Updated = time.Now().UTC()

	r.logger.Info("recording stopped",
		"id", rec.ID,
		"calls", len(rec.Calls),
		"parameters", len(rec.Parameters))
	if r.hooks.OnRecordingStop != nil {
		r.hooks.OnRecordingStop(context.Background(), &domain.RecordingEvent{
			Timestamp:   rec.Updated,
			Type:        domain.EventRecordingStop,
			RecordingID: rec.ID,
			CallCount:   len(rec.Calls),
		})
	}
	return rec, nil
}

// Pause suspends capture without losing the in-progress recording.
func (r *Recorder) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return domain.ErrNoActiveRecording
	}
	r.paused = true
	return nil
}

// Resume re-enables capture after a Pause.
func (r *Recorder) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return domain.ErrNoActiveRecording
	}
	r.paused = false
	return nil
}

// Clear discards any in-progress recording unconditionally.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = nil
	r.paused = false
}

// Recording reports the active recording's ID and whether one is active.
func (r *Recorder) Recording() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return "", false
	}
	return r.active.ID, true
}

// Save persists a finalized recording. Storage errors always propagate.
func (r *Recorder) Save(ctx context.Context, rec *domain.Recording) error {
	if err := r.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to save recording %q: %w", rec.ID, err)
	}
	return nil
}

// Load retrieves and validates a stored recording.
func (r *Recorder) Load(ctx context.Context, id string) (*domain.Recording, error) {
	rec, err := r.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("recording %q is malformed: %w", id, err)
	}
	return rec, nil
}

// List returns all stored recordings.
func (r *Recorder) List(ctx context.Context) ([]*domain.Recording, error) {
	return r.store.List(ctx)
}

// Delete removes a stored recording.
func (r *Recorder) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

// Search filters stored recordings by name, category, and tags. Stores
// implementing ports.Searcher do the filtering themselves; otherwise the
// list is filtered here.
func (r *Recorder) Search(ctx context.Context, q ports.Query) ([]*domain.Recording, error) {
	if searcher, ok := r.store.(ports.Searcher); ok {
		return searcher.Search(ctx, q)
	}

	recs, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.Recording
	for _, rec := range recs {
		if matchesQuery(rec, q) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func matchesQuery(rec *domain.Recording, q ports.Query) bool {
	if q.Name != "" && !strings.Contains(strings.ToLower(rec.Name), strings.ToLower(q.Name)) {
		return false
	}
	if q.Category != "" && rec.Metadata["category"] != q.Category {
		return false
	}
	if len(q.Tags) > 0 {
		tags := strings.Split(rec.Metadata["tags"], ",")
		for _, want := range q.Tags {
			found := false
			for _, have := range tags {
				if strings.TrimSpace(have) == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}
