package remac

import (
	"context"
	"log/slog"

	"github.com/remaclabs/remac/internal/logging"
	"github.com/remaclabs/remac/pkg/adapters/memory"
	"github.com/remaclabs/remac/pkg/analyzer"
	"github.com/remaclabs/remac/pkg/domain"
	"github.com/remaclabs/remac/pkg/generator"
	"github.com/remaclabs/remac/pkg/player"
	"github.com/remaclabs/remac/pkg/ports"
	"github.com/remaclabs/remac/pkg/recorder"
)

// Engine is the high-level entry point for the remac library.
// It wires the recorder, analyzer, generator, and player around a shared
// store and call issuer, and provides a simplified API for consumers.
type Engine struct {
	store    ports.RecordingStore
	issuer   ports.CallIssuer
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	recorder *recorder.Recorder
	analyzer *analyzer.Analyzer
	gen      *generator.Generator
	player   *player.Player
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore injects a custom RecordingStore, bypassing the default
// in-memory one.
func WithStore(store ports.RecordingStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithIssuer injects the call issuer used for playback.
// Without one, playback returns an error instead of issuing calls.
func WithIssuer(issuer ports.CallIssuer) Option {
	return func(e *Engine) {
		e.issuer = issuer
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine. By default it records into an in-memory
// store and has no call issuer; hosts embedding the engine inject both.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.issuer == nil {
		eng.issuer = ports.IssuerFunc(func(ctx context.Context, call domain.Call) (*domain.Response, error) {
			return nil, domain.ErrNoIssuer
		})
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.analyzer = analyzer.New(analyzer.WithLogger(eng.logger))
	eng.gen = generator.New(generator.WithLogger(eng.logger))
	eng.recorder = recorder.New(eng.store,
		recorder.WithLogger(eng.logger),
		recorder.WithHooks(eng.hooks),
		recorder.WithAnalyzer(eng.analyzer),
	)
	eng.player = player.New(eng.store, eng.issuer,
		player.WithLogger(eng.logger),
		player.WithHooks(eng.hooks),
	)
	return eng
}

// StartRecording begins an exclusive recording session.
func (e *Engine) StartRecording(name, description string) (string, error) {
	return e.recorder.Start(name, description)
}

// RecordCall appends a call to the active session. No-op when idle or paused.
func (e *Engine) RecordCall(call domain.Call) {
	e.recorder.Record(call)
}

// StopRecording finalizes the active session, runs analysis to populate
// parameters, and persists the result.
func (e *Engine) StopRecording(ctx context.Context) (*domain.Recording, error) {
	rec, err := e.recorder.Stop()
	if err != nil {
		return nil, err
	}
	if err := e.recorder.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// PauseRecording suspends capture for the active session.
func (e *Engine) PauseRecording() error { return e.recorder.Pause() }

// ResumeRecording re-enables capture after a pause.
func (e *Engine) ResumeRecording() error { return e.recorder.Resume() }

// DiscardRecording drops the in-progress session without persisting it.
func (e *Engine) DiscardRecording() { e.recorder.Clear() }

// ActiveRecording reports the in-progress session's ID, if any.
func (e *Engine) ActiveRecording() (string, bool) { return e.recorder.Recording() }

// Macro retrieves a stored recording by ID.
func (e *Engine) Macro(ctx context.Context, id string) (*domain.Recording, error) {
	return e.recorder.Load(ctx, id)
}

// Macros lists all stored recordings.
func (e *Engine) Macros(ctx context.Context) ([]*domain.Recording, error) {
	return e.recorder.List(ctx)
}

// SearchMacros filters stored recordings by name, category, and tags.
func (e *Engine) SearchMacros(ctx context.Context, q ports.Query) ([]*domain.Recording, error) {
	return e.recorder.Search(ctx, q)
}

// SaveMacro persists a recording, e.g. one edited by hand or merged.
func (e *Engine) SaveMacro(ctx context.Context, rec *domain.Recording) error {
	return e.recorder.Save(ctx, rec)
}

// DeleteMacro removes a stored recording.
func (e *Engine) DeleteMacro(ctx context.Context, id string) error {
	return e.recorder.Delete(ctx, id)
}

// Analyze runs heuristic analysis over a stored recording.
func (e *Engine) Analyze(ctx context.Context, id string) (*domain.Analysis, error) {
	rec, err := e.recorder.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.analyzer.Analyze(rec), nil
}

// GenerateTool analyzes a stored recording and synthesizes its tool
// definition.
func (e *Engine) GenerateTool(ctx context.Context, id string) (*domain.ToolDefinition, error) {
	rec, err := e.recorder.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.gen.Generate(rec, e.analyzer.Analyze(rec))
}

// Play replays a stored recording with the given options.
func (e *Engine) Play(ctx context.Context, id string, opts player.Options) ([]player.Result, error) {
	return e.player.Play(ctx, id, opts)
}

// Merge combines stored recordings into a new persisted macro.
func (e *Engine) Merge(ctx context.Context, name string, ids ...string) (*domain.Recording, error) {
	recs := make([]*domain.Recording, 0, len(ids))
	for _, id := range ids {
		rec, err := e.recorder.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	merged := recorder.Merge(name, recs...)
	if err := e.recorder.Save(ctx, merged); err != nil {
		return nil, err
	}
	return merged, nil
}
