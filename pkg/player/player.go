// Package player replays stored Recordings in strict sequential order,
// substituting supplied parameter values and path expressions that pull
// values out of earlier results in the same run.
package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/remaclabs/remac/internal/logging"
	"github.com/remaclabs/remac/pkg/domain"
	"github.com/remaclabs/remac/pkg/ports"
)

// ErrSkipRemaining is the sentinel a BeforeCall hook returns to end the
// run early. Calls already attempted keep their result entries; remaining
// calls are not substituted or issued.
var ErrSkipRemaining = errors.New("skip remaining calls")

// Player replays recordings through an injected call issuer.
type Player struct {
	store  ports.RecordingStore
	issuer ports.CallIssuer
	update ports.ContextUpdater
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures the Player.
type Option func(*Player)

// WithLogger configures a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Player) {
		p.hooks = hooks
	}
}

// WithContextUpdater overrides how prior-call results are keyed into the
// run context for path-expression evaluation.
func WithContextUpdater(update ports.ContextUpdater) Option {
	return func(p *Player) {
		p.update = update
	}
}

// New creates a Player bound to a store and a call issuer.
func New(store ports.RecordingStore, issuer ports.CallIssuer, opts ...Option) *Player {
	p := &Player{
		store:  store,
		issuer: issuer,
		update: DefaultContextUpdater,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefaultContextUpdater stores each completed call under calls.<index> and
// shallow-merges object response data into the top level, so an identifier
// issued by call N is visible to call N+1 both as "id" and as
// "calls.N.data.id".
func DefaultContextUpdater(runCtx map[string]any, callIndex int, call domain.Call, resp *domain.Response) {
	calls, _ := runCtx["calls"].(map[string]any)
	if calls == nil {
		calls = make(map[string]any)
		runCtx["calls"] = calls
	}
	entry := map[string]any{
		"method": string(call.Method),
		"path":   call.Path,
	}
	if resp != nil {
		entry["status"] = resp.Status
		entry["data"] = resp.Data
		if data, ok := resp.Data.(map[string]any); ok {
			for k, v := range data {
				runCtx[k] = v
			}
		}
	}
	calls[strconv.Itoa(callIndex)] = entry
}

// Play loads and validates a recording, then replays it.
// Storage errors and validation errors propagate before any call is issued.
func (p *Player) Play(ctx context.Context, id string, opts Options) ([]Result, error) {
	rec, err := p.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recording %q: %w", id, err)
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("recording %q is malformed: %w", id, err)
	}
	return p.Replay(ctx, rec, opts)
}

// Replay iterates the recording's calls strictly in order. Call N+1 is
// never substituted before call N's result is recorded: later calls may
// reference values only available after earlier ones complete.
func (p *Player) Replay(ctx context.Context, rec *domain.Recording, opts Options) ([]Result, error) {
	runCtx := make(map[string]any, len(opts.Params))
	for k, v := range opts.Params {
		runCtx[k] = v
	}

	results := make([]Result, 0, len(rec.Calls))

	record := func(res Result) *Result {
		results = append(results, res)
		last := &results[len(results)-1]
		if opts.AfterCall != nil {
			opts.AfterCall(ctx, last)
		}
		return last
	}

	for i, call := range rec.Calls {
		substituted, failedToken := p.substitute(call, rec, opts, runCtx)
		if failedToken != "" {
			subErr := &domain.SubstitutionError{CallIndex: i, Token: failedToken}
			p.logger.Warn("substitution failed", "recording", rec.ID, "call", i, "token", failedToken)
			p.emitReplayed(ctx, rec, &substituted, 0, true, opts.DryRun)
			record(Result{
				Call:        substituted,
				Error:       subErr.Error(),
				FailedToken: failedToken,
				DryRun:      opts.DryRun,
			})
			if opts.StopOnError {
				return results, &domain.PlaybackError{CallIndex: i, Err: subErr}
			}
			continue
		}

		if opts.BeforeCall != nil {
			if err := opts.BeforeCall(ctx, &substituted); err != nil {
				if errors.Is(err, ErrSkipRemaining) {
					p.logger.Debug("run ended early by hook", "recording", rec.ID, "call", i)
					break
				}
				record(Result{Call: substituted, Error: err.Error(), DryRun: opts.DryRun})
				if opts.StopOnError {
					return results, &domain.PlaybackError{CallIndex: i, Err: err}
				}
				continue
			}
		}

		if opts.DryRun {
			p.emitReplayed(ctx, rec, &substituted, 0, false, true)
			record(Result{Call: substituted, DryRun: true})
			continue
		}

		start := time.Now()
		resp, err := p.issuer.Issue(ctx, substituted)
		duration := time.Since(start)

		res := Result{Call: substituted, Duration: duration}
		if err != nil {
			res.Error = err.Error()
		} else {
			res.Response = resp
			p.update(runCtx, i, substituted, resp)
		}
		p.emitReplayed(ctx, rec, &substituted, duration, err != nil, false)
		record(res)

		if err != nil && opts.StopOnError {
			return results, &domain.PlaybackError{CallIndex: i, Err: err}
		}
	}

	return results, nil
}

// substitute resolves every template token in the call's path and payload.
// Resolution order: explicit expression, supplied param, run context (so an
// identifier issued by an earlier call resolves with nothing supplied), then
// the parameter's recorded default. It returns the first token that could
// not be resolved, failing only this call.
func (p *Player) substitute(call domain.Call, rec *domain.Recording, opts Options, runCtx map[string]any) (domain.Call, string) {
	ctxJSON, ctxErr := json.Marshal(runCtx)

	query := func(path string) (any, bool) {
		if ctxErr != nil {
			return nil, false
		}
		result := gjson.GetBytes(ctxJSON, path)
		if !result.Exists() {
			return nil, false
		}
		return result.Value(), true
	}

	resolve := func(token string) (any, bool) {
		if expr, marked := opts.Expressions[token]; marked {
			return query(expr)
		}
		if v, ok := opts.Params[token]; ok {
			return v, true
		}
		if v, ok := query(token); ok {
			return v, true
		}
		if param := rec.Parameter(token); param != nil && param.Default != nil {
			return param.Default, true
		}
		return nil, false
	}

	out := call
	var failed string

	out.Path, failed = replaceStringTokens(call.Path, resolve)
	if failed != "" {
		return out, failed
	}

	payload, failedPayload := substituteValue(call.Payload, resolve)
	if failedPayload != "" {
		return out, failedPayload
	}
	out.Payload = payload
	return out, ""
}

func replaceStringTokens(s string, resolve func(string) (any, bool)) (string, string) {
	out, unresolved := domain.ReplaceTokens(s, func(token string) (string, bool) {
		v, ok := resolve(token)
		if !ok {
			return "", false
		}
		return stringifyValue(v), true
	})
	if len(unresolved) > 0 {
		return out, unresolved[0]
	}
	return out, ""
}

// substituteValue walks a payload, replacing tokens inside strings. A
// string consisting of exactly one token is replaced by the resolved value
// with its type preserved.
func substituteValue(v any, resolve func(string) (any, bool)) (any, string) {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			sub, failed := substituteValue(item, resolve)
			if failed != "" {
				return nil, failed
			}
			out[k] = sub
		}
		return out, ""
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			sub, failed := substituteValue(item, resolve)
			if failed != "" {
				return nil, failed
			}
			out[i] = sub
		}
		return out, ""
	case string:
		tokens := domain.Tokens(value)
		if len(tokens) == 0 {
			return value, ""
		}
		if len(tokens) == 1 && value == "{{"+tokens[0]+"}}" {
			resolved, ok := resolve(tokens[0])
			if !ok {
				return nil, tokens[0]
			}
			return resolved, ""
		}
		interpolated, failed := replaceStringTokens(value, resolve)
		if failed != "" {
			return nil, failed
		}
		return interpolated, ""
	default:
		return value, ""
	}
}

func stringifyValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func (p *Player) emitReplayed(ctx context.Context, rec *domain.Recording, call *domain.Call, duration time.Duration, isError, dryRun bool) {
	if p.hooks.OnCallReplayed == nil {
		return
	}
	p.hooks.OnCallReplayed(ctx, &domain.CallEvent{
		Timestamp:   time.Now(),
		Type:        domain.EventCallReplayed,
		RecordingID: rec.ID,
		CallID:      call.ID,
		Method:      call.Method,
		Path:        call.Path,
		Duration:    duration,
		IsError:     isError,
		DryRun:      dryRun,
	})
}
