package ports

import (
	"context"

	"github.com/remaclabs/remac/pkg/domain"
)

// CallIssuer issues one API call against the target system.
// The engine never constructs its own transport: the host environment
// supplies an implementation (see pkg/adapters/rest for the HTTP one).
type CallIssuer interface {
	Issue(ctx context.Context, call domain.Call) (*domain.Response, error)
}

// IssuerFunc adapts a function to the CallIssuer interface.
type IssuerFunc func(ctx context.Context, call domain.Call) (*domain.Response, error)

// Issue implements CallIssuer.
func (f IssuerFunc) Issue(ctx context.Context, call domain.Call) (*domain.Response, error) {
	return f(ctx, call)
}

// ContextUpdater merges a completed call's result into the playback context.
// It is invoked once per completed call, in call order, with the same context
// map for the whole run.
type ContextUpdater func(runCtx map[string]any, callIndex int, call domain.Call, resp *domain.Response)
