package player_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remaclabs/remac/pkg/adapters/memory"
	"github.com/remaclabs/remac/pkg/domain"
	"github.com/remaclabs/remac/pkg/player"
	"github.com/remaclabs/remac/pkg/ports"
)

// recordingIssuer captures everything issued and replies from a script.
type recordingIssuer struct {
	calls     []domain.Call
	responses []*domain.Response
	errs      []error
}

func (ri *recordingIssuer) Issue(ctx context.Context, call domain.Call) (*domain.Response, error) {
	idx := len(ri.calls)
	ri.calls = append(ri.calls, call)
	var resp *domain.Response
	var err error
	if idx < len(ri.responses) {
		resp = ri.responses[idx]
	}
	if idx < len(ri.errs) {
		err = ri.errs[idx]
	}
	if resp == nil && err == nil {
		resp = &domain.Response{Status: 200}
	}
	return resp, err
}

func storeWith(t *testing.T, rec *domain.Recording) ports.RecordingStore {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Save(context.Background(), rec))
	return store
}

func regionRecording() *domain.Recording {
	return &domain.Recording{
		ID:   "macro-1",
		Name: "Region Macro",
		Calls: []domain.Call{
			{ID: 1, Method: domain.MethodGet, Path: "/zones/{{region}}/status"},
			{ID: 2, Method: domain.MethodPost, Path: "/zones/sync"},
		},
		Parameters: []domain.Parameter{
			{Name: "region", Type: domain.TypeString, Required: true, Path: "/zones/{{region}}/status"},
		},
	}
}

func TestPlay_SubstitutesParams(t *testing.T) {
	issuer := &recordingIssuer{}
	p := player.New(storeWith(t, regionRecording()), issuer)

	results, err := p.Play(context.Background(), "macro-1", player.Options{
		Params: map[string]any{"region": "eu-west"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "/zones/eu-west/status", issuer.calls[0].Path)
	assert.False(t, results[0].Failed())
}

func TestPlay_UnresolvedToken(t *testing.T) {
	t.Run("Continue", func(t *testing.T) {
		issuer := &recordingIssuer{}
		p := player.New(storeWith(t, regionRecording()), issuer)

		results, err := p.Play(context.Background(), "macro-1", player.Options{})
		require.NoError(t, err, "without StopOnError the run completes")
		require.Len(t, results, 2)

		assert.Equal(t, "region", results[0].FailedToken)
		assert.True(t, results[0].Failed())
		assert.False(t, results[1].Failed())
		// Only the second call reached the issuer.
		require.Len(t, issuer.calls, 1)
		assert.Equal(t, "/zones/sync", issuer.calls[0].Path)
	})

	t.Run("StopOnError", func(t *testing.T) {
		issuer := &recordingIssuer{}
		p := player.New(storeWith(t, regionRecording()), issuer)

		results, err := p.Play(context.Background(), "macro-1", player.Options{StopOnError: true})
		require.Error(t, err)

		var pbErr *domain.PlaybackError
		require.ErrorAs(t, err, &pbErr)
		assert.Equal(t, 0, pbErr.CallIndex)

		var subErr *domain.SubstitutionError
		require.ErrorAs(t, err, &subErr)
		assert.Equal(t, "region", subErr.Token)

		require.Len(t, results, 1)
		assert.Empty(t, issuer.calls)
	})
}

func TestPlay_DefaultFallback(t *testing.T) {
	rec := &domain.Recording{
		ID:   "macro-2",
		Name: "Defaulted",
		Calls: []domain.Call{
			{ID: 1, Method: domain.MethodPost, Path: "/firewall/aliases", Payload: map[string]any{
				"address": "{{address}}",
			}},
		},
		Parameters: []domain.Parameter{
			{Name: "address", Type: domain.TypeString, Default: "10.0.0.5", Path: "address"},
		},
	}

	issuer := &recordingIssuer{}
	p := player.New(storeWith(t, rec), issuer)

	// No param supplied; the recorded default applies.
	_, err := p.Play(context.Background(), "macro-2", player.Options{})
	require.NoError(t, err)

	payload, ok := issuer.calls[0].Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.5", payload["address"])
}

func TestPlay_DryRun(t *testing.T) {
	issuer := &recordingIssuer{}
	p := player.New(storeWith(t, regionRecording()), issuer)

	results, err := p.Play(context.Background(), "macro-1", player.Options{
		Params: map[string]any{"region": "eu-west"},
		DryRun: true,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Empty(t, issuer.calls, "dry run must not issue calls")
	for _, res := range results {
		assert.True(t, res.DryRun)
		assert.False(t, res.Failed())
		assert.Zero(t, res.Duration)
	}
	// Substitution still happened.
	assert.Equal(t, "/zones/eu-west/status", results[0].Call.Path)
}

func TestPlay_DryRunEmitsFlaggedEvents(t *testing.T) {
	issuer := &recordingIssuer{}
	var events []*domain.CallEvent
	p := player.New(storeWith(t, regionRecording()), issuer, player.WithHooks(domain.LifecycleHooks{
		OnCallReplayed: func(ctx context.Context, ev *domain.CallEvent) {
			events = append(events, ev)
		},
	}))

	_, err := p.Play(context.Background(), "macro-1", player.Options{
		Params: map[string]any{"region": "eu-west"},
		DryRun: true,
	})
	require.NoError(t, err)

	require.Len(t, events, 2)
	for _, ev := range events {
		assert.True(t, ev.DryRun)
		assert.False(t, ev.IsError)
	}

	// A live run emits unflagged events.
	events = nil
	_, err = p.Play(context.Background(), "macro-1", player.Options{
		Params: map[string]any{"region": "eu-west"},
	})
	require.NoError(t, err)

	require.Len(t, events, 2)
	for _, ev := range events {
		assert.False(t, ev.DryRun)
	}
}

func TestPlay_ExpressionChainsCalls(t *testing.T) {
	created := "1b7a387e-8a29-4f58-9c1f-d3b0f7a8c441"
	rec := &domain.Recording{
		ID:   "macro-3",
		Name: "Create Then Get",
		Calls: []domain.Call{
			{ID: 1, Method: domain.MethodPost, Path: "/firewall/rules"},
			{ID: 2, Method: domain.MethodGet, Path: "/firewall/rules/{{ruleId}}"},
		},
		Parameters: []domain.Parameter{
			{Name: "ruleId", Type: domain.TypeString, Path: "/firewall/rules/{{ruleId}}"},
		},
	}

	issuer := &recordingIssuer{
		responses: []*domain.Response{
			{Status: 200, Data: map[string]any{"uuid": created}},
			{Status: 200, Data: map[string]any{"enabled": "1"}},
		},
	}
	p := player.New(storeWith(t, rec), issuer)

	results, err := p.Play(context.Background(), "macro-3", player.Options{
		Expressions: map[string]string{"ruleId": "calls.0.data.uuid"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "/firewall/rules/"+created, issuer.calls[1].Path)
}

func TestPlay_ExpressionTopLevelMerge(t *testing.T) {
	created := "9f2c1d34-0000-4f58-9c1f-d3b0f7a8c441"
	rec := &domain.Recording{
		ID:   "macro-4",
		Name: "Merged Context",
		Calls: []domain.Call{
			{ID: 1, Method: domain.MethodPost, Path: "/firewall/rules"},
			{ID: 2, Method: domain.MethodDelete, Path: "/firewall/rules/{{ruleId}}"},
		},
		Parameters: []domain.Parameter{
			{Name: "ruleId", Type: domain.TypeString, Path: "/firewall/rules/{{ruleId}}"},
		},
	}

	issuer := &recordingIssuer{
		responses: []*domain.Response{
			{Status: 200, Data: map[string]any{"uuid": created}},
			{Status: 200},
		},
	}
	p := player.New(storeWith(t, rec), issuer)

	// Object response data is merged into the top level too.
	_, err := p.Play(context.Background(), "macro-4", player.Options{
		Expressions: map[string]string{"ruleId": "uuid"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/firewall/rules/"+created, issuer.calls[1].Path)
}

func TestPlay_ContextFallbackWithoutOptions(t *testing.T) {
	created := "11111111-1111-1111-1111-111111111111"
	rec := &domain.Recording{
		ID:   "macro-6",
		Name: "Create Then Read",
		Calls: []domain.Call{
			{ID: 1, Method: domain.MethodPost, Path: "/items", Payload: map[string]any{"name": "Foo"}},
			{ID: 2, Method: domain.MethodGet, Path: "/items/{{id}}"},
		},
		Parameters: []domain.Parameter{
			{Name: "id", Type: domain.TypeString, Required: true, Path: "/items/{{id}}"},
		},
	}

	issuer := &recordingIssuer{
		responses: []*domain.Response{
			{Status: 201, Data: map[string]any{"id": created}},
			{Status: 200},
		},
	}
	p := player.New(storeWith(t, rec), issuer)

	// No params, no expressions: the id issued by call 1 resolves from the
	// run context on its own.
	results, err := p.Play(context.Background(), "macro-6", player.Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[1].Failed())
	assert.Equal(t, "/items/"+created, issuer.calls[1].Path)
}

func TestPlay_StopOnIssuerError(t *testing.T) {
	rec := regionRecording()
	issuer := &recordingIssuer{
		errs: []error{fmt.Errorf("api returned status 500")},
	}
	p := player.New(storeWith(t, rec), issuer)

	results, err := p.Play(context.Background(), "macro-1", player.Options{
		Params:      map[string]any{"region": "eu-west"},
		StopOnError: true,
	})
	require.Error(t, err)

	var pbErr *domain.PlaybackError
	require.ErrorAs(t, err, &pbErr)
	assert.Equal(t, 0, pbErr.CallIndex)
	require.Len(t, results, 1)
	assert.True(t, results[0].Failed())
}

func TestPlay_SkipRemaining(t *testing.T) {
	issuer := &recordingIssuer{}
	p := player.New(storeWith(t, regionRecording()), issuer)

	results, err := p.Play(context.Background(), "macro-1", player.Options{
		Params: map[string]any{"region": "eu-west"},
		BeforeCall: func(ctx context.Context, call *domain.Call) error {
			if call.Path == "/zones/sync" {
				return player.ErrSkipRemaining
			}
			return nil
		},
	})
	require.NoError(t, err)

	require.Len(t, results, 1)
	require.Len(t, issuer.calls, 1)
	assert.Equal(t, "/zones/eu-west/status", issuer.calls[0].Path)
}

func TestPlay_TypePreservation(t *testing.T) {
	rec := &domain.Recording{
		ID:   "macro-5",
		Name: "Typed",
		Calls: []domain.Call{
			{ID: 1, Method: domain.MethodPost, Path: "/firewall/rules", Payload: map[string]any{
				"port":    "{{port}}",
				"comment": "opened port {{port}}",
			}},
		},
		Parameters: []domain.Parameter{
			{Name: "port", Type: domain.TypeNumber, Path: "port"},
		},
	}

	issuer := &recordingIssuer{}
	p := player.New(storeWith(t, rec), issuer)

	_, err := p.Play(context.Background(), "macro-5", player.Options{
		Params: map[string]any{"port": float64(8443)},
	})
	require.NoError(t, err)

	payload, ok := issuer.calls[0].Payload.(map[string]any)
	require.True(t, ok)
	// A whole-token string takes the resolved value's type.
	assert.Equal(t, float64(8443), payload["port"])
	// Mixed strings interpolate textually.
	assert.Equal(t, "opened port 8443", payload["comment"])
}

func TestPlay_MalformedRecording(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Save(context.Background(), &domain.Recording{
		ID:   "bad",
		Name: "", // Name is required
		Calls: []domain.Call{
			{ID: 1, Method: "FETCH", Path: "/x"},
		},
	}))

	p := player.New(store, &recordingIssuer{})
	_, err := p.Play(context.Background(), "bad", player.Options{})
	require.Error(t, err)
	assert.NotEmpty(t, domain.ValidationErrors(err))
}

func TestPlay_AfterCallObservesResults(t *testing.T) {
	issuer := &recordingIssuer{}
	p := player.New(storeWith(t, regionRecording()), issuer)

	var seen []string
	_, err := p.Play(context.Background(), "macro-1", player.Options{
		Params: map[string]any{"region": "eu-west"},
		AfterCall: func(ctx context.Context, result *player.Result) {
			seen = append(seen, result.Call.Path)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/zones/eu-west/status", "/zones/sync"}, seen)
}
