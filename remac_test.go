package remac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remaclabs/remac"
	"github.com/remaclabs/remac/pkg/domain"
	"github.com/remaclabs/remac/pkg/player"
	"github.com/remaclabs/remac/pkg/ports"
)

func TestEngine_RecordAnalyzeGeneratePlay(t *testing.T) {
	ctx := context.Background()

	var issued []domain.Call
	engine := remac.New(
		remac.WithIssuer(ports.IssuerFunc(func(ctx context.Context, call domain.Call) (*domain.Response, error) {
			issued = append(issued, call)
			return &domain.Response{Status: 200, Data: map[string]any{"status": "ok"}}, nil
		})),
	)

	// Record a two-call workflow.
	id, err := engine.StartRecording("Block Host", "Blocks a host on WAN")
	require.NoError(t, err)

	engine.RecordCall(domain.Call{
		Method:  domain.MethodPost,
		Path:    "/firewall/aliases",
		Payload: map[string]any{"address": "10.0.0.5"},
	})
	engine.RecordCall(domain.Call{
		Method: domain.MethodPost,
		Path:   "/firewall/apply",
	})

	rec, err := engine.StopRecording(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	require.Len(t, rec.Calls, 2)

	// Analysis promoted the address.
	require.Len(t, rec.Parameters, 1)
	assert.Equal(t, "address", rec.Parameters[0].Name)

	// The generated tool exposes it.
	def, err := engine.GenerateTool(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "block_host", def.Name)
	assert.Contains(t, def.InputSchema.Properties, "address")

	// Replay with a new value.
	results, err := engine.Play(ctx, id, player.Options{
		Params: map[string]any{"address": "10.0.0.99"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Len(t, issued, 2)

	payload, ok := issued[0].Payload.(map[string]any)
	require.True(t, ok)
	// The recorded literal value stays; substitution targets tokens, and the
	// tool implementation is where payload sites become arguments.
	assert.Equal(t, "10.0.0.5", payload["address"])
}

func TestEngine_PlayWithoutIssuer(t *testing.T) {
	ctx := context.Background()
	engine := remac.New()

	id, err := engine.StartRecording("No Issuer", "")
	require.NoError(t, err)
	engine.RecordCall(domain.Call{Method: domain.MethodGet, Path: "/status"})
	_, err = engine.StopRecording(ctx)
	require.NoError(t, err)

	// Dry runs never touch the issuer.
	results, err := engine.Play(ctx, id, player.Options{DryRun: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].DryRun)

	// Live playback surfaces the missing issuer per call.
	results, err = engine.Play(ctx, id, player.Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Failed())
	assert.Contains(t, results[0].Error, domain.ErrNoIssuer.Error())
}

func TestEngine_MergeMacros(t *testing.T) {
	ctx := context.Background()
	engine := remac.New()

	first, err := engine.StartRecording("First", "")
	require.NoError(t, err)
	engine.RecordCall(domain.Call{Method: domain.MethodPost, Path: "/a"})
	_, err = engine.StopRecording(ctx)
	require.NoError(t, err)

	second, err := engine.StartRecording("Second", "")
	require.NoError(t, err)
	engine.RecordCall(domain.Call{Method: domain.MethodPost, Path: "/b"})
	_, err = engine.StopRecording(ctx)
	require.NoError(t, err)

	merged, err := engine.Merge(ctx, "Both", first, second)
	require.NoError(t, err)
	require.Len(t, merged.Calls, 2)

	loaded, err := engine.Macro(ctx, merged.ID)
	require.NoError(t, err)
	assert.Equal(t, "Both", loaded.Name)
}
