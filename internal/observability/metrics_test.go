package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/remaclabs/remac/internal/observability"
	"github.com/remaclabs/remac/pkg/domain"
)

func TestMetricsHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()

	ctx := context.Background()
	hooks.OnRecordingStart(ctx, &domain.RecordingEvent{RecordingID: "r1"})
	hooks.OnCallRecorded(ctx, &domain.CallEvent{Method: domain.MethodPost})
	hooks.OnCallRecorded(ctx, &domain.CallEvent{Method: domain.MethodGet})
	hooks.OnRecordingStop(ctx, &domain.RecordingEvent{RecordingID: "r1", CallCount: 2})

	hooks.OnCallReplayed(ctx, &domain.CallEvent{Method: domain.MethodPost, Duration: 20 * time.Millisecond})
	hooks.OnCallReplayed(ctx, &domain.CallEvent{Method: domain.MethodGet, IsError: true})
	// Dry runs must not count as replays.
	hooks.OnCallReplayed(ctx, &domain.CallEvent{Method: domain.MethodGet, DryRun: true})

	count, err := testutil.GatherAndCount(reg,
		"remac_recordings_started_total",
		"remac_recordings_stopped_total",
		"remac_calls_recorded_total",
		"remac_calls_replayed_total",
	)
	assert.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestMergeHooks(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{
		OnRecordingStart: func(ctx context.Context, ev *domain.RecordingEvent) {
			order = append(order, "a")
		},
	}
	b := domain.LifecycleHooks{
		OnRecordingStart: func(ctx context.Context, ev *domain.RecordingEvent) {
			order = append(order, "b")
		},
		OnCallRecorded: func(ctx context.Context, ev *domain.CallEvent) {
			order = append(order, "b-call")
		},
	}

	merged := observability.Merge(a, b)
	merged.OnRecordingStart(context.Background(), &domain.RecordingEvent{})
	merged.OnCallRecorded(context.Background(), &domain.CallEvent{})

	assert.Equal(t, []string{"a", "b", "b-call"}, order)
}
