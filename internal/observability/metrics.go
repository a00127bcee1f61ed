// Package observability bridges engine lifecycle events into Prometheus
// metrics.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/remaclabs/remac/pkg/domain"
)

// Metrics holds the Prometheus collectors for the engine.
type Metrics struct {
	recordingsStarted prometheus.Counter
	recordingsStopped prometheus.Counter
	callsRecorded     *prometheus.CounterVec
	callsReplayed     *prometheus.CounterVec
	replayDuration    *prometheus.HistogramVec
}

// NewMetrics creates and registers the engine collectors on the given
// registerer. Pass prometheus.DefaultRegisterer for the usual setup.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		recordingsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remac_recordings_started_total",
			Help: "Number of recording sessions started.",
		}),
		recordingsStopped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remac_recordings_stopped_total",
			Help: "Number of recording sessions finalized.",
		}),
		callsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remac_calls_recorded_total",
			Help: "Number of API calls captured into recordings.",
		}, []string{"method"}),
		callsReplayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "remac_calls_replayed_total",
			Help: "Number of API calls replayed, by method and outcome.",
		}, []string{"method", "outcome"}),
		replayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "remac_replay_call_duration_seconds",
			Help:    "Latency of replayed API calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(
		m.recordingsStarted,
		m.recordingsStopped,
		m.callsRecorded,
		m.callsReplayed,
		m.replayDuration,
	)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors. Attach them to
// the engine via remac.WithLifecycleHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRecordingStart: func(ctx context.Context, ev *domain.RecordingEvent) {
			m.recordingsStarted.Inc()
		},
		OnRecordingStop: func(ctx context.Context, ev *domain.RecordingEvent) {
			m.recordingsStopped.Inc()
		},
		OnCallRecorded: func(ctx context.Context, ev *domain.CallEvent) {
			m.callsRecorded.WithLabelValues(string(ev.Method)).Inc()
		},
		OnCallReplayed: func(ctx context.Context, ev *domain.CallEvent) {
			if ev.DryRun {
				return
			}
			outcome := "success"
			if ev.IsError {
				outcome = "error"
			}
			m.callsReplayed.WithLabelValues(string(ev.Method), outcome).Inc()
			if ev.Duration > 0 {
				m.replayDuration.WithLabelValues(string(ev.Method)).Observe(ev.Duration.Seconds())
			}
		},
	}
}

// Merge combines hook sets so metrics and custom hooks can coexist.
func Merge(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		h := h
		if h.OnRecordingStart != nil {
			prev := out.OnRecordingStart
			out.OnRecordingStart = func(ctx context.Context, ev *domain.RecordingEvent) {
				if prev != nil {
					prev(ctx, ev)
				}
				h.OnRecordingStart(ctx, ev)
			}
		}
		if h.OnRecordingStop != nil {
			prev := out.OnRecordingStop
			out.OnRecordingStop = func(ctx context.Context, ev *domain.RecordingEvent) {
				if prev != nil {
					prev(ctx, ev)
				}
				h.OnRecordingStop(ctx, ev)
			}
		}
		if h.OnCallRecorded != nil {
			prev := out.OnCallRecorded
			out.OnCallRecorded = func(ctx context.Context, ev *domain.CallEvent) {
				if prev != nil {
					prev(ctx, ev)
				}
				h.OnCallRecorded(ctx, ev)
			}
		}
		if h.OnCallReplayed != nil {
			prev := out.OnCallReplayed
			out.OnCallReplayed = func(ctx context.Context, ev *domain.CallEvent) {
				if prev != nil {
					prev(ctx, ev)
				}
				h.OnCallReplayed(ctx, ev)
			}
		}
	}
	return out
}
