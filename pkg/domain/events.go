package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRecordingStart EventType = "recording_start"
	EventRecordingStop  EventType = "recording_stop"
	EventCallRecorded   EventType = "call_recorded"
	EventCallReplayed   EventType = "call_replayed"
)

// RecordingEvent marks the start or finalization of a recording session.
type RecordingEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        EventType `json:"type"`
	RecordingID string    `json:"recording_id"`
	CallCount   int       `json:"call_count"`
}

// CallEvent describes a recorded or replayed call.
type CallEvent struct {
	Timestamp   time.Time     `json:"timestamp"`
	Type        EventType     `json:"type"`
	RecordingID string        `json:"recording_id"`
	CallID      int           `json:"call_id"`
	Method      Method        `json:"method"`
	Path        string        `json:"path"`
	Duration    time.Duration `json:"duration,omitempty"`
	IsError     bool          `json:"is_error,omitempty"`
	DryRun      bool          `json:"dry_run,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// All hooks are optional.
type LifecycleHooks struct {
	OnRecordingStart func(context.Context, *RecordingEvent)
	OnRecordingStop  func(context.Context, *RecordingEvent)
	OnCallRecorded   func(context.Context, *CallEvent)
	OnCallReplayed   func(context.Context, *CallEvent)
}
