package domain

import (
	"errors"
	"fmt"
)

// ErrRecordingActive is returned when a recording session is started while
// another one is already in progress. Recording is exclusive per Recorder.
var ErrRecordingActive = errors.New("a recording is already active")

// ErrNoActiveRecording is returned by stop/pause/resume when nothing is being recorded.
var ErrNoActiveRecording = errors.New("no active recording")

// ErrRecordingNotFound is returned when a recording ID cannot be found in the store.
var ErrRecordingNotFound = errors.New("recording not found")

// ErrNoIssuer is returned when playback is attempted on an engine that was
// built without a call issuer.
var ErrNoIssuer = errors.New("no call issuer configured")

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // Field name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

// SubstitutionError reports a template token that could not be resolved
// during playback. It fails the affected call only, unless the run was
// started with StopOnError.
type SubstitutionError struct {
	CallIndex int
	Token     string
}

func (e *SubstitutionError) Error() string {
	return fmt.Sprintf("call %d: could not substitute {{%s}}", e.CallIndex, e.Token)
}

// PlaybackError wraps the failure that halted a StopOnError run, identifying
// the failing call's index.
type PlaybackError struct {
	CallIndex int
	Err       error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback halted at call %d: %v", e.CallIndex, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}
