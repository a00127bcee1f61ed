package domain

import (
	"fmt"
	"time"
)

// Recording (a "macro") is a persisted, ordered sequence of Calls plus the
// Parameters inferred for it. Order is load-bearing: later calls may depend
// on values produced by earlier ones.
type Recording struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Created     time.Time         `json:"created"`
	Updated     time.Time         `json:"updated"`
	Calls       []Call            `json:"calls"`
	Parameters  []Parameter       `json:"parameters,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Parameter returns the named parameter, or nil.
func (r *Recording) Parameter(name string) *Parameter {
	for i := range r.Parameters {
		if r.Parameters[i].Name == name {
			return &r.Parameters[i]
		}
	}
	return nil
}

// Validate checks structural integrity of a loaded Recording.
// It returns an AggregateError of field-level ValidationErrors, so a
// malformed macro is rejected before any playback attempt.
func (r *Recording) Validate() error {
	var errs []error

	if r.ID == "" {
		errs = append(errs, &ValidationError{Key: "id", Reason: "must not be empty"})
	}
	if r.Name == "" {
		errs = append(errs, &ValidationError{Key: "name", Reason: "must not be empty"})
	}

	for i, c := range r.Calls {
		if !c.Method.Valid() {
			errs = append(errs, &ValidationError{
				Key:    fmt.Sprintf("calls[%d].method", i),
				Reason: "unknown method",
				Value:  string(c.Method),
			})
		}
		if c.Path == "" {
			errs = append(errs, &ValidationError{
				Key:    fmt.Sprintf("calls[%d].path", i),
				Reason: "must not be empty",
			})
		}
	}

	seen := make(map[string]bool, len(r.Parameters))
	for i, p := range r.Parameters {
		if p.Name == "" {
			errs = append(errs, &ValidationError{
				Key:    fmt.Sprintf("parameters[%d].name", i),
				Reason: "must not be empty",
			})
			continue
		}
		if seen[p.Name] {
			errs = append(errs, &ValidationError{
				Key:    fmt.Sprintf("parameters[%d].name", i),
				Reason: "duplicate parameter name",
				Value:  p.Name,
			})
		}
		seen[p.Name] = true
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Clone returns a deep-enough copy for safe handoff across goroutines.
// Payloads are shared (immutable by contract); slices and maps are copied.
func (r *Recording) Clone() *Recording {
	cp := *r
	cp.Calls = make([]Call, len(r.Calls))
	copy(cp.Calls, r.Calls)
	cp.Parameters = make([]Parameter, len(r.Parameters))
	copy(cp.Parameters, r.Parameters)
	if r.Metadata != nil {
		cp.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
