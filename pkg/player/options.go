package player

import (
	"context"
	"time"

	"github.com/remaclabs/remac/pkg/domain"
)

// Options controls a single playback run.
type Options struct {
	// Params supplies values for plain parameter tokens.
	Params map[string]any `mapstructure:"params"`

	// Expressions marks tokens as path expressions: token name mapped to a
	// query (gjson syntax) evaluated against the run context, which holds
	// the supplied params plus the accumulated results of prior calls.
	Expressions map[string]string `mapstructure:"expressions"`

	// DryRun performs all substitution and collects the would-be calls
	// without invoking the call issuer.
	DryRun bool `mapstructure:"dry_run"`

	// StopOnError halts the run at the first failing call instead of
	// recording the failure and continuing.
	StopOnError bool `mapstructure:"stop_on_error"`

	// BeforeCall runs before each call is issued and may modify it.
	// Returning ErrSkipRemaining ends the run early without an error.
	BeforeCall func(ctx context.Context, call *domain.Call) error `mapstructure:"-"`

	// AfterCall observes each result as it is recorded.
	AfterCall func(ctx context.Context, result *Result) `mapstructure:"-"`
}

// Result is one entry of the per-call result list. Every attempted call
// produces exactly one entry, in original order.
type Result struct {
	// Call is the call after substitution.
	Call domain.Call `json:"call"`

	Response *domain.Response `json:"response,omitempty"`
	Error    string           `json:"error,omitempty"`

	// FailedToken names the template token that could not be substituted,
	// when that is what failed the call.
	FailedToken string `json:"failed_token,omitempty"`

	DryRun   bool          `json:"dry_run,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Failed reports whether this entry records a failure of any kind.
func (r *Result) Failed() bool {
	return r.Error != ""
}
