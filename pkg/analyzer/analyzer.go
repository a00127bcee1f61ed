// Package analyzer classifies a completed Recording and infers the
// parameters worth exposing when the macro is replayed or turned into a
// tool. Detection is heuristic: values are promoted on reuse across call
// sites, or when they match one of a fixed, ordered list of shapes
// (IPv4, domain, UUID, port).
package analyzer

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/remaclabs/remac/internal/logging"
	"github.com/remaclabs/remac/pkg/domain"
	"github.com/remaclabs/remac/pkg/generator"
)

// Analyzer derives an Analysis from a Recording.
// The zero value is not usable; construct with New.
type Analyzer struct {
	matchers []Matcher
	logger   *slog.Logger
}

// Option configures the Analyzer.
type Option func(*Analyzer)

// WithMatchers replaces the default shape matcher list. Matchers are
// evaluated in slice order; the first match wins.
func WithMatchers(matchers []Matcher) Option {
	return func(a *Analyzer) {
		a.matchers = matchers
	}
}

// WithLogger configures a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// New creates an Analyzer with the default shape matchers.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		matchers: DefaultMatchers(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze classifies the recording's calls and infers a candidate
// parameter list plus a draft tool definition. The recording itself is
// never mutated.
func (a *Analyzer) Analyze(rec *domain.Recording) *domain.Analysis {
	analysis := &domain.Analysis{}

	analysis.Patterns, analysis.SideEffects = a.classify(rec)
	analysis.Dependencies = a.dependencies(rec)
	analysis.ParameterSuggestions = a.detectParameters(rec)

	analysis.ToolSuggestion = &domain.ToolDefinition{
		Name:        domain.DeriveToolName(rec.Name),
		Description: toolDescription(rec),
		InputSchema: generator.Schema(analysis.ParameterSuggestions),
	}

	a.logger.Debug("analysis complete",
		"recording", rec.ID,
		"parameters", len(analysis.ParameterSuggestions),
		"dependencies", len(analysis.Dependencies),
		"side_effects", len(analysis.SideEffects))

	return analysis
}

func toolDescription(rec *domain.Recording) string {
	if rec.Description != "" {
		return rec.Description
	}
	return fmt.Sprintf("Replays the %q macro (%d calls)", rec.Name, len(rec.Calls))
}

// Keyword sets used to classify a call beyond its HTTP verb. Appliance
// APIs commonly encode the operation into the path (addRule, delItem,
// searchHost) rather than relying on the method alone.
var (
	createKeywords = []string{"add", "create", "new"}
	updateKeywords = []string{"set", "update", "edit", "modify", "toggle"}
	deleteKeywords = []string{"del", "delete", "remove"}
	readKeywords   = []string{"get", "search", "list", "query", "info", "status"}
)

var versionSegment = regexp.MustCompile(`^v\d+$`)

func (a *Analyzer) classify(rec *domain.Recording) (domain.Patterns, []domain.SideEffect) {
	var patterns domain.Patterns
	var sideEffects []domain.SideEffect

	for _, call := range rec.Calls {
		segments := pathSegments(call.Path)

		if call.Method == domain.MethodPost && len(segments) > 0 && strings.EqualFold(segments[0], "service") {
			sideEffects = append(sideEffects, domain.SideEffect{CallID: call.ID, Path: call.Path})
			continue
		}

		resource := resourceToken(segments)
		switch operationKind(call.Method, segments) {
		case "create":
			patterns.Creates = appendUnique(patterns.Creates, resource)
		case "read":
			patterns.Reads = appendUnique(patterns.Reads, resource)
		case "update":
			patterns.Updates = appendUnique(patterns.Updates, resource)
		case "delete":
			patterns.Deletes = appendUnique(patterns.Deletes, resource)
		}
	}

	return patterns, sideEffects
}

// operationKind resolves the CRUD bucket from path keywords first, then
// falls back to the HTTP verb.
func operationKind(method domain.Method, segments []string) string {
	for _, seg := range segments {
		lower := strings.ToLower(seg)
		switch {
		case containsAny(lower, createKeywords):
			return "create"
		case containsAny(lower, updateKeywords):
			return "update"
		case containsAny(lower, deleteKeywords):
			return "delete"
		case containsAny(lower, readKeywords):
			return "read"
		}
	}
	switch method {
	case domain.MethodPost:
		return "create"
	case domain.MethodPut, domain.MethodPatch:
		return "update"
	case domain.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// resourceToken picks the resource-type token out of the path: the last
// segment that is not an API prefix, a verb keyword, a placeholder, or a
// bare number.
func resourceToken(segments []string) string {
	resource := "resource"
	for _, seg := range segments {
		lower := strings.ToLower(seg)
		if lower == "api" || versionSegment.MatchString(lower) {
			continue
		}
		if strings.Contains(seg, "{{") || isNumeric(seg) {
			continue
		}
		if containsAny(lower, createKeywords) || containsAny(lower, updateKeywords) ||
			containsAny(lower, deleteKeywords) || containsAny(lower, readKeywords) {
			continue
		}
		resource = lower
	}
	return resource
}

func pathSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

// dependencies records a hint for every create call whose response carried
// a freshly issued identifier. Reads echoing an existing id are not
// considered issuance.
func (a *Analyzer) dependencies(rec *domain.Recording) []domain.Dependency {
	var deps []domain.Dependency
	for _, call := range rec.Calls {
		if call.Method != domain.MethodPost {
			continue
		}
		if field, value, ok := call.Response.Identifier(); ok {
			deps = append(deps, domain.Dependency{
				CallID: call.ID,
				Field:  field,
				Value:  fmt.Sprint(value),
			})
		}
	}
	return deps
}
