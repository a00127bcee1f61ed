// Package generator synthesizes a ToolDefinition from a Recording: a JSON
// input schema built from the parameter list, and an implementation text
// that replays the call sequence with substituted arguments.
//
// Generation goes through a small intermediate representation (see ir.go)
// that is validated before rendering, and is deterministic: the same
// Recording always yields byte-identical schema and name.
package generator

import (
	"fmt"
	"log/slog"

	"github.com/remaclabs/remac/internal/logging"
	"github.com/remaclabs/remac/pkg/domain"
)

// Generator builds tool definitions from recordings.
type Generator struct {
	logger *slog.Logger
}

// Option configures the Generator.
type Option func(*Generator)

// WithLogger configures a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate synthesizes a tool from the recording. When analysis is non-nil
// its parameter suggestions take precedence over the recording's stored
// parameter list.
func (g *Generator) Generate(rec *domain.Recording, analysis *domain.Analysis) (*domain.ToolDefinition, error) {
	params := rec.Parameters
	if analysis != nil && len(analysis.ParameterSuggestions) > 0 {
		params = analysis.ParameterSuggestions
	}

	ir, err := buildIR(rec, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build tool IR: %w", err)
	}
	if err := ir.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tool IR: %w", err)
	}

	def := &domain.ToolDefinition{
		Name:           ir.Name,
		Description:    ir.Description,
		InputSchema:    Schema(params),
		Implementation: renderImplementation(ir),
	}

	g.logger.Debug("tool generated",
		"recording", rec.ID,
		"tool", def.Name,
		"steps", len(ir.Steps),
		"return", string(ir.Return))

	return def, nil
}

// Schema builds the input schema straight from the parameter list: one
// property per parameter, required parameters collected in declaration
// order.
func Schema(params []domain.Parameter) domain.InputSchema {
	props := make(map[string]domain.Property, len(params))
	var required []string

	for _, p := range params {
		prop := domain.Property{
			Type:        string(p.Type),
			Description: p.Description,
			Default:     p.Default,
			Examples:    p.Examples,
		}
		if v := p.Validation; v != nil {
			prop.Pattern = v.Pattern
			prop.Minimum = v.Minimum
			prop.Maximum = v.Maximum
			prop.Enum = v.Enum
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	return domain.InputSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}
