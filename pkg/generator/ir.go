package generator

import (
	"fmt"

	"github.com/remaclabs/remac/pkg/domain"
)

// ReturnStrategy tags how the synthesized implementation produces its
// final value, chosen by inspecting the recording's last call.
type ReturnStrategy string

const (
	// ReturnCreatedID highlights the identifier issued by the last call.
	ReturnCreatedID ReturnStrategy = "created_id"
	// ReturnReadData returns the last call's full response data.
	ReturnReadData ReturnStrategy = "read_data"
	// ReturnAck returns a generic success acknowledgement.
	ReturnAck ReturnStrategy = "ack"
)

// ArgSpec is one argument of the synthesized tool.
type ArgSpec struct {
	Name     string
	Type     domain.ParamType
	Required bool
	Default  any
}

// Step is one replayed call with its substitution sites.
type Step struct {
	Index   int
	Method  domain.Method
	Path    string
	Payload any

	// Tokens are the template tokens appearing in this step's path.
	Tokens []string
}

// ToolIR is the validated intermediate representation a tool is rendered
// from. Keeping it explicit (instead of interpolating strings ad hoc)
// makes the renderer target-language-agnostic.
type ToolIR struct {
	Name        string
	Description string
	Args        []ArgSpec
	Steps       []Step
	Return      ReturnStrategy

	// ReturnField is the identifier field name when Return == ReturnCreatedID.
	ReturnField string

	// paramPaths maps a payload path to the argument that replaces values
	// found there during rendering.
	paramPaths map[string]string
}

func buildIR(rec *domain.Recording, params []domain.Parameter) (*ToolIR, error) {
	ir := &ToolIR{
		Name:        domain.DeriveToolName(rec.Name),
		Description: rec.Description,
		paramPaths:  make(map[string]string),
	}
	if ir.Description == "" {
		ir.Description = fmt.Sprintf("Replays the %q macro (%d calls)", rec.Name, len(rec.Calls))
	}

	for _, p := range params {
		ir.Args = append(ir.Args, ArgSpec{
			Name:     p.Name,
			Type:     p.Type,
			Required: p.Required,
			Default:  p.Default,
		})
		// A parameter path without template tokens points into a payload;
		// the renderer replaces values at that path with the argument.
		if p.Path != "" && len(domain.Tokens(p.Path)) == 0 {
			ir.paramPaths[p.Path] = p.Name
		}
	}

	for i, call := range rec.Calls {
		ir.Steps = append(ir.Steps, Step{
			Index:   i,
			Method:  call.Method,
			Path:    call.Path,
			Payload: call.Payload,
			Tokens:  domain.Tokens(call.Path),
		})
	}

	ir.Return, ir.ReturnField = returnStrategy(rec)
	return ir, nil
}

// returnStrategy inspects the last call: a freshly issued identifier wins,
// a pure read returns its data, anything else acknowledges success.
func returnStrategy(rec *domain.Recording) (ReturnStrategy, string) {
	if len(rec.Calls) == 0 {
		return ReturnAck, ""
	}
	last := rec.Calls[len(rec.Calls)-1]
	if field, _, ok := last.Response.Identifier(); ok && last.Method == domain.MethodPost {
		return ReturnCreatedID, field
	}
	if last.Method == domain.MethodGet {
		return ReturnReadData, ""
	}
	return ReturnAck, ""
}

// Validate checks the IR before rendering.
func (ir *ToolIR) Validate() error {
	if ir.Name == "" {
		return &domain.ValidationError{Key: "name", Reason: "derived tool name is empty"}
	}
	if len(ir.Steps) == 0 {
		return &domain.ValidationError{Key: "steps", Reason: "recording has no calls"}
	}

	seen := make(map[string]bool, len(ir.Args))
	for _, arg := range ir.Args {
		if arg.Name == "" {
			return &domain.ValidationError{Key: "args", Reason: "argument with empty name"}
		}
		if seen[arg.Name] {
			return &domain.ValidationError{Key: "args", Reason: "duplicate argument", Value: arg.Name}
		}
		seen[arg.Name] = true
	}

	for _, step := range ir.Steps {
		if !step.Method.Valid() {
			return &domain.ValidationError{
				Key:    fmt.Sprintf("steps[%d].method", step.Index),
				Reason: "unknown method",
				Value:  string(step.Method),
			}
		}
		for _, token := range step.Tokens {
			if !seen[token] {
				return &domain.ValidationError{
					Key:    fmt.Sprintf("steps[%d]", step.Index),
					Reason: "path token has no matching argument",
					Value:  token,
				}
			}
		}
	}
	return nil
}
