package domain

import "strings"

// Property is one input-schema entry, valid against the standard JSON
// Schema validation vocabulary so external tool frameworks can consume it.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Pattern     string   `json:"pattern,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Default     any      `json:"default,omitempty"`
	Examples    []any    `json:"examples,omitempty"`
}

// InputSchema describes the argument object of a synthesized tool.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// ToolDefinition is the synthesized, schema-described, callable unit
// produced from a macro.
type ToolDefinition struct {
	Name           string      `json:"name"`
	Description    string      `json:"description,omitempty"`
	InputSchema    InputSchema `json:"input_schema"`
	Implementation string      `json:"implementation,omitempty"`
}

// DeriveToolName turns a human recording name into a tool identifier:
// lowercase, runs of non-alphanumeric characters collapsed to a single
// separator, no leading or trailing separator.
func DeriveToolName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			if b.Len() > 0 {
				pendingSep = true
			}
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
