package domain

import "reflect"

// ParamType is the JSON-schema-compatible type of a Parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeObject  ParamType = "object"
	TypeArray   ParamType = "array"
)

// Validation constrains the values a Parameter accepts.
// Only the fields relevant to the parameter's shape are set.
type Validation struct {
	Pattern string   `json:"pattern,omitempty"`
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`
	Enum    []string `json:"enum,omitempty"`
}

// Parameter is a named, typed placeholder for a value that varies across
// replays of a macro. Names are unique within a Recording.
type Parameter struct {
	Name        string      `json:"name"`
	Type        ParamType   `json:"type"`
	Required    bool        `json:"required"`
	Description string      `json:"description,omitempty"`
	Default     any         `json:"default,omitempty"`
	Examples    []any       `json:"examples,omitempty"`

	// Path points back into the Recording: a path-template token, or a
	// JSON path within a call payload (e.g. "rule.destination_port").
	Path string `json:"path,omitempty"`

	Validation *Validation `json:"validation,omitempty"`
}

// AddExample appends a value to Examples unless already present.
// Nil values are ignored. Object and array values are compared deeply.
func (p *Parameter) AddExample(value any) {
	if value == nil {
		return
	}
	for _, e := range p.Examples {
		if reflect.DeepEqual(e, value) {
			return
		}
	}
	p.Examples = append(p.Examples, value)
}
