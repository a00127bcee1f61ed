package domain

// Patterns buckets the resource-type tokens found in a Recording by the
// kind of operation performed on them.
type Patterns struct {
	Creates []string `json:"creates,omitempty"`
	Reads   []string `json:"reads,omitempty"`
	Updates []string `json:"updates,omitempty"`
	Deletes []string `json:"deletes,omitempty"`
}

// Dependency hints that a call produced an identifier which later calls
// may consume.
type Dependency struct {
	CallID int    `json:"call_id"`
	Field  string `json:"field"`
	Value  string `json:"value"`
}

// SideEffect marks a non-CRUD service action (e.g. a service restart).
type SideEffect struct {
	CallID int    `json:"call_id"`
	Path   string `json:"path"`
}

// Analysis is derived from a Recording on demand; it is never persisted.
type Analysis struct {
	Patterns             Patterns        `json:"patterns"`
	Dependencies         []Dependency    `json:"dependencies,omitempty"`
	SideEffects          []SideEffect    `json:"side_effects,omitempty"`
	ParameterSuggestions []Parameter     `json:"parameter_suggestions,omitempty"`
	ToolSuggestion       *ToolDefinition `json:"tool_suggestion,omitempty"`
}
