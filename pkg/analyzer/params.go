package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/remaclabs/remac/pkg/domain"
)

// stoplist holds boilerplate tokens that never become parameters: they
// encode switches, not operator intent.
var stoplist = map[string]bool{
	"0": true, "1": true,
	"true": true, "false": true,
	"enabled": true, "disabled": true,
	"on": true, "off": true,
	"yes": true, "no": true,
}

// occurrence is one scalar leaf found while walking a call payload.
type occurrence struct {
	path  string // structural path, e.g. "rule.destination_port"
	value any    // raw leaf value
	str   string // normalized string form
	call  int    // index of the owning call
}

// detectParameters runs the core inference: path-template tokens become
// required string parameters unconditionally; payload leaves are promoted
// on reuse or shape match. Colliding derived names are resolved
// first-occurrence-wins, with later values folded into examples.
func (a *Analyzer) detectParameters(rec *domain.Recording) []domain.Parameter {
	var ordered []string
	params := make(map[string]*domain.Parameter)

	add := func(p *domain.Parameter) {
		params[p.Name] = p
		ordered = append(ordered, p.Name)
	}

	// Path-template tokens first: always required, always string.
	for _, call := range rec.Calls {
		for _, token := range domain.Tokens(call.Path) {
			if _, ok := params[token]; ok {
				continue
			}
			add(&domain.Parameter{
				Name:        token,
				Type:        domain.TypeString,
				Required:    true,
				Description: fmt.Sprintf("Path parameter from %s", call.Path),
				Path:        call.Path,
			})
		}
	}

	occurrences := collectOccurrences(rec)
	sites := make(map[string]int, len(occurrences))
	for _, occ := range occurrences {
		sites[occ.str]++
	}

	for _, occ := range occurrences {
		reused := sites[occ.str] > 1
		shape := a.matchShape(occ.str, occ.path)
		if !reused && shape == nil {
			continue
		}

		name := deriveName(occ.path, shape)
		if existing, ok := params[name]; ok {
			// First occurrence won the metadata; fold this value in.
			existing.AddExample(occ.value)
			continue
		}

		p := &domain.Parameter{
			Name:     name,
			Type:     inferType(occ.value),
			Default:  occ.value,
			Examples: []any{occ.value},
			Path:     occ.path,
		}
		if shape != nil {
			p.Type = shape.Type
			p.Validation = shape.Validation
			p.Description = fmt.Sprintf("Detected %s value at %s", shape.Name, occ.path)
		} else {
			p.Description = fmt.Sprintf("Reused value at %s", occ.path)
		}
		add(p)
	}

	result := make([]domain.Parameter, 0, len(ordered))
	for _, name := range ordered {
		result = append(result, *params[name])
	}
	return result
}

func (a *Analyzer) matchShape(value, context string) *Shape {
	for _, match := range a.matchers {
		if shape, ok := match(value, context); ok {
			return shape
		}
	}
	return nil
}

// collectOccurrences walks every call payload and returns the scalar
// leaves in deterministic order: calls in sequence, object keys sorted.
func collectOccurrences(rec *domain.Recording) []occurrence {
	var occs []occurrence
	for i, call := range rec.Calls {
		walkPayload("", call.Payload, func(path string, leaf any) {
			str := stringify(leaf)
			if str == "" || stoplist[strings.ToLower(str)] {
				return
			}
			occs = append(occs, occurrence{path: path, value: leaf, str: str, call: i})
		})
	}
	return occs
}

func walkPayload(prefix string, v any, visit func(path string, leaf any)) {
	switch value := v.(type) {
	case nil:
		return
	case map[string]any:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkPayload(joinPath(prefix, k), value[k], visit)
		}
	case []any:
		for i, item := range value {
			walkPayload(joinPath(prefix, strconv.Itoa(i)), item, visit)
		}
	default:
		visit(prefix, value)
	}
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(v)
	}
}

// deriveName builds the parameter name from the last non-numeric path
// segment, camel-cased, with the shape's semantic suffix appended when the
// segment does not already suggest it.
func deriveName(path string, shape *Shape) string {
	base := "value"
	segments := strings.Split(path, ".")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" && !isNumeric(segments[i]) {
			base = segments[i]
			break
		}
	}

	name := camelCase(base)
	if shape != nil && shape.Suffix != "" && !shape.Suggested(name) {
		name += shape.Suffix
	}
	return name
}

func camelCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	if len(parts) == 0 {
		return s
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(parts[0][:1]) + parts[0][1:])
	for _, p := range parts[1:] {
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}

// inferType attempts boolean, then number, then JSON structure, falling
// back to string.
func inferType(v any) domain.ParamType {
	switch t := v.(type) {
	case bool:
		return domain.TypeBoolean
	case float64, int, int64, json.Number:
		return domain.TypeNumber
	case map[string]any:
		return domain.TypeObject
	case []any:
		return domain.TypeArray
	case string:
		if _, err := strconv.ParseBool(t); err == nil {
			return domain.TypeBoolean
		}
		if _, err := strconv.ParseFloat(t, 64); err == nil {
			return domain.TypeNumber
		}
		trimmed := strings.TrimSpace(t)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			var parsed any
			if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
				switch parsed.(type) {
				case map[string]any:
					return domain.TypeObject
				case []any:
					return domain.TypeArray
				}
			}
		}
		return domain.TypeString
	}
	return domain.TypeString
}
