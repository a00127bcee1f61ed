package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/remaclabs/remac/pkg/domain"
)

// renderImplementation emits the human-reviewable implementation text:
// one invocation per recorded call, template tokens rewritten into
// argument interpolations, and a return statement per the IR's strategy.
// The surface syntax is JavaScript-flavored since the consuming tool
// frameworks are JS-centric, but all information comes from the IR.
func renderImplementation(ir *ToolIR) string {
	var b strings.Builder

	fmt.Fprintf(&b, "// Synthesized from macro %q (%d calls).\n", ir.Name, len(ir.Steps))
	if len(ir.Args) > 0 {
		b.WriteString("// Arguments:\n")
		for _, arg := range ir.Args {
			req := "optional"
			if arg.Required {
				req = "required"
			}
			fmt.Fprintf(&b, "//   %s (%s, %s)\n", arg.Name, arg.Type, req)
		}
	}

	fmt.Fprintf(&b, "async function %s(args) {\n", ir.Name)
	for _, step := range ir.Steps {
		path := renderPath(step.Path)
		payload := renderPayload("", step.Payload, ir.paramPaths)
		fmt.Fprintf(&b, "  const r%d = await api.call(%q, `%s`, %s);\n",
			step.Index+1, string(step.Method), path, payload)
	}
	b.WriteString("  " + renderReturn(ir) + "\n")
	b.WriteString("}\n")

	return b.String()
}

// renderPath rewrites {{token}} placeholders into template interpolations.
func renderPath(path string) string {
	out, _ := domain.ReplaceTokens(path, func(token string) (string, bool) {
		return "${args." + token + "}", true
	})
	return out
}

// renderPayload serializes a payload with deterministic key order,
// replacing values at parameterized paths with argument interpolations.
func renderPayload(prefix string, v any, paramPaths map[string]string) string {
	if arg, ok := paramPaths[prefix]; ok && prefix != "" {
		return "args." + arg
	}

	switch value := v.(type) {
	case nil:
		return "null"
	case map[string]any:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			child := k
			if prefix != "" {
				child = prefix + "." + k
			}
			parts = append(parts, strconv.Quote(k)+": "+renderPayload(child, value[k], paramPaths))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []any:
		parts := make([]string, 0, len(value))
		for i, item := range value {
			child := strconv.Itoa(i)
			if prefix != "" {
				child = prefix + "." + child
			}
			parts = append(parts, renderPayload(child, item, paramPaths))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case string:
		if tokens := domain.Tokens(value); len(tokens) > 0 {
			out, _ := domain.ReplaceTokens(value, func(token string) (string, bool) {
				return "${args." + token + "}", true
			})
			return "`" + out + "`"
		}
		return strconv.Quote(value)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return strconv.Quote(fmt.Sprint(value))
		}
		return string(data)
	}
}

func renderReturn(ir *ToolIR) string {
	last := len(ir.Steps)
	switch ir.Return {
	case ReturnCreatedID:
		return fmt.Sprintf("return { %s: r%d.data.%s };", ir.ReturnField, last, ir.ReturnField)
	case ReturnReadData:
		return fmt.Sprintf("return r%d.data;", last)
	default:
		return "return { success: true };"
	}
}

// RenderMarkdown formats a tool definition as markdown, used by the CLI
// preview.
func RenderMarkdown(def *domain.ToolDefinition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", def.Name)
	if def.Description != "" {
		b.WriteString(def.Description + "\n\n")
	}

	if len(def.InputSchema.Properties) > 0 {
		b.WriteString("## Arguments\n\n")
		b.WriteString("| Name | Type | Required | Constraints |\n")
		b.WriteString("|------|------|----------|-------------|\n")

		required := make(map[string]bool, len(def.InputSchema.Required))
		for _, name := range def.InputSchema.Required {
			required[name] = true
		}
		names := make([]string, 0, len(def.InputSchema.Properties))
		for name := range def.InputSchema.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			prop := def.InputSchema.Properties[name]
			var constraints []string
			if prop.Pattern != "" {
				constraints = append(constraints, "pattern")
			}
			if prop.Minimum != nil || prop.Maximum != nil {
				constraints = append(constraints, "bounds")
			}
			if len(prop.Enum) > 0 {
				constraints = append(constraints, "enum")
			}
			fmt.Fprintf(&b, "| %s | %s | %v | %s |\n",
				name, prop.Type, required[name], strings.Join(constraints, ", "))
		}
		b.WriteString("\n")
	}

	if def.Implementation != "" {
		b.WriteString("## Implementation\n\n```javascript\n")
		b.WriteString(def.Implementation)
		b.WriteString("```\n")
	}

	return b.String()
}
