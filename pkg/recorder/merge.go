package recorder

import (
	"time"

	"github.com/google/uuid"

	"github.com/remaclabs/remac/pkg/domain"
)

// Merge combines several recordings into a new one: calls are concatenated
// in argument order (IDs renumbered), and parameters are de-duplicated by
// name. The first occurrence wins the parameter's metadata; a later
// recording's default and example values are folded into the winner's
// examples instead of creating a duplicate.
func Merge(name string, recs ...*domain.Recording) *domain.Recording {
	now := time.Now().UTC()
	merged := &domain.Recording{
		ID:      uuid.NewString(),
		Name:    name,
		Created: now,
		Updated: now,
	}

	params := make(map[string]*domain.Parameter)
	var order []string

	for _, rec := range recs {
		for _, call := range rec.Calls {
			call.ID = len(merged.Calls) + 1
			merged.Calls = append(merged.Calls, call)
		}
		for _, p := range rec.Parameters {
			existing, ok := params[p.Name]
			if !ok {
				cp := p
				cp.Examples = append([]any(nil), p.Examples...)
				params[p.Name] = &cp
				order = append(order, p.Name)
				continue
			}
			if p.Default != nil {
				existing.AddExample(p.Default)
			}
			for _, example := range p.Examples {
				existing.AddExample(example)
			}
		}
	}

	merged.Parameters = make([]domain.Parameter, 0, len(order))
	for _, n := range order {
		merged.Parameters = append(merged.Parameters, *params[n])
	}
	return merged
}
