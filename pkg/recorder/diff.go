package recorder

import (
	"reflect"

	"github.com/remaclabs/remac/pkg/domain"
)

// CallChange pairs the two versions of a call that exists in both
// recordings but differs in params or payload.
type CallChange struct {
	Key    string      `json:"key"`
	Before domain.Call `json:"before"`
	After  domain.Call `json:"after"`
}

// Diff reports the call-level differences between two recordings, keyed by
// method + path.
type Diff struct {
	Added    []domain.Call `json:"added,omitempty"`
	Removed  []domain.Call `json:"removed,omitempty"`
	Modified []CallChange  `json:"modified,omitempty"`
}

// IsEmpty reports whether the two recordings have identical call sets.
func (d *Diff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// Compare diffs two recordings call-by-call. A call present only in b is
// added, only in a is removed, and present in both with differing
// params/payload is modified. When a key repeats within a recording the
// first occurrence is compared.
func Compare(a, b *domain.Recording) *Diff {
	diff := &Diff{}

	index := func(rec *domain.Recording) map[string]domain.Call {
		m := make(map[string]domain.Call, len(rec.Calls))
		for _, c := range rec.Calls {
			if _, exists := m[c.Key()]; !exists {
				m[c.Key()] = c
			}
		}
		return m
	}
	before := index(a)
	after := index(b)

	for _, c := range a.Calls {
		other, exists := after[c.Key()]
		if !exists {
			diff.Removed = append(diff.Removed, c)
			continue
		}
		if !reflect.DeepEqual(c.Payload, other.Payload) || !reflect.DeepEqual(c.Params, other.Params) {
			diff.Modified = append(diff.Modified, CallChange{Key: c.Key(), Before: c, After: other})
		}
	}

	for _, c := range b.Calls {
		if _, exists := before[c.Key()]; !exists {
			diff.Added = append(diff.Added, c)
		}
	}

	return diff
}
