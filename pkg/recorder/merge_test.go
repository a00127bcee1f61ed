package recorder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remaclabs/remac/pkg/domain"
	"github.com/remaclabs/remac/pkg/recorder"
)

func TestMerge(t *testing.T) {
	a := &domain.Recording{
		ID: "a", Name: "Create",
		Calls: []domain.Call{
			{ID: 1, Method: domain.MethodPost, Path: "/firewall/rules"},
		},
		Parameters: []domain.Parameter{
			{Name: "interface", Type: domain.TypeString, Default: "wan", Examples: []any{"wan"}},
		},
	}
	b := &domain.Recording{
		ID: "b", Name: "Apply",
		Calls: []domain.Call{
			{ID: 1, Method: domain.MethodPost, Path: "/firewall/apply"},
			{ID: 2, Method: domain.MethodGet, Path: "/firewall/rules"},
		},
		Parameters: []domain.Parameter{
			{Name: "interface", Type: domain.TypeString, Default: "lan", Examples: []any{"lan"}},
			{Name: "limit", Type: domain.TypeNumber, Default: float64(50)},
		},
	}

	merged := recorder.Merge("combined", a, b)

	assert.NotEmpty(t, merged.ID)
	assert.Equal(t, "combined", merged.Name)

	// Calls concatenated and renumbered.
	require.Len(t, merged.Calls, 3)
	for i, call := range merged.Calls {
		assert.Equal(t, i+1, call.ID)
	}
	assert.Equal(t, "/firewall/rules", merged.Calls[0].Path)
	assert.Equal(t, "/firewall/apply", merged.Calls[1].Path)

	// First occurrence wins the parameter; the later default folds into examples.
	require.Len(t, merged.Parameters, 2)
	p := merged.Parameters[0]
	assert.Equal(t, "interface", p.Name)
	assert.Equal(t, "wan", p.Default)
	assert.ElementsMatch(t, []any{"wan", "lan"}, p.Examples)

	assert.Equal(t, "limit", merged.Parameters[1].Name)
}

func TestMerge_ObjectValuedParameters(t *testing.T) {
	a := &domain.Recording{
		ID: "a", Name: "Open",
		Calls: []domain.Call{
			{ID: 1, Method: domain.MethodPost, Path: "/firewall/rules"},
		},
		Parameters: []domain.Parameter{
			{
				Name:     "rule",
				Type:     domain.TypeObject,
				Examples: []any{map[string]any{"port": "443"}},
			},
		},
	}
	b := &domain.Recording{
		ID: "b", Name: "Open Alt",
		Calls: []domain.Call{
			{ID: 1, Method: domain.MethodPost, Path: "/firewall/apply"},
		},
		Parameters: []domain.Parameter{
			{
				Name:     "rule",
				Type:     domain.TypeObject,
				Default:  map[string]any{"port": "8443"},
				Examples: []any{map[string]any{"port": "443"}},
			},
		},
	}

	merged := recorder.Merge("combined", a, b)

	require.Len(t, merged.Parameters, 1)
	p := merged.Parameters[0]
	// The later default joins the examples; the repeated object does not.
	assert.Equal(t, []any{
		map[string]any{"port": "443"},
		map[string]any{"port": "8443"},
	}, p.Examples)
}
