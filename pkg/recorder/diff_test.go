package recorder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remaclabs/remac/pkg/domain"
	"github.com/remaclabs/remac/pkg/recorder"
)

func TestCompare(t *testing.T) {
	a := &domain.Recording{
		ID: "a", Name: "Before",
		Calls: []domain.Call{
			{ID: 1, Method: domain.MethodPost, Path: "/firewall/rules", Payload: map[string]any{"interface": "wan"}},
			{ID: 2, Method: domain.MethodGet, Path: "/firewall/rules"},
			{ID: 3, Method: domain.MethodPost, Path: "/firewall/apply"},
		},
	}
	b := &domain.Recording{
		ID: "b", Name: "After",
		Calls: []domain.Call{
			{ID: 1, Method: domain.MethodPost, Path: "/firewall/rules", Payload: map[string]any{"interface": "lan"}},
			{ID: 2, Method: domain.MethodGet, Path: "/firewall/rules"},
			{ID: 3, Method: domain.MethodPost, Path: "/service/restart"},
		},
	}

	diff := recorder.Compare(a, b)
	assert.False(t, diff.IsEmpty())

	require.Len(t, diff.Removed, 1)
	assert.Equal(t, "/firewall/apply", diff.Removed[0].Path)

	require.Len(t, diff.Added, 1)
	assert.Equal(t, "/service/restart", diff.Added[0].Path)

	require.Len(t, diff.Modified, 1)
	assert.Equal(t, "POST /firewall/rules", diff.Modified[0].Key)
	assert.Equal(t, map[string]any{"interface": "wan"}, diff.Modified[0].Before.Payload)
	assert.Equal(t, map[string]any{"interface": "lan"}, diff.Modified[0].After.Payload)
}

func TestCompare_Identical(t *testing.T) {
	rec := &domain.Recording{
		ID: "a", Name: "Same",
		Calls: []domain.Call{
			{ID: 1, Method: domain.MethodGet, Path: "/status"},
		},
	}
	assert.True(t, recorder.Compare(rec, rec).IsEmpty())
}
