package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remaclabs/remac/pkg/domain"
)

// RunRecordingStoreContract runs a suite of tests to verify that a
// RecordingStore implementation adheres to the defined interface contract.
func RunRecordingStoreContract(t *testing.T, store RecordingStore) {
	ctx := context.Background()
	id := "contract-test-" + time.Now().Format("20060102150405")

	sample := func(id string) *domain.Recording {
		return &domain.Recording{
			ID:      id,
			Name:    "Contract Sample",
			Created: time.Now().UTC().Truncate(time.Second),
			Updated: time.Now().UTC().Truncate(time.Second),
			Calls: []domain.Call{
				{ID: 1, Method: domain.MethodPost, Path: "/items", Payload: map[string]any{"name": "Foo"}},
				{ID: 2, Method: domain.MethodGet, Path: "/items/{{id}}"},
			},
			Parameters: []domain.Parameter{
				{Name: "id", Type: domain.TypeString, Required: true, Path: "/items/{{id}}"},
			},
			Metadata: map[string]string{"category": "contract"},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		rec := sample(id)
		require.NoError(t, store.Save(ctx, rec), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.ID, loaded.ID)
		assert.Equal(t, rec.Name, loaded.Name)
		require.Len(t, loaded.Calls, 2)
		assert.Equal(t, domain.MethodPost, loaded.Calls[0].Method)
		assert.Equal(t, "/items/{{id}}", loaded.Calls[1].Path)
		require.Len(t, loaded.Parameters, 1)
		assert.True(t, loaded.Parameters[0].Required)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrRecordingNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sample(id)))
		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrRecordingNotFound, "Load after Delete should return ErrRecordingNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = store.Save(ctx, sample(id1))
		_ = store.Save(ctx, sample(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		recs, err := store.List(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(recs))
		for _, r := range recs {
			ids = append(ids, r.ID)
		}
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})

	t.Run("Isolation", func(t *testing.T) {
		rec := sample(id)
		require.NoError(t, store.Save(ctx, rec))
		defer func() { _ = store.Delete(ctx, id) }()

		// Mutating the saved value must not leak into the store.
		rec.Name = "Mutated"
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Contract Sample", loaded.Name)
	})
}
