package recorder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remaclabs/remac/pkg/adapters/memory"
	"github.com/remaclabs/remac/pkg/domain"
	"github.com/remaclabs/remac/pkg/ports"
	"github.com/remaclabs/remac/pkg/recorder"
)

func searchQuery(name, category string, tags []string) ports.Query {
	return ports.Query{Name: name, Category: category, Tags: tags}
}

func TestRecorder_ExclusiveStart(t *testing.T) {
	r := recorder.New(memory.NewStore())

	id, err := r.Start("first", "")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = r.Start("second", "")
	assert.ErrorIs(t, err, domain.ErrRecordingActive)

	// After stop, a new session may begin.
	_, err = r.Stop()
	require.NoError(t, err)
	id2, err := r.Start("second", "")
	require.NoError(t, err)
	assert.NotEqual(t, id, id2)
}

func TestRecorder_RecordIsSilentWhenIdle(t *testing.T) {
	r := recorder.New(memory.NewStore())

	// No active session: recording is a no-op, not an error.
	r.Record(domain.Call{Method: domain.MethodGet, Path: "/status"})

	_, active := r.Recording()
	assert.False(t, active)
}

func TestRecorder_AssignsSequentialIDs(t *testing.T) {
	r := recorder.New(memory.NewStore())
	_, err := r.Start("seq", "")
	require.NoError(t, err)

	r.Record(domain.Call{Method: domain.MethodGet, Path: "/a"})
	r.Record(domain.Call{Method: domain.MethodGet, Path: "/b"})
	r.Record(domain.Call{Method: domain.MethodGet, Path: "/c"})

	rec, err := r.Stop()
	require.NoError(t, err)
	require.Len(t, rec.Calls, 3)
	for i, call := range rec.Calls {
		assert.Equal(t, i+1, call.ID)
		assert.False(t, call.Timestamp.IsZero())
	}
}

func TestRecorder_PauseResume(t *testing.T) {
	r := recorder.New(memory.NewStore())
	_, err := r.Start("paused", "")
	require.NoError(t, err)

	r.Record(domain.Call{Method: domain.MethodGet, Path: "/kept"})

	require.NoError(t, r.Pause())
	r.Record(domain.Call{Method: domain.MethodGet, Path: "/dropped"})

	require.NoError(t, r.Resume())
	r.Record(domain.Call{Method: domain.MethodGet, Path: "/kept-too"})

	rec, err := r.Stop()
	require.NoError(t, err)
	require.Len(t, rec.Calls, 2)
	assert.Equal(t, "/kept", rec.Calls[0].Path)
	assert.Equal(t, "/kept-too", rec.Calls[1].Path)
}

func TestRecorder_PauseWithoutSession(t *testing.T) {
	r := recorder.New(memory.NewStore())
	assert.ErrorIs(t, r.Pause(), domain.ErrNoActiveRecording)
	assert.ErrorIs(t, r.Resume(), domain.ErrNoActiveRecording)
	_, err := r.Stop()
	assert.ErrorIs(t, err, domain.ErrNoActiveRecording)
}

func TestRecorder_StopRunsAnalysis(t *testing.T) {
	r := recorder.New(memory.NewStore())
	_, err := r.Start("analyzed", "")
	require.NoError(t, err)

	r.Record(domain.Call{Method: domain.MethodPost, Path: "/firewall/aliases", Payload: map[string]any{
		"address": "10.0.0.5",
	}})

	rec, err := r.Stop()
	require.NoError(t, err)
	require.Len(t, rec.Parameters, 1)
	assert.Equal(t, "address", rec.Parameters[0].Name)
}

func TestRecorder_Clear(t *testing.T) {
	r := recorder.New(memory.NewStore())
	_, err := r.Start("discarded", "")
	require.NoError(t, err)
	r.Record(domain.Call{Method: domain.MethodGet, Path: "/x"})

	r.Clear()

	_, active := r.Recording()
	assert.False(t, active)
	_, err = r.Stop()
	assert.ErrorIs(t, err, domain.ErrNoActiveRecording)
}

func TestRecorder_SearchClientSide(t *testing.T) {
	store := memory.NewStore()
	r := recorder.New(store)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &domain.Recording{
		ID: "a", Name: "Block Host",
		Metadata: map[string]string{"category": "firewall", "tags": "wan, block"},
	}))
	require.NoError(t, r.Save(ctx, &domain.Recording{
		ID: "b", Name: "Restart Unbound",
		Metadata: map[string]string{"category": "services"},
	}))

	t.Run("By Name", func(t *testing.T) {
		recs, err := r.Search(ctx, searchQuery("block", "", nil))
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "a", recs[0].ID)
	})

	t.Run("By Category", func(t *testing.T) {
		recs, err := r.Search(ctx, searchQuery("", "services", nil))
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "b", recs[0].ID)
	})

	t.Run("By Tags", func(t *testing.T) {
		recs, err := r.Search(ctx, searchQuery("", "", []string{"wan", "block"}))
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "a", recs[0].ID)
	})

	t.Run("Tag Miss", func(t *testing.T) {
		recs, err := r.Search(ctx, searchQuery("", "", []string{"lan"}))
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestRecorder_LoadValidates(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Save(context.Background(), &domain.Recording{
		ID: "bad", Name: "Bad",
		Calls: []domain.Call{{Method: "FETCH", Path: "/x"}},
	}))

	r := recorder.New(store)
	_, err := r.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotEmpty(t, domain.ValidationErrors(err))
}
