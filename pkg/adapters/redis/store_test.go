package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remaclabs/remac/pkg/adapters/redis"
	"github.com/remaclabs/remac/pkg/domain"
	"github.com/remaclabs/remac/pkg/ports"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	return backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
}

func TestRedisStore_Contract(t *testing.T) {
	store := redis.NewFromClient(newTestClient(t))
	ports.RunRecordingStoreContract(t, store)
}

func TestRedisStore_TTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithTTL(time.Minute))

	ctx := context.Background()
	rec := &domain.Recording{ID: "ttl-macro", Name: "TTL Macro"}
	require.NoError(t, store.Save(ctx, rec))

	// Past the TTL, the blob expires and the index prunes on List.
	mr.FastForward(2 * time.Minute)

	_, err = store.Load(ctx, "ttl-macro")
	assert.ErrorIs(t, err, domain.ErrRecordingNotFound)

	recs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRedisStore_Prefix(t *testing.T) {
	client := newTestClient(t)
	a := redis.NewFromClient(client, redis.WithPrefix("tenant-a:"))
	b := redis.NewFromClient(client, redis.WithPrefix("tenant-b:"))

	ctx := context.Background()
	require.NoError(t, a.Save(ctx, &domain.Recording{ID: "m1", Name: "A"}))

	_, err := b.Load(ctx, "m1")
	assert.ErrorIs(t, err, domain.ErrRecordingNotFound)

	loaded, err := a.Load(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "A", loaded.Name)
}
