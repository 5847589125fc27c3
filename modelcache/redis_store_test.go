package modelcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/nodeflow/client"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestRedisStore_PutGetDelete(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	entry := &Entry{
		Models:    []client.Model{{"id": "gpt-4o"}},
		FetchedAt: time.Now().UTC().Truncate(time.Second),
		BaseURL:   "https://api.example.com/v1",
	}

	_, ok, err := store.Get(ctx, "default")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "default", entry))

	got, ok, err := store.Get(ctx, "default")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "gpt-4o", got.Models[0].ID())
	assert.True(t, entry.FetchedAt.Equal(got.FetchedAt))

	require.NoError(t, store.Delete(ctx, "default"))
	_, ok, err = store.Get(ctx, "default")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_CorruptEntryTreatedAsMiss(t *testing.T) {
	store, mr := newRedisStore(t)

	require.NoError(t, mr.Set(redisKeyPrefix+"default", "{not json"))

	_, ok, err := store.Get(context.Background(), "default")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_ClearOnlyTouchesOwnKeys(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a", &Entry{}))
	require.NoError(t, store.Put(ctx, "b", &Entry{}))
	require.NoError(t, mr.Set("unrelated:key", "keep me"))

	require.NoError(t, store.Clear(ctx))

	_, ok, _ := store.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "b")
	assert.False(t, ok)
	assert.True(t, mr.Exists("unrelated:key"))
}

func TestRedisStore_GetAfterServerGone(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, ok, err := store.Get(context.Background(), "default")
	assert.Error(t, err)
	assert.False(t, ok)
}
