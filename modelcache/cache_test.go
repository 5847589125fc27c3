package modelcache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/nodeflow/client"
)

// fakeFetcher counts upstream calls and returns a scripted result.
type fakeFetcher struct {
	models  []client.Model
	err     error
	baseURL string
	calls   int
}

func (f *fakeFetcher) ListModels(ctx context.Context) ([]client.Model, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.models, nil
}

func (f *fakeFetcher) BaseURL() string {
	if f.baseURL == "" {
		return "https://api.example.com/v1"
	}
	return f.baseURL
}

func modelList(ids ...string) []client.Model {
	models := make([]client.Model, len(ids))
	for i, id := range ids {
		models[i] = client.Model{"id": id}
	}
	return models
}

func newTestCache(t *testing.T, ttl time.Duration, clock func() time.Time) *Cache {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "models.json"), zap.NewNop())
	require.NoError(t, err)
	return New(store, ttl, zap.NewNop(), WithClock(clock))
}

func TestModels_SecondCallWithinTTLHitsCache(t *testing.T) {
	now := time.Now()
	cache := newTestCache(t, time.Hour, func() time.Time { return now })
	fetcher := &fakeFetcher{models: modelList("gpt-4o", "dall-e-3")}

	first, cached := cache.Models(context.Background(), "default", fetcher, false)
	assert.False(t, cached)
	require.Len(t, first, 2)

	second, cached := cache.Models(context.Background(), "default", fetcher, false)
	assert.True(t, cached)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.calls, "a valid cache window allows at most one network call")
}

func TestModels_ForceRefreshAlwaysFetches(t *testing.T) {
	now := time.Now()
	cache := newTestCache(t, time.Hour, func() time.Time { return now })
	fetcher := &fakeFetcher{models: modelList("gpt-4o")}

	cache.Models(context.Background(), "default", fetcher, false)
	cache.Models(context.Background(), "default", fetcher, true)

	assert.Equal(t, 2, fetcher.calls)
}

func TestModels_ExpiredEntryRefetched(t *testing.T) {
	now := time.Now()
	cache := newTestCache(t, time.Hour, func() time.Time { return now })
	fetcher := &fakeFetcher{models: modelList("gpt-4o")}

	cache.Models(context.Background(), "default", fetcher, false)

	now = now.Add(2 * time.Hour)
	_, cached := cache.Models(context.Background(), "default", fetcher, false)

	assert.False(t, cached)
	assert.Equal(t, 2, fetcher.calls)
}

func TestModels_StaleFallbackOnFetchFailure(t *testing.T) {
	now := time.Now()
	cache := newTestCache(t, time.Hour, func() time.Time { return now })
	fetcher := &fakeFetcher{models: modelList("gpt-4o", "tts-1")}

	cache.Models(context.Background(), "default", fetcher, false)

	// expire the entry, then break the upstream
	now = now.Add(24 * time.Hour)
	fetcher.err = errors.New("connection refused")

	models, cached := cache.Models(context.Background(), "default", fetcher, false)

	assert.True(t, cached)
	assert.Equal(t, []string{"gpt-4o", "tts-1"}, IDs(models))
}

func TestModels_NoSnapshotNoUpstreamReturnsEmpty(t *testing.T) {
	cache := newTestCache(t, time.Hour, time.Now)
	fetcher := &fakeFetcher{err: errors.New("connection refused")}

	models, cached := cache.Models(context.Background(), "default", fetcher, false)

	assert.False(t, cached)
	assert.NotNil(t, models)
	assert.Empty(t, models)
}

func TestModels_BaseURLChangeInvalidatesEntry(t *testing.T) {
	now := time.Now()
	cache := newTestCache(t, time.Hour, func() time.Time { return now })

	fetcher := &fakeFetcher{models: modelList("gpt-4o"), baseURL: "https://a.example/v1"}
	cache.Models(context.Background(), "default", fetcher, false)

	moved := &fakeFetcher{models: modelList("llama-3"), baseURL: "https://b.example/v1"}
	models, cached := cache.Models(context.Background(), "default", moved, false)

	assert.False(t, cached)
	assert.Equal(t, []string{"llama-3"}, IDs(models))
	assert.Equal(t, 1, moved.calls)
}

func TestModels_ProfilesAreIndependent(t *testing.T) {
	now := time.Now()
	cache := newTestCache(t, time.Hour, func() time.Time { return now })

	openai := &fakeFetcher{models: modelList("gpt-4o")}
	local := &fakeFetcher{models: modelList("llama-3")}

	a, _ := cache.Models(context.Background(), "openai", openai, false)
	b, _ := cache.Models(context.Background(), "local", local, false)

	assert.Equal(t, []string{"gpt-4o"}, IDs(a))
	assert.Equal(t, []string{"llama-3"}, IDs(b))
}

func TestClearProfile_LeavesOthersIntact(t *testing.T) {
	now := time.Now()
	cache := newTestCache(t, time.Hour, func() time.Time { return now })

	openai := &fakeFetcher{models: modelList("gpt-4o")}
	local := &fakeFetcher{models: modelList("llama-3")}
	cache.Models(context.Background(), "openai", openai, false)
	cache.Models(context.Background(), "local", local, false)

	require.NoError(t, cache.ClearProfile(context.Background(), "openai"))

	// openai refetches, local still hits the cache
	cache.Models(context.Background(), "openai", openai, false)
	cache.Models(context.Background(), "local", local, false)

	assert.Equal(t, 2, openai.calls)
	assert.Equal(t, 1, local.calls)
}

func TestClearAll(t *testing.T) {
	now := time.Now()
	cache := newTestCache(t, time.Hour, func() time.Time { return now })

	fetcher := &fakeFetcher{models: modelList("gpt-4o")}
	cache.Models(context.Background(), "default", fetcher, false)

	require.NoError(t, cache.ClearAll(context.Background()))

	cache.Models(context.Background(), "default", fetcher, false)
	assert.Equal(t, 2, fetcher.calls)
}

func TestModels_RoundTripAcrossInstances(t *testing.T) {
	now := time.Now()
	path := filepath.Join(t.TempDir(), "models.json")

	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	cache := New(store, time.Hour, zap.NewNop(), WithClock(func() time.Time { return now }))

	fetcher := &fakeFetcher{models: modelList("gpt-4o", "dall-e-3")}
	cache.Models(context.Background(), "default", fetcher, false)

	// simulate a process restart: fresh store over the same file
	store2, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	cache2 := New(store2, time.Hour, zap.NewNop(), WithClock(func() time.Time { return now }))

	models, cached := cache2.Models(context.Background(), "default", fetcher, false)

	assert.True(t, cached)
	assert.Equal(t, []string{"gpt-4o", "dall-e-3"}, IDs(models))
	assert.Equal(t, 1, fetcher.calls)
}

func TestIDs_SkipsRecordsWithoutID(t *testing.T) {
	models := []client.Model{
		{"id": "gpt-4o"},
		{"object": "model"},
		{"id": "tts-1"},
	}
	assert.Equal(t, []string{"gpt-4o", "tts-1"}, IDs(models))
}
