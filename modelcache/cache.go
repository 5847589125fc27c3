package modelcache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/nodeflow/client"
)

// Fetcher lists the models an endpoint advertises. *client.Client
// satisfies this.
type Fetcher interface {
	ListModels(ctx context.Context) ([]client.Model, error)
	BaseURL() string
}

// Recorder receives cache outcome metrics. A nil Recorder disables them.
type Recorder interface {
	RecordCacheHit(profile string)
	RecordCacheMiss(profile string)
	RecordCacheStale(profile string)
}

// Cache is a TTL cache of model lists, keyed by profile name.
//
// The cache fails open in every direction: a broken store behaves like an
// empty one, a failed save never blocks a fresh result, and an unreachable
// upstream falls back to the last snapshot regardless of its age. When
// there is neither a snapshot nor an upstream, the caller gets an empty
// list, not an error. Availability over freshness, explicitly.
type Cache struct {
	store   Store
	ttl     time.Duration
	clock   func() time.Time
	logger  *zap.Logger
	metrics Recorder
	mu      sync.Mutex // serializes refreshes
}

// Option configures optional Cache behavior.
type Option func(*Cache)

// WithClock replaces the time source (tests).
func WithClock(clock func() time.Time) Option {
	return func(c *Cache) { c.clock = clock }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(rec Recorder) Option {
	return func(c *Cache) { c.metrics = rec }
}

// New creates a cache over the given store. A non-positive ttl defaults
// to one hour.
func New(store Store, ttl time.Duration, logger *zap.Logger, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Cache{
		store:  store,
		ttl:    ttl,
		clock:  time.Now,
		logger: logger.With(zap.String("component", "model_cache")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Models returns the model list for a profile. The second return value
// reports whether the result came from the cache.
//
// A snapshot younger than the TTL, taken from the same base URL, is served
// as-is unless force is set. Otherwise the upstream is consulted; on
// success the snapshot is replaced, on failure an existing snapshot of any
// age is served instead, and with no snapshot at all the result is an
// empty list.
func (c *Cache) Models(ctx context.Context, profile string, fetcher Fetcher, force bool) ([]client.Model, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok, err := c.store.Get(ctx, profile)
	if err != nil {
		c.logger.Warn("cache store read failed, treating as miss",
			zap.String("profile", profile), zap.Error(err))
		ok = false
	}

	now := c.clock()
	fresh := ok && entry.BaseURL == fetcher.BaseURL() && entry.Age(now) < c.ttl

	if fresh && !force {
		c.logger.Debug("model cache hit",
			zap.String("profile", profile),
			zap.Int("models", len(entry.Models)),
			zap.Duration("age", entry.Age(now)))
		if c.metrics != nil {
			c.metrics.RecordCacheHit(profile)
		}
		return entry.Models, true
	}

	if c.metrics != nil {
		c.metrics.RecordCacheMiss(profile)
	}

	models, err := fetcher.ListModels(ctx)
	if err != nil {
		if ok {
			// 上游不可用时退回旧快照，无论多旧
			c.logger.Warn("model fetch failed, serving stale snapshot",
				zap.String("profile", profile),
				zap.Duration("age", entry.Age(now)),
				zap.Error(err))
			if c.metrics != nil {
				c.metrics.RecordCacheStale(profile)
			}
			return entry.Models, true
		}
		c.logger.Warn("model fetch failed with no snapshot to fall back on",
			zap.String("profile", profile), zap.Error(err))
		return []client.Model{}, false
	}

	if err := c.store.Put(ctx, profile, &Entry{
		Models:    models,
		FetchedAt: now,
		BaseURL:   fetcher.BaseURL(),
	}); err != nil {
		// 保存失败不致命：本次结果照常返回，下次重新拉取
		c.logger.Warn("failed to persist model snapshot",
			zap.String("profile", profile), zap.Error(err))
	}

	c.logger.Info("model list refreshed",
		zap.String("profile", profile),
		zap.Int("models", len(models)))
	return models, false
}

// ClearProfile drops the snapshot for one profile.
func (c *Cache) ClearProfile(ctx context.Context, profile string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Delete(ctx, profile)
}

// ClearAll drops every snapshot.
func (c *Cache) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Clear(ctx)
}

// IDs extracts the model identifiers, skipping records without one.
func IDs(models []client.Model) []string {
	ids := make([]string, 0, len(models))
	for _, m := range models {
		if id := m.ID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
