package modelcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "nodeflow:model_cache:"

// RedisStore keeps model list snapshots in Redis, one key per profile.
// Use it when several NodeFlow instances should share one cache.
//
// Keys carry no Redis-side expiration: staleness is judged against the
// entry's fetched_at timestamp so the stale-fallback path still has data
// to serve.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) key(profile string) string {
	return redisKeyPrefix + profile
}

func (s *RedisStore) Get(ctx context.Context, profile string) (*Entry, bool, error) {
	data, err := s.rdb.Get(ctx, s.key(profile)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// 损坏条目当作缓存缺失处理，下一次 Put 会覆盖它
		return nil, false, nil
	}
	return &entry, true, nil
}

func (s *RedisStore) Put(ctx context.Context, profile string, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(profile), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, profile string) error {
	if err := s.rdb.Del(ctx, s.key(profile)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
