// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/config"
)

type Redis struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.PoolTimeout = 30 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{Client: client}, nil
}

func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.Client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (r *Redis) PoolStats() *redis.PoolStats {
	return r.Client.PoolStats()
}

// CounterCache keeps small integer aggregates (unread counts and the like)
// in Redis under a fixed prefix. A nil client turns every call into a miss.
//
// Every Invalidate bumps a per-key version. Fill only keeps a value whose
// version is unchanged since it was read, so a count computed before a
// concurrent write never outlives that write's invalidation.
type CounterCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

const counterVersionTTL = 24 * time.Hour

func NewCounterCache(client redis.Cmdable, prefix string, ttl time.Duration) *CounterCache {
	return &CounterCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *CounterCache) Get(ctx context.Context, key string) (int, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}

	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		return 0, false
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}

	return n, true
}

// Version must be read before the value that will be passed to Fill is
// computed. ok is false when the cache is disabled or unreachable.
func (c *CounterCache) Version(ctx context.Context, key string) (version int64, ok bool) {
	if c == nil || c.client == nil {
		return 0, false
	}

	version, err := c.client.Get(ctx, c.versionKey(key)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, true
	case err != nil:
		return 0, false
	}

	return version, true
}

// Fill stores value and drops it again if the key was invalidated after
// version was read.
func (c *CounterCache) Fill(ctx context.Context, key string, version int64, value int) error {
	if c == nil || c.client == nil {
		return nil
	}

	if err := c.client.Set(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache fill %s: %w", key, err)
	}

	current, ok := c.Version(ctx, key)
	if ok && current == version {
		return nil
	}

	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("cache fill %s: drop stale: %w", key, err)
	}

	return nil
}

// Invalidate runs after the write it covers has committed.
func (c *CounterCache) Invalidate(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}

	if err := c.client.Incr(ctx, c.versionKey(key)).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", key, err)
	}
	if err := c.client.Expire(ctx, c.versionKey(key), counterVersionTTL).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", key, err)
	}

	err := c.client.Del(ctx, c.prefix+key).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache invalidate %s: %w", key, err)
	}

	return nil
}

func (c *CounterCache) versionKey(key string) string {
	return c.prefix + "version:" + key
}
