// internal/cache/cache.go
// Two-tier result cache: an in-process LRU (L1) in front of Redis (L2).
// L1 is fastest but per-instance; L2 is shared across instances. Redis is
// optional - without a client the cache degrades to L1-only.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrMiss is returned when a key is in neither tier.
var ErrMiss = errors.New("cache miss")

// Cache is safe for concurrent use.
type Cache struct {
	redis *redis.Client
	l1    *expirable.LRU[string, []byte]
	ttl   time.Duration
}

// New builds a cache with the given L1 capacity and shared TTL. redisClient
// may be nil.
func New(redisClient *redis.Client, l1Size int, ttl time.Duration) *Cache {
	return &Cache{
		redis: redisClient,
		l1:    expirable.NewLRU[string, []byte](l1Size, nil, ttl),
		ttl:   ttl,
	}
}

// Get looks up key in L1, then L2, backfilling L1 on an L2 hit. dest is
// populated from the cached JSON. Returns ErrMiss when absent from both
// tiers.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if data, ok := c.l1.Get(key); ok {
		return json.Unmarshal(data, dest)
	}

	if c.redis == nil {
		return fmt.Errorf("%w: %s", ErrMiss, key)
	}

	data, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return fmt.Errorf("%w: %s", ErrMiss, key)
	}
	if err != nil {
		return fmt.Errorf("redis get: %w", err)
	}

	c.l1.Add(key, data)
	return json.Unmarshal(data, dest)
}

// Set writes the value to both tiers.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}

	c.l1.Add(key, data)

	if c.redis == nil {
		return nil
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete invalidates the key in both tiers.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.l1.Remove(key)

	if c.redis == nil {
		return nil
	}
	if err := c.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// DeletePattern invalidates every L2 key matching the glob pattern and, as
// L1 has no pattern scan, purges L1 entirely.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	c.l1.Purge()

	if c.redis == nil {
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := c.redis.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.redis.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// L1Len reports the number of live L1 entries, for diagnostics.
func (c *Cache) L1Len() int {
	return c.l1.Len()
}

// Key builders. Keeping them here keeps every caller agreeing on the
// keyspace layout.

func MatchesKey(userID string) string {
	return "matches:" + userID
}

func ProfileKey(userID string) string {
	return "profile:" + userID
}

func PreferencesKey(userID string) string {
	return "prefs:" + userID
}

func CandidatesKey(userID string, page int) string {
	return fmt.Sprintf("candidates:%s:%d", userID, page)
}
