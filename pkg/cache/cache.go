// Package cache provides a small Redis-backed JSON cache.
//
// A nil *Cache (or one whose Redis is unreachable) degrades to a no-op, so
// callers never branch on cache availability.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with JSON marshalling helpers.
type Cache struct {
	rdb *redis.Client
}

// Connect initialises the Redis client and verifies it with a ping.
func Connect(addr, password string) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &Cache{rdb: rdb}, nil
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss, error, or nil cache.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}

	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores value under key for the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// Del removes one or more keys.
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Incr atomically increments the counter at key and returns the new value.
// Used for version-stamped cache keys: bumping the counter invalidates
// every key built with the previous version.
func (c *Cache) Incr(ctx context.Context, key string) (int64, error) {
	if c == nil || c.rdb == nil {
		return 0, nil
	}
	return c.rdb.Incr(ctx, key).Result()
}

// GetInt reads an integer counter, returning 0 when absent.
func (c *Cache) GetInt(ctx context.Context, key string) int64 {
	if c == nil || c.rdb == nil {
		return 0
	}
	n, err := c.rdb.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return n
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
