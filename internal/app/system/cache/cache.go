// internal/app/system/cache/cache.go
//
// Package cache is a small JSON read-through cache over Redis. A nil
// *Cache is valid and behaves as an always-empty cache, so callers do not
// need to branch on whether Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefix shared by every entry this service writes.
const prefix = "schoolfinder:"

// RegionListKey caches the ordered region list.
const RegionListKey = prefix + "regions:list"

// RegionKey caches one region by code.
func RegionKey(code string) string {
	return prefix + "regions:code:" + code
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Cache wraps a Redis client with JSON encoding and a default TTL.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

// New connects to Redis. It returns nil when opts.Addr is empty.
func New(opts Options) *Cache {
	if opts.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return &Cache{Client: rdb, TTL: opts.TTL}
}

// Enabled reports whether a Redis backend is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.Client != nil
}

// Ping tests the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.Client.Close()
}

// GetJSON decodes the value at key into dst. It reports false on a miss,
// including when the cache is disabled.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores v at key with the cache's TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, raw, c.TTL).Err()
}

// Del deletes one or more keys.
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}
