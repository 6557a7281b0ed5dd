// Package cache provides a Redis-backed cache for computed library statistics.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aimd54/gametracker/internal/config"
)

const (
	keyPrefix  = "gametracker:stats"
	versionKey = keyPrefix + ":version"
)

// StatsCache stores statistics snapshots keyed by a library version.
// Every write to the library bumps the version, so stale snapshots are never read
// and simply expire.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis using the database configuration.
func New(cfg *config.RedisConfig, ttl time.Duration) *StatsCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	return NewWithClient(client, ttl)
}

// NewWithClient wraps an existing Redis client.
func NewWithClient(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// version returns the current library version; a missing key is version 0.
func (c *StatsCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read stats version: %w", err)
	}
	return v, nil
}

func entryKey(version int64, name string) string {
	return fmt.Sprintf("%s:v%d:%s", keyPrefix, version, name)
}

// Get loads the snapshot called name into dest. It returns the library version the
// lookup was made against, and reports false on a miss. Callers that compute the value
// after a miss store it with Set under that same version.
func (c *StatsCache) Get(ctx context.Context, name string, dest interface{}) (int64, bool, error) {
	v, err := c.version(ctx)
	if err != nil {
		return 0, false, err
	}

	raw, err := c.client.Get(ctx, entryKey(v, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("failed to read stats %s: %w", name, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return v, false, fmt.Errorf("failed to decode stats %s: %w", name, err)
	}
	return v, true, nil
}

// Set stores value as the snapshot called name for the given library version.
// A snapshot computed before a write lands under the superseded version and is never read.
func (c *StatsCache) Set(ctx context.Context, version int64, name string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode stats %s: %w", name, err)
	}

	if err := c.client.Set(ctx, entryKey(version, name), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write stats %s: %w", name, err)
	}
	return nil
}

// Invalidate bumps the library version so every existing snapshot is ignored.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("failed to bump stats version: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *StatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *StatsCache) Close() error {
	return c.client.Close()
}
