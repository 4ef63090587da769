package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qiro-dev/facility-maintenance/pkg/logger"
)

// Cache is a thin Redis wrapper used for read-side caching of calendar
// views and statistics. A nil *Cache is a valid no-op cache so the
// service runs without Redis.
type Cache struct {
	client *redis.Client
}

// New connects to Redis. Connection failures are logged and a nil cache
// is returned; callers degrade to uncached reads.
func New(addr, password string, db int) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("addr", addr).
			Msg("Redis unavailable, read caching disabled")
		return nil
	}

	logger.Logger.Info().Str("addr", addr).Msg("Redis cache initialized")
	return &Cache{client: client}
}

// GetJSON loads a cached value into dest. Returns false on miss or when
// the cache is disabled.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		logger.Warn(ctx).Err(err).Str("key", key).Msg("Dropping corrupt cache entry")
		c.client.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON stores a value with a TTL. Failures are logged, never returned.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("key", key).Msg("Failed to marshal cache value")
		return
	}

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("key", key).Msg("Failed to write cache entry")
	}
}

// Invalidate removes keys matching the given exact keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn(ctx).Err(err).Strs("keys", keys).Msg("Failed to invalidate cache entries")
	}
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
