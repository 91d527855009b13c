package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"todo-server/internal/config"
	"todo-server/internal/models"
	"todo-server/pkg/logger"
)

// List cache keys.
const (
	UsersKey = "users:all"
	TodosKey = "todos:all"
)

// Cache stores serialized list responses in Redis. A Cache without a client
// is disabled: reads miss and writes are no-ops.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to cfg.RedisURL. When the URL is empty or Redis is unreachable
// the returned cache is disabled and the service reads from the database.
func New(ctx context.Context, cfg *config.Config) *Cache {
	c := &Cache{ttl: time.Duration(cfg.CacheTTL) * time.Second}
	if !cfg.CacheEnabled() {
		logger.Info(ctx, "List cache disabled (REDIS_URL not set)")
		return c
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error(ctx, "Invalid REDIS_URL", "error", err)
		return c
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error(ctx, "Redis ping failed; list cache disabled", "error", err)
		client.Close()
		return c
	}
	logger.Info(ctx, "Redis client initialized", "ttl_sec", cfg.CacheTTL)
	c.client = client
	return c
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetList returns the cached bytes for key. Returns (nil, false) on miss or error.
func (c *Cache) GetList(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get failed", "error", err, "key", key)
		return nil, false
	}
	return b, true
}

// SetList stores b under key with the configured TTL.
func (c *Cache) SetList(ctx context.Context, key string, b []byte) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		logger.Debug(ctx, "Redis set failed", "error", err, "key", key)
	}
}

// Invalidate deletes the given keys so the next read goes to the database.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn(ctx, "Redis invalidate failed", "error", err, "keys", keys)
	}
}

// Ping checks Redis when the cache is enabled.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// KeysFor returns the list keys a change to entity makes stale.
// Deleting a user cascades into todos, so user changes cover both lists.
func KeysFor(entity string) []string {
	switch entity {
	case models.EntityUser:
		return []string{UsersKey, TodosKey}
	case models.EntityTodo:
		return []string{TodosKey}
	default:
		return []string{UsersKey, TodosKey}
	}
}
