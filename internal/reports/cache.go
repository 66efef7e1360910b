package reports

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "reports:"

// Cache stores rendered reports in Redis. Redis failures inside FetchJSON
// are logged and degrade to uncached loads.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache instantiates the cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// WithLogger sets the logger used to report cache failures.
func (c *Cache) WithLogger(logger *slog.Logger) *Cache {
	if c != nil {
		c.logger = logger
	}
	return c
}

func studentKey(studentID string) string     { return keyPrefix + "student:" + studentID }
func performanceKey(studentID string) string { return keyPrefix + "performance:" + studentID }

// FetchJSON loads a cached value into dest or populates it using the loader.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c.enabled() {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			c.warn("report cache read", key, err)
		}
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.enabled() {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.warn("report cache write", key, err)
		}
	}
	return json.Unmarshal(raw, dest)
}

// Store overwrites a cached value.
func (c *Cache) Store(ctx context.Context, key string, value any) error {
	if !c.enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Invalidate drops every cached report of studentID.
func (c *Cache) Invalidate(ctx context.Context, studentID string) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Del(ctx, studentKey(studentID), performanceKey(studentID)).Err()
}

func (c *Cache) warn(msg, key string, err error) {
	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn(msg, slog.String("key", key), slog.Any("error", err))
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}
