// Package cache keeps computed aggregate views (job application stats, BD
// groupings) in Redis.
//
// Redis is optional. With no address configured, or when the server cannot
// be reached at startup, the Cache runs in bypass mode: reads always miss
// and writes are no-ops. Runtime Redis errors are logged once and then
// treated as misses, so the API keeps answering from the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL applies when Options.TTL is zero.
const DefaultTTL = 5 * time.Minute

// keyPrefix namespaces every key this service writes.
const keyPrefix = "backoffice:"

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Cache is a JSON cache over a Redis client. A nil *Cache is valid and
// behaves like one in bypass mode.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger

	warnedUnavailable atomic.Bool
}

// New connects to Redis. It never fails: if Redis is not configured or not
// reachable it returns a Cache in bypass mode.
func New(ctx context.Context, opts Options, logger *slog.Logger) *Cache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{ttl: ttl, logger: logger}

	if opts.Addr == "" {
		logger.Info("redis not configured, aggregate cache disabled")
		return c
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, bypassing aggregate cache",
			slog.String("addr", opts.Addr),
			slog.String("error", err.Error()),
		)
		_ = client.Close()
		return c
	}

	logger.Info("redis connected", slog.String("addr", opts.Addr))
	c.client = client
	return c
}

// Enabled reports whether a Redis connection is in use.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) warnUnavailableOnce(err error) {
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		c.logger.Warn("redis error, serving from database", slog.String("error", err.Error()))
	}
}

// GetJSON decodes the value stored at key into out. It reports whether a
// value was found.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	b, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		c.warnUnavailableOnce(err)
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("cache: decoding %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value at key for the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value any) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encoding %s: %w", key, err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, b, c.ttl).Err(); err != nil {
		c.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		c.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Ping checks the Redis connection. In bypass mode it reports nothing wrong.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
