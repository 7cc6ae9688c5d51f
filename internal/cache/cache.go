// Package cache memoizes Evaluate results in redis, keyed by a hash of the
// workbook payload, so a host re-evaluating an unchanged workbook (the
// common case while a user tweaks one input and re-requests a preview)
// skips the module dispatcher and formula engine entirely.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pfengine/internal/engine/orchestrator"
	"pfengine/internal/engine/workbook"
)

const keyPrefix = "pfengine:eval:"

// Cache wraps a redis client. A nil Client makes every method a no-op/miss,
// so server mode works identically with caching on or off.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

// New builds a Cache. client may be nil to disable caching outright.
func New(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{Client: client, TTL: ttl, Logger: logger}
}

// Key hashes a workbook payload into a stable cache key (§6: determinism -
// the same workbook always hashes and evaluates the same way).
func Key(wb workbook.Workbook) (string, error) {
	payload, err := json.Marshal(wb)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}

// Get returns a cached Output for key, if present.
func (c *Cache) Get(ctx context.Context, key string) (orchestrator.Output, bool) {
	if c == nil || c.Client == nil {
		return orchestrator.Output{}, false
	}

	raw, err := c.Client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.Logger.Warn("cache get failed", zap.Error(err))
		}
		return orchestrator.Output{}, false
	}

	var out orchestrator.Output
	if err := json.Unmarshal(raw, &out); err != nil {
		c.Logger.Warn("cache payload corrupt, ignoring", zap.Error(err))
		return orchestrator.Output{}, false
	}
	return out, true
}

// Set stores an Output under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, out orchestrator.Output) {
	if c == nil || c.Client == nil {
		return
	}
	payload, err := json.Marshal(out)
	if err != nil {
		c.Logger.Warn("cache marshal failed", zap.Error(err))
		return
	}
	if err := c.Client.Set(ctx, key, payload, c.TTL).Err(); err != nil {
		c.Logger.Warn("cache set failed", zap.Error(err))
	}
}

// Evict removes every cached evaluation, for the periodic cron janitor.
func (c *Cache) Evict(ctx context.Context) (int, error) {
	if c == nil || c.Client == nil {
		return 0, nil
	}

	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := c.Client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return count, err
		}
		if len(keys) > 0 {
			if err := c.Client.Del(ctx, keys...).Err(); err != nil {
				return count, err
			}
			count += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return count, nil
}
