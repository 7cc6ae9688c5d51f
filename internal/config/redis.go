package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient creates a new Redis client for the evaluation result cache.
// cfg.Redis.URL, when set, takes precedence over the discrete host/port
// fields (it parses via redis.ParseURL; an unparseable URL falls back to
// host/port).
func NewRedisClient(cfg *Config, logger *zap.Logger) *redis.Client {
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("Invalid REDIS_URL, falling back to host/port", zap.Error(err))
		} else {
			return newRedisClient(opts, logger)
		}
	}

	opts := &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	}
	return newRedisClient(opts, logger)
}

func newRedisClient(opts *redis.Options, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", zap.Error(err))
		logger.Warn("Redis unavailable - evaluation result caching disabled")
	} else {
		logger.Info("Redis connected successfully", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	}

	return client
}
