package fx

import (
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/redis/go-redis/v9"

	"pfengine/internal/audit"
	"pfengine/internal/cache"
	"pfengine/internal/config"
	"pfengine/internal/server"
	"pfengine/internal/shared"
)

// CoreModule provides the serve mode's dependencies: configuration, logging,
// the optional audit store and result cache, and the gin router. The evaluate
// and validate commands do not use it.
var CoreModule = fx.Module("core",
	fx.Provide(
		config.Load,
		NewLogger,
		NewAuditDB,
		NewRecorder,
		NewRedis,
		NewCache,
		NewHandler,
		server.NewRouter,
	),
)

// NewLogger creates a new zap logger based on config.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := shared.NewLogger(shared.LogLevel(cfg.Logging.Level), cfg.Logging.Format == "json")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Info("Logger initialized", zap.String("level", cfg.Logging.Level), zap.String("format", cfg.Logging.Format))
	return log, nil
}

// NewAuditDB opens the optional run-record store. A nil *gorm.DB (empty
// audit DSN) is a valid, fully supported result.
func NewAuditDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	return audit.NewDB(cfg, log)
}

// NewRecorder wraps the audit DB in a Recorder.
func NewRecorder(db *gorm.DB, log *zap.Logger) *audit.Recorder {
	return audit.NewRecorder(db, log)
}

// NewRedis builds the redis client backing the result cache.
func NewRedis(cfg *config.Config, log *zap.Logger) *redis.Client {
	return config.NewRedisClient(cfg, log)
}

// NewCache wraps the redis client in a Cache.
func NewCache(cfg *config.Config, client *redis.Client, log *zap.Logger) *cache.Cache {
	return cache.New(client, time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)
}

// NewHandler bundles the server's route dependencies.
func NewHandler(c *cache.Cache, rec *audit.Recorder, log *zap.Logger) *server.Handler {
	return &server.Handler{Cache: c, Recorder: rec, Logger: log}
}
