package audit

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pfengine/internal/config"
)

// NewDB opens the audit store per cfg.Audit and migrates it. An empty DSN
// disables persistence: NewDB returns (nil, nil), and every Recorder method
// then becomes a no-op.
func NewDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	if cfg.Audit.DSN == "" {
		logger.Info("audit DSN empty, run auditing disabled")
		return nil, nil
	}

	var dialector gorm.Dialector
	switch cfg.Audit.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Audit.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.Audit.DSN)
	default:
		return nil, fmt.Errorf("unsupported audit db driver: %s", cfg.Audit.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}

	logger.Info("audit db ready", zap.String("driver", cfg.Audit.Driver))
	return db, nil
}
