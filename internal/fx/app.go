package fx

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pfengine/internal/audit"
	"pfengine/internal/cache"
	"pfengine/internal/config"
)

// AppModule wires the background janitor and the HTTP server lifecycle.
var AppModule = fx.Module("app",
	fx.Invoke(
		StartJanitor,
		StartServer,
	),
)

// StartJanitor schedules the periodic cache-eviction and audit-vacuum jobs
// (robfig/cron), matching the teacher's broker sync worker's use of a
// scheduled background job, scoped down to the engine's own housekeeping.
func StartJanitor(lc fx.Lifecycle, cfg *config.Config, c *cache.Cache, db *gorm.DB, logger *zap.Logger) {
	sched := cron.New()

	_, err := sched.AddFunc(cfg.Cron.CacheEvictSchedule, func() {
		n, err := c.Evict(context.Background())
		if err != nil {
			logger.Warn("cache eviction failed", zap.Error(err))
			return
		}
		logger.Info("evicted cached evaluations", zap.Int("count", n))
	})
	if err != nil {
		logger.Warn("invalid cache evict schedule, janitor entry skipped", zap.Error(err))
	}

	if db != nil {
		_, err = sched.AddFunc(cfg.Cron.AuditVacuumSchedule, func() {
			cutoff := time.Now().AddDate(0, 0, -cfg.Cron.AuditRetentionDays)
			n, err := audit.VacuumOlderThan(db, cutoff)
			if err != nil {
				logger.Warn("audit vacuum failed", zap.Error(err))
				return
			}
			logger.Info("vacuumed old audit records", zap.Int64("count", n))
		})
		if err != nil {
			logger.Warn("invalid audit vacuum schedule, janitor entry skipped", zap.Error(err))
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			sched.Start()
			logger.Info("janitor started",
				zap.String("cache_evict_schedule", cfg.Cron.CacheEvictSchedule),
				zap.String("audit_vacuum_schedule", cfg.Cron.AuditVacuumSchedule),
			)
			return nil
		},
		OnStop: func(context.Context) error {
			<-sched.Stop().Done()
			return nil
		},
	})
}

// StartServer starts the HTTP server with graceful shutdown.
func StartServer(lc fx.Lifecycle, router *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
				logger.Info("server URLs",
					zap.String("base", "http://"+srv.Addr),
					zap.String("swagger", "http://"+srv.Addr+"/swagger/index.html"),
					zap.String("health", "http://"+srv.Addr+"/healthz"),
				)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("server forced to shutdown", zap.Error(err))
				return err
			}
			logger.Info("server gracefully stopped")
			return nil
		},
	})
}
