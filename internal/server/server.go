// Package server exposes the engine over HTTP: a POST /evaluate endpoint, a
// health check, and a websocket stream that pushes an evaluation's monthly
// context a period at a time. It follows the teacher's
// internal/fx/core.go NewGinRouter shape (logger/recovery/error/CORS/rate
// limit middleware, then swagger), narrowed to the engine's own routes.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"pfengine/internal/audit"
	"pfengine/internal/cache"
	"pfengine/internal/config"
	"pfengine/internal/middleware"
	"pfengine/internal/shared"
)

// Handler bundles the dependencies every route needs.
type Handler struct {
	Cache    *cache.Cache
	Recorder *audit.Recorder
	Logger   *zap.Logger
}

// NewRouter builds the gin.Engine serving the evaluate/healthz/ws routes.
func NewRouter(cfg *config.Config, logger *zap.Logger, h *Handler) *gin.Engine {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(middleware.NewCORS(cfg.CORS.Origins))
	r.Use(middleware.IPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Requests*2))

	if config.IsDevelopment() {
		r.Use(gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
			return fmt.Sprintf("[%s] %s %s %d %s \"%s\" %s\n",
				p.TimeStamp.Format("2006/01/02 - 15:04:05"), p.ClientIP, p.Method, p.StatusCode, p.Latency, p.Path, p.ErrorMessage)
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		shared.RespondWithSuccess(c, http.StatusOK, "engine is healthy", gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.POST("/evaluate", h.Evaluate)
	r.GET("/ws/evaluate", h.StreamEvaluate)

	r.StaticFile("/openapi/swagger.yaml", "./docs/swagger.yaml")
	r.StaticFile("/openapi/swagger.json", "./docs/swagger.json")
	url := ginSwagger.URL("/openapi/swagger.yaml")
	swaggerHandler := ginSwagger.WrapHandler(swaggerFiles.Handler, url,
		ginSwagger.PersistAuthorization(true),
		ginSwagger.DocExpansion("list"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	)
	r.GET("/swagger/*any", swaggerHandler)
	r.GET("/swagger-ui/*any", swaggerHandler)

	return r
}
