// Package routes defines the HTTP routes for the cache service.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/unifiedui/cache-service/internal/api/handlers"
	"github.com/unifiedui/cache-service/internal/api/middleware"
	"github.com/unifiedui/cache-service/internal/pkg/metrics"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler *handlers.HealthHandler
	CacheHandler  *handlers.CacheHandler
	// Metrics is optional; when set it is served at /metrics.
	Metrics *metrics.Collector
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// API v1 routes - all routes under /api/v1/cache-service
	v1 := r.Group("/api/v1/cache-service")
	{
		// Health check routes
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		v1.GET("/status", cfg.CacheHandler.Status)
		v1.GET("/last-error", cfg.CacheHandler.LastError)
		v1.POST("/enable", cfg.CacheHandler.Enable)
		v1.POST("/disable", cfg.CacheHandler.Disable)

		// --- Key Routes ---
		keys := v1.Group("/keys")
		{
			keys.GET("", cfg.CacheHandler.ListKeys)
			keys.DELETE("", cfg.CacheHandler.DeleteKeys)

			keys.GET("/:key", cfg.CacheHandler.GetValue)
			keys.PUT("/:key", cfg.CacheHandler.SetValue)
			keys.DELETE("/:key", cfg.CacheHandler.DeleteKey)

			keys.POST("/:key/incr", cfg.CacheHandler.Increment)
			keys.POST("/:key/decr", cfg.CacheHandler.Decrement)
			keys.POST("/:key/expire", cfg.CacheHandler.Expire)
		}

		// --- Database Routes ---
		database := v1.Group("/database")
		{
			database.PUT("", cfg.CacheHandler.UseDatabase)
			database.POST("/flush", cfg.CacheHandler.FlushDatabase)
		}
	}
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware, corsCfg middleware.CORSConfig) {
	// Apply global middleware
	r.Use(loggingMw.RequestLogger())
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	r.Use(middleware.NewCORSMiddleware(corsCfg))
	r.Use(middleware.Metrics(cfg.Metrics))

	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.MethodNotAllowed())

	// Setup routes
	Setup(r, cfg)
}
