// Package main is the entry point for the UnifiedUI Cache Service.
// @title UnifiedUI Cache Service API
// @version 1.0
// @description Admin API over a lazily connected Redis cache client

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/unifiedui/cache-service/docs"
	"github.com/unifiedui/cache-service/internal/api/handlers"
	"github.com/unifiedui/cache-service/internal/api/middleware"
	"github.com/unifiedui/cache-service/internal/api/routes"
	"github.com/unifiedui/cache-service/internal/config"
	"github.com/unifiedui/cache-service/internal/core/cache"
	"github.com/unifiedui/cache-service/internal/core/vault"
	domainerrors "github.com/unifiedui/cache-service/internal/domain/errors"
	rediscache "github.com/unifiedui/cache-service/internal/infrastructure/cache/redis"
	dotenvvault "github.com/unifiedui/cache-service/internal/infrastructure/vault/dotenv"
	"github.com/unifiedui/cache-service/internal/pkg/logging"
	"github.com/unifiedui/cache-service/internal/pkg/metrics"
	"github.com/unifiedui/cache-service/internal/services/cacheadmin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.Setup(cfg.Log)
	ctx := context.Background()

	// Initialize vault using factory pattern
	secrets, err := createVault(cfg.Vault)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize vault")
	}
	defer secrets.Close()
	if err := secrets.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("vault is not reachable")
	}

	// Initialize cache client using factory pattern; no connection is made yet
	cacheClient, err := createCacheClient(ctx, cfg.Cache, secrets)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache client")
	}
	defer cacheClient.Close()

	collector := metrics.NewCollector("cache_service")

	cacheService, err := cacheadmin.NewService(&cacheadmin.Config{
		CacheClient: cacheClient,
		Metrics:     collector,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache service")
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Setup router
	router := setupRouter(cfg, cacheService, collector)

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("addr", cfg.Server.Address()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}

// createVault creates a vault based on the configuration.
func createVault(cfg config.VaultConfig) (vault.Vault, error) {
	switch vault.Type(cfg.Type) {
	case vault.TypeDotEnv:
		v, err := dotenvvault.NewVault(cfg.SecretsFile)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, domainerrors.NewUnsupportedDriverError(cfg.Type)
	}
}

// createCacheClient creates a cache client based on the configuration.
func createCacheClient(ctx context.Context, cfg config.CacheConfig, secrets vault.Vault) (cache.Client, error) {
	switch cache.Type(cfg.Type) {
	case cache.TypeRedis:
		password, err := vault.Resolve(ctx, secrets, cfg.Password)
		if err != nil {
			return nil, err
		}

		logger := log.Logger
		return rediscache.NewClient(rediscache.Config{
			Host:           cfg.Host,
			Port:           cfg.Port,
			Password:       password,
			DB:             cfg.DB,
			Disabled:       !cfg.Enabled,
			ConnectTimeout: cfg.ConnectTimeout,
			ReadTimeout:    cfg.ReadTimeout,
			JSON: &cache.JSONOptions{
				NumericCheck:          cfg.JSONNumericCheck,
				UnescapedUnicode:      cfg.JSONUnescapedUnicode,
				SubstituteInvalidUTF8: cfg.JSONSubstituteInvalidUTF8,
				UnescapedSlashes:      cfg.JSONUnescapedSlashes,
			},
			Logger: &logger,
		})
	default:
		return nil, domainerrors.NewUnsupportedDriverError(cfg.Type)
	}
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, cacheService cacheadmin.Service, collector *metrics.Collector) *gin.Engine {
	router := gin.New()

	// Create middleware
	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.CORSOrigins
	}

	// Setup routes
	routesCfg := &routes.Config{
		HealthHandler: handlers.NewHealthHandler(cacheService),
		CacheHandler:  handlers.NewCacheHandler(cacheService),
		Metrics:       collector,
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw, corsCfg)

	// Swagger documentation endpoint
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
