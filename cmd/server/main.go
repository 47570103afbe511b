package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shortlinks/internal/config"
	httpHandler "shortlinks/internal/handler/http"
	"shortlinks/internal/repository/postgres"
	redisCache "shortlinks/internal/repository/redis"
	"shortlinks/internal/service"
	"shortlinks/internal/shortcode"
	"shortlinks/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.App.LogLevel)
	appLogger.Info("Starting shortlinks",
		"environment", cfg.App.Environment,
		"port", cfg.Server.Port,
	)

	// Database connection pool
	ctx := context.Background()
	db, err := postgres.InitDB(
		ctx,
		cfg.Database.DatabaseDSN(),
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
	)
	if err != nil {
		appLogger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()
	appLogger.Info("Database connection established")

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		appLogger.Error("Failed to apply schema", "error", err)
		log.Fatalf("Schema setup failed: %v", err)
	}

	// Redis cache for the redirect path
	redisClient, err := redisCache.InitRedis(cfg.Redis.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		appLogger.Error("Failed to connect to Redis", "error", err)
		log.Fatalf("Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	appLogger.Info("Redis connection established")

	// Wire up dependencies: pool -> repository -> service -> handler
	linkRepo := postgres.NewLinkRepository(db)
	cache := redisCache.NewCache(redisClient, cfg.Redis.CacheTTL)
	codes := shortcode.New()
	linkService := service.NewLinkService(linkRepo, cache, codes, appLogger.Logger)
	handler := httpHandler.NewHandler(linkService, appLogger.Logger)

	mux := handler.Routes()
	mux.Handle("GET /metrics", promhttp.Handler())

	// Middleware executes outermost-first in the order listed
	finalHandler := httpHandler.Chain(
		httpHandler.RecoveryMiddleware(appLogger.Logger),
		httpHandler.LoggingMiddleware(appLogger.Logger),
		httpHandler.RequestIDMiddleware,
		httpHandler.CORSMiddleware,
		httpHandler.MetricsMiddleware,
	)(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", "error", err)
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for SIGINT/SIGTERM, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exited gracefully")
}
