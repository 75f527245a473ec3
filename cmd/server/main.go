package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"panelhub/server/internal/cache"
	"panelhub/server/internal/config"
	"panelhub/server/internal/httpapi"
	"panelhub/server/internal/logging"
	"panelhub/server/internal/repository"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connection failed", zap.Error(err))
	}
	defer pool.Close()

	store := repository.NewStore(pool)
	if err := store.Migrate(ctx); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	c := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	if c.Enabled() {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := c.Ping(pingCtx); err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		}
		cancel()
		defer func() { _ = c.Close() }()
	}

	server := httpapi.NewServer(cfg, logger, store, c)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
