// Package main is the entry point for the Household Ledger API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/household-ledger/backend/config"
	"github.com/household-ledger/backend/internal/infra/db"
	"github.com/household-ledger/backend/internal/infra/dependency"
	"github.com/household-ledger/backend/internal/infra/logger"
	"github.com/household-ledger/backend/internal/integration/adapters"
	"github.com/household-ledger/backend/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	cfg := config.Load()

	logger.Init(cfg.Server.Environment)
	defer logger.Sync()
	log := logger.Get()

	log.Infow("Starting Household Ledger API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalw("Database connection failed", "error", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Errorw("Failed to close database connection", "error", err)
		}
	}()

	if err := database.AutoMigrate(model.AllModels()...); err != nil {
		log.Fatalw("Failed to run database migrations", "error", err)
	}
	log.Info("Database migrations completed successfully")

	// Reports are still served without Redis, just not cached
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = db.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warnw("Redis connection failed, report cache disabled", "error", err)
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					log.Errorw("Failed to close redis connection", "error", err)
				}
			}()
		}
	}

	injector := dependency.NewInjector(cfg, database.DB(), redisClient, adapters.NewSystemClock(), log)
	engine, err := injector.Router.Setup(cfg.Server.Environment)
	if err != nil {
		log.Fatalw("Failed to set up router", "error", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		log.Errorw("Server failed", "error", err)
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
		return
	}

	log.Info("Server exited properly")
}
