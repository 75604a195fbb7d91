package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/tycoonlabs/therapy-tycoon/internal/api/router"
	"github.com/tycoonlabs/therapy-tycoon/internal/config"
	"github.com/tycoonlabs/therapy-tycoon/internal/engine"
	"github.com/tycoonlabs/therapy-tycoon/internal/events"
	"github.com/tycoonlabs/therapy-tycoon/internal/http/handlers"
	"github.com/tycoonlabs/therapy-tycoon/internal/observability/metrics"
	"github.com/tycoonlabs/therapy-tycoon/internal/save"
	"github.com/tycoonlabs/therapy-tycoon/pkg/logging"
)

func main() {
	// Optional .env for local development; a missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting therapy-tycoon API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	seed := cfg.RNGSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var store save.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		store = save.NewRedisStore(rdb, cfg.SaveSlotKey)
		logger.Info("save slot backed by redis", "addr", cfg.RedisAddr, "key", cfg.SaveSlotKey)
	} else {
		store = save.NewInMemoryStore()
		logger.Info("save slot kept in process memory")
	}

	engineMetrics := metrics.NewEngineMetrics(nil)
	bus := events.NewBus(events.NewLogSink(logger))

	eng := engine.New(engine.Options{
		Rules:              cfg.Rules(),
		Seed:               seed,
		Rooms:              cfg.Rooms,
		Balance:            cfg.StartingBalance,
		TelehealthUnlocked: cfg.TelehealthUnlocked,
		Logger:             logger,
		Bus:                bus,
		Metrics:            engineMetrics,
		Store:              store,
	})

	// Resume a saved practice when one exists; a fresh slot is not an error.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 5*time.Second)
	if err := eng.LoadGame(loadCtx); err != nil && err != save.ErrNoSave {
		logger.Warn("could not restore save slot", "error", err)
	}
	cancelLoad()

	engineHandler := handlers.NewEngineHandler(handlers.EngineConfig{
		Engine: eng,
		Logger: logger,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		Engine:             engineHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		CommandRateLimit:   cfg.CommandRateLimit,
		CommandBurst:       cfg.CommandBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Persist the running practice before the process exits.
	if err := eng.SaveGame(shutdownCtx); err != nil {
		logger.Warn("final save failed", "error", err)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
