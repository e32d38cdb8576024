// Package main is the entrypoint for the Pubtrans to Redis connector.
//
// The connector polls the Pubtrans DOI database once an hour, extracts dated
// vehicle journeys, journey pattern points, and metro journeys for a rolling
// date window, and republishes them as TTL'd Redis records that real-time
// services use to resolve journey identifiers without touching the source.
//
// This file handles dependency wiring; the business logic lives in
// internal/scheduler (cycle orchestration), internal/pubtrans (extraction),
// internal/transform (row transformers), and internal/cache (write protocol).
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"pubtransconnect/internal/cache"
	"pubtransconnect/internal/config"
	"pubtransconnect/internal/health"
	"pubtransconnect/internal/metrics"
	"pubtransconnect/internal/metro"
	"pubtransconnect/internal/pubtrans"
	"pubtransconnect/internal/scheduler"
	"pubtransconnect/internal/transform"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	logger.Info("connector starting",
		"history_days", cfg.Poll.HistoryDays,
		"future_days", cfg.Poll.FutureDays,
		"minute_offset", cfg.Poll.MinuteOffset,
		"redis_ttl", cfg.Redis.TTL().String(),
	)

	connString, err := cfg.Pubtrans.ResolveConnString()
	if err != nil {
		logger.Error("connection string unavailable, aborting", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	retryPolicy := scheduler.RetryPolicy{
		Attempts: cfg.Startup.RetryAttempts,
		Backoff:  cfg.Startup.RetryBackoff,
	}

	source, err := pubtrans.OpenSource(connString)
	if err != nil {
		logger.Error("failed to open pubtrans source", "error", err)
		os.Exit(1)
	}
	defer source.Close()
	if err := scheduler.Retry(ctx, logger, retryPolicy, "pubtrans", source.Ping); err != nil {
		logger.Error("pubtrans source unreachable, aborting", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer redisClient.Close()
	writer := cache.NewWriter(redisClient, cfg.Redis.TTL(), logger)
	if err := scheduler.Retry(ctx, logger, retryPolicy, "redis", writer.Ping); err != nil {
		logger.Error("redis unreachable, aborting", "error", err)
		os.Exit(1)
	}

	collector := metrics.NewCollector()
	cycle := scheduler.NewCycle(scheduler.CycleConfig{
		Processor: pubtrans.NewQueryProcessor(source, logger),
		Transformers: []pubtrans.Transformer{
			transform.NewJourney(writer, logger),
			transform.NewStop(writer, logger),
			transform.NewMetro(writer, metro.ShortName, logger),
		},
		Heartbeat:   writer,
		Collector:   collector,
		HistoryDays: cfg.Poll.HistoryDays,
		FutureDays:  cfg.Poll.FutureDays,
		Logger:      logger,
	})
	sched := scheduler.NewScheduler(scheduler.SchedulerConfig{
		Cycle:        cycle,
		MinuteOffset: cfg.Poll.MinuteOffset,
		Collector:    collector,
		Logger:       logger,
	})

	healthServer := health.NewServer(
		connectorStatus{cycle: cycle, sched: sched},
		collector.Handler(),
		cfg.Poll.HealthMaxAge,
		logger,
	)
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           healthServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("health server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", "error", err)
		}
	}()

	// Blocks until the context is cancelled by a signal.
	sched.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown failed", "error", err)
	}
	logger.Info("connector stopped")
}

// connectorStatus adapts the cycle and scheduler to the health.Status view.
type connectorStatus struct {
	cycle *scheduler.Cycle
	sched *scheduler.Scheduler
}

func (s connectorStatus) LastSuccess() time.Time { return s.cycle.LastSuccess() }
func (s connectorStatus) Busy() bool             { return s.sched.Busy() }

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
