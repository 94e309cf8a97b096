package main

import (
	"context"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/UnknownOlympus/hera/internal/client"
	"github.com/UnknownOlympus/hera/internal/config"
	"github.com/UnknownOlympus/hera/internal/dashboard"
	"github.com/UnknownOlympus/hera/internal/directory"
	"github.com/UnknownOlympus/hera/internal/metrics"
	"github.com/UnknownOlympus/hera/internal/server"
	"github.com/UnknownOlympus/hera/internal/services/overview"
	"github.com/UnknownOlympus/hera/internal/session"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup
	delta := 2

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	httpClient := client.New(logger, cfg.HRAPI.Timeout)

	store, err := session.NewFileStore(cfg.Session.Dir)
	if err != nil {
		log.Fatalf("Failed to open session storage: %v", err)
	}

	sess := session.NewSession(logger, httpClient, store, cfg.HRAPI.AuthURL, appMetrics)
	employeeDir := directory.New(logger, httpClient, cfg.HRAPI.BaseURL, cfg.HRAPI.Strategy, appMetrics)
	ovw := dashboard.NewOverview(employeeDir, dashboard.NewScorer(rand.NewSource(time.Now().UnixNano())))
	svc := overview.NewService(logger, sess, ovw, appMetrics)

	wgr.Add(delta)

	go func() {
		defer wgr.Done()
		server.StartMonitoringServer(ctx, logger, reg, cfg.Monitor.Port, cfg.HRAPI.BaseURL, cfg.HRAPI.AuthURL)
	}()

	go func() {
		defer wgr.Done()
		logger.InfoContext(ctx, "Starting Overview Service")
		if err = svc.Start(ctx, cfg.Refresh.Email, cfg.Refresh.Password, cfg.Refresh.Interval); err != nil {
			logger.ErrorContext(ctx, "Overview Service failed", "error", err)
			stop()
		}
		logger.InfoContext(ctx, "Overview Service stopped.")
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	wgr.Wait()

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
