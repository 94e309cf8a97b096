package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StartMonitoringServer serves /healthz and /metrics until the context is
// canceled, then shuts the listener down gracefully. It blocks.
func StartMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	port int,
	employeeHost, authHost string,
) {
	mux := http.NewServeMux()
	mux.Handle("/healthz", NewHealthChecker(employeeHost, authHost, log))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	readHeaderTO := 5
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           mux,
		ReadHeaderTimeout: time.Duration(readHeaderTO) * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownTO := 5
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownTO)*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shut down monitoring server", "error", err)
		}
	}()

	log.InfoContext(ctx, "Monitoring server listening", "port", port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Monitoring server failed", "error", err)
	}
}
