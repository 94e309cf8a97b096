package overview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/hera/internal/dashboard"
	"github.com/UnknownOlympus/hera/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hera/internal/metrics"
	"github.com/UnknownOlympus/hera/internal/session"
)

// Service keeps the dashboard snapshot fresh: it restores or establishes
// a session, builds an initial snapshot and then rebuilds it on a fixed
// interval until the context is canceled.
type Service struct {
	log      *slog.Logger
	session  *session.Session
	overview *dashboard.Overview
	metrics  *metrics.Metrics
}

// NewService creates the dashboard refresh service.
func NewService(log *slog.Logger, sess *session.Session, ovw *dashboard.Overview, mtr *metrics.Metrics) *Service {
	return &Service{log: log, session: sess, overview: ovw, metrics: mtr}
}

func (s *Service) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "overview"),
	)
}

// Start executes the service logic: restore the persisted session, log
// in with the configured account when one is given (a single attempt,
// failures propagate), then refresh the snapshot on every tick.
func (s *Service) Start(ctx context.Context, email, password string, interval time.Duration) error {
	const opn = "Overview.Start"
	log := s.initLogger(opn)

	s.session.Restore()

	if !s.session.IsAuthenticated() && email != "" {
		log.InfoContext(ctx, "No persisted session, attempting login...")
		if _, err := s.session.Login(ctx, email, password); err != nil {
			return fmt.Errorf("failed to login: %w", err)
		}
		log.InfoContext(ctx, "Login successful.")
	}

	log.InfoContext(ctx, "Building initial snapshot")
	if err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("failed during initial snapshot: %w", err)
	}

	log.InfoContext(ctx, "Starting maintenance mode", "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			log.InfoContext(ctx, "Periodic refresh triggered.")
			if err := s.Refresh(ctx); err != nil {
				log.ErrorContext(ctx, "Periodic refresh failed", sl.Err(err))
			}
		case <-ctx.Done():
			log.InfoContext(ctx, "Service shutting down.")
			return nil
		}
	}
}

// Refresh builds one snapshot and publishes it to the logs and gauges.
func (s *Service) Refresh(pctx context.Context) error {
	const opn = "Overview.Refresh"
	log := s.initLogger(opn)

	contextTimeout := 30
	ctx, cancel := context.WithTimeout(pctx, time.Duration(contextTimeout)*time.Second)
	defer cancel()

	stats, display, err := s.overview.Snapshot(ctx)
	if err != nil {
		s.countRefresh("failure")
		return fmt.Errorf("failed to build dashboard snapshot: %w", err)
	}

	s.publish(stats)
	s.countRefresh("success")

	log.InfoContext(ctx, "Snapshot refreshed",
		"total", stats.Total,
		"active", stats.Active,
		"inactive", stats.Inactive,
		"departments", len(stats.Departments),
		"avg_performance", stats.AveragePerformance,
		"rows", len(display),
	)

	return nil
}

func (s *Service) publish(stats dashboard.Stats) {
	if s.metrics == nil {
		return
	}

	s.metrics.EmployeesTotal.WithLabelValues("active").Set(float64(stats.Active))
	s.metrics.EmployeesTotal.WithLabelValues("inactive").Set(float64(stats.Inactive))
	s.metrics.LastRefresh.SetToCurrentTime()
}

func (s *Service) countRefresh(status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Refreshes.WithLabelValues(status).Inc()
}
