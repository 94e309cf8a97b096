// Package dashboard derives the display view of the directory: per-row
// status/performance tags and the aggregate statistics shown on the
// dashboard. The synthetic performance score is driven by an injectable
// source so tests stay deterministic.
package dashboard

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/UnknownOlympus/hera/internal/directory"
	"github.com/UnknownOlympus/hera/internal/models"
)

// statsLimit is the oversized page used to pull the whole directory for
// statistics, inactive records included.
const statsLimit = 1000

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

const (
	performanceBase = 70
	performanceSpan = 30
)

// Scorer produces a synthetic performance score in [70,100).
type Scorer func() int

// NewScorer returns a Scorer backed by the given rand source.
func NewScorer(src rand.Source) Scorer {
	rng := rand.New(src) //nolint:gosec // display-only synthetic score

	return func() int {
		return performanceBase + rng.Intn(performanceSpan)
	}
}

// DisplayEmployee is an employee record augmented for rendering.
type DisplayEmployee struct {
	models.Employee
	Status      string
	Performance int
}

// Stats aggregates the whole directory for the dashboard tiles.
type Stats struct {
	Total              int
	Active             int
	Inactive           int
	Departments        map[string]int
	AveragePerformance int
}

// Lister is the slice of the directory layer the dashboard consumes.
type Lister interface {
	List(ctx context.Context, filter directory.Filter) (models.PaginatedResponse, error)
}

// Overview builds dashboard snapshots from the employee directory.
type Overview struct {
	directory Lister
	score     Scorer
}

// NewOverview creates an Overview. A nil scorer falls back to a
// time-seeded source.
func NewOverview(lister Lister, score Scorer) *Overview {
	if score == nil {
		score = NewScorer(rand.NewSource(time.Now().UnixNano()))
	}

	return &Overview{directory: lister, score: score}
}

// Augment tags one employee for display.
func (o *Overview) Augment(employee models.Employee) DisplayEmployee {
	status := StatusInactive
	if employee.Active() {
		status = StatusActive
	}

	return DisplayEmployee{
		Employee:    employee,
		Status:      status,
		Performance: o.score(),
	}
}

// Snapshot pulls the full directory, inactive records included, and
// computes the aggregate statistics.
func (o *Overview) Snapshot(ctx context.Context) (Stats, []DisplayEmployee, error) {
	resp, err := o.directory.List(ctx, directory.Filter{
		Page:            1,
		Limit:           statsLimit,
		IncludeInactive: true,
	})
	if err != nil {
		return Stats{}, nil, fmt.Errorf("failed to fetch directory for snapshot: %w", err)
	}

	stats := Stats{
		Total:       resp.Pagination.Total,
		Departments: make(map[string]int),
	}

	display := make([]DisplayEmployee, 0, len(resp.Data))
	performanceSum := 0

	for _, employee := range resp.Data {
		augmented := o.Augment(employee)
		display = append(display, augmented)

		if augmented.Status == StatusActive {
			stats.Active++
		} else {
			stats.Inactive++
		}

		if employee.Departamento != "" {
			stats.Departments[employee.Departamento]++
		}

		performanceSum += augmented.Performance
	}

	if len(display) > 0 {
		// Rounded, not truncated, to match the dashboard tile.
		stats.AveragePerformance = (performanceSum + len(display)/2) / len(display)
	}

	return stats, display, nil
}
