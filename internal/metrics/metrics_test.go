package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/UnknownOlympus/hera/internal/metrics"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	m := metrics.NewMetrics(reg)

	assert.NotNil(t, m)
}

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.ObserveRequest("list", "ok", 0.05)
	m.ObserveRequest("list", "ok", 0.02)
	m.ObserveRequest("list", "error", 0.01)

	okCount := testutil.ToFloat64(m.APIRequests.WithLabelValues("list", "ok"))
	errCount := testutil.ToFloat64(m.APIRequests.WithLabelValues("list", "error"))

	assert.InDelta(t, 2.0, okCount, 0.0001)
	assert.InDelta(t, 1.0, errCount, 0.0001)
}

func TestObserveRequest_NilReceiver(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("list", "ok", 0.01)
	})
}
