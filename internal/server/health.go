package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// HealthChecker probes the two remote collaborators hera depends on:
// the employee resource and the authentication endpoint.
type HealthChecker struct {
	employeeHost string
	authHost     string
	httpClient   *http.Client
	log          *slog.Logger
}

func NewHealthChecker(employeeHost, authHost string, log *slog.Logger) *HealthChecker {
	clientTO := 5
	return &HealthChecker{
		employeeHost: employeeHost,
		authHost:     authHost,
		httpClient:   &http.Client{Timeout: time.Duration(clientTO) * time.Second},
		log:          log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	h.log.DebugContext(req.Context(), "Performing health checks...")

	status := make(map[string]string)
	overallStatus := http.StatusOK

	for name, host := range map[string]string{
		"employee_api": h.employeeHost,
		"auth_api":     h.authHost,
	} {
		state := h.probe(req, name, host)
		status[name] = state
		if state != "ok" {
			overallStatus = http.StatusServiceUnavailable
		}
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write health check response", "error", err)
	}

	h.log.DebugContext(req.Context(), "Health checks completed", "status", overallStatus)
}

func (h *HealthChecker) probe(req *http.Request, name, host string) string {
	resp, err := h.httpClient.Head(host) //nolint:noctx // ctx is overhead for this healthcheck
	if err != nil {
		h.log.WarnContext(req.Context(), "Health check failed: host unreachable",
			"check", name, "host", host, "error", err)

		return "unreachable"
	}

	if closeErr := resp.Body.Close(); closeErr != nil {
		h.log.WarnContext(req.Context(), "Failed to close response body", "error", closeErr)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		h.log.WarnContext(req.Context(), "Health check failed: host returned error status",
			"check", name, "host", host, "status_code", resp.StatusCode)

		return "degraded"
	}

	return "ok"
}
