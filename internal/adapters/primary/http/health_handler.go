package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"time"
)

// HealthChecker is satisfied by pgxpool.Pool.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness and readiness probes for one of the two
// binaries. The api and relay processes share this handler; the component
// field tells them apart in probe output and dashboards.
type HealthHandler struct {
	db        HealthChecker
	component string
	version   string
	startTime time.Time
}

// NewHealthHandler creates a health handler for the named component
// ("api" or "relay").
func NewHealthHandler(db HealthChecker, component, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		component: component,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthStatus is the body of every health endpoint.
type HealthStatus struct {
	Status     string `json:"status"`
	Component  string `json:"component"`
	Version    string `json:"version,omitempty"`
	Uptime     string `json:"uptime,omitempty"`
	Timestamp  string `json:"timestamp"`
	Database   string `json:"database,omitempty"`
	Goroutines int    `json:"goroutines,omitempty"`
}

// HandleLiveness reports that the process is running. It deliberately checks
// nothing else: a relay that lost its database must keep serving already
// established connections and refuse new joins, not be restarted.
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, HealthStatus{
		Status:    "healthy",
		Component: h.component,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness reports whether the process can take traffic. Both
// binaries need the database: the api for every request, the relay to
// authorize room joins and therefore to accept new connections usefully.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "healthy",
		Component: h.component,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Database:  "ok",
	}

	if err := h.pingDatabase(r.Context()); err != nil {
		status.Status = "unhealthy"
		status.Database = err.Error()
		writeHealth(w, http.StatusServiceUnavailable, status)
		return
	}

	writeHealth(w, http.StatusOK, status)
}

// HandleHealth is the operator-facing endpoint: readiness plus runtime
// detail. For the relay the goroutine count roughly tracks open connections,
// two pumps per client.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:     "healthy",
		Component:  h.component,
		Version:    h.version,
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Database:   "ok",
		Goroutines: runtime.NumGoroutine(),
	}

	code := http.StatusOK
	if err := h.pingDatabase(r.Context()); err != nil {
		status.Status = "degraded"
		status.Database = err.Error()
		code = http.StatusServiceUnavailable
	}

	writeHealth(w, code, status)
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	if h.db == nil {
		return errDatabaseNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.db.Ping(ctx)
}

var errDatabaseNotConfigured = errors.New("database not configured")

func writeHealth(w http.ResponseWriter, code int, status HealthStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}
