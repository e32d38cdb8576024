// Package health serves the connector's liveness endpoint and the Prometheus
// metrics handler.
package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Status is the state the health endpoint reports on.
type Status interface {
	// LastSuccess returns the completion time of the last successful cycle,
	// zero if none yet.
	LastSuccess() time.Time
	// Busy reports whether a cycle is currently running.
	Busy() bool
}

// Server wires the /health and /metrics routes.
type Server struct {
	status   Status
	maxAge   time.Duration
	started  time.Time
	logger   *slog.Logger
	now      func() time.Time
	handlers http.Handler
}

// response is the JSON body of the health endpoint.
type response struct {
	Status          string `json:"status"`
	LastCycleUpdate string `json:"last_cycle_update,omitempty"`
	CycleRunning    bool   `json:"cycle_running"`
}

// NewServer creates the health server. maxAge bounds how stale the last
// successful cycle may be before the process reports unhealthy; the same
// grace applies from process start until the first cycle completes.
func NewServer(status Status, metricsHandler http.Handler, maxAge time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		status:  status,
		maxAge:  maxAge,
		started: time.Now(),
		logger:  logger,
		now:     time.Now,
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metricsHandler)
	s.handlers = r
	return s
}

// Handler returns the HTTP handler for the server's routes.
func (s *Server) Handler() http.Handler {
	return s.handlers
}

// handleHealth reports 200 while the last successful cycle (or, before the
// first one, process start) is younger than maxAge, 503 otherwise. A hung
// query shows up here as a missed heartbeat.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	last := s.status.LastSuccess()
	ref := last
	if ref.IsZero() {
		ref = s.started
	}

	body := response{Status: "healthy", CycleRunning: s.status.Busy()}
	if !last.IsZero() {
		body.LastCycleUpdate = last.UTC().Format(time.RFC3339)
	}

	code := http.StatusOK
	if s.now().Sub(ref) > s.maxAge {
		body.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to write health response", "error", err)
	}
}
