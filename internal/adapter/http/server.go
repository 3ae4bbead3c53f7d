package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker gates the readiness endpoint. The pipeline implements it:
// the service reports ready once the first fetch cycle has completed, so a
// rollout never routes traffic to an instance that has published nothing.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the service's operational endpoints: liveness, readiness,
// and Prometheus metrics. It carries no feed data; submission goes through
// the configured sink, not this server.
type Server struct {
	srv          *http.Server
	checker      ReadinessChecker
	readyTimeout time.Duration
	logger       *slog.Logger
}

// NewServer wires the operational routes. readyTimeout bounds each readiness
// probe so a wedged check turns into a 503 instead of a hung connection.
func NewServer(addr string, checker ReadinessChecker, readyTimeout time.Duration, logger *slog.Logger) *Server {
	s := &Server{
		checker:      checker,
		readyTimeout: readyTimeout,
		logger:       logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleLiveness)
	mux.HandleFunc("GET /readyz", s.handleReadiness)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start blocks serving requests until Shutdown; it returns
// http.ErrServerClosed after a graceful stop.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// ServeHTTP dispatches through the route table without a listener, for tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.srv.Handler.ServeHTTP(w, r)
}

// handleLiveness answers as long as the process serves requests. It says
// nothing about upstream reachability; that is the readiness probe's job.
func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.readyTimeout)
	defer cancel()

	if err := s.checker.CheckReadiness(ctx); err != nil {
		s.respond(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) respond(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("write status response failed", "error", err)
	}
}
