// Package api exposes the HTTP interface for the rise-tracker service: the
// generated site, a listings summary API, and Prometheus metrics.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ymatsuda/rise-tracker/internal/tracker"
)

// Server wires HTTP handlers to the tracker store and site directory.
type Server struct {
	router  chi.Router
	tracker *tracker.Tracker
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes. siteDir is the
// directory the generated artifacts live in.
func NewServer(tr *tracker.Tracker, siteDir string, logger *zap.Logger) *Server {
	s := &Server{
		tracker: tr,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(recoverMiddleware(logger))

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/api/properties", s.listProperties)
	r.Handle("/*", http.FileServer(http.Dir(siteDir)))

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listProperties returns the tracked listing summaries keyed by management
// number, exactly as persisted by the tracker.
func (s *Server) listProperties(w http.ResponseWriter, _ *http.Request) {
	entries, err := s.tracker.Load()
	if err != nil {
		s.logger.Error("Failed to load tracker store", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load listings")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
