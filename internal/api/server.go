// Package api exposes the export service over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/webflowx/exporter/internal/export"
	"github.com/webflowx/exporter/internal/job"
	"github.com/webflowx/exporter/internal/telemetry"
)

// Server wires HTTP handlers to the job registry and runner.
type Server struct {
	router   chi.Router
	registry *job.Registry
	runner   *job.Runner
	logger   *zap.Logger
	version  string
}

// NewServer constructs a Server with middleware and routes. corsOrigins is
// the resolved allow-list; "*" allows everything.
func NewServer(registry *job.Registry, runner *job.Runner, logger *zap.Logger, version string, corsOrigins []string) *Server {
	s := &Server{
		registry: registry,
		runner:   runner,
		logger:   logger,
		version:  version,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(telemetry.Middleware)

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	r.Route("/exports", func(r chi.Router) {
		r.Post("/", s.createExport)
		r.Route("/{job_id}", func(r chi.Router) {
			r.Get("/progress", s.getProgress)
			r.Get("/download", s.download)
		})
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

type exportRequest struct {
	URL             string `json:"url"`
	RemoveBadge     bool   `json:"remove_badge"`
	GenerateSitemap bool   `json:"generate_sitemap"`
	Debug           bool   `json:"debug"`
	Silent          bool   `json:"silent"`
	OutputName      string `json:"output_name"`
}

func (s *Server) createExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := validateSeedURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.runner.Start(job.Params{
		URL:             req.URL,
		OutputName:      req.OutputName,
		RemoveBadge:     req.RemoveBadge,
		GenerateSitemap: req.GenerateSitemap,
		Debug:           req.Debug,
		Silent:          req.Silent,
	})
	if err != nil {
		if errors.Is(err, export.ErrConflictingFlags) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("failed to start export", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to start export")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": created.ID})
}

func validateSeedURL(raw string) error {
	if raw == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("url must be an absolute http(s) URL")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
