// Package httpapi exposes the risk-assessment service over HTTP, plus the
// operational health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neowatch/neo-risk-service/internal/adapter/neows"
	"github.com/neowatch/neo-risk-service/internal/service"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server routes inbound requests to the service layer.
type Server struct {
	httpServer *http.Server
	svc        *service.Service
	logger     *slog.Logger
}

// NewServer builds the router and wraps it in an http.Server.
func NewServer(addr string, svc *service.Service, ready ReadinessChecker, corsOrigins []string, logger *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(corsOrigins))

	r.Get("/health", s.handleHealth)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", handleReady(ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/neo", func(r chi.Router) {
		r.Get("/feed", s.handleFeed)
		r.Get("/browse", s.handleBrowse)
		r.Get("/{id}", s.handleDetail)
		r.Get("/{id}/assessment", s.handleAssessment)
		r.Get("/{id}/enrichment", s.handleEnrichment)
		r.Get("/{id}/impact", s.handleImpact)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start_date")
	if start == "" {
		writeError(w, http.StatusBadRequest, "start_date is required")
		return
	}
	bounds, err := parseFilterBounds(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.svc.Feed(r.Context(), start, r.URL.Query().Get("end_date"), bounds)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r.URL.Query().Get("page"), 0)
	if err != nil || page < 0 {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	size, err := intQuery(r.URL.Query().Get("size"), 20)
	if err != nil || size < 1 || size > 100 {
		writeError(w, http.StatusBadRequest, "size must be between 1 and 100")
		return
	}
	bounds, err := parseFilterBounds(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.svc.Browse(r.Context(), page, size, bounds)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	assessment, err := s.svc.Assess(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleEnrichment(w http.ResponseWriter, r *http.Request) {
	enrichment, err := s.svc.Enrich(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, enrichment)
}

func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	overrides, err := parseImpactOverrides(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.svc.Impact(r.Context(), chi.URLParam(r, "id"), overrides)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// writeUpstreamError relays the upstream status code when the orbital
// catalog failed, and maps everything else to 502.
func (s *Server) writeUpstreamError(w http.ResponseWriter, err error) {
	var upstream *neows.UpstreamError
	if errors.As(err, &upstream) {
		writeError(w, upstream.StatusCode, "orbital catalog error")
		return
	}
	s.logger.Error("request failed", "error", err)
	writeError(w, http.StatusBadGateway, "orbital catalog unreachable")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
