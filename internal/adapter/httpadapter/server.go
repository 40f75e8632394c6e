// Package httpadapter serves the health endpoints and the reference curves
// over HTTP.
package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/emagram-etl/internal/domain"
	"github.com/couchcryptid/emagram-etl/internal/emagram"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes health, readiness, metrics, and curve endpoints.
type Server struct {
	httpServer *http.Server
	curves     emagram.CurveSource
	baseline   []byte
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /baseline, and /curves/{family} routes. baseline is encoded once here.
func NewServer(addr string, ready sharedobs.ReadinessChecker, curves emagram.CurveSource, baseline domain.Baseline, logger *slog.Logger) (*Server, error) {
	encoded, err := json.Marshal(baseline)
	if err != nil {
		return nil, fmt.Errorf("encode baseline: %w", err)
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		curves:   curves,
		baseline: encoded,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /baseline", s.handleBaseline)
	mux.HandleFunc("GET /curves/{family}", s.handleCurve)

	return s, nil
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

func (s *Server) handleBaseline(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(s.baseline) //nolint:errcheck // client went away
}

func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	family, err := domain.ParseFamily(r.PathValue("family"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	param, err := strconv.ParseFloat(r.URL.Query().Get("param"), 64)
	if err != nil || math.IsNaN(param) || math.IsInf(param, 0) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("param must be a finite number, got %q", r.URL.Query().Get("param")))
		return
	}

	curve, err := s.curves.Curve(family, param)
	switch {
	case errors.Is(err, emagram.ErrDomain):
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		s.logger.Error("curve computation failed", "family", string(family), "param", param, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
		"family": family,
		"param":  param,
		"points": curve,
	})
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
