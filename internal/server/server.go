// Package server exposes the solver and replay store over HTTP.
//
// Routes:
//
//	GET    /healthz              liveness probe
//	POST   /api/graphs           generate a puzzle graph
//	POST   /api/solve            compute the best single move for a graph
//	POST   /api/races            run a strategy to completion, store the replay
//	GET    /api/replays          list stored replays
//	GET    /api/replays/{id}     fetch one replay
//	DELETE /api/replays/{id}     remove one replay
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/samithreddychinni/greedytangle/pkg/config"
	"github.com/samithreddychinni/greedytangle/pkg/errors"
	"github.com/samithreddychinni/greedytangle/pkg/store"
)

// Server wires the HTTP API.
type Server struct {
	cfg    config.Config
	logger *log.Logger
	store  store.Store
	router chi.Router
}

// New builds a server backed by the given replay store. A nil logger falls
// back to log.Default().
func New(cfg config.Config, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		store:  st,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/graphs", s.handleGenerate)
		r.Post("/solve", s.handleSolve)
		r.Post("/races", s.handleRace)
		r.Get("/replays", s.handleListReplays)
		r.Get("/replays/{id}", s.handleGetReplay)
		r.Delete("/replays/{id}", s.handleDeleteReplay)
	})
	s.router = r

	return s
}

// Handler returns the routed handler, ready for http.Server.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks serving the API on addr until ctx is canceled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.logger.Info("api listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ============================================================================
// Response helpers
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps application error codes onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidMode, errors.ErrCodeInvalidLevel,
		errors.ErrCodeInvalidConfig:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeReplayNotFound,
		errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": errors.UserMessage(err)})
}
