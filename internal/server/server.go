// Package server exposes the placement pipeline over HTTP.
//
// Routes:
//
//	POST   /v1/scenes           generate, store and return a scene
//	GET    /v1/scenes           list stored scenes, newest first
//	GET    /v1/scenes/{id}      fetch a stored scene
//	GET    /v1/scenes/{id}/svg  render a stored scene
//	DELETE /v1/scenes/{id}      delete a stored scene
//	GET    /v1/layout           tile a rectangle (?length=&height=&areas=)
//	GET    /healthz             liveness
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/scatter/pkg/errors"
	"github.com/matzehuels/scatter/pkg/pipeline"
	"github.com/matzehuels/scatter/pkg/scene"
	"github.com/matzehuels/scatter/pkg/store"
)

// Default server settings.
const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 2 * time.Minute
	shutdownTimeout       = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	Runner *pipeline.Runner
	Store  store.Store
	// Catalog is used for requests that do not bring their own.
	Catalog *scene.Catalog
	Logger  *log.Logger
	// Timeout bounds a single request; DefaultRequestTimeout when zero.
	Timeout time.Duration
}

// New creates a server. A nil catalog means the built-in catalog is used
// per request; a nil logger discards output.
func New(runner *pipeline.Runner, st store.Store, catalog *scene.Catalog, logger *log.Logger) (*Server, error) {
	if runner == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "server needs a runner")
	}
	if st == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "server needs a store")
	}
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{Runner: runner, Store: st, Catalog: catalog, Logger: logger}, nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Route("/scenes", func(r chi.Router) {
			r.Post("/", s.handleCreateScene)
			r.Get("/", s.handleListScenes)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetScene)
				r.Delete("/", s.handleDeleteScene)
				r.Get("/svg", s.handleSceneSVG)
			})
		})
		r.Get("/layout", s.handleLayout)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
