// Package server exposes the interchange engine over HTTP. Conversions are
// synchronous: they run in memory and complete or fail as a unit, so there
// is no job queue and no mid-conversion cancellation.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ethiapath/djmusicorganizer/config"
)

// Server handles HTTP requests for the library converter.
type Server struct {
	cfg    *config.Config
	router chi.Router
}

// New creates a new HTTP server instance.
func New(cfg *config.Config) *Server {
	s := &Server{cfg: cfg, router: chi.NewRouter()}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/convert", s.convert)
		r.Post("/inspect", s.inspect)
	})
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "dj-library-converter",
	})
}
