// Package server implements the gantry HTTP API server. The API is
// read-only: every endpoint computes from provider data and returns JSON.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gantryhq/gantry/internal/analyzer"
	"github.com/gantryhq/gantry/internal/assignment"
	"github.com/gantryhq/gantry/internal/orchestrator"
	"github.com/gantryhq/gantry/internal/provider"
	"github.com/gantryhq/gantry/internal/server/handlers"
)

// Server is the gantry HTTP API server.
type Server struct {
	router chi.Router
	addr   string
	srv    *http.Server
}

// New creates a new HTTP server.
func New(addr string, an *analyzer.Analyzer, eng *assignment.Engine, orch *orchestrator.Orchestrator, src provider.Source) *Server {
	s := &Server{addr: addr}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	s.router = r
	s.registerRoutes(r, handlers.New(an, eng, orch, src))
	return s
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s.srv.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
