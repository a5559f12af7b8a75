// Package web serves the face-gate HTTP API.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/face-gate/internal/config"
	"github.com/kozaktomas/face-gate/internal/enroll"
	"github.com/kozaktomas/face-gate/internal/match"
	"github.com/kozaktomas/face-gate/internal/recognizer"
	"github.com/kozaktomas/face-gate/internal/store"
	"github.com/kozaktomas/face-gate/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *config.Config
	router     *chi.Mux
	httpServer *http.Server

	engine   *match.Engine
	analyzer recognizer.Analyzer
	manager  *enroll.Manager
	store    *store.Store
}

// NewServer creates a new web server wired to the matching engine,
// attribute analyzer, enrollment manager, and reference store.
func NewServer(cfg *config.Config, engine *match.Engine, analyzer recognizer.Analyzer, manager *enroll.Manager, st *store.Store) *Server {
	r := chi.NewRouter()

	s := &Server{
		config:   cfg,
		router:   r,
		engine:   engine,
		analyzer: analyzer,
		manager:  manager,
		store:    st,
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(2 * time.Minute))
	r.Use(middleware.CORS())

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // matching scans call the recognizer once per reference
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
