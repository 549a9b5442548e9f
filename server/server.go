// Package server provides HTTP server management and lifecycle handling for
// the tracker API. It includes server setup, middleware configuration, route
// management, and graceful shutdown capabilities.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cardiaccare/cardiaccare-api/config"
	"github.com/cardiaccare/cardiaccare-api/handlers"
	"github.com/cardiaccare/cardiaccare-api/interfaces"
	"github.com/cardiaccare/cardiaccare-api/logging"
	"github.com/cardiaccare/cardiaccare-api/medication"
	"github.com/cardiaccare/cardiaccare-api/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server
type Server struct {
	server       *http.Server
	router       chi.Router
	catalogStore interfaces.CatalogStore
	recordStore  interfaces.RecordStore
	parser       *medication.LabelParser
	config       *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, catalogStore interfaces.CatalogStore, recordStore interfaces.RecordStore) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:       router,
		catalogStore: catalogStore,
		recordStore:  recordStore,
		parser:       medication.NewDefaultLabelParser(),
		config:       cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.config.Env == "prod" {
		// Put BEFORE RealIPMiddleware to see original RemoteAddr
		s.router.Use(BlockDirectAccessMiddleware)
	}
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(s.requestLogger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Metrics)
}

func (s *Server) requestLogger() *slog.Logger {
	if logging.DefaultLoggingService != nil && logging.DefaultLoggingService.Logger != nil {
		return logging.DefaultLoggingService.Logger
	}
	return slog.Default()
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/candidates/{query}", handlers.SearchCandidates(s.catalogStore))

	s.router.Route("/medications", func(r chi.Router) {
		r.Post("/parse", handlers.ParseLabel(s.parser))
		r.Post("/slots", handlers.BuildSlots())
		r.Get("/", handlers.ListMedications(s.recordStore))
		r.Post("/", handlers.CreateMedication(s.recordStore, s.parser))
		r.Delete("/{name}", handlers.DeleteMedication(s.recordStore))
	})

	s.router.Route("/habits", func(r chi.Router) {
		r.Get("/", handlers.ListHabits(s.recordStore))
		r.Post("/", handlers.CreateHabit(s.recordStore))
		r.Delete("/{id}", handlers.DeleteHabit(s.recordStore))
	})

	s.router.Get("/health", handlers.HealthCheck(s.catalogStore))
	s.router.Handle("/metrics", promhttp.Handler())
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the server
func (s *Server) Start() error {
	// Start profiling server if in development mode
	if s.config.Env == "dev" {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		fmt.Println("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			fmt.Println("Profiling server failed: ", err)
		}
	}()
}
