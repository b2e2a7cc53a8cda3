package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/terra-clan/jury-engine/internal/config"
	"github.com/terra-clan/jury-engine/internal/hierarchy"
	"github.com/terra-clan/jury-engine/internal/models"
	"github.com/terra-clan/jury-engine/internal/report"
	"github.com/terra-clan/jury-engine/internal/services"
)

// Reports is the report builder behind the jury routes
type Reports interface {
	JuryHierarchy(ctx context.Context, juryID int64) (*hierarchy.Hierarchy, error)
	BuildGrid(ctx context.Context, juryID int64, session models.SessionType, semester string) (*report.Grid, error)
}

// Server represents the HTTP API server
type Server struct {
	config   config.ServerConfig
	router   *chi.Mux
	reports  Reports
	registry *services.Registry
	validate *validator.Validate
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, reports Reports, registry *services.Registry) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	s := &Server{
		config:   cfg,
		reports:  reports,
		registry: registry,
		validate: validator.New(),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Build-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/v1/juries/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetJury)
		r.Route("/grid/{session}/{semester}", func(r chi.Router) {
			r.Get("/", s.handleDownloadGrid)
			r.Get("/rows", s.handleGridRows)
		})
	})

	s.router = r
}
