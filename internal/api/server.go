// Package api exposes the sync engine over a local HTTP API. Routes are
// registered through huma so the daemon serves an OpenAPI description of
// itself; the caller identity travels in the X-Session-User header set
// by the app shell.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/episodeo/episodeo-server/internal/service"
	"github.com/episodeo/episodeo-server/internal/validation"
)

// Services bundles the service layer dependencies of the API.
type Services struct {
	Library  *service.LibraryService
	Tracking *service.TrackingService
	Sharing  *service.SharingService
	Catalog  *service.CatalogService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services  Services
	validator *validation.Validator
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Session-User"},
	}))

	RegisterErrorHandler()

	humaConfig := huma.DefaultConfig("Episodeo Sync API", "1.0.0")
	humaAPI := humachi.New(router, humaConfig)

	s := &Server{
		services:  services,
		validator: validation.New(),
		router:    router,
		api:       humaAPI,
		logger:    logger,
	}

	s.registerLibraryRoutes()
	s.registerTrackingRoutes()
	s.registerSharingRoutes()
	s.registerCatalogRoutes()

	// Raw byte responses stay on plain chi. The param name must match the
	// huma series routes; chi rejects conflicting names at one position.
	router.Get("/api/v1/catalog/series/{seriesID}/poster", s.handlePoster)
	router.Get("/health", s.handleHealthCheck)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealthCheck returns daemon health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
