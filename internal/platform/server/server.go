// Package server is the HTTP preview surface over the normalization registry.
package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/ehr/fhirview/internal/config"
	"github.com/ehr/fhirview/internal/normalize"
	"github.com/ehr/fhirview/internal/platform/fhir"
	"github.com/ehr/fhirview/internal/platform/middleware"
	"github.com/ehr/fhirview/internal/platform/narrative"
)

// BundlePath is the endpoint that accepts whole Bundles and gets the larger
// body limit.
const BundlePath = "/bundle"

// Server wires the registry, the narrative generator and the middleware chain
// into an echo instance.
type Server struct {
	echo       *echo.Echo
	logger     zerolog.Logger
	registry   *normalize.Registry
	narratives *narrative.Generator
	metadata   normalize.MetadataTable
	version    fhir.Version
}

// New builds a Server. The registry must already be validated.
func New(cfg *config.Config, logger zerolog.Logger, registry *normalize.Registry, metadata normalize.MetadataTable) *Server {
	s := &Server{
		echo:       echo.New(),
		logger:     logger,
		registry:   registry,
		narratives: narrative.NewGenerator(),
		metadata:   metadata,
		version:    cfg.DefaultVersion(),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(middleware.BodyLimit(cfg.BodyLimit, cfg.BundleLimit, BundlePath))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(fhir.ContentNegotiation())
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/health", s.health)
	s.echo.POST("/normalize/:resourceType", s.normalizeResource)
	s.echo.POST("/narrative", s.renderNarrative)
	s.echo.POST(BundlePath, s.bundle)
}

// ServeHTTP lets the Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
