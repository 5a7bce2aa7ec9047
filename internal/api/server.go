package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/peerresponse/internal/aiconnectors"
	"github.com/peerresponse/internal/pipeline"
)

// Defaults fill in whatever a request leaves out
type Defaults struct {
	Models         aiconnectors.Models
	MinWords       int
	MaxWords       int
	ParallelDrafts bool
}

// Server represents the API server
type Server struct {
	echo       *echo.Echo
	port       int
	gen        aiconnectors.Generator
	controller *pipeline.Controller
	defaults   Defaults
}

// NewServer creates a new API server
func NewServer(port int, gen aiconnectors.Generator, defaults Defaults) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	defaults.Models = defaults.Models.WithDefaults()
	if defaults.MinWords == 0 {
		defaults.MinWords = pipeline.DefaultMinWords
	}
	if defaults.MaxWords == 0 {
		defaults.MaxWords = pipeline.DefaultMaxWords
	}

	server := &Server{
		echo:       e,
		port:       port,
		gen:        gen,
		controller: pipeline.NewController(gen),
		defaults:   defaults,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// API v1 group
	v1 := s.echo.Group("/api/v1")

	v1.POST("/runs", s.createRun)
	v1.POST("/ping", s.ping)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start begins the API server and blocks until interrupted
func (s *Server) Start() error {
	// Start server in a goroutine
	go func() {
		log.Info().Int("port", s.port).Msg("Starting API server")
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down API server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}
