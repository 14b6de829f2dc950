package web

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/Belphemur/ShowFinder/internal/client"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/services"
)

// Server serves the ShowFinder page and its JSON API.
type Server struct {
	echo     *echo.Echo
	client   client.Client
	sessions *services.Store
	reporter services.FailureReporter
	logger   zerolog.Logger
}

// NewServer wires middleware and routes. reporter may be nil.
func NewServer(c client.Client, sessions *services.Store, reporter services.FailureReporter) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		client:   c,
		sessions: sessions,
		reporter: reporter,
		logger:   config.GetLogger().With().Str("component", "web").Logger(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.echo.Use(middleware.BodyLimit("64K"))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("request_id", v.RequestID).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("request_id", v.RequestID).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	s.echo.GET("/", s.index)
	s.echo.POST("/search", s.submitSearch)
	s.echo.POST("/shows/:id/episodes", s.requestEpisodes)

	api := s.echo.Group("/api/v1")
	api.GET("/search/shows", s.apiSearchShows)
	api.GET("/shows/:id/episodes", s.apiGetEpisodes)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on address until Shutdown is called.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("Web server listening")
	return s.echo.Start(address)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
