// Package http serves the reposcribe HTTP API.
//
// Routes:
//
//	POST /summarize-code            summarize a code block, a file or a repository
//	POST /summarize-priority-files  summarize a repository's priority files
//	GET  /search-repos              search repositories
//	GET  /health                    liveness
//	GET  /metrics                   prometheus exposition
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fyrsmithlabs/reposcribe/internal/digest"
	"github.com/fyrsmithlabs/reposcribe/internal/githost"
	"github.com/fyrsmithlabs/reposcribe/internal/logging"
	"github.com/google/go-github/v57/github"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Digester runs summarize requests. Implemented by *digest.Service.
type Digester interface {
	Summarize(ctx context.Context, req digest.Request) (*digest.Report, error)
	SummarizeRepository(ctx context.Context, coord githost.Coordinate) (*digest.Report, error)
}

// RepoSearcher runs repository searches. Implemented by *githost.Searcher.
type RepoSearcher interface {
	Search(ctx context.Context, q githost.SearchQuery) (*github.RepositoriesSearchResult, error)
}

// Server provides the HTTP endpoints.
type Server struct {
	echo     *echo.Echo
	digester Digester
	searcher RepoSearcher
	logger   *logging.Logger
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	// BodyLimit caps request bodies, in echo's size notation ("10M").
	BodyLimit string
}

// NewServer creates a new HTTP server.
func NewServer(digester Digester, searcher RepoSearcher, logger *logging.Logger, cfg *Config) (*Server, error) {
	if digester == nil {
		return nil, fmt.Errorf("digester cannot be nil")
	}
	if searcher == nil {
		return nil, fmt.Errorf("searcher cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "0.0.0.0",
			Port: 5001,
		}
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.BodyLimit == "" {
		cfg.BodyLimit = "10M"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		digester: digester,
		searcher: searcher,
		logger:   logger,
		config:   cfg,
	}
	e.HTTPErrorHandler = s.handleError

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			ctx := logging.WithRequestID(c.Request().Context(), id)
			ctx = logging.WithLogger(ctx, logger)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	}))
	e.Use(NewHTTPMetrics(logger).MetricsMiddleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Resolve the status before logging it.
				c.Error(err)
			}

			logger.Info(c.Request().Context(), "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		}
	})

	s.registerRoutes()
	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.POST("/summarize-code", s.handleSummarizeCode)
	s.echo.POST("/summarize-priority-files", s.handleSummarizePriorityFiles)
	s.echo.GET("/search-repos", s.handleSearchRepos)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until ctx is cancelled, then shuts down gracefully within
// the configured timeout. Returns http.ErrServerClosed after a clean
// shutdown.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(ctx, "starting http server", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server start: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return http.ErrServerClosed
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
