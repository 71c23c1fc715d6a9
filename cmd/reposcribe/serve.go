package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	httpserver "github.com/fyrsmithlabs/reposcribe/internal/http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Start the reposcribe HTTP server.

Routes:
  POST /summarize-code            summarize a code block, a file or a repository
  POST /summarize-priority-files  summarize a repository's priority files
  GET  /search-repos              search repositories
  GET  /health                    liveness
  GET  /metrics                   prometheus metrics

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err := runServe(ctx, *configPath)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}
}

// runServe starts the server and blocks until ctx is cancelled.
// Returns http.ErrServerClosed on graceful shutdown.
func runServe(ctx context.Context, configPath string) error {
	a, err := newApp(ctx, configPath, nil)
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info(ctx, "starting reposcribe",
		zap.String("version", version),
		zap.Int("port", a.cfg.Server.Port),
		zap.String("generator", a.cfg.Generator.Provider),
		zap.String("model", a.cfg.Generator.Model),
		zap.Bool("github_token", a.cfg.GitHub.Token.IsSet()),
		zap.Int("fetch_concurrency", a.cfg.GitHub.FetchConcurrency),
	)

	srv, err := httpserver.NewServer(a.digester, a.searcher, a.logger, &httpserver.Config{
		Host:            a.cfg.Server.Host,
		Port:            a.cfg.Server.Port,
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout.Duration(),
	})
	if err != nil {
		return err
	}

	err = srv.Start(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		a.logger.Info(context.Background(), "server shutdown complete")
	}
	return err
}

