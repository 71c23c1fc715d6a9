package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fyrsmithlabs/reposcribe/internal/aggregate"
	"github.com/fyrsmithlabs/reposcribe/internal/config"
	"github.com/fyrsmithlabs/reposcribe/internal/digest"
	"github.com/fyrsmithlabs/reposcribe/internal/generate"
	"github.com/fyrsmithlabs/reposcribe/internal/githost"
	"github.com/fyrsmithlabs/reposcribe/internal/ignore"
	"github.com/fyrsmithlabs/reposcribe/internal/logging"
	"github.com/fyrsmithlabs/reposcribe/internal/secrets"
	"github.com/fyrsmithlabs/reposcribe/internal/summarize"
	"github.com/fyrsmithlabs/reposcribe/internal/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds every wired component. Commands use the parts they need.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	tel    *telemetry.Telemetry

	walker   *githost.Walker
	searcher *githost.Searcher
	pipeline *aggregate.Pipeline
	digester *digest.Service
}

// newApp loads configuration and wires the dependency graph:
//
//	config -> telemetry -> logger -> github client -> fetcher/walker/searcher
//	       -> aggregate pipeline -> generator -> scrubber -> summarizer -> digest service
//
// Logs go to sink; a nil sink means stdout.
func newApp(ctx context.Context, configPath string, sink zapcore.WriteSyncer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	tel, err := telemetry.New(ctx, telemetry.FromSettings(cfg.Telemetry, version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	logCfg, err := logging.FromSettings(cfg.Logging, tel.IsEnabled())
	if err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}
	logCfg.Output.Sink = sink
	logger, err := logging.NewLogger(logCfg, tel.LoggerProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if health := tel.Health(); health.Degraded {
		logger.Warn(ctx, "telemetry degraded", zap.Error(health.LastErr))
	}

	client, err := githost.NewClient(ctx, cfg.GitHub)
	if err != nil {
		return nil, fmt.Errorf("failed to create github client: %w", err)
	}

	logger.Debug(ctx, "github client configured",
		logging.Secret("github_token", cfg.GitHub.Token),
		zap.String("base_url", client.BaseURL.String()),
	)

	fetcher := githost.NewFetcher(client, logger)
	walker := githost.NewWalker(client, logger)
	walker.Exclude = ignore.New(cfg.GitHub.Exclude)
	searcher := githost.NewSearcher(client, logger)
	pipeline := aggregate.New(fetcher, walker, aggregate.Options{
		Concurrency: cfg.GitHub.FetchConcurrency,
		SortPaths:   cfg.GitHub.SortPaths,
		Logger:      logger,
	})

	gen, err := generate.New(cfg.Generator)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	var opts []summarize.Option
	if cfg.Generator.RedactSecrets {
		scrubber, err := secrets.New(secrets.DefaultRules(), cfg.Generator.RedactAllow)
		if err != nil {
			return nil, fmt.Errorf("failed to create secret scrubber: %w", err)
		}
		opts = append(opts, summarize.WithScrubber(scrubber))
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		tel:      tel,
		walker:   walker,
		searcher: searcher,
		pipeline: pipeline,
		digester: digest.NewService(pipeline, summarize.NewService(gen, logger, opts...), logger),
	}, nil
}

// runContext tags ctx with a fresh run id and the app logger.
func (a *app) runContext(ctx context.Context) context.Context {
	ctx = logging.WithRequestID(ctx, uuid.NewString())
	return logging.WithLogger(ctx, a.logger)
}

// close flushes logs and telemetry.
func (a *app) close() {
	_ = a.logger.Sync()
	if err := a.tel.Shutdown(context.Background()); err != nil {
		a.logger.Warn(context.Background(), "telemetry shutdown failed", zap.Error(err))
	}
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
