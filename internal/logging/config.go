package logging

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/reposcribe/internal/config"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level     zapcore.Level
	Format    string
	Output    OutputConfig
	Sampling  SamplingConfig
	Caller    bool
	Fields    map[string]string
	Redaction RedactionConfig
}

// OutputConfig controls where logs are written.
type OutputConfig struct {
	Stdout bool
	OTEL   bool
	// Sink replaces os.Stdout for the Stdout output. CLI commands log to
	// stderr so results on stdout stay machine-readable.
	Sink zapcore.WriteSyncer
}

// SamplingConfig controls log volume reduction below error level.
type SamplingConfig struct {
	Enabled    bool
	Tick       time.Duration
	Initial    int
	Thereafter int
}

// RedactionConfig controls sensitive data redaction.
type RedactionConfig struct {
	Enabled  bool
	Fields   []string
	Patterns []string
}

// NewDefaultConfig returns config with production-ready defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  zapcore.InfoLevel,
		Format: "json",
		Output: OutputConfig{
			Stdout: true,
		},
		Sampling: SamplingConfig{
			Enabled:    true,
			Tick:       time.Second,
			Initial:    100,
			Thereafter: 10,
		},
		Caller: true,
		Fields: map[string]string{
			"service": "reposcribe",
		},
		Redaction: RedactionConfig{
			Enabled: true,
			// Keys the GitHub and generator clients could plausibly attach.
			Fields: []string{"token", "api_key", "authorization"},
			Patterns: []string{
				`(?i)bearer\s+\S+`,
				`gh[pousr]_[A-Za-z0-9]{20,}`,
			},
		},
	}
}

// FromSettings builds a Config from the operator-facing settings.
// otel enables the OpenTelemetry log bridge in addition to stdout.
func FromSettings(settings config.LoggingConfig, otel bool) (*Config, error) {
	cfg := NewDefaultConfig()

	level, err := LevelFromString(settings.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", settings.Level, err)
	}
	cfg.Level = level
	if settings.Format != "" {
		cfg.Format = settings.Format
	}
	cfg.Output.OTEL = otel

	// Sampling hides the per-file diagnostics that debug runs exist for.
	if level < zapcore.InfoLevel {
		cfg.Sampling.Enabled = false
	}

	return cfg, cfg.Validate()
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	if !c.Output.Stdout && !c.Output.OTEL {
		return fmt.Errorf("at least one output must be enabled (stdout or otel)")
	}
	if c.Sampling.Enabled && c.Sampling.Tick <= 0 {
		return fmt.Errorf("sampling tick must be > 0 when sampling enabled")
	}

	if c.Redaction.Enabled {
		if _, err := newRedactor(c.Redaction); err != nil {
			return err
		}
	}

	for k, v := range c.Fields {
		if k == "" {
			return fmt.Errorf("field key cannot be empty")
		}
		if v == "" {
			return fmt.Errorf("field %q has empty value", k)
		}
	}

	return nil
}
