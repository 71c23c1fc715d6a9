// Package config provides configuration loading for reposcribe.
//
// Configuration is assembled from hardcoded defaults, an optional YAML file
// and REPOSCRIBE_* environment variables. It is read once at process start
// and injected into the GitHub and generator clients; nothing reads it from
// global state afterwards.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds the complete reposcribe configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	GitHub    GitHubConfig    `koanf:"github"`
	Generator GeneratorConfig `koanf:"generator"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// GitHubConfig holds repository host configuration.
type GitHubConfig struct {
	// Token is sent as a bearer credential. Unauthenticated access works for
	// public repositories at a much lower rate limit.
	Token Secret `koanf:"token"`

	// BaseURL overrides the API endpoint (GitHub Enterprise, tests).
	BaseURL string `koanf:"base_url"`

	// FetchConcurrency bounds parallel file-content fetches per request.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// SortPaths sorts candidate paths before fetching so output does not
	// depend on the host's listing order.
	SortPaths bool `koanf:"sort_paths"`

	// Exclude holds gitignore-style patterns the walker prunes, such as
	// "node_modules/" or "*.min.js".
	Exclude []string `koanf:"exclude"`
}

// GeneratorConfig holds text-generation backend configuration.
type GeneratorConfig struct {
	Provider string `koanf:"provider"` // "ollama" or "openai"
	BaseURL  string `koanf:"base_url"`
	Model    string `koanf:"model"`
	APIKey   Secret `koanf:"api_key"`

	// RedactSecrets scrubs credentials from text before it is sent to the
	// backend. Off by default so summaries see the repository verbatim.
	RedactSecrets bool `koanf:"redact_secrets"`

	// RedactAllow lists regexps for matches that must survive redaction,
	// such as documented example keys.
	RedactAllow []string `koanf:"redact_allow"`
}

// LoggingConfig holds the subset of logging settings exposed to operators.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled    bool    `koanf:"enabled"`
	Endpoint   string  `koanf:"endpoint"`
	Protocol   string  `koanf:"protocol"` // "grpc" or "http/protobuf"
	Insecure   bool    `koanf:"insecure"`
	SampleRate float64 `koanf:"sample_rate"`
}

// Generator providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Default returns a Config populated with defaults only.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5001
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if cfg.GitHub.FetchConcurrency == 0 {
		cfg.GitHub.FetchConcurrency = 4
	}

	if cfg.Generator.Provider == "" {
		cfg.Generator.Provider = ProviderOllama
	}
	if cfg.Generator.BaseURL == "" {
		switch cfg.Generator.Provider {
		case ProviderOpenAI:
			cfg.Generator.BaseURL = "https://api.openai.com/v1"
		default:
			cfg.Generator.BaseURL = "http://localhost:11434"
		}
	}
	if cfg.Generator.Model == "" {
		switch cfg.Generator.Provider {
		case ProviderOpenAI:
			cfg.Generator.Model = "gpt-4o-mini"
		default:
			cfg.Generator.Model = "llama3.2"
		}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "grpc"
	}
	if cfg.Telemetry.SampleRate == 0 {
		cfg.Telemetry.SampleRate = 1.0
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	if c.GitHub.FetchConcurrency < 1 || c.GitHub.FetchConcurrency > 64 {
		return fmt.Errorf("github fetch_concurrency must be 1-64, got %d", c.GitHub.FetchConcurrency)
	}
	if c.GitHub.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.GitHub.BaseURL); err != nil {
			return fmt.Errorf("invalid github base_url: %w", err)
		}
	}

	switch c.Generator.Provider {
	case ProviderOllama:
	case ProviderOpenAI:
		if !c.Generator.APIKey.IsSet() {
			return errors.New("generator api_key is required for the openai provider")
		}
	default:
		return fmt.Errorf("unknown generator provider %q (want ollama or openai)", c.Generator.Provider)
	}
	if _, err := url.ParseRequestURI(c.Generator.BaseURL); err != nil {
		return fmt.Errorf("invalid generator base_url: %w", err)
	}
	if c.Generator.Model == "" {
		return errors.New("generator model is required")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry sample_rate must be between 0 and 1, got %f", c.Telemetry.SampleRate)
	}

	return nil
}
