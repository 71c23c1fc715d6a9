package telemetry

import (
	"testing"
	"time"

	"github.com/fyrsmithlabs/reposcribe/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, "grpc", cfg.Protocol)
	assert.Equal(t, "reposcribe", cfg.ServiceName)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.Equal(t, 15*time.Second, cfg.ExportInterval)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	require.NoError(t, cfg.Validate())
}

func TestFromSettings(t *testing.T) {
	cfg := FromSettings(config.TelemetryConfig{
		Enabled:    true,
		Endpoint:   "otel.internal:4318",
		Protocol:   "http/protobuf",
		SampleRate: 0.25,
	}, "1.2.3")

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "otel.internal:4318", cfg.Endpoint)
	assert.Equal(t, "http/protobuf", cfg.Protocol)
	assert.False(t, cfg.Insecure)
	assert.Equal(t, 0.25, cfg.SampleRate)
	assert.Equal(t, "1.2.3", cfg.ServiceVersion)
	require.NoError(t, cfg.Validate())
}

func TestFromSettings_KeepsDefaults(t *testing.T) {
	cfg := FromSettings(config.TelemetryConfig{}, "")

	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, "grpc", cfg.Protocol)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestConfig_Validate(t *testing.T) {
	enabled := func(mutate func(*Config)) *Config {
		cfg := NewDefaultConfig()
		cfg.Enabled = true
		mutate(cfg)
		return cfg
	}

	tests := []struct {
		name   string
		config *Config
		errMsg string
	}{
		{name: "valid enabled config", config: enabled(func(*Config) {})},
		{name: "disabled config skips validation", config: &Config{}},
		{name: "missing endpoint", config: enabled(func(c *Config) { c.Endpoint = "" }), errMsg: "endpoint is required"},
		{name: "missing service name", config: enabled(func(c *Config) { c.ServiceName = "" }), errMsg: "service name is required"},
		{name: "unknown protocol", config: enabled(func(c *Config) { c.Protocol = "thrift" }), errMsg: "protocol must be"},
		{name: "insecure remote endpoint", config: enabled(func(c *Config) { c.Endpoint = "collector.example.com:4317" }), errMsg: "insecure connections to remote endpoints"},
		{
			name: "secure remote endpoint",
			config: enabled(func(c *Config) {
				c.Endpoint = "collector.example.com:4317"
				c.Insecure = false
			}),
		},
		{name: "sample rate above one", config: enabled(func(c *Config) { c.SampleRate = 1.5 }), errMsg: "sample rate must be between 0 and 1"},
		{name: "zero export interval", config: enabled(func(c *Config) { c.ExportInterval = 0 }), errMsg: "export interval must be positive"},
		{name: "zero shutdown timeout", config: enabled(func(c *Config) { c.ShutdownTimeout = 0 }), errMsg: "shutdown timeout must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_IsLocalEndpoint(t *testing.T) {
	tests := map[string]bool{
		"localhost:4317":        true,
		"127.0.0.1:4317":        true,
		"127.0.1.1":             true,
		"[::1]:4317":            true,
		"http://localhost:4318": true,
		"otel.example.com:4317": false,
		"10.0.0.5:4317":         false,
		"localhost.evil.com:1":  false,
	}
	for endpoint, want := range tests {
		t.Run(endpoint, func(t *testing.T) {
			cfg := &Config{Endpoint: endpoint}
			assert.Equal(t, want, cfg.isLocalEndpoint())
		})
	}
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "otel:4318", stripScheme("https://otel:4318"))
	assert.Equal(t, "otel:4318", stripScheme("http://otel:4318"))
	assert.Equal(t, "otel:4318", stripScheme("otel:4318"))
}
