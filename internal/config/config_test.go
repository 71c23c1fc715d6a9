package config

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.Server.ShutdownTimeout = 0 }, wantErr: true},
		{name: "zero fetch concurrency", mutate: func(c *Config) { c.GitHub.FetchConcurrency = 0 }, wantErr: true},
		{name: "bad github base url", mutate: func(c *Config) { c.GitHub.BaseURL = "not a url" }, wantErr: true},
		{name: "openai without key", mutate: func(c *Config) { c.Generator.Provider = ProviderOpenAI }, wantErr: true},
		{
			name: "openai with key",
			mutate: func(c *Config) {
				c.Generator.Provider = ProviderOpenAI
				c.Generator.APIKey = "sk-test"
			},
		},
		{name: "unknown provider", mutate: func(c *Config) { c.Generator.Provider = "bard" }, wantErr: true},
		{name: "empty model", mutate: func(c *Config) { c.Generator.Model = "" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "sample rate above one", mutate: func(c *Config) { c.Telemetry.SampleRate = 1.5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefault_OpenAIBaseURL(t *testing.T) {
	cfg := &Config{Generator: GeneratorConfig{Provider: ProviderOpenAI}}
	applyDefaults(cfg)
	if cfg.Generator.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("Generator.BaseURL = %q, want openai endpoint", cfg.Generator.BaseURL)
	}
}

func TestSecret_NeverPrints(t *testing.T) {
	s := Secret("ghp_abcdef")

	if got := fmt.Sprintf("%v", s); got != "[REDACTED]" {
		t.Errorf("%%v = %q, want [REDACTED]", got)
	}
	if got := fmt.Sprintf("%#v", s); got != "Secret([REDACTED])" {
		t.Errorf("%%#v = %q, want Secret([REDACTED])", got)
	}

	data, err := json.Marshal(struct{ Token Secret }{s})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `{"Token":"[REDACTED]"}` {
		t.Errorf("json = %s, want redacted token", data)
	}
	if s.Value() != "ghp_abcdef" {
		t.Error("Value() must return the raw secret")
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if d.Duration().Seconds() != 90 {
		t.Errorf("Duration = %v, want 90s", d.Duration())
	}
	if err := d.UnmarshalText([]byte("-1s")); err == nil {
		t.Error("UnmarshalText(-1s) error = nil, want negative duration error")
	}
	if err := d.UnmarshalText([]byte("45")); err != nil {
		t.Fatalf("UnmarshalText(45) error = %v", err)
	}
	if d.Duration().Seconds() != 45 {
		t.Errorf("Duration = %v, want 45s for a bare integer", d.Duration())
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("UnmarshalText(soon) error = nil, want parse error")
	}
}
