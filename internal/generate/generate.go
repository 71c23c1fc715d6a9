// Package generate provides text-generation backends.
//
// Two backends implement Generator: Ollama, which speaks the native
// /api/generate endpoint with streaming disabled, and LLM, which adapts any
// langchaingo model (the OpenAI provider in production). Failures are
// reported through the errs taxonomy with the backend's message verbatim.
package generate

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/reposcribe/internal/config"
	"github.com/tmc/langchaingo/llms/openai"
)

const service = "generator"

// Generator produces text for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New builds the Generator selected by cfg.Provider.
func New(cfg config.GeneratorConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderOllama, "":
		return NewOllama(cfg.BaseURL, cfg.Model, nil), nil
	case config.ProviderOpenAI:
		llm, err := openai.New(
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithModel(cfg.Model),
			openai.WithToken(cfg.APIKey.Value()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return NewLLM(llm), nil
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}
}
