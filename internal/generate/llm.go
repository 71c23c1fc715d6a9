package generate

import (
	"context"

	"github.com/fyrsmithlabs/reposcribe/internal/errs"
	"github.com/tmc/langchaingo/llms"
)

// LLM adapts a langchaingo model to Generator.
type LLM struct {
	model llms.Model
}

// NewLLM wraps model.
func NewLLM(model llms.Model) *LLM {
	return &LLM{model: model}
}

// Generate sends prompt as a single human message.
func (l *LLM) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, l.model, prompt)
	if err != nil {
		return "", &errs.RemoteError{Service: service, Message: err.Error(), Err: err}
	}
	return text, nil
}
