package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/fyrsmithlabs/reposcribe/internal/config"
	"github.com/fyrsmithlabs/reposcribe/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel is a canned llms.Model.
type fakeModel struct {
	reply   string
	err     error
	prompts []string
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.prompts = append(m.prompts, text.Text)
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestLLM_Generate(t *testing.T) {
	model := &fakeModel{reply: "A CLI tool."}

	out, err := NewLLM(model).Generate(context.Background(), "describe this")
	require.NoError(t, err)
	assert.Equal(t, "A CLI tool.", out)
	assert.Equal(t, []string{"describe this"}, model.prompts)
}

func TestLLM_ErrorIsRemote(t *testing.T) {
	model := &fakeModel{err: errors.New("API returned unexpected status code: 429")}

	_, err := NewLLM(model).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrRemoteUnavailable)
	assert.Contains(t, err.Error(), "429")
}

func TestNew(t *testing.T) {
	t.Run("ollama", func(t *testing.T) {
		g, err := New(config.GeneratorConfig{Provider: config.ProviderOllama, BaseURL: "http://ollama:11434", Model: "llama3.2"})
		require.NoError(t, err)
		o, ok := g.(*Ollama)
		require.True(t, ok)
		assert.Equal(t, "http://ollama:11434", o.baseURL)
	})

	t.Run("openai", func(t *testing.T) {
		g, err := New(config.GeneratorConfig{
			Provider: config.ProviderOpenAI,
			BaseURL:  "http://localhost:8080/v1",
			Model:    "gpt-4o-mini",
			APIKey:   "sk-test",
		})
		require.NoError(t, err)
		assert.IsType(t, &LLM{}, g)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := New(config.GeneratorConfig{Provider: "bard"})
		assert.Error(t, err)
	})
}
