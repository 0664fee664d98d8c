package llm

import (
	"context"
	"fmt"
	"strings"

	anyllm "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/groq"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	"github.com/mozilla-ai/any-llm-go/providers/openai"
)

// Provider implements Generator on top of github.com/mozilla-ai/any-llm-go.
type Provider struct {
	backend anyllm.Provider
	model   string
}

// New creates a Provider for the named backend.
//
// providerName is one of: "groq", "openai", "ollama". model is the specific
// model (e.g. "llama-3.3-70b-versatile", "gpt-4o-mini"). Without an API key
// option the backend falls back to its environment variable (GROQ_API_KEY,
// OPENAI_API_KEY).
func New(providerName, model string, opts ...anyllm.Option) (*Provider, error) {
	if model == "" {
		return nil, ErrNoModel
	}

	var (
		backend anyllm.Provider
		err     error
	)
	switch strings.ToLower(providerName) {
	case "groq":
		backend, err = groq.New(opts...)
	case "openai":
		backend, err = openai.New(opts...)
	case "ollama":
		backend, err = ollama.New(opts...)
	default:
		return nil, fmt.Errorf("%w: %q (supported: groq, openai, ollama)", ErrNoProvider, providerName)
	}
	if err != nil {
		return nil, fmt.Errorf("llm: create %q backend: %w", providerName, err)
	}

	return &Provider{backend: backend, model: model}, nil
}

// NewGroq creates a Provider backed by Groq.
// Without options, it reads the GROQ_API_KEY environment variable.
func NewGroq(model string, opts ...anyllm.Option) (*Provider, error) {
	return New("groq", model, opts...)
}

// Generate implements Generator.
func (p *Provider) Generate(ctx context.Context, req Request) (string, error) {
	req = req.withDefaults()

	temp := req.Temperature
	maxTokens := req.MaxTokens
	params := anyllm.CompletionParams{
		Model: p.model,
		Messages: []anyllm.Message{
			{Role: anyllm.RoleSystem, Content: req.System},
			{Role: anyllm.RoleUser, Content: req.Prompt},
		},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	}

	resp, err := p.backend.Completion(ctx, params)
	if err != nil {
		return "", fmt.Errorf("llm: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Choices[0].Message.ContentString())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Close implements Generator. The any-llm backends hold no connections.
func (p *Provider) Close() error {
	return nil
}

// Verify Provider implements Generator at compile time.
var _ Generator = (*Provider)(nil)
