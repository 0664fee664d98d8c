// Package llm provides the text-generation collaborator used by the coach.
//
// The coach treats generation as a black box: a structured request goes in,
// a short plain-text coaching phrase comes out, with a fixed timeout and a
// static fallback on failure. The default implementation wraps
// github.com/mozilla-ai/any-llm-go so Groq, OpenAI, and Ollama backends are
// interchangeable without changing caller code.
package llm

import (
	"context"
	"time"
)

// Generator produces a short coaching phrase from a prompt pair.
type Generator interface {
	// Generate returns the model's response text for the given request.
	// Implementations should respect ctx cancellation and deadlines.
	Generate(ctx context.Context, req Request) (string, error)

	// Close releases any resources held by the generator.
	Close() error
}

// Request is the prompt pair plus sampling parameters for one generation.
type Request struct {
	// System is the coaching persona and exercise-specific instructions.
	System string

	// Prompt is the formatted posture snapshot and session context.
	Prompt string

	// MaxTokens caps the response length. Responses are spoken aloud, so
	// they stay short. Zero means DefaultMaxTokens.
	MaxTokens int

	// Temperature controls sampling variety. Zero means DefaultTemperature.
	Temperature float64
}

// Defaults for voice-length responses.
const (
	DefaultMaxTokens   = 150
	DefaultTemperature = 0.7
	DefaultTimeout     = 10 * time.Second
)

// withDefaults fills zero fields.
func (r Request) withDefaults() Request {
	if r.MaxTokens == 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	if r.Temperature == 0 {
		r.Temperature = DefaultTemperature
	}
	return r
}
