package llm

import "errors"

// Sentinel errors for common failure conditions.
var (
	// ErrNoProvider is returned when the provider name is empty or unknown.
	ErrNoProvider = errors.New("llm: unknown provider")

	// ErrNoModel is returned when the model name is missing.
	ErrNoModel = errors.New("llm: model required")

	// ErrEmptyResponse is returned when the backend answered with no choices.
	ErrEmptyResponse = errors.New("llm: empty response")
)
