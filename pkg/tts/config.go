package tts

import "time"

// Config holds provider settings. Set values with the WithXxx options.
type Config struct {
	APIKey  string
	BaseURL string

	VoiceID string
	ModelID string

	OutputFormat Encoding

	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Option mutates a Config.
type Option func(*Config)

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithBaseURL overrides the default API endpoint, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithVoice sets the voice ID.
func WithVoice(voiceID string) Option {
	return func(c *Config) { c.VoiceID = voiceID }
}

// WithModel sets the model ID.
func WithModel(modelID string) Option {
	return func(c *Config) { c.ModelID = modelID }
}

// WithOutputFormat sets the synthesized audio encoding.
func WithOutputFormat(format Encoding) Option {
	return func(c *Config) { c.OutputFormat = format }
}

// WithTimeout bounds each synthesis request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.Timeout = timeout }
}

// WithRetry configures retries for rate limits and server errors.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// DefaultConfig returns the baseline settings shared by all providers.
func DefaultConfig() *Config {
	return &Config{
		OutputFormat: EncodingPCM24,
		Timeout:      30 * time.Second,
		MaxRetries:   2,
		RetryDelay:   100 * time.Millisecond,
	}
}

// Apply applies options in order.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}

// ValidateWithVoice additionally requires a voice ID.
func (c *Config) ValidateWithVoice() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.VoiceID == "" {
		return ErrNoVoiceID
	}
	return nil
}
