package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/formsense/go-formcoach/internal/httpc"
	"github.com/formsense/go-formcoach/internal/log"
)

const (
	openAISpeechURL = "https://api.openai.com/v1/audio/speech"
	openAIModelsURL = "https://api.openai.com/v1/models"
	providerOpenAI  = "openai"
)

// OpenAI voice options.
const (
	VoiceAlloy   = "alloy"
	VoiceEcho    = "echo"
	VoiceNova    = "nova"
	VoiceShimmer = "shimmer"
)

// OpenAI model options.
const (
	ModelTTS1   = "tts-1"
	ModelTTS1HD = "tts-1-hd"
)

// OpenAI implements Provider for the OpenAI speech endpoint.
type OpenAI struct {
	config *Config
	client *http.Client
	url    string
}

// NewOpenAI creates an OpenAI provider. Defaults: tts-1 model, the nova
// voice, MP3 output.
func NewOpenAI(opts ...Option) (*OpenAI, error) {
	cfg := DefaultConfig()
	cfg.ModelID = ModelTTS1
	cfg.VoiceID = VoiceNova
	cfg.OutputFormat = EncodingMP3
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.VoiceID == "" {
		cfg.VoiceID = VoiceNova
	}

	url := cfg.BaseURL
	if url == "" {
		url = openAISpeechURL
	}

	return &OpenAI{
		config: cfg,
		client: httpc.NewClient(cfg.Timeout),
		url:    url,
	}, nil
}

// Synthesize converts text to an MP3 clip.
func (o *OpenAI) Synthesize(ctx context.Context, text string) (*Clip, error) {
	start := time.Now()

	body, err := json.Marshal(map[string]any{
		"model": o.config.ModelID,
		"voice": o.config.VoiceID,
		"input": text,
	})
	if err != nil {
		return nil, WrapError(providerOpenAI, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerOpenAI, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := doWithRetry(ctx, o.client, req, body, o.config, providerOpenAI)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp, providerOpenAI)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(providerOpenAI, fmt.Errorf("read response: %w", err))
	}

	latency := time.Since(start).Milliseconds()
	log.Debug("tts: synthesized clip",
		"provider", providerOpenAI,
		"chars", len(text),
		"bytes", len(audio),
		"latency_ms", latency,
	)

	return &Clip{
		Audio:     audio,
		Format:    AudioFormat{Encoding: EncodingMP3, SampleRate: 44100, Channels: 1},
		LatencyMs: latency,
	}, nil
}

// Health verifies the API key against the models endpoint.
func (o *OpenAI) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAIModelsURL, nil)
	if err != nil {
		return WrapError(providerOpenAI, err)
	}
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return WrapError(providerOpenAI, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseAPIError(resp, providerOpenAI)
	}
	return nil
}

// Close releases idle connections.
func (o *OpenAI) Close() error {
	o.client.CloseIdleConnections()
	return nil
}

// doWithRetry performs the request, retrying rate limits and 5xx responses
// with linear backoff.
func doWithRetry(ctx context.Context, client *http.Client, req *http.Request, body []byte, cfg *Config, provider string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(cfg.RetryDelay * time.Duration(attempt)):
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = WrapError(provider, err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = parseAPIError(resp, provider)
			log.Warn("tts: retrying request",
				"provider", provider,
				"attempt", attempt+1,
				"status", resp.StatusCode,
			)
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// parseAPIError drains an error response into an APIError. It closes the
// response body.
func parseAPIError(resp *http.Response, provider string) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Detail struct {
			Message string `json:"message"`
		} `json:"detail"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Error.Message != "" {
			message = errResp.Error.Message
		} else if errResp.Detail.Message != "" {
			message = errResp.Detail.Message
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   provider,
	}
}

// Verify OpenAI implements Provider at compile time.
var _ Provider = (*OpenAI)(nil)
