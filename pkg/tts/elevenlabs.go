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
	elevenLabsBaseURL  = "https://api.elevenlabs.io"
	providerElevenLabs = "elevenlabs"

	// ModelTurbo is the lowest-latency ElevenLabs model, the right trade
	// for real-time coaching cues.
	ModelTurbo = "eleven_turbo_v2_5"
)

// ElevenLabs implements Provider for the ElevenLabs synthesis API.
// PCM output skips a decode step before playout.
type ElevenLabs struct {
	config  *Config
	client  *http.Client
	baseURL string
}

// NewElevenLabs creates an ElevenLabs provider. A voice ID is required.
func NewElevenLabs(opts ...Option) (*ElevenLabs, error) {
	cfg := DefaultConfig()
	cfg.ModelID = ModelTurbo
	cfg.Apply(opts...)

	if err := cfg.ValidateWithVoice(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = elevenLabsBaseURL
	}

	return &ElevenLabs{
		config:  cfg,
		client:  httpc.NewClient(cfg.Timeout),
		baseURL: baseURL,
	}, nil
}

// Synthesize converts text to audio in the configured output format.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string) (*Clip, error) {
	start := time.Now()

	body, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": e.config.ModelID,
	})
	if err != nil {
		return nil, WrapError(providerElevenLabs, fmt.Errorf("marshal payload: %w", err))
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		e.baseURL, e.config.VoiceID, e.config.OutputFormat)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerElevenLabs, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("xi-api-key", e.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := doWithRetry(ctx, e.client, req, body, e.config, providerElevenLabs)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp, providerElevenLabs)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(providerElevenLabs, fmt.Errorf("read response: %w", err))
	}

	latency := time.Since(start).Milliseconds()
	log.Debug("tts: synthesized clip",
		"provider", providerElevenLabs,
		"chars", len(text),
		"bytes", len(audio),
		"latency_ms", latency,
	)

	format := AudioFormat{
		Encoding:   e.config.OutputFormat,
		SampleRate: e.config.OutputFormat.SampleRate(),
		Channels:   1,
	}

	clip := &Clip{Audio: audio, Format: format, LatencyMs: latency}
	if format.Encoding == EncodingPCM16 || format.Encoding == EncodingPCM24 {
		samples := len(audio) / 2
		clip.Duration = time.Duration(samples) * time.Second / time.Duration(format.SampleRate)
	}
	return clip, nil
}

// Health verifies the API key against the user endpoint.
func (e *ElevenLabs) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/v1/user", nil)
	if err != nil {
		return WrapError(providerElevenLabs, err)
	}
	req.Header.Set("xi-api-key", e.config.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return WrapError(providerElevenLabs, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseAPIError(resp, providerElevenLabs)
	}
	return nil
}

// Close releases idle connections.
func (e *ElevenLabs) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// Verify ElevenLabs implements Provider at compile time.
var _ Provider = (*ElevenLabs)(nil)
