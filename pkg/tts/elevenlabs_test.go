package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestElevenLabsSynthesize(t *testing.T) {
	// One second of silence at 24 kHz, 16-bit mono.
	audio := make([]byte, 48000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/v1/text-to-speech/rachel" {
			t.Errorf("path = %q", got)
		}
		if got := r.URL.Query().Get("output_format"); got != string(EncodingPCM24) {
			t.Errorf("output_format = %q", got)
		}
		if got := r.Header.Get("xi-api-key"); got != "el-test" {
			t.Errorf("xi-api-key = %q", got)
		}
		var payload struct {
			Text    string `json:"text"`
			ModelID string `json:"model_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.Text != "resist on the way down" || payload.ModelID != ModelTurbo {
			t.Errorf("payload = %+v", payload)
		}
		w.Write(audio)
	}))
	defer srv.Close()

	p, err := NewElevenLabs(
		WithAPIKey("el-test"),
		WithVoice("rachel"),
		WithBaseURL(srv.URL),
	)
	if err != nil {
		t.Fatalf("NewElevenLabs: %v", err)
	}
	defer p.Close()

	clip, err := p.Synthesize(context.Background(), "resist on the way down")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if clip.Format.SampleRate != 24000 || clip.Format.Channels != 1 {
		t.Errorf("format = %+v", clip.Format)
	}
	if clip.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s for 48000 PCM bytes at 24kHz", clip.Duration)
	}
}

func TestElevenLabsRequiresVoice(t *testing.T) {
	if _, err := NewElevenLabs(WithAPIKey("el-test")); !errors.Is(err, ErrNoVoiceID) {
		t.Errorf("NewElevenLabs() = %v, want ErrNoVoiceID", err)
	}
}

func TestElevenLabsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": {"message": "Invalid API key"}}`))
	}))
	defer srv.Close()

	p, err := NewElevenLabs(
		WithAPIKey("el-bad"),
		WithVoice("rachel"),
		WithBaseURL(srv.URL),
	)
	if err != nil {
		t.Fatalf("NewElevenLabs: %v", err)
	}

	_, err = p.Synthesize(context.Background(), "anything")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.Message != "Invalid API key" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Provider != "elevenlabs" {
		t.Errorf("Provider = %q", apiErr.Provider)
	}
}

func TestElevenLabsHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/user" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p, err := NewElevenLabs(
		WithAPIKey("el-test"),
		WithVoice("rachel"),
		WithBaseURL(srv.URL),
	)
	if err != nil {
		t.Fatalf("NewElevenLabs: %v", err)
	}
	if err := p.Health(context.Background()); err != nil {
		t.Errorf("Health() = %v", err)
	}
}
