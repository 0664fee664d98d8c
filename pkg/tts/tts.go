// Package tts turns coaching phrases into audio.
//
// Backends (OpenAI, ElevenLabs) implement the Provider interface so the
// speech dispatcher never cares which service produced the clip. Chain
// composes providers into a fallback order.
//
// Example:
//
//	provider, _ := tts.NewOpenAI(tts.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	defer provider.Close()
//
//	clip, _ := provider.Synthesize(ctx, "Pin those elbows to your sides!")
package tts

import (
	"context"
	"time"
)

// Provider is a text-to-speech backend.
type Provider interface {
	// Synthesize converts text to a complete audio clip.
	Synthesize(ctx context.Context, text string) (*Clip, error)

	// Health checks connectivity and credential validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// Clip is one synthesized utterance.
type Clip struct {
	// Audio is the raw audio data in Format's encoding.
	Audio []byte

	// Format describes the encoding and sample rate.
	Format AudioFormat

	// Duration is the estimated playback length, zero when unknown.
	Duration time.Duration

	// LatencyMs is the synthesis round-trip time in milliseconds.
	LatencyMs int64
}

// AudioFormat describes audio encoding parameters.
type AudioFormat struct {
	Encoding   Encoding
	SampleRate int
	Channels   int
}

// Encoding identifies an audio codec and rate. The values match the
// ElevenLabs output_format parameter; OpenAI maps onto the nearest one.
type Encoding string

const (
	EncodingPCM16 Encoding = "pcm_16000"
	EncodingPCM24 Encoding = "pcm_24000"
	EncodingMP3   Encoding = "mp3_44100_128"
)

// SampleRate returns the sample rate in Hz implied by the encoding.
func (e Encoding) SampleRate() int {
	switch e {
	case EncodingPCM16:
		return 16000
	case EncodingPCM24:
		return 24000
	case EncodingMP3:
		return 44100
	default:
		return 24000
	}
}
