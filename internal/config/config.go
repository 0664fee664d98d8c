// Package config provides the YAML configuration schema and loader for the
// coach service.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Exercise ExerciseConfig `yaml:"exercise"`
	Coach    CoachConfig    `yaml:"coach"`
	Speech   SpeechConfig   `yaml:"speech"`
	Fit      FitConfig      `yaml:"googlefit"`
}

// ServerConfig configures the HTTP and WebSocket surface.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`
}

// ExerciseConfig sets tracking thresholds and default workout goals.
type ExerciseConfig struct {
	// FlexUp is the flexion angle, in degrees, above which the arm is at
	// the start position.
	FlexUp float64 `yaml:"flex_up"`

	// FlexDown is the flexion angle below which the curl is complete.
	FlexDown float64 `yaml:"flex_down"`

	// Drift is the shoulder-elbow-hip angle beyond which a misalignment
	// warning fires.
	Drift float64 `yaml:"drift"`

	GoalReps int `yaml:"goal_reps"`
	GoalSets int `yaml:"goal_sets"`
}

// CoachConfig tunes feedback arbitration and text generation.
type CoachConfig struct {
	// Provider is the generation backend: groq, openai, or ollama.
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`

	// APIKey falls back to the backend's environment variable when empty.
	APIKey string `yaml:"api_key"`

	BaseCooldown   time.Duration `yaml:"base_cooldown"`
	UrgentCooldown time.Duration `yaml:"urgent_cooldown"`
	Timeout        time.Duration `yaml:"timeout"`
}

// SpeechConfig configures synthesis and playout.
type SpeechConfig struct {
	// Enabled turns the speaking pipeline on.
	Enabled bool `yaml:"enabled"`

	// Providers lists TTS backends in fallback order: openai, elevenlabs.
	Providers []string `yaml:"providers"`

	OpenAIKey     string `yaml:"openai_api_key"`
	ElevenLabsKey string `yaml:"elevenlabs_api_key"`
	Voice         string `yaml:"voice"`

	// RTPAddr is the host:port of the RTP playout endpoint. Empty selects
	// the local exec player.
	RTPAddr string `yaml:"rtp_addr"`
}

// FitConfig configures the optional Google Fit result sink.
type FitConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
	TokenPath    string `yaml:"token_path"`
}
