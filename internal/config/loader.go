package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// validCoachProviders are the known generation backends.
var validCoachProviders = []string{"groq", "openai", "ollama"}

// validSpeechProviders are the known synthesis backends.
var validSpeechProviders = []string{"openai", "elevenlabs"}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Coach: CoachConfig{
			Provider: "groq",
			Model:    "llama-3.3-70b-versatile",
		},
		Speech: SpeechConfig{
			Enabled:   true,
			Providers: []string{"openai"},
		},
	}
}

// Load reads the YAML configuration file at path and returns a validated
// Config. It is a convenience wrapper around LoadFromReader.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are built from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing every failure found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}

	if cfg.Coach.Provider != "" && !slices.Contains(validCoachProviders, cfg.Coach.Provider) {
		errs = append(errs, fmt.Errorf("coach.provider %q is unknown; valid values: groq, openai, ollama", cfg.Coach.Provider))
	}
	if cfg.Coach.BaseCooldown < 0 || cfg.Coach.UrgentCooldown < 0 {
		errs = append(errs, errors.New("coach cooldowns must not be negative"))
	}

	for _, p := range cfg.Speech.Providers {
		if !slices.Contains(validSpeechProviders, p) {
			errs = append(errs, fmt.Errorf("speech.providers entry %q is unknown; valid values: openai, elevenlabs", p))
		}
	}

	if cfg.Exercise.FlexUp != 0 && cfg.Exercise.FlexDown != 0 && cfg.Exercise.FlexDown >= cfg.Exercise.FlexUp {
		errs = append(errs, errors.New("exercise.flex_down must be below exercise.flex_up"))
	}
	if cfg.Exercise.GoalReps < 0 || cfg.Exercise.GoalSets < 0 {
		errs = append(errs, errors.New("exercise goals must not be negative"))
	}

	if cfg.Fit.Enabled && (cfg.Fit.ClientID == "" || cfg.Fit.ClientSecret == "") {
		errs = append(errs, errors.New("googlefit.client_id and googlefit.client_secret are required when enabled"))
	}

	return errors.Join(errs...)
}

// Env returns the environment variable value or a default.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
