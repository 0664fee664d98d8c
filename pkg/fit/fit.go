// Package fit records finished workouts as Google Fit sessions.
//
// The sink is optional: without credentials the coach runs fine and results
// are simply not persisted. Authentication is the standard three-legged
// OAuth2 flow with the token cached on disk, so consent is a one-time step.
package fit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/fitness/v1"
	"google.golang.org/api/option"

	"github.com/formsense/go-formcoach/internal/log"
	"github.com/formsense/go-formcoach/pkg/session"
)

// weightliftingActivity is the Google Fit activity type for strength
// training.
const weightliftingActivity = 97

// Config configures the Google Fit sink.
type Config struct {
	ClientID     string
	ClientSecret string

	// RedirectURL defaults to the local callback endpoint.
	RedirectURL string

	// TokenPath defaults to ~/.formcoach/google_token.json.
	TokenPath string
}

// Sink implements session.ResultSink on the Google Fit sessions API.
type Sink struct {
	config    *oauth2.Config
	tokenPath string

	mu      sync.RWMutex
	token   *oauth2.Token
	service *fitness.Service
}

// NewSink creates the sink and loads any cached token.
func NewSink(cfg Config) (*Sink, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("fit: client ID and secret are required")
	}
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = "http://localhost:8080/api/fit/callback"
	}
	if cfg.TokenPath == "" {
		homeDir, _ := os.UserHomeDir()
		cfg.TokenPath = filepath.Join(homeDir, ".formcoach", "google_token.json")
	}

	s := &Sink{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{fitness.FitnessActivityWriteScope},
			Endpoint:     google.Endpoint,
		},
		tokenPath: cfg.TokenPath,
	}

	if err := s.loadToken(); err == nil {
		if err := s.initService(); err != nil {
			// Cached token is stale; consent flow will replace it.
			s.token = nil
		}
	}
	return s, nil
}

// Authenticated reports whether the sink holds a valid token.
func (s *Sink) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil && s.token.Valid()
}

// AuthURL returns the consent URL to open in a browser.
func (s *Sink) AuthURL() string {
	return s.config.AuthCodeURL("formcoach-state", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// HandleCallback exchanges the authorization code and caches the token.
func (s *Sink) HandleCallback(ctx context.Context, code string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("fit: exchange code: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.saveToken(); err != nil {
		log.Warn("fit: save token", "error", err)
	}
	return s.initService()
}

// Record writes the workout as a Google Fit session.
func (s *Sink) Record(ctx context.Context, res session.Result) error {
	s.mu.RLock()
	service := s.service
	s.mu.RUnlock()

	if service == nil {
		return fmt.Errorf("fit: not authenticated")
	}

	end := res.StartedAt.Add(res.Duration)
	fitSession := &fitness.Session{
		Id:   "formcoach-" + res.SessionID,
		Name: fmt.Sprintf("Coached %s", res.Exercise),
		Description: fmt.Sprintf("%d sets, %d reps, %d form warnings",
			res.SetsCompleted, res.TotalReps, res.Warnings),
		StartTimeMillis: res.StartedAt.UnixMilli(),
		EndTimeMillis:   end.UnixMilli(),
		ActivityType:    weightliftingActivity,
		Application:     &fitness.Application{Name: "formcoach"},
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := service.Users.Sessions.Update("me", fitSession.Id, fitSession).Context(ctx).Do(); err != nil {
		return fmt.Errorf("fit: upload session: %w", err)
	}

	log.Info("fit: recorded workout",
		"session_id", res.SessionID,
		"reps", res.TotalReps,
		"sets", res.SetsCompleted,
	)
	return nil
}

// Disconnect clears authentication and removes the cached token.
func (s *Sink) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	s.service = nil
	if err := os.Remove(s.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("fit: remove token file: %w", err)
	}
	return nil
}

// initService builds the fitness service from the current token.
func (s *Sink) initService() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		return fmt.Errorf("fit: no token")
	}

	source := s.config.TokenSource(context.Background(), s.token)
	service, err := fitness.NewService(context.Background(), option.WithTokenSource(source))
	if err != nil {
		return fmt.Errorf("fit: create service: %w", err)
	}
	s.service = service
	return nil
}

// loadToken reads the cached token from disk.
func (s *Sink) loadToken() error {
	data, err := os.ReadFile(s.tokenPath)
	if err != nil {
		return err
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = &token
	s.mu.Unlock()
	return nil
}

// saveToken writes the token to disk with owner-only permissions.
func (s *Sink) saveToken() error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.tokenPath), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath, data, 0o600)
}

// Verify Sink implements session.ResultSink at compile time.
var _ session.ResultSink = (*Sink)(nil)
