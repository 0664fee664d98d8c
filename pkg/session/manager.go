package session

import (
	"context"
	"errors"
	"sync"

	"github.com/formsense/go-formcoach/pkg/coach"
)

// Manager errors.
var (
	ErrNoSession     = errors.New("session: no active session")
	ErrSessionActive = errors.New("session: a session is already running")
)

// Manager guards the single active session. One athlete, one camera, one
// workout at a time.
type Manager struct {
	arbiter *coach.Arbiter
	speaker Speaker
	sink    ResultSink
	pub     Publisher

	mu     sync.Mutex
	active *Session
}

// NewManager creates a manager. speaker, sink, and pub may be nil and are
// passed to every session it starts.
func NewManager(arbiter *coach.Arbiter, speaker Speaker, sink ResultSink, pub Publisher) *Manager {
	return &Manager{arbiter: arbiter, speaker: speaker, sink: sink, pub: pub}
}

// Start begins a new session. Fails when one is already running.
func (m *Manager) Start(cfg Config) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		return nil, ErrSessionActive
	}
	m.arbiter.Reset()
	m.active = New(cfg, m.arbiter, m.speaker, m.sink, m.pub)
	return m.active, nil
}

// Active returns the running session, or nil.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Stop ends the active session and returns its result.
func (m *Manager) Stop(ctx context.Context) (Result, error) {
	m.mu.Lock()
	s := m.active
	m.active = nil
	m.mu.Unlock()

	if s == nil {
		return Result{}, ErrNoSession
	}
	return s.Stop(ctx), nil
}

// Reset replaces the active session with a fresh one using the same config.
func (m *Manager) Reset(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	s := m.active
	m.mu.Unlock()

	if s == nil {
		return nil, ErrNoSession
	}

	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	if _, err := m.Stop(ctx); err != nil {
		return nil, err
	}
	return m.Start(cfg)
}
