package tts

import (
	"context"
	"sync"
)

// Mock implements Provider for testing. Behavior is customized through
// function fields; calls are recorded for assertions.
type Mock struct {
	// SynthesizeFunc is called by Synthesize. If nil, a small silent PCM
	// clip is returned.
	SynthesizeFunc func(ctx context.Context, text string) (*Clip, error)

	// HealthFunc is called by Health. If nil, Health returns nil.
	HealthFunc func(ctx context.Context) error

	// CloseFunc is called by Close. If nil, Close returns nil.
	CloseFunc func() error

	mu    sync.Mutex
	texts []string
}

// NewMock creates a mock that returns a short silent PCM16 clip.
func NewMock() *Mock {
	return &Mock{}
}

// MockWithError returns a mock whose Synthesize always fails with err.
func MockWithError(err error) *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, text string) (*Clip, error) {
			return nil, err
		},
	}
}

// Synthesize records the text and delegates to SynthesizeFunc.
func (m *Mock) Synthesize(ctx context.Context, text string) (*Clip, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	return &Clip{
		Audio:  make([]byte, 480),
		Format: AudioFormat{Encoding: EncodingPCM24, SampleRate: 24000, Channels: 1},
	}, nil
}

// Health delegates to HealthFunc.
func (m *Mock) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close delegates to CloseFunc.
func (m *Mock) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Texts returns all synthesized texts in order.
func (m *Mock) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.texts))
	copy(out, m.texts)
	return out
}

// CallCount returns the number of Synthesize invocations.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.texts)
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
