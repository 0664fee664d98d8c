package llm

import (
	"context"
	"sync"
)

// Mock implements Generator for testing.
// All methods can be customized via function fields.
type Mock struct {
	// GenerateFunc is called when Generate is invoked.
	// If nil, returns a fixed phrase.
	GenerateFunc func(ctx context.Context, req Request) (string, error)

	// CloseFunc is called when Close is invoked. If nil, returns nil.
	CloseFunc func() error

	mu    sync.Mutex
	calls []Request
}

// NewMock creates a mock that always answers with a fixed phrase.
func NewMock() *Mock {
	return &Mock{
		GenerateFunc: func(ctx context.Context, req Request) (string, error) {
			return "Keep those elbows tight!", nil
		},
	}
}

// MockWithError returns a mock whose Generate always fails with err.
func MockWithError(err error) *Mock {
	return &Mock{
		GenerateFunc: func(ctx context.Context, req Request) (string, error) {
			return "", err
		},
	}
}

// Generate calls GenerateFunc and records the request.
func (m *Mock) Generate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return "", ErrEmptyResponse
}

// Close calls CloseFunc.
func (m *Mock) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Calls returns all recorded requests.
func (m *Mock) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of Generate invocations.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastCall returns the most recent request, or nil if none.
func (m *Mock) LastCall() *Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	call := m.calls[len(m.calls)-1]
	return &call
}

// Verify Mock implements Generator at compile time.
var _ Generator = (*Mock)(nil)
