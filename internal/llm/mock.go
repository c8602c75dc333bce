package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted answer: Content and Usage, or Err.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider answers from a script and records every request in Calls.
// Queued responses are used first, in order; after that Respond, when set,
// answers each call. With neither, Generate fails with ErrUnavailable so
// callers exercise their fallback path.
type MockProvider struct {
	mu     sync.Mutex
	queued []MockResponse

	Calls   []Request
	Respond func(Request) MockResponse
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{queued: script}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	var next MockResponse
	if len(m.queued) > 0 {
		next, m.queued = m.queued[0], m.queued[1:]
	} else if m.Respond != nil {
		next = m.Respond(req)
	} else {
		return nil, &Error{Kind: ErrUnavailable, Provider: ProviderMock}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: ProviderMock, StopReason: "end"}, nil
}

func (m *MockProvider) ModelID() string { return ProviderMock }

// AddResponse queues another scripted answer.
func (m *MockProvider) AddResponse(r MockResponse) {
	m.mu.Lock()
	m.queued = append(m.queued, r)
	m.mu.Unlock()
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
