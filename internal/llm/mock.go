package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply for a MockProvider. Either Content
// or Err is consumed per Generate call.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted responses in order and records every
// request it receives. Safe for concurrent use.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	next   int
	Calls  []Request
}

// NewMockProvider builds a MockProvider preloaded with the given script.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{script: responses}
}

// Generate records the request and replays the next scripted response.
// Once the script runs out it reports the provider as unavailable.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if m.next >= len(m.script) {
		return nil, &ErrProviderUnavailable{}
	}

	r := m.script[m.next]
	m.next++

	if r.Err != nil {
		return nil, r.Err
	}

	return &Response{
		Content:    r.Content,
		Usage:      r.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse extends the script with another response.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, resp)
}

// CallCount reports how many Generate calls have been recorded.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
