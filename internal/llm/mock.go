package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// errMockExhausted is returned once every queued response is used.
var errMockExhausted = errors.New("mock provider has no queued responses")

// MockResponse is one scripted reply. Err, when set, is returned instead of
// content.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error

	// StopReason defaults to "end". "max_tokens" makes the reply truncated,
	// as a real provider would report it. Other content is validated
	// against the request's schema like a real provider's.
	StopReason string

	// Delay holds the response back, returning the context error if the
	// context ends first. Used to exercise caller deadlines.
	Delay time.Duration
}

// MockProvider replays scripted responses in order and records each request
// together with the purpose and subject it was made for. It backs the
// "mock" provider setting, which lets the TUI start without credentials.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse

	Calls    []Request
	Subjects []Subject
}

// NewMockProvider creates a MockProvider with the given scripted responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next scripted response. An empty queue reports the
// provider as unavailable, which callers treat as a retryable outage.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	subj, _ := SubjectFrom(ctx)

	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.Subjects = append(m.Subjects, subj)
	if len(m.responses) == 0 {
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{Err: errMockExhausted}
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if next.Delay > 0 {
		t := time.NewTimer(next.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	if next.Err != nil {
		return nil, next.Err
	}

	stop := next.StopReason
	if stop == "" {
		stop = "end"
	}
	content, err := checkStructured(req.Schema, stop, next.Content)
	if err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: next.Usage, Model: "mock", StopReason: stop}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddJSON queues a successful response with v marshaled as its content.
func (m *MockProvider) AddJSON(v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		m.AddResponse(MockResponse{Err: &ErrInvalidResponse{Err: err}})
		return
	}
	m.AddResponse(MockResponse{Content: raw})
}

// AddResponse appends a scripted response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// Pending reports how many scripted responses are left.
func (m *MockProvider) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.responses)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
