package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a hand-written in-memory Provider used in unit tests.
// It records every Email it receives.
type MockProvider struct {
	mu   sync.Mutex
	sent []Email

	// FailOn maps a 1-based call number to the error that call returns.
	FailOn map[int]error
}

func NewMockProvider() *MockProvider {
	return &MockProvider{FailOn: make(map[int]error)}
}

func (m *MockProvider) Send(_ context.Context, e *Email) (*SendResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, *e)
	call := len(m.sent)
	if err, ok := m.FailOn[call]; ok {
		return nil, err
	}
	return &SendResponse{MessageID: fmt.Sprintf("<msg-%d@mock>", call), Status: "sent"}, nil
}

// Sent returns a copy of every Email passed to Send, in call order.
func (m *MockProvider) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Email, len(m.sent))
	copy(out, m.sent)
	return out
}

var _ Provider = (*MockProvider)(nil)
