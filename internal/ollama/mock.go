package ollama

import (
	"context"
	"sync"
)

// Mock is a scripted Generator for tests. It replays the configured
// responses in order (repeating the last one once exhausted) and records
// every prompt it receives.
type Mock struct {
	mu        sync.Mutex
	responses []string
	next      int

	// Err, when set, is returned from every Generate call.
	Err error

	// Prompts holds every prompt passed to Generate, in order.
	Prompts []string
}

// NewMock creates a Mock that replays the given responses.
func NewMock(responses ...string) *Mock {
	return &Mock{responses: responses}
}

// Generate implements Generator.
func (m *Mock) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	resp := m.responses[m.next]
	if m.next < len(m.responses)-1 {
		m.next++
	}
	return resp, nil
}
