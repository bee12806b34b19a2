package pipeline

import (
	"context"
	"sync"

	"github.com/sells-group/takeoff-cli/pkg/anthropic"
)

// mockOracle scripts oracle answers for pass tests. When fn is set it decides
// the answer per request; otherwise replies are consumed in order.
type mockOracle struct {
	mu       sync.Mutex
	fn       func(req anthropic.MessageRequest) (string, error)
	replies  []string
	err      error
	requests []anthropic.MessageRequest
}

func (m *mockOracle) call(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if m.fn != nil {
		text, err := m.fn(req)
		if err != nil {
			return nil, err
		}
		return textResponse(text), nil
	}
	if m.err != nil {
		return nil, m.err
	}
	if len(m.replies) == 0 {
		return textResponse("{}"), nil
	}
	text := m.replies[0]
	m.replies = m.replies[1:]
	return textResponse(text), nil
}

func (m *mockOracle) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 100, OutputTokens: 50},
	}
}
