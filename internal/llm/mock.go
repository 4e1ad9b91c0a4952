package llm

import (
	"context"
	"sync"

	"persona-chat/internal/domain"
)

// MockCall registra una invocacion a MockClient.
type MockCall struct {
	Messages []domain.ChatMessage
	Params   Params
}

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error

	mu    sync.Mutex
	calls []MockCall
}

func (m *MockClient) Complete(ctx context.Context, messages []domain.ChatMessage, params Params) (string, error) {
	m.mu.Lock()
	cp := make([]domain.ChatMessage, len(messages))
	copy(cp, messages)
	m.calls = append(m.calls, MockCall{Messages: cp, Params: params})
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}
