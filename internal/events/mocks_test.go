package events

import (
	"context"
	"sync"
)

// MockEventHandler records the events it receives.
type MockEventHandler struct {
	mu           sync.Mutex
	HandledCount int
	LastEvent    *AccountEvent
	HandlerError error
}

func (m *MockEventHandler) HandleEvent(ctx context.Context, event *AccountEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HandledCount++
	m.LastEvent = event
	return m.HandlerError
}
