package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/entries-go/internal/application/mediator"
)

// MockMediator is a test double for mediator.Sender
// Used by adapter tests that only care which request an inbound call produced
type MockMediator struct {
	mu           sync.Mutex
	dispatchFunc func(ctx context.Context, request any) (any, error)
	requests     []any // Track which requests were dispatched
}

// NewMockMediator creates a new MockMediator
func NewMockMediator() *MockMediator {
	return &MockMediator{
		requests: []any{},
	}
}

// Dispatch implements mediator.Sender
func (m *MockMediator) Dispatch(ctx context.Context, request any) (any, error) {
	m.mu.Lock()
	m.requests = append(m.requests, request)
	fn := m.dispatchFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, request)
	}
	return nil, fmt.Errorf("unsupported request type: %T", request)
}

// SetDispatchFunc sets a custom function for Dispatch calls
func (m *MockMediator) SetDispatchFunc(fn func(ctx context.Context, request any) (any, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatchFunc = fn
}

// Requests returns the requests dispatched so far
func (m *MockMediator) Requests() []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]any{}, m.requests...)
}

// LastRequest returns the most recent request, or nil
func (m *MockMediator) LastRequest() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// Ensure MockMediator implements the mediator.Sender interface
var _ mediator.Sender = (*MockMediator)(nil)
