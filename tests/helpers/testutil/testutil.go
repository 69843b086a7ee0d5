// Package testutil provides shared mocks and fixtures for engine tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/lumenui/lumen/internal/action"
)

// MockTransport is a mock implementation of action.Transport.
type MockTransport struct {
	mock.Mock
}

// Perform mocks the network call behind request actions.
func (m *MockTransport) Perform(ctx context.Context, method, url string) (any, error) {
	args := m.Called(ctx, method, url)
	return args.Get(0), args.Error(1)
}

// NewMockTransport creates a transport mock that answers every request with
// an empty JSON object. Override with On("Perform", ...) before use.
func NewMockTransport(t *testing.T) *MockTransport {
	t.Helper()
	m := new(MockTransport)
	m.On("Perform", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]any{}, nil).Maybe()
	return m
}

// MockPresenter is a mock implementation of action.Presenter.
type MockPresenter struct {
	mock.Mock
}

// Present mocks intent delivery.
func (m *MockPresenter) Present(ctx context.Context, intent action.Intent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

// CounterDocument is a minimal interactive document used across tests: a
// label bound to a counter and a button that increments it.
const CounterDocument = `{
	"id": "counter",
	"state": {"count": 0},
	"actions": {
		"bump": {"type": "setState", "path": "count", "value": {"$expr": "${count + 1}"}}
	},
	"root": {
		"type": "vstack",
		"children": [
			{"type": "label", "id": "display", "text": "Count: ${count}"},
			{"type": "button", "id": "plus", "text": "+", "actions": {"tap": "bump"}}
		]
	}
}`
