package action

import (
	"context"
	"sync"

	"github.com/lumenui/lumen/internal/state"
)

// Handler is a host-registered custom action implementation.
type Handler func(ctx context.Context, params map[string]any, store *state.Store) error

// Registry maps custom action names to handlers. Hosts populate it before
// document load; lookups afterwards are plain map reads.
type Registry struct {
	handlers sync.Map
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register binds a handler to a custom action name, replacing any previous
// binding.
func (r *Registry) Register(name string, h Handler) {
	r.handlers.Store(name, h)
}

// Get returns the handler for name.
func (r *Registry) Get(name string) (Handler, bool) {
	val, ok := r.handlers.Load(name)
	if !ok {
		return nil, false
	}
	return val.(Handler), true
}
