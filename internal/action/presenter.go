package action

import (
	"context"

	"github.com/lumenui/lumen/internal/document"
)

// Intent is a declarative presentation request forwarded to the host
// unchanged; the runtime does not interpret UI chrome.
type Intent struct {
	Type        string                 `json:"type"` // "showAlert", "dismiss", "navigate"
	Title       string                 `json:"title,omitempty"`
	Message     string                 `json:"message,omitempty"`
	Buttons     []document.AlertButton `json:"buttons,omitempty"`
	Destination string                 `json:"destination,omitempty"`
}

// Presenter is the host-provided presentation collaborator.
type Presenter interface {
	Present(ctx context.Context, intent Intent) error
}

// Transport is the host-provided network collaborator for request actions.
// Implementations own timeouts and retries.
type Transport interface {
	Perform(ctx context.Context, method, url string) (any, error)
}
