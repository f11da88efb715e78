package jobs

import (
	"context"
	"encoding/json"
	"fmt"
)

// Job is a named unit of background work with a JSON payload.
type Job struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Handler executes one job.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Registry maps job names to handlers. Registration happens during wiring;
// dispatch looks names up at enqueue time.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

func (r *Registry) Register(name string, handler Handler) error {
	if name == "" || handler == nil {
		return fmt.Errorf("job registration requires a name and a handler")
	}
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("job %q registered twice", name)
	}
	r.handlers[name] = handler
	return nil
}

func (r *Registry) Lookup(name string) (Handler, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("no handler registered for job %q", name)
	}
	return handler, nil
}

// Dispatcher hands a job off for execution. Whether that happens inline or
// on a separate worker is the dispatcher's concern.
type Dispatcher interface {
	Enqueue(ctx context.Context, job Job) error
}
