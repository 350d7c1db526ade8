package policy

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/isdelr/fluxfeed-be/internal/auth"
)

// ErrUnauthenticated is returned when a protected operation is invoked
// without a resolved caller identity.
var ErrUnauthenticated = errors.New("you are not authorized to access this resource")

// ErrUnknownOperation is returned when a dispatch names no registered
// operation.
var ErrUnknownOperation = errors.New("unknown operation")

// ErrInvalidArgs is returned by handlers when an operation's arguments are
// missing or malformed.
var ErrInvalidArgs = errors.New("invalid arguments")

// Handler executes one named operation. Args is the raw JSON argument
// object from the dispatch payload; handlers decode only what they use.
type Handler func(ctx context.Context, args json.RawMessage) (interface{}, error)

// Protected wraps a handler so it only runs for an authenticated caller.
// With no identity in the context the wrapped handler is never invoked and
// the call fails with ErrUnauthenticated. This is the single authorization
// mechanism; marking an operation protected at registration time is all a
// new operation needs.
func Protected(next Handler) Handler {
	return func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		if auth.IdentityFrom(ctx) == "" {
			return nil, ErrUnauthenticated
		}
		return next(ctx, args)
	}
}

// Registry maps operation names to handlers. Protection is declared at
// registration, not checked per call site.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty operation registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds an unprotected operation.
func (r *Registry) Register(name string, h Handler) {
	r.handlers[name] = h
}

// RegisterProtected adds an operation that requires a caller identity.
func (r *Registry) RegisterProtected(name string, h Handler) {
	r.handlers[name] = Protected(h)
}

// Dispatch invokes the named operation.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, ErrUnknownOperation
	}
	return h(ctx, args)
}
