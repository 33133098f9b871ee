package server

import "context"

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// contextKeyRequestID is the context key for request ID
	contextKeyRequestID contextKey = "requestID"
	// contextKeyRoute is the context key for the matched route slot
	contextKeyRoute contextKey = "route"
)

// routeHolder is a mutable slot the router fills in once a request has
// been matched, so outer middleware can label metrics by route prefix
// instead of raw path. Requests flow through middleware and handler on
// the same goroutine, so no locking is needed.
type routeHolder struct {
	prefix string
}

// withRouteHolder returns a context carrying an empty route slot.
func withRouteHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKeyRoute, &routeHolder{})
}

// SetRouteLabel records the matched route prefix for the request.
// No-op when the slot is absent (e.g. in isolated handler tests).
func SetRouteLabel(ctx context.Context, prefix string) {
	if h, ok := ctx.Value(contextKeyRoute).(*routeHolder); ok {
		h.prefix = prefix
	}
}

// RouteLabel returns the recorded route prefix, or "unmatched" when no
// rule claimed the request.
func RouteLabel(ctx context.Context) string {
	if h, ok := ctx.Value(contextKeyRoute).(*routeHolder); ok && h.prefix != "" {
		return h.prefix
	}
	return "unmatched"
}

// RequestID returns the request ID from the context, if present.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}
