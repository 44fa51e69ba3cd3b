package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
)

// ContextKey is the type of the request context keys set by this package.
type ContextKey string

// Context keys for request-scoped values
const (
	// CallerContextKey holds the domain.Caller resolved from the bearer token
	CallerContextKey ContextKey = "caller"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// WithCaller returns a context carrying the caller.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, CallerContextKey, caller)
}

// CallerFrom returns the caller stored in the context, or an anonymous
// caller when authentication middleware has not run.
func CallerFrom(ctx context.Context) domain.Caller {
	caller, ok := ctx.Value(CallerContextKey).(domain.Caller)
	if !ok {
		return domain.Anonymous()
	}
	return caller
}

// SetTraceID adds a fresh trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, newTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// newTraceID returns 32 random hex characters.
func newTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
