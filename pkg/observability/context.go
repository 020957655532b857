package observability

import "context"

const (
	// CorrelationIDKey is the log attribute key for correlation IDs.
	CorrelationIDKey = "correlation_id"
)

type correlationIDContextKey struct{}

// WithCorrelationID stores a correlation ID in the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID, or "" when absent.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDContextKey{}).(string); ok {
		return id
	}
	return ""
}
