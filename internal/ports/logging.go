package ports

import (
	"context"

	"github.com/hashicorp/go-uuid"
)

// Logger defines the orchestrator's structured logging contract. All log
// calls are key/value pairs, must be safe for concurrent use, and
// automatically enrich entries with a correlation ID when present in
// context. Common fields include:
//   - correlation_id (generated once per run at the CLI entry point)
//   - component (executor, store, sidebus, supervisor, ...)
//   - action_id / pipeline_action_id / profile_id where applicable
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, msg string, fields ...interface{})
	Error(ctx context.Context, msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

type correlationIDKey struct{}

// WithCorrelationID attaches the provided correlation ID to the context so
// downstream layers can emit correlated logs.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID extracts a correlation ID from context, returning an
// empty string when none has been set.
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GenerateCorrelationID produces a new run identifier. One CLI invocation —
// `serve` or `autostart` — generates exactly one.
func GenerateCorrelationID() string {
	id, err := uuid.GenerateUUID()
	if err != nil {
		// uuid.GenerateUUID only fails if crypto/rand is broken; a stable
		// fallback keeps logging functional rather than panicking mid-run.
		return "uncorrelated"
	}
	return id
}
