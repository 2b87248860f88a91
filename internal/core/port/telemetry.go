package port

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry lets the core and the backend client emit traces, logs and
// metrics without knowing the implementation.
type Telemetry interface {
	// Tracing
	StartClientSpan(ctx context.Context, operation string, attrs []attribute.KeyValue) (context.Context, trace.Span)
	StartServiceSpan(ctx context.Context, service string, operation string, attrs []attribute.KeyValue) (context.Context, trace.Span)

	// Backend calls
	RecordClientOperation(ctx context.Context, operation string, statusCode int, duration time.Duration, err error)

	// Service operations
	RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error)

	// Business events
	RecordBusinessEvent(ctx context.Context, event string, entityID string, metadata map[string]interface{})

	// Errors
	RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{})
}
