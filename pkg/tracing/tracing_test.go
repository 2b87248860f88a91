package tracing

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpanWrapper_RecordsError(t *testing.T) {
	RegisterTestingT(t)

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	err := SpanWrapper(context.Background(), "cache.revalidate", nil, func(ctx context.Context) error {
		Expect(GetTraceID(ctx)).ToNot(BeEmpty())
		return errors.New("boom")
	})

	Expect(err).To(MatchError("boom"))

	spans := recorder.Ended()
	Expect(spans).To(HaveLen(1))
	Expect(spans[0].Name()).To(Equal("cache.revalidate"))
	Expect(spans[0].Status().Code).To(Equal(codes.Error))
}

func TestGetTraceID_WithoutSpan(t *testing.T) {
	RegisterTestingT(t)

	Expect(GetTraceID(context.Background())).To(BeEmpty())
}
