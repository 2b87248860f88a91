package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func TestAppMetrics_RecordTodoAction(t *testing.T) {
	RegisterTestingT(t)
	metrics := NewAppMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	metrics.RecordTodoAction(ctx, "add", nil)
	metrics.RecordTodoAction(ctx, "add", nil)
	metrics.RecordTodoAction(ctx, "add", errors.New("boom"))

	Expect(testutil.ToFloat64(metrics.todoActions.WithLabelValues("add", "success"))).To(Equal(2.0))
	Expect(testutil.ToFloat64(metrics.todoActions.WithLabelValues("add", "failure"))).To(Equal(1.0))
}

func TestAppMetrics_RecordBackendRequest(t *testing.T) {
	RegisterTestingT(t)
	metrics := NewAppMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	metrics.RecordBackendRequest(ctx, "list_todos", 200, 10*time.Millisecond)
	metrics.RecordBackendRequest(ctx, "list_todos", 0, time.Millisecond)

	Expect(testutil.ToFloat64(metrics.backendRequests.WithLabelValues("list_todos", "200"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.backendRequests.WithLabelValues("list_todos", "error"))).To(Equal(1.0))
}

func TestOTELProbe_FeedsMetrics(t *testing.T) {
	RegisterTestingT(t)
	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(otelzap.New(zap.NewNop()), metrics)
	ctx := context.Background()

	ctx, span := probe.StartServiceSpan(ctx, "todo", "toggle", nil)
	probe.RecordServiceOperation(ctx, "todo", "toggle", time.Millisecond, nil)
	span.End()

	ctx, span = probe.StartClientSpan(ctx, "set_completed", nil)
	probe.RecordClientOperation(ctx, "set_completed", 502, time.Millisecond, errors.New("bad gateway"))
	span.End()

	Expect(testutil.ToFloat64(metrics.todoActions.WithLabelValues("toggle", "success"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.backendRequests.WithLabelValues("set_completed", "502"))).To(Equal(1.0))
}
