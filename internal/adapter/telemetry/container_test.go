package telemetry

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func TestNewContainer_WithoutExporters(t *testing.T) {
	RegisterTestingT(t)

	container, err := NewContainer(context.Background(), Config{
		ServiceName:    "todoweb",
		ServiceVersion: "test",
		Environment:    "test",
	}, zap.NewNop())

	Expect(err).ToNot(HaveOccurred())
	Expect(container.MetricsServer).To(BeNil())
	Expect(container.AppMetrics).ToNot(BeNil())

	probe := container.NewTelemetryProbe(otelzap.New(zap.NewNop()))
	probe.RecordServiceOperation(context.Background(), "todo", "add", 0, nil)

	families, err := container.PrometheusRegistry.Gather()
	Expect(err).ToNot(HaveOccurred())

	var names []string
	for _, family := range families {
		names = append(names, family.GetName())
	}
	Expect(names).To(ContainElement("todo_actions_total"))

	Expect(container.Shutdown(context.Background())).To(Succeed())
}
