package metrics_test

import (
	"context"
	"intake/pkg/metrics"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func TestNewMeterProvider_ExportsIntakeInstruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	mp, err := metrics.NewMeterProvider(reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := metrics.NewIntake(mp.Meter("intake"))
	require.NoError(t, err)

	m.Resolutions.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("source", "manual"), attribute.String("outcome", "FOUND")))

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "intake_resolutions_total")
}

func TestNopIntake(t *testing.T) {
	m := metrics.NopIntake()
	require.NotNil(t, m)
	require.NotPanics(t, func() {
		m.Dispatches.Add(context.Background(), 1)
		m.CameraSessions.Add(context.Background(), -1)
		m.ResolveDuration.Record(context.Background(), 0.01)
	})
}
