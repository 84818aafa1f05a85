// Package metrics holds the shared metric plumbing: histogram buckets, the
// OpenTelemetry meter provider exported through Prometheus, and the
// instruments recorded by the intake core.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// NewMeterProvider creates an OpenTelemetry meter provider whose readings are
// exposed through the given Prometheus registerer.
func NewMeterProvider(registerer prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	exp, err := otelprom.New(otelprom.WithRegisterer(registerer))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)), nil
}

// Intake groups the instruments recorded by the intake core.
type Intake struct {
	// Resolutions counts lookups by source and outcome.
	Resolutions metric.Int64Counter
	// ResolveDuration records how long a lookup took, side effects included.
	ResolveDuration metric.Float64Histogram
	// Dispatches counts scan events handed to the dispatcher by source.
	Dispatches metric.Int64Counter
	// CameraSessions tracks camera sessions currently holding a device.
	CameraSessions metric.Int64UpDownCounter
}

// NewIntake creates the intake instruments on the given meter.
func NewIntake(meter metric.Meter) (*Intake, error) {
	resolutions, err := meter.Int64Counter("intake.resolutions",
		metric.WithDescription("Scan code lookups by source and outcome"))
	if err != nil {
		return nil, fmt.Errorf("could not create resolutions counter: %w", err)
	}

	duration, err := meter.Float64Histogram("intake.resolve.duration",
		metric.WithDescription("Time spent resolving a scan event"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create resolve duration histogram: %w", err)
	}

	dispatches, err := meter.Int64Counter("intake.dispatches",
		metric.WithDescription("Scan events dispatched by input source"))
	if err != nil {
		return nil, fmt.Errorf("could not create dispatches counter: %w", err)
	}

	sessions, err := meter.Int64UpDownCounter("intake.camera.sessions",
		metric.WithDescription("Camera sessions currently scanning"))
	if err != nil {
		return nil, fmt.Errorf("could not create camera sessions counter: %w", err)
	}

	return &Intake{
		Resolutions:     resolutions,
		ResolveDuration: duration,
		Dispatches:      dispatches,
		CameraSessions:  sessions,
	}, nil
}

// NopIntake returns instruments that record nothing.
func NopIntake() *Intake {
	m, _ := NewIntake(noop.NewMeterProvider().Meter("intake"))

	return m
}
