package intake

import (
	"context"
	"fmt"
	"intake/pkg/domain"
	"intake/pkg/logger"
	"intake/pkg/metrics"
	"intake/pkg/tone"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Catalog is the read-only product lookup the dispatcher resolves against.
type Catalog interface {
	LookupByScanCode(code domain.ScanCode) (domain.CatalogEntry, bool)
}

// ResolvedFunc receives every resolution exactly once. It is the only place
// the caller mutates its cart.
type ResolvedFunc func(ctx context.Context, result domain.ResolutionResult)

// ToneEmitter plays audio cues. Errors are ignored.
type ToneEmitter interface {
	Emit(ctx context.Context, cue tone.Cue) error
}

// ScreenState is the state of the intake screen as seen by the dispatcher.
type ScreenState int32

const (
	ScreenReady ScreenState = iota
	ScreenResolving
)

func (s ScreenState) String() string {
	if s == ScreenResolving {
		return "RESOLVING"
	}

	return "READY"
}

// DispatcherOptions configure side effects of a Dispatcher.
type DispatcherOptions struct {
	// SoundsEnabled turns audio cues on.
	SoundsEnabled bool
	// Tone plays the cues. Nil disables audio.
	Tone ToneEmitter
	// Metrics records resolutions. Nil records nothing.
	Metrics *metrics.Intake
	// Tracer traces resolutions. Nil traces nothing.
	Tracer trace.Tracer
}

// Dispatcher resolves scan events one at a time to completion.
type Dispatcher struct {
	catalog Catalog
	sink    ResolvedFunc
	options DispatcherOptions

	mu    sync.Mutex
	state atomic.Int32
}

// NewDispatcher creates a dispatcher over catalog. sink may be nil.
func NewDispatcher(catalog Catalog, sink ResolvedFunc, options DispatcherOptions) *Dispatcher {
	if options.Metrics == nil {
		options.Metrics = metrics.NopIntake()
	}
	if options.Tracer == nil {
		options.Tracer = noop.NewTracerProvider().Tracer("intake")
	}

	return &Dispatcher{
		catalog: catalog,
		sink:    sink,
		options: options,
	}
}

// State reports whether a resolution is in progress.
func (d *Dispatcher) State() ScreenState {
	return ScreenState(d.state.Load())
}

// Resolve looks event up and runs its side effects: the sink first, then the
// audio cue. Repeated events are resolved again every time.
func (d *Dispatcher) Resolve(ctx context.Context, event domain.ScanEvent) domain.ResolutionResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	started := time.Now()
	d.state.Store(int32(ScreenResolving))
	defer d.state.Store(int32(ScreenReady))

	ctx, span := d.options.Tracer.Start(ctx, "intake.resolve", trace.WithAttributes(
		attribute.String("scan.code", string(event.Code)),
		attribute.String("scan.source", string(event.Source)),
	))
	defer span.End()

	result := d.lookup(event)
	span.SetAttributes(attribute.String("scan.outcome", string(result.Outcome)))

	ctx = logger.WithFields(ctx,
		zap.String("code", string(event.Code)),
		zap.String("source", string(event.Source)))
	if result.IsFound() {
		logger.Debug(ctx, "scan resolved", zap.String("product", result.Entry.ID.String()))
	} else {
		logger.Debug(ctx, "scan not found")
	}

	if d.sink != nil {
		d.sink(ctx, result)
	}
	d.cue(ctx, result)

	attrs := metric.WithAttributes(
		attribute.String("source", string(event.Source)),
		attribute.String("outcome", string(result.Outcome)),
	)
	d.options.Metrics.Resolutions.Add(ctx, 1, attrs)
	d.options.Metrics.ResolveDuration.Record(ctx, time.Since(started).Seconds(), attrs)

	return result
}

func (d *Dispatcher) lookup(event domain.ScanEvent) domain.ResolutionResult {
	if !event.Code.Valid() || d.catalog == nil {
		return domain.NotFound(event)
	}

	entry, ok := d.catalog.LookupByScanCode(event.Code)
	if !ok || !entry.Active {
		return domain.NotFound(event)
	}

	return domain.Found(event, entry)
}

func (d *Dispatcher) cue(ctx context.Context, result domain.ResolutionResult) {
	if !d.options.SoundsEnabled || d.options.Tone == nil {
		return
	}

	cue := tone.Failure
	if result.IsFound() {
		cue = tone.Success
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Debug(ctx, "audio cue panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()

	if err := d.options.Tone.Emit(ctx, cue); err != nil {
		logger.Debug(ctx, "audio cue unavailable", zap.Error(err))
	}
}
