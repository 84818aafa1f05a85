package intake

import (
	"context"
	"intake/pkg/domain"
	"sync"
	"time"
)

// Scheduler runs f once after d. The returned function cancels the call if it
// has not started yet.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

// RealScheduler schedules on the wall clock.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)

	return func() { t.Stop() }
}

// DispatchFunc hands a complete scan event to the lookup dispatcher.
type DispatchFunc func(ctx context.Context, event domain.ScanEvent) domain.ResolutionResult

// Input hosts the classifier for one input field. It applies the effects of
// every transition, owns the auto-submit timer and guarantees that nothing is
// dispatched once Close has returned.
type Input struct {
	// ctx is used for dispatches fired by the timer.
	ctx      context.Context
	opts     Options
	sched    Scheduler
	dispatch DispatchFunc

	mu    sync.Mutex
	state State
	// cancel disposes the outstanding timer, if any.
	cancel func()
	// gen identifies the outstanding timer; a callback carrying an older
	// generation is stale.
	gen    uint64
	closed bool
}

// NewInput creates an input bound to dispatch. A nil scheduler means
// RealScheduler.
func NewInput(ctx context.Context, dispatch DispatchFunc, opts Options, sched Scheduler) *Input {
	if sched == nil {
		sched = RealScheduler{}
	}

	return &Input{
		ctx:      context.WithoutCancel(ctx),
		opts:     opts.withDefaults(),
		sched:    sched,
		dispatch: dispatch,
	}
}

// Options returns the effective heuristic options.
func (in *Input) Options() Options {
	return in.opts
}

// Change feeds the new full field value observed at the given time.
func (in *Input) Change(value string, at time.Time) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed {
		return
	}
	in.step(in.ctx, Change{Value: value, At: at})
}

// Submit dispatches value as a manual scan right away. It reports false when
// nothing was dispatched (blank value or closed input).
func (in *Input) Submit(ctx context.Context, value string) (domain.ResolutionResult, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed {
		return domain.ResolutionResult{}, false
	}

	return in.step(ctx, Submit{Value: value})
}

// Close cancels any pending auto-submit. It is safe to call more than once.
func (in *Input) Close() {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed {
		return
	}
	in.step(in.ctx, Teardown{})
	in.closed = true
}

// State returns a copy of the classifier state.
func (in *Input) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.state
}

func (in *Input) fire(gen uint64) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed || gen != in.gen {
		return
	}
	in.cancel = nil
	in.step(in.ctx, Elapsed{})
}

// step must be called with mu held.
func (in *Input) step(ctx context.Context, ev Event) (domain.ResolutionResult, bool) {
	var (
		effects    []Effect
		result     domain.ResolutionResult
		dispatched bool
	)
	in.state, effects = Classify(in.state, ev, in.opts)

	for _, eff := range effects {
		switch e := eff.(type) {
		case Cancel:
			in.stopTimer()
		case Schedule:
			in.stopTimer()
			gen := in.gen
			in.cancel = in.sched.AfterFunc(e.After, func() { in.fire(gen) })
		case Dispatch:
			result = in.dispatch(ctx, e.Event)
			dispatched = true
		}
	}

	return result, dispatched
}

func (in *Input) stopTimer() {
	in.gen++
	if in.cancel != nil {
		in.cancel()
		in.cancel = nil
	}
}
