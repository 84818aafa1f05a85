package intake

import (
	"intake/pkg/domain"
	"time"
	"unicode/utf8"
)

const (
	// DefaultScanTimeout is the inter-event gap below which input is treated
	// as machine generated, and the delay before a burst is auto-submitted.
	DefaultScanTimeout = 100 * time.Millisecond
	// DefaultMinAutoSubmitLength is the minimum buffer length for an
	// auto-submit.
	DefaultMinAutoSubmitLength = 8

	// fastInputMinLength is the buffer length a fast change must exceed to
	// count as a scanner burst.
	fastInputMinLength = 3
)

// Mode is the classification of the current input buffer.
type Mode int

const (
	ModeIdle Mode = iota
	ModeAccumulating
	ModeAutoSubmitPending
)

func (m Mode) String() string {
	switch m {
	case ModeAccumulating:
		return "ACCUMULATING"
	case ModeAutoSubmitPending:
		return "AUTO_SUBMIT_PENDING"
	default:
		return "IDLE"
	}
}

// Options tune the scanner heuristic.
type Options struct {
	ScanTimeout         time.Duration
	MinAutoSubmitLength int
}

// DefaultOptions returns the heuristic defaults.
func DefaultOptions() Options {
	return Options{
		ScanTimeout:         DefaultScanTimeout,
		MinAutoSubmitLength: DefaultMinAutoSubmitLength,
	}
}

func (o Options) withDefaults() Options {
	if o.ScanTimeout <= 0 {
		o.ScanTimeout = DefaultScanTimeout
	}
	if o.MinAutoSubmitLength <= 0 {
		o.MinAutoSubmitLength = DefaultMinAutoSubmitLength
	}

	return o
}

// State is the classifier state of one input field. The zero value is the
// initial state.
type State struct {
	Buffer      string
	LastEventAt time.Time
	Mode        Mode
	// Pending is set while a hardware dispatch is scheduled.
	Pending   bool
	Scheduled domain.ScanEvent
}

// Event is an input to Classify.
type Event interface{ isEvent() }

// Change is the field value after a keystroke, stamped with the time the
// keystroke happened.
type Change struct {
	Value string
	At    time.Time
}

// Submit is an explicit submit of the field value.
type Submit struct {
	Value string
}

// Elapsed reports that the scheduled dispatch delay has passed.
type Elapsed struct{}

// Teardown discards all state.
type Teardown struct{}

func (Change) isEvent()   {}
func (Submit) isEvent()   {}
func (Elapsed) isEvent()  {}
func (Teardown) isEvent() {}

// Effect is an action the host must perform after a transition, in order.
type Effect interface{ isEffect() }

// Schedule asks the host to dispatch Event after After unless cancelled.
type Schedule struct {
	Event domain.ScanEvent
	After time.Duration
}

// Dispatch asks the host to hand Event to the dispatcher now.
type Dispatch struct {
	Event domain.ScanEvent
}

// Cancel asks the host to drop the scheduled dispatch, if any.
type Cancel struct{}

func (Schedule) isEffect() {}
func (Dispatch) isEffect() {}
func (Cancel) isEffect()   {}

// Classify is the pure transition function of the input classifier.
func Classify(s State, ev Event, opts Options) (State, []Effect) {
	opts = opts.withDefaults()

	switch e := ev.(type) {
	case Change:
		return onChange(s, e, opts)
	case Submit:
		return onSubmit(s, e)
	case Elapsed:
		if !s.Pending {
			return s, nil
		}
		scheduled := s.Scheduled

		return State{}, []Effect{Dispatch{Event: scheduled}}
	case Teardown:
		return State{}, []Effect{Cancel{}}
	default:
		return s, nil
	}
}

func onChange(s State, e Change, opts Options) (State, []Effect) {
	var effects []Effect
	// last write wins: any change invalidates a pending auto-submit
	if s.Pending {
		effects = append(effects, Cancel{})
		s.Pending = false
		s.Scheduled = domain.ScanEvent{}
	}

	length := utf8.RuneCountInString(e.Value)
	fast := !s.LastEventAt.IsZero() && e.At.Sub(s.LastEventAt) < opts.ScanTimeout

	s.Buffer = e.Value
	s.LastEventAt = e.At

	switch {
	case fast && length > fastInputMinLength:
		s.Mode = ModeAutoSubmitPending
	case length == 0:
		s.Mode = ModeIdle
	case s.Mode == ModeIdle:
		s.Mode = ModeAccumulating
	}

	if s.Mode == ModeAutoSubmitPending && length >= opts.MinAutoSubmitLength {
		s.Mode = ModeIdle
		if code, ok := domain.ParseScanCode(e.Value); ok {
			ev := domain.ScanEvent{Code: code, Source: domain.SourceHardware}
			s.Pending = true
			s.Scheduled = ev
			effects = append(effects, Schedule{Event: ev, After: opts.ScanTimeout})
		}
	}

	return s, effects
}

func onSubmit(s State, e Submit) (State, []Effect) {
	var effects []Effect
	if s.Pending {
		effects = append(effects, Cancel{})
	}

	if code, ok := domain.ParseScanCode(e.Value); ok {
		effects = append(effects, Dispatch{Event: domain.ScanEvent{Code: code, Source: domain.SourceManual}})
	}

	return State{}, effects
}
