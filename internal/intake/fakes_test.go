package intake_test

import (
	"context"
	"errors"
	"intake/internal/intake"
	"intake/pkg/domain"
	"intake/pkg/tone"
	"sync"
	"sync/atomic"
	"time"
)

// manualScheduler fires callbacks only when advanced.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
	// ignoreCancel lets cancelled timers fire anyway, like a timer that was
	// already running when it was stopped.
	ignoreCancel bool
}

type manualTimer struct {
	at        time.Duration
	f         func()
	cancelled bool
	fired     bool
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &manualTimer{at: s.now + d, f: f}
	s.timers = append(s.timers, t)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t.cancelled = true
	}
}

func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []func()
	for _, t := range s.timers {
		if t.fired || t.at > s.now || (t.cancelled && !s.ignoreCancel) {
			continue
		}
		t.fired = true
		due = append(due, t.f)
	}
	s.mu.Unlock()

	for _, f := range due {
		f()
	}
}

func (s *manualScheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.cancelled {
			n++
		}
	}

	return n
}

// recorder collects dispatched events.
type recorder struct {
	mu     sync.Mutex
	events []domain.ScanEvent
}

func (r *recorder) Dispatch(_ context.Context, ev domain.ScanEvent) domain.ResolutionResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)

	return domain.NotFound(ev)
}

func (r *recorder) Events() []domain.ScanEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]domain.ScanEvent(nil), r.events...)
}

// fakeTone records cues.
type fakeTone struct {
	mu    sync.Mutex
	cues  []tone.Cue
	err   error
	panic bool
	log   *[]string
}

func (f *fakeTone) Emit(_ context.Context, cue tone.Cue) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cues = append(f.cues, cue)
	if f.log != nil {
		*f.log = append(*f.log, "tone:"+cue.Name)
	}
	if f.panic {
		panic("audio device gone")
	}

	return f.err
}

func (f *fakeTone) Cues() []tone.Cue {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]tone.Cue(nil), f.cues...)
}

// mapCatalog is a catalog that keeps inactive entries.
type mapCatalog map[domain.ScanCode]domain.CatalogEntry

func (m mapCatalog) LookupByScanCode(code domain.ScanCode) (domain.CatalogEntry, bool) {
	e, ok := m[code]

	return e, ok
}

// fakeCamera is a camera source whose frames are pushed by the test.
type fakeCamera struct {
	mu           sync.Mutex
	accessErr    error
	devices      []domain.CameraDevice
	openErr      error
	decodeOnOpen domain.ScanCode
	sessions     []*fakeSession
	onDecode     func(domain.ScanCode)
	opened       []string
}

type fakeSession struct {
	stops atomic.Int32
}

func (s *fakeSession) Stop() error {
	if s.stops.Add(1) > 1 {
		return errors.New("already stopped")
	}

	return nil
}

func (c *fakeCamera) RequestAccess(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.accessErr
}

func (c *fakeCamera) Devices(context.Context) ([]domain.CameraDevice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.devices, nil
}

func (c *fakeCamera) Open(_ context.Context, deviceID string, formats []domain.Symbology,
	onDecode func(domain.ScanCode)) (intake.CameraSession, error) {
	c.mu.Lock()
	if c.openErr != nil {
		c.mu.Unlock()

		return nil, c.openErr
	}
	if len(formats) == 0 {
		c.mu.Unlock()

		return nil, errors.New("no formats")
	}
	s := &fakeSession{}
	c.sessions = append(c.sessions, s)
	c.onDecode = onDecode
	c.opened = append(c.opened, deviceID)
	early := c.decodeOnOpen
	c.mu.Unlock()

	if early != "" {
		onDecode(early)
	}

	return s, nil
}

// Frame delivers a decoded code through the most recent session callback.
func (c *fakeCamera) Frame(code domain.ScanCode) {
	c.mu.Lock()
	f := c.onDecode
	c.mu.Unlock()

	if f != nil {
		f(code)
	}
}

func (c *fakeCamera) Sessions() []*fakeSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*fakeSession(nil), c.sessions...)
}
