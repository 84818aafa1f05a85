package intake

import (
	"context"
	"intake/internal/config"
	"intake/pkg/cart"
	"intake/pkg/domain"
	"intake/pkg/logger"
	"intake/pkg/metrics"
	"intake/pkg/serrors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TerminalOptions configure every terminal created by a Manager.
type TerminalOptions struct {
	Input         Options
	SoundsEnabled bool
	TaxRate       decimal.Decimal
}

// NewTerminalOptions builds TerminalOptions from the application config.
func NewTerminalOptions(cfg *config.Config) TerminalOptions {
	rate, err := decimal.NewFromString(cfg.Intake.TaxRate)
	if err != nil {
		rate = cart.DefaultTaxRate
	}

	return TerminalOptions{
		Input: Options{
			ScanTimeout:         cfg.Intake.ScanTimeout,
			MinAutoSubmitLength: cfg.Intake.MinAutoSubmitLength,
		},
		SoundsEnabled: cfg.SoundsEnabled(),
		TaxRate:       rate,
	}
}

// Deps are the collaborators shared by all terminals.
type Deps struct {
	Catalog Catalog
	// Tone may be nil for silent terminals.
	Tone ToneEmitter
	// Camera may be nil for terminals without cameras.
	Camera CameraSource
	// Scheduler defaults to RealScheduler.
	Scheduler Scheduler
	Metrics   *metrics.Intake
	Tracer    trace.Tracer
}

// NoticeLevel is the severity of a Notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is the last user-facing message of a terminal.
type Notice struct {
	Level   NoticeLevel
	Message string
	At      time.Time
}

// TerminalStatus is a snapshot of a terminal.
type TerminalStatus struct {
	ID         domain.TerminalID
	Operator   domain.OperatorID
	CreatedAt  time.Time
	Input      State
	Screen     ScreenState
	Camera     CameraStatus
	Notice     Notice
	LastResult *domain.ResolutionResult
	CartLines  int
}

// Terminal is one mounted intake screen: an input field, a camera and a cart
// feeding the same dispatcher.
type Terminal struct {
	ID        domain.TerminalID
	Operator  domain.OperatorID
	CreatedAt time.Time

	input      *Input
	dispatcher *Dispatcher
	camera     *OpticalAdapter
	cart       *cart.Cart
	metrics    *metrics.Intake

	mu         sync.Mutex
	notice     Notice
	lastResult *domain.ResolutionResult
	closed     bool
}

// NewTerminal mounts a terminal.
func NewTerminal(ctx context.Context, id domain.TerminalID, operator domain.OperatorID,
	deps Deps, opts TerminalOptions) *Terminal {
	if deps.Metrics == nil {
		deps.Metrics = metrics.NopIntake()
	}

	t := &Terminal{
		ID:        id,
		Operator:  operator,
		CreatedAt: time.Now(),
		cart:      cart.New(opts.TaxRate),
		metrics:   deps.Metrics,
	}

	ctx = logger.WithFields(ctx, zap.String("terminal_id", id.String()))
	t.dispatcher = NewDispatcher(deps.Catalog, t.onResolved, DispatcherOptions{
		SoundsEnabled: opts.SoundsEnabled,
		Tone:          deps.Tone,
		Metrics:       deps.Metrics,
		Tracer:        deps.Tracer,
	})
	t.input = NewInput(ctx, t.dispatch, opts.Input, deps.Scheduler)
	t.camera = NewOpticalAdapter(ctx, deps.Camera, t.dispatch, deps.Metrics)

	return t
}

func (t *Terminal) dispatch(ctx context.Context, event domain.ScanEvent) domain.ResolutionResult {
	t.metrics.Dispatches.Add(ctx, 1, metric.WithAttributes(attribute.String("source", string(event.Source))))

	return t.dispatcher.Resolve(ctx, event)
}

func (t *Terminal) onResolved(_ context.Context, result domain.ResolutionResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	r := result
	t.lastResult = &r
	if result.IsFound() {
		t.cart.Add(result.Entry, decimal.NewFromInt(1))
		t.notice = Notice{Level: NoticeSuccess, Message: "product added: " + result.Entry.Name, At: time.Now()}

		return
	}
	t.notice = Notice{Level: NoticeError, Message: "product not found: " + string(result.Code), At: time.Now()}
}

func (t *Terminal) setNotice(level NoticeLevel, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.notice = Notice{Level: level, Message: msg, At: time.Now()}
}

// Input returns the keyboard input of the terminal.
func (t *Terminal) Input() *Input { return t.input }

// Dispatcher returns the lookup dispatcher of the terminal.
func (t *Terminal) Dispatcher() *Dispatcher { return t.dispatcher }

// Camera returns the optical adapter of the terminal.
func (t *Terminal) Camera() *OpticalAdapter { return t.camera }

// Cart returns the cart fed by resolved scans.
func (t *Terminal) Cart() *cart.Cart { return t.cart }

// Change feeds a keystroke.
func (t *Terminal) Change(value string, at time.Time) {
	t.input.Change(value, at)
}

// Submit submits value manually.
func (t *Terminal) Submit(ctx context.Context, value string) (domain.ResolutionResult, bool) {
	return t.input.Submit(ctx, value)
}

// RequestCamera asks for camera permission and reports failures as a notice.
func (t *Terminal) RequestCamera(ctx context.Context) (CameraStatus, error) {
	st, err := t.camera.RequestPermission(ctx)
	if err != nil {
		msg := "camera permission denied"
		if serrors.KindOf(err) == serrors.ErrNoCamera {
			msg = "no camera found"
		}
		t.setNotice(NoticeError, msg)
	}

	return st, err //nolint: wrapcheck
}

// StartCamera starts scanning on deviceID or the selected device.
func (t *Terminal) StartCamera(ctx context.Context, deviceID string) (CameraStatus, error) {
	if err := t.camera.Start(ctx, deviceID); err != nil {
		t.setNotice(NoticeError, "could not start camera")

		return t.camera.Status(), err
	}

	return t.camera.Status(), nil
}

// Status returns a snapshot of the terminal.
func (t *Terminal) Status() TerminalStatus {
	// component locks are taken before t.mu, never inside it
	st := TerminalStatus{
		ID:        t.ID,
		Operator:  t.Operator,
		CreatedAt: t.CreatedAt,
		Input:     t.input.State(),
		Screen:    t.dispatcher.State(),
		Camera:    t.camera.Status(),
		CartLines: t.cart.Len(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	st.Notice = t.notice
	if t.lastResult != nil {
		r := *t.lastResult
		st.LastResult = &r
	}

	return st
}

// Close unmounts the terminal: no scan is resolved into its cart afterwards.
func (t *Terminal) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()

		return
	}
	t.closed = true
	t.mu.Unlock()

	t.input.Close()
	t.camera.Close()
}

// Manager keeps the mounted terminals.
type Manager struct {
	deps Deps
	opts TerminalOptions

	mu        sync.RWMutex
	terminals map[domain.TerminalID]*Terminal
}

// NewManager creates an empty registry.
func NewManager(deps Deps, opts TerminalOptions) *Manager {
	return &Manager{
		deps:      deps,
		opts:      opts,
		terminals: make(map[domain.TerminalID]*Terminal),
	}
}

// Create mounts a new terminal for operator.
func (m *Manager) Create(ctx context.Context, operator domain.OperatorID) *Terminal {
	id := domain.TerminalID(uuid.New())
	t := NewTerminal(ctx, id, operator, m.deps, m.opts)

	m.mu.Lock()
	m.terminals[id] = t
	m.mu.Unlock()

	logger.Info(ctx, "terminal mounted",
		zap.String("terminal_id", id.String()),
		zap.String("operator_id", operator.String()))

	return t
}

// Get returns the terminal with id if it belongs to operator.
func (m *Manager) Get(id domain.TerminalID, operator domain.OperatorID) (*Terminal, error) {
	m.mu.RLock()
	t, ok := m.terminals[id]
	m.mu.RUnlock()

	// terminals of other operators are reported as missing
	if !ok || t.Operator != operator {
		return nil, serrors.With(serrors.ErrNotFound, "terminal %s not found", id)
	}

	return t, nil
}

// Close unmounts the terminal with id if it belongs to operator.
func (m *Manager) Close(ctx context.Context, id domain.TerminalID, operator domain.OperatorID) error {
	t, err := m.Get(id, operator)
	if err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.terminals, id)
	m.mu.Unlock()

	t.Close()
	logger.Info(ctx, "terminal unmounted", zap.String("terminal_id", id.String()))

	return nil
}

// CloseAll unmounts every terminal.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	terminals := m.terminals
	m.terminals = make(map[domain.TerminalID]*Terminal)
	m.mu.Unlock()

	for _, t := range terminals {
		t.Close()
	}
}

// Len returns the number of mounted terminals.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.terminals)
}
