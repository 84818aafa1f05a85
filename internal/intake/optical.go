package intake

import (
	"context"
	"intake/pkg/camera"
	"intake/pkg/domain"
	"intake/pkg/logger"
	"intake/pkg/metrics"
	"intake/pkg/serrors"
	"sync"

	"go.uber.org/zap"
)

// CameraSession is an open decoding session.
type CameraSession = camera.Session

// CameraSource is the platform camera capability.
type CameraSource interface {
	// RequestAccess asks for permission to use the cameras.
	RequestAccess(ctx context.Context) error
	// Devices lists the cameras available after access was granted.
	Devices(ctx context.Context) ([]domain.CameraDevice, error)
	// Open starts decoding frames of deviceID, calling onDecode from any
	// goroutine for every code found until the session is stopped.
	Open(ctx context.Context, deviceID string, formats []domain.Symbology,
		onDecode func(domain.ScanCode)) (CameraSession, error)
}

// CameraState is the lifecycle state of an OpticalAdapter.
type CameraState string

const (
	CameraUninitialized     CameraState = "UNINITIALIZED"
	CameraPermissionPending CameraState = "PERMISSION_PENDING"
	CameraPermissionGranted CameraState = "PERMISSION_GRANTED"
	CameraScanning          CameraState = "SCANNING"
	CameraStopped           CameraState = "STOPPED"
	CameraPermissionDenied  CameraState = "PERMISSION_DENIED"
)

// CameraStatus is a snapshot of the adapter.
type CameraStatus struct {
	State    CameraState
	Devices  []domain.CameraDevice
	Selected string
	// Err is the last permission or start failure.
	Err error
}

// OpticalAdapter turns one camera into single-shot scan events.
type OpticalAdapter struct {
	ctx      context.Context
	source   CameraSource
	dispatch DispatchFunc
	metrics  *metrics.Intake

	// lifecycle serializes RequestPermission and Start, which may block.
	lifecycle sync.Mutex

	mu       sync.Mutex
	state    CameraState
	devices  []domain.CameraDevice
	selected string
	lastErr  error
	session  CameraSession
	// gen identifies the current session; decodes from older sessions are
	// dropped.
	gen    uint64
	closed bool
}

// NewOpticalAdapter creates an adapter over source that hands decoded codes to
// dispatch. A nil source behaves as a platform without cameras.
func NewOpticalAdapter(ctx context.Context, source CameraSource, dispatch DispatchFunc, m *metrics.Intake) *OpticalAdapter {
	if m == nil {
		m = metrics.NopIntake()
	}

	return &OpticalAdapter{
		ctx:      context.WithoutCancel(ctx),
		source:   source,
		dispatch: dispatch,
		metrics:  m,
		state:    CameraUninitialized,
	}
}

// Status returns the current state.
func (o *OpticalAdapter) Status() CameraStatus {
	o.mu.Lock()
	defer o.mu.Unlock()

	return CameraStatus{
		State:    o.state,
		Devices:  append([]domain.CameraDevice(nil), o.devices...),
		Selected: o.selected,
		Err:      o.lastErr,
	}
}

// RequestPermission acquires camera access and picks the preferred device.
// On failure the adapter is left in CameraPermissionDenied until the next
// call.
func (o *OpticalAdapter) RequestPermission(ctx context.Context) (CameraStatus, error) {
	o.lifecycle.Lock()
	defer o.lifecycle.Unlock()

	if !o.transition(CameraPermissionPending) {
		return o.Status(), serrors.With(serrors.ErrUnavailable, "terminal closed")
	}

	devices, err := o.acquire(ctx)
	if err != nil {
		logger.Info(ctx, "camera permission denied", zap.Error(err))
		o.fail(err)

		return o.Status(), err
	}

	o.mu.Lock()
	if !o.closed {
		o.state = CameraPermissionGranted
		o.devices = devices
		o.selected = PreferredDevice(devices).ID
		o.lastErr = nil
	}
	o.mu.Unlock()

	return o.Status(), nil
}

func (o *OpticalAdapter) acquire(ctx context.Context) ([]domain.CameraDevice, error) {
	if o.source == nil {
		return nil, serrors.With(serrors.ErrNoCamera, "no camera capability")
	}
	if err := o.source.RequestAccess(ctx); err != nil {
		return nil, serrors.Wrap(serrors.ErrPermissionDenied, err, "camera access denied")
	}

	devices, err := o.source.Devices(ctx)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrPermissionDenied, err, "could not enumerate cameras")
	}
	if len(devices) == 0 {
		return nil, serrors.With(serrors.ErrNoCamera, "no camera found")
	}

	return devices, nil
}

// SelectDevice changes the device used by the next Start.
func (o *OpticalAdapter) SelectDevice(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, d := range o.devices {
		if d.ID == id {
			o.selected = id

			return nil
		}
	}

	return serrors.With(serrors.ErrNotFound, "unknown camera %q", id)
}

// Start opens a decoding session on deviceID, or on the selected device when
// deviceID is empty. A running session is released first.
func (o *OpticalAdapter) Start(ctx context.Context, deviceID string) error {
	o.lifecycle.Lock()
	defer o.lifecycle.Unlock()

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()

		return serrors.With(serrors.ErrUnavailable, "terminal closed")
	}
	switch o.state {
	case CameraPermissionGranted, CameraScanning, CameraStopped:
	default:
		o.mu.Unlock()

		return serrors.With(serrors.ErrPermissionDenied, "camera permission not granted")
	}
	if deviceID == "" {
		deviceID = o.selected
	}
	prev := o.detach()
	o.gen++
	gen := o.gen
	o.selected = deviceID
	o.state = CameraScanning
	o.mu.Unlock()

	stopSession(ctx, prev, o.metrics)

	sess, err := o.source.Open(ctx, deviceID, domain.SupportedSymbologies(), func(code domain.ScanCode) {
		o.onDecode(gen, code)
	})
	if err != nil {
		o.mu.Lock()
		if o.gen == gen && o.state == CameraScanning {
			o.state = CameraStopped
			o.lastErr = err
		}
		o.mu.Unlock()

		return serrors.Wrap(serrors.ErrUnavailable, err, "could not start camera %q", deviceID)
	}
	o.metrics.CameraSessions.Add(ctx, 1)

	o.mu.Lock()
	if o.closed || o.gen != gen || o.state != CameraScanning {
		// stopped, closed or already decoded while opening
		o.mu.Unlock()
		stopSession(ctx, sess, o.metrics)

		return nil
	}
	o.session = sess
	o.lastErr = nil
	o.mu.Unlock()

	logger.Debug(ctx, "camera scanning", zap.String("device", deviceID))

	return nil
}

// Stop releases the camera. It is idempotent and never fails.
func (o *OpticalAdapter) Stop() {
	o.mu.Lock()
	prev := o.detach()
	o.gen++
	if o.state == CameraScanning {
		o.state = CameraStopped
	}
	o.mu.Unlock()

	stopSession(o.ctx, prev, o.metrics)
}

// Close stops the camera for good; late decode callbacks become no-ops.
func (o *OpticalAdapter) Close() {
	o.mu.Lock()
	o.closed = true
	prev := o.detach()
	o.gen++
	if o.state == CameraScanning {
		o.state = CameraStopped
	}
	o.mu.Unlock()

	stopSession(o.ctx, prev, o.metrics)
}

func (o *OpticalAdapter) onDecode(gen uint64, code domain.ScanCode) {
	o.mu.Lock()
	if o.closed || gen != o.gen || o.state != CameraScanning {
		o.mu.Unlock()

		return
	}
	code, ok := domain.ParseScanCode(string(code))
	if !ok {
		o.mu.Unlock()

		return
	}

	// single shot: later frames of this session are ignored
	o.state = CameraStopped
	o.gen++
	prev := o.detach()
	// dispatching under mu keeps Close from returning while a decode is
	// being delivered
	o.dispatch(o.ctx, domain.ScanEvent{Code: code, Source: domain.SourceCamera})
	o.mu.Unlock()

	stopSession(o.ctx, prev, o.metrics)
}

// transition moves to next unless the adapter is closed.
func (o *OpticalAdapter) transition(next CameraState) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return false
	}
	o.state = next

	return true
}

func (o *OpticalAdapter) fail(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.state = CameraPermissionDenied
	o.devices = nil
	o.selected = ""
	o.lastErr = err
}

// detach must be called with mu held.
func (o *OpticalAdapter) detach() CameraSession {
	s := o.session
	o.session = nil

	return s
}

func stopSession(ctx context.Context, s CameraSession, m *metrics.Intake) {
	if s == nil {
		return
	}
	m.CameraSessions.Add(ctx, -1)
	if err := s.Stop(); err != nil {
		logger.Debug(ctx, "could not stop camera", zap.Error(err))
	}
}

// PreferredDevice returns the first back/rear/environment facing device, or
// the first device. It returns the zero device for an empty list.
func PreferredDevice(devices []domain.CameraDevice) domain.CameraDevice {
	for _, d := range devices {
		if d.FacesEnvironment() {
			return d
		}
	}
	if len(devices) == 0 {
		return domain.CameraDevice{}
	}

	return devices[0]
}
