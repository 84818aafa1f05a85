package camera

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // snapshot cameras usually serve JPEG
	_ "image/png"
	"intake/pkg/domain"
	"intake/pkg/logger"
	"net/http"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// DefaultFPS is the polling rate used when none is configured.
const DefaultFPS = 15

var (
	// ErrAccessDenied is returned when a camera refuses our credentials.
	ErrAccessDenied = errors.New("camera access denied")
	// ErrUnknownDevice is returned when opening a device that is not configured.
	ErrUnknownDevice = errors.New("unknown camera device")
	// ErrUnreachable is returned when no configured camera answers.
	ErrUnreachable = errors.New("no camera reachable")
)

// Session is an open decoding session on one device.
type Session interface {
	// Stop releases the device. It does not wait for an in-flight frame and
	// may be called more than once.
	Stop() error
}

// Device is a configured snapshot camera.
type Device struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Snapshot is a camera source backed by HTTP snapshot endpoints.
type Snapshot struct {
	client  *http.Client
	devices []Device
	fps     int
}

// Option configures a Snapshot.
type Option func(*Snapshot)

// WithHTTPClient overrides the client used to fetch frames.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Snapshot) { s.client = c }
}

// WithFPS sets the polling rate.
func WithFPS(fps int) Option {
	return func(s *Snapshot) {
		if fps > 0 {
			s.fps = fps
		}
	}
}

// NewSnapshot creates a source over devices.
func NewSnapshot(devices []Device, opts ...Option) *Snapshot {
	s := &Snapshot{
		client:  &http.Client{Timeout: 2 * time.Second},
		devices: devices,
		fps:     DefaultFPS,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RequestAccess probes every configured camera. It succeeds as soon as one
// device serves a frame and fails with ErrAccessDenied if any device rejects
// the request as unauthorized.
func (s *Snapshot) RequestAccess(ctx context.Context) error {
	if len(s.devices) == 0 {
		return nil
	}

	var lastErr error
	for _, d := range s.devices {
		err := s.probe(ctx, d)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrAccessDenied) {
			return err
		}
		logger.Debug(ctx, "camera probe failed", zap.String("device", d.ID), zap.Error(err))
		lastErr = err
	}

	return errors.Wrap(ErrUnreachable, lastErr.Error())
}

func (s *Snapshot) probe(ctx context.Context, d Device) error {
	resp, err := s.get(ctx, d)
	if err != nil {
		return err
	}

	return resp.Body.Close()
}

// Devices lists the configured cameras.
func (s *Snapshot) Devices(context.Context) ([]domain.CameraDevice, error) {
	out := make([]domain.CameraDevice, 0, len(s.devices))
	for _, d := range s.devices {
		label := d.Label
		if label == "" {
			label = d.ID
		}
		out = append(out, domain.CameraDevice{ID: d.ID, Label: label})
	}

	return out, nil
}

// Open starts polling deviceID and calls onDecode for every frame a code was
// found in. The poller runs until Stop is called; ctx is only used for
// logging.
func (s *Snapshot) Open(
	ctx context.Context,
	deviceID string,
	formats []domain.Symbology,
	onDecode func(domain.ScanCode),
) (Session, error) {
	var dev *Device
	for i := range s.devices {
		if s.devices[i].ID == deviceID {
			dev = &s.devices[i]

			break
		}
	}
	if dev == nil {
		return nil, errors.Wrapf(ErrUnknownDevice, "open %q", deviceID)
	}

	pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sess := &session{cancel: cancel}
	go s.poll(pollCtx, *dev, NewDecoder(formats), onDecode)

	return sess, nil
}

func (s *Snapshot) poll(ctx context.Context, d Device, dec *Decoder, onDecode func(domain.ScanCode)) {
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	ctx = logger.WithFields(ctx, zap.String("device", d.ID))
	logger.Debug(ctx, "camera session started")
	defer logger.Debug(ctx, "camera session stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		img, err := s.frame(ctx, d)
		if err != nil {
			if ctx.Err() == nil {
				logger.Debug(ctx, "could not fetch frame", zap.Error(err))
			}

			continue
		}

		if code, ok := dec.Decode(img); ok && ctx.Err() == nil {
			onDecode(code)
		}
	}
}

func (s *Snapshot) frame(ctx context.Context, d Device) (image.Image, error) {
	resp, err := s.get(ctx, d)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "decode frame")
	}

	return img, nil
}

func (s *Snapshot) get(ctx context.Context, d Device) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch snapshot")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_ = resp.Body.Close()

		return nil, errors.Wrapf(ErrAccessDenied, "device %q", d.ID)
	case resp.StatusCode != http.StatusOK:
		_ = resp.Body.Close()

		return nil, fmt.Errorf("device %q: unexpected status %d", d.ID, resp.StatusCode)
	}

	return resp, nil
}

type session struct {
	once   sync.Once
	cancel context.CancelFunc
}

func (s *session) Stop() error {
	s.once.Do(s.cancel)

	return nil
}
