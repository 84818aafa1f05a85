package camera_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"intake/pkg/camera"
	"intake/pkg/domain"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"
)

func qrPNG(t *testing.T, payload string) []byte {
	t.Helper()

	bm, err := qrcode.NewQRCodeWriter().Encode(payload, gozxing.BarcodeFormat_QR_CODE, 240, 240, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, bm))

	return buf.Bytes()
}

func TestDecoder(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(qrPNG(t, "7501234567890")))
	require.NoError(t, err)

	code, ok := camera.NewDecoder(domain.SupportedSymbologies()).Decode(img)
	require.True(t, ok)
	require.Equal(t, domain.ScanCode("7501234567890"), code)

	_, ok = camera.NewDecoder([]domain.Symbology{domain.SymbologyEAN13}).Decode(img)
	require.False(t, ok, "QR must not decode when only EAN-13 is enabled")

	_, ok = camera.NewDecoder(domain.SupportedSymbologies()).Decode(image.NewGray(image.Rect(0, 0, 64, 64)))
	require.False(t, ok)
}

func TestSnapshot_Open(t *testing.T) {
	frame := qrPNG(t, "ABC-123")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(frame)
	}))
	defer srv.Close()

	src := camera.NewSnapshot([]camera.Device{
		{ID: "front", Label: "Front counter", URL: srv.URL},
	}, camera.WithFPS(50))

	require.NoError(t, src.RequestAccess(context.Background()))

	devices, err := src.Devices(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.CameraDevice{{ID: "front", Label: "Front counter"}}, devices)

	decoded := make(chan domain.ScanCode, 16)
	sess, err := src.Open(context.Background(), "front", domain.SupportedSymbologies(), func(c domain.ScanCode) {
		decoded <- c
	})
	require.NoError(t, err)

	select {
	case c := <-decoded:
		require.Equal(t, domain.ScanCode("ABC-123"), c)
	case <-time.After(5 * time.Second):
		t.Fatal("no code decoded")
	}

	require.NoError(t, sess.Stop())
	require.NoError(t, sess.Stop())
}

func TestSnapshot_OpenUnknown(t *testing.T) {
	src := camera.NewSnapshot(nil)
	_, err := src.Open(context.Background(), "missing", nil, func(domain.ScanCode) {})
	require.ErrorIs(t, err, camera.ErrUnknownDevice)
}

func TestSnapshot_RequestAccessDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	src := camera.NewSnapshot([]camera.Device{{ID: "a", URL: srv.URL}})
	require.ErrorIs(t, src.RequestAccess(context.Background()), camera.ErrAccessDenied)
}

func TestSnapshot_RequestAccessUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := camera.NewSnapshot([]camera.Device{{ID: "a", URL: srv.URL}})
	require.ErrorIs(t, src.RequestAccess(context.Background()), camera.ErrUnreachable)
}
