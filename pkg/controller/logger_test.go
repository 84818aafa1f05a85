package controller_test

import (
	"context"
	"intake/pkg/controller"
	"intake/pkg/logger"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, "10.0.0.1:1", "1.2.3.4"},
		{"real ip", map[string]string{"X-Real-IP": "9.8.7.6"}, "10.0.0.1:1", "9.8.7.6"},
		{"peer", nil, "10.0.0.1:12345", "10.0.0.1"},
		{"unparsable peer", nil, "not-an-addr", "not-an-addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, controller.ClientIP(req))
		})
	}
}

// observe routes the process logger to an in-memory core for the test.
func observe(t *testing.T) (context.Context, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)

	return logger.WithLogger(context.Background(), zap.New(core)), logs
}

func serve(ctx context.Context, h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil).WithContext(ctx)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestWithLogger_RequestID(t *testing.T) {
	ctx, logs := observe(t)

	var seen string
	h := controller.WithLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = controller.RequestID(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	rec := serve(ctx, h, http.MethodPost, "/v1/terminals", http.Header{"X-Request-Id": {"abc-123"}})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "abc-123", seen)
	require.Equal(t, "abc-123", rec.Header().Get(controller.RequestIDHeader))

	rec = serve(ctx, h, http.MethodPost, "/v1/terminals", nil)
	require.NotEmpty(t, seen)
	require.NotEqual(t, "abc-123", seen)
	require.Equal(t, seen, rec.Header().Get(controller.RequestIDHeader))

	require.Equal(t, 2, logs.FilterMessage("access log").Len())
}

func TestWithLogger_Fields(t *testing.T) {
	ctx, logs := observe(t)

	h := controller.WithLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.Context(), "input accepted")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"mode":"IDLE"}`))
	}))
	serve(ctx, h, http.MethodPost, "/v1/terminals/6f1c/input", nil)

	inner := logs.FilterMessage("input accepted").All()
	require.Len(t, inner, 1)
	require.Equal(t, "6f1c", inner[0].ContextMap()["terminalID"])
	require.NotEmpty(t, inner[0].ContextMap()["requestID"])

	access := logs.FilterMessage("access log").All()
	require.Len(t, access, 1)
	fields := access[0].ContextMap()
	require.Equal(t, zapcore.InfoLevel, access[0].Level)
	require.EqualValues(t, http.StatusAccepted, fields["status"])
	require.EqualValues(t, len(`{"mode":"IDLE"}`), fields["bytes"])
	require.Equal(t, "6f1c", fields["terminalID"])
}

func TestWithLogger_TerminalHeader(t *testing.T) {
	ctx, logs := observe(t)

	h := controller.WithLogger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	serve(ctx, h, http.MethodGet, "/v1/products/barcode/7501", http.Header{"X-Terminal-Id": {"lane-2"}})

	access := logs.FilterMessage("access log").All()
	require.Len(t, access, 1)
	require.Equal(t, "lane-2", access[0].ContextMap()["terminalID"])
}

func TestWithLogger_Levels(t *testing.T) {
	ctx, logs := observe(t)

	status := http.StatusOK
	h := controller.WithLogger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}), "/metrics")

	serve(ctx, h, http.MethodGet, "/metrics", nil)
	require.Zero(t, logs.Len(), "successful scrapes are not logged")

	status = http.StatusServiceUnavailable
	serve(ctx, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())

	status = http.StatusNotFound
	serve(ctx, h, http.MethodGet, "/v1/terminals/x", nil)
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.InfoLevel).Len())
}
