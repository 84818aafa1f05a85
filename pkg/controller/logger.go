package controller

import (
	"context"
	"intake/pkg/logger"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestID returns the id WithLogger assigned to the request in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)

	return id
}

type responseRecorder struct {
	http.ResponseWriter

	status int
	bytes  int
}

func (rec *responseRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *responseRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n

	return n, err //nolint: wrapcheck
}

// ClientIP returns the first X-Forwarded-For hop, X-Real-IP, or the peer
// address, in that order.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// terminalID is the terminal a request acts on: the X-Terminal-Id header, or
// the id segment of /v1/terminals/{id}/... paths.
func terminalID(r *http.Request) string {
	if id := r.Header.Get("X-Terminal-Id"); id != "" {
		return id
	}

	rest, ok := strings.CutPrefix(r.URL.Path, "/v1/terminals/")
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, "/")

	return id
}

// WithLogger gives every request an id, echoed in the response, and a logger
// carrying it and the terminal id. Each request is access logged once it
// completes; 5xx responses are logged as errors. Successful requests to quiet
// paths, such as the metrics endpoint, are not logged.
func WithLogger(next http.Handler, quiet ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		fields := []zap.Field{zap.String("requestID", id)}
		if terminal := terminalID(r); terminal != "" {
			fields = append(fields, zap.String("terminalID", terminal))
		}
		ctx := logger.WithFields(context.WithValue(r.Context(), requestIDKey{}, id), fields...)

		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		level := zapcore.InfoLevel
		switch {
		case rec.status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case rec.status < http.StatusBadRequest && isQuiet(r.URL.Path, quiet):
			return
		}

		logger.Get(ctx).Log(level, "access log",
			zap.String("method", r.Method),
			zap.String("url", r.URL.String()),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("latency", time.Since(start)),
			zap.String("clientIP", ClientIP(r)),
			zap.String("userAgent", r.UserAgent()),
		)
	})
}

func isQuiet(path string, quiet []string) bool {
	for _, q := range quiet {
		if q != "" && path == q {
			return true
		}
	}

	return false
}
