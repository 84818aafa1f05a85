// Package v1handler implements the v1 JSON API of the intake service.
package v1handler

import (
	"context"
	"errors"
	"intake/internal/intake"
	"intake/pkg/logger"
	"intake/pkg/serrors"
	"intake/pkg/storage"
	"io"
	"net/http"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request payloads.
const maxBodyBytes = 1 << 20

// Transactor runs product changes together with the catalog refresh they
// trigger.
type Transactor interface {
	WithTx(ctx context.Context, cb func(storage storage.AllStorage) error) error
}

// Deps are the collaborators of the v1 handlers.
type Deps struct {
	Terminals *intake.Manager
	Products  storage.ProductStorage
	Jobs      storage.JobStorage
	Tx        Transactor
}

type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    string
	Message string
}

// ErrorStatusCode pairs an ErrorResponse with its HTTP status.
type ErrorStatusCode struct {
	StatusCode int
	Response   ErrorResponse
}

var kindStatus = map[*serrors.Kind]struct { //nolint: gochecknoglobals
	status  int
	message string
}{
	serrors.ErrNotFound:         {http.StatusNotFound, "resource not found"},
	serrors.ErrUnauthorized:     {http.StatusUnauthorized, "unauthorized"},
	serrors.ErrForbidden:        {http.StatusForbidden, "forbidden"},
	serrors.ErrBadRequest:       {http.StatusBadRequest, "bad request"},
	serrors.ErrConflict:         {http.StatusConflict, "conflict"},
	serrors.ErrUnavailable:      {http.StatusServiceUnavailable, "service unavailable"},
	serrors.ErrPermissionDenied: {http.StatusForbidden, "camera permission denied"},
	serrors.ErrNoCamera:         {http.StatusNotFound, "no camera found"},
}

// NewError maps err to a status code and a client-safe body. Internal errors
// never leak their cause.
func (h Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	return newError(ctx, err)
}

func newError(ctx context.Context, err error) *ErrorStatusCode {
	res := classify(err)
	if res.StatusCode == http.StatusInternalServerError {
		logger.Error(ctx, "internal error", zap.Error(err))

		return res
	}
	logger.Debug(ctx, "request failed", zap.String("code", res.Response.Code), zap.Error(err))

	return res
}

func classify(err error) *ErrorStatusCode {
	kind := serrors.KindOf(err)
	mapped, ok := kindStatus[kind]
	if kind == nil || !ok {
		return &ErrorStatusCode{
			StatusCode: http.StatusInternalServerError,
			Response: ErrorResponse{
				Code:    serrors.ErrInternal.Error(),
				Message: "internal error",
			},
		}
	}

	message := mapped.message
	var semErr *serrors.Error
	if errors.As(err, &semErr) && semErr.Message() != "" {
		message = semErr.Message()
	}

	return &ErrorStatusCode{
		StatusCode: mapped.status,
		Response: ErrorResponse{
			Code:    kind.Error(),
			Message: message,
		},
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := newError(r.Context(), err)
	writeJSON(w, res.StatusCode, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Str(res.Response.Code) })
			e.Field("message", func(e *jx.Encoder) { e.Str(res.Response.Message) })
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, body func(e *jx.Encoder)) {
	if body == nil {
		w.WriteHeader(status)

		return
	}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	body(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// endpoint handles a request and returns the status and body to reply with.
type endpoint func(r *http.Request) (int, func(e *jx.Encoder), error)

func serve(fn endpoint) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, body, err := fn(r)
		if err != nil {
			writeError(w, r, err)

			return
		}
		writeJSON(w, status, body)
	})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not read body")
	}

	return b, nil
}

// Register mounts the v1 routes on mux behind sec.
func (h *Handler) Register(mux *http.ServeMux, sec *SecHandler) {
	routes := []struct {
		pattern string
		fn      endpoint
	}{
		{"POST /v1/terminals", h.CreateTerminal},
		{"GET /v1/terminals/{id}", h.GetTerminal},
		{"DELETE /v1/terminals/{id}", h.DeleteTerminal},
		{"POST /v1/terminals/{id}/input", h.Input},
		{"POST /v1/terminals/{id}/submit", h.Submit},
		{"POST /v1/terminals/{id}/camera/permission", h.RequestCamera},
		{"POST /v1/terminals/{id}/camera/select", h.SelectCamera},
		{"POST /v1/terminals/{id}/camera/start", h.StartCamera},
		{"POST /v1/terminals/{id}/camera/stop", h.StopCamera},
		{"GET /v1/terminals/{id}/cart", h.GetCart},
		{"DELETE /v1/terminals/{id}/cart", h.ClearCart},
		{"PATCH /v1/terminals/{id}/cart/{productId}", h.UpdateCartLine},
		{"DELETE /v1/terminals/{id}/cart/{productId}", h.RemoveCartLine},
		{"GET /v1/products", h.SearchProducts},
		{"POST /v1/products", h.CreateProduct},
		{"GET /v1/products/{id}", h.GetProduct},
		{"PATCH /v1/products/{id}", h.UpdateProduct},
		{"GET /v1/products/barcode/{code}", h.ProductByBarcode},
		{"POST /v1/catalog/refresh", h.RefreshCatalog},
	}

	for _, route := range routes {
		mux.Handle(route.pattern, sec.Middleware(serve(route.fn)))
	}
}
