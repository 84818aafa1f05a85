package v1handler

import (
	"intake/internal/intake"
	"intake/pkg/domain"
	"intake/pkg/serrors"
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

func (h *Handler) terminal(r *http.Request) (*intake.Terminal, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid terminal id")
	}

	return h.deps.Terminals.Get(domain.TerminalID(id), GetOperatorIDFromContext(r.Context()))
}

func statusBody(t *intake.Terminal) func(e *jx.Encoder) {
	st := t.Status()

	return func(e *jx.Encoder) { encodeStatus(e, st) }
}

func cameraBody(st intake.CameraStatus) func(e *jx.Encoder) {
	return func(e *jx.Encoder) { encodeCamera(e, st) }
}

// CreateTerminal mounts a terminal for the authenticated operator.
func (h *Handler) CreateTerminal(r *http.Request) (int, func(e *jx.Encoder), error) {
	t := h.deps.Terminals.Create(r.Context(), GetOperatorIDFromContext(r.Context()))

	return http.StatusCreated, statusBody(t), nil
}

func (h *Handler) GetTerminal(r *http.Request) (int, func(e *jx.Encoder), error) {
	t, err := h.terminal(r)
	if err != nil {
		return 0, nil, err
	}

	return http.StatusOK, statusBody(t), nil
}

// DeleteTerminal unmounts a terminal. Pending scans are dropped.
func (h *Handler) DeleteTerminal(r *http.Request) (int, func(e *jx.Encoder), error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return 0, nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid terminal id")
	}

	if err := h.deps.Terminals.Close(r.Context(), domain.TerminalID(id), GetOperatorIDFromContext(r.Context())); err != nil {
		return 0, nil, err
	}

	return http.StatusNoContent, nil, nil
}

// Input feeds the current value of the input field. Missing "at" means now.
func (h *Handler) Input(r *http.Request) (int, func(e *jx.Encoder), error) {
	t, err := h.terminal(r)
	if err != nil {
		return 0, nil, err
	}

	body, err := readBody(r)
	if err != nil {
		return 0, nil, err
	}
	req, err := decodeInput(body)
	if err != nil {
		return 0, nil, err
	}
	if req.At.IsZero() {
		req.At = time.Now()
	}

	t.Change(req.Value, req.At)
	st := t.Input().State()

	return http.StatusAccepted, func(e *jx.Encoder) { encodeInputState(e, st) }, nil
}

// Submit resolves the value immediately. Blank values are not dispatched.
func (h *Handler) Submit(r *http.Request) (int, func(e *jx.Encoder), error) {
	t, err := h.terminal(r)
	if err != nil {
		return 0, nil, err
	}

	body, err := readBody(r)
	if err != nil {
		return 0, nil, err
	}
	req, err := decodeInput(body)
	if err != nil {
		return 0, nil, err
	}

	res, dispatched := t.Submit(r.Context(), req.Value)

	return http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("dispatched", func(e *jx.Encoder) { e.Bool(dispatched) })
			e.Field("result", func(e *jx.Encoder) {
				if !dispatched {
					e.Null()

					return
				}
				encodeResult(e, res)
			})
		})
	}, nil
}

func (h *Handler) RequestCamera(r *http.Request) (int, func(e *jx.Encoder), error) {
	t, err := h.terminal(r)
	if err != nil {
		return 0, nil, err
	}

	st, err := t.RequestCamera(r.Context())
	if err != nil {
		return 0, nil, err
	}

	return http.StatusOK, cameraBody(st), nil
}

func (h *Handler) SelectCamera(r *http.Request) (int, func(e *jx.Encoder), error) {
	t, err := h.terminal(r)
	if err != nil {
		return 0, nil, err
	}

	body, err := readBody(r)
	if err != nil {
		return 0, nil, err
	}
	req, err := decodeInput(body)
	if err != nil {
		return 0, nil, err
	}
	if req.DeviceID == "" {
		return 0, nil, serrors.With(serrors.ErrBadRequest, "deviceId is required")
	}

	if err := t.Camera().SelectDevice(req.DeviceID); err != nil {
		return 0, nil, err
	}

	return http.StatusOK, cameraBody(t.Camera().Status()), nil
}

// StartCamera starts scanning on the given or the selected device.
func (h *Handler) StartCamera(r *http.Request) (int, func(e *jx.Encoder), error) {
	t, err := h.terminal(r)
	if err != nil {
		return 0, nil, err
	}

	body, err := readBody(r)
	if err != nil {
		return 0, nil, err
	}
	req, err := decodeInput(body)
	if err != nil {
		return 0, nil, err
	}

	st, err := t.StartCamera(r.Context(), req.DeviceID)
	if err != nil {
		return 0, nil, err
	}

	return http.StatusOK, cameraBody(st), nil
}

func (h *Handler) StopCamera(r *http.Request) (int, func(e *jx.Encoder), error) {
	t, err := h.terminal(r)
	if err != nil {
		return 0, nil, err
	}

	t.Camera().Stop()

	return http.StatusOK, cameraBody(t.Camera().Status()), nil
}

func (h *Handler) GetCart(r *http.Request) (int, func(e *jx.Encoder), error) {
	t, err := h.terminal(r)
	if err != nil {
		return 0, nil, err
	}

	return http.StatusOK, cartBody(t), nil
}

func (h *Handler) ClearCart(r *http.Request) (int, func(e *jx.Encoder), error) {
	t, err := h.terminal(r)
	if err != nil {
		return 0, nil, err
	}

	t.Cart().Clear()

	return http.StatusNoContent, nil, nil
}

func cartBody(t *intake.Terminal) func(e *jx.Encoder) {
	lines, totals := t.Cart().Lines(), t.Cart().Totals()

	return func(e *jx.Encoder) { encodeCart(e, lines, totals) }
}

// UpdateCartLine overrides the quantity of a cart line. Zero removes it.
func (h *Handler) UpdateCartLine(r *http.Request) (int, func(e *jx.Encoder), error) {
	t, err := h.terminal(r)
	if err != nil {
		return 0, nil, err
	}
	id, err := productID(r, "productId")
	if err != nil {
		return 0, nil, err
	}

	body, err := readBody(r)
	if err != nil {
		return 0, nil, err
	}
	quantity, err := decodeQuantity(body)
	if err != nil {
		return 0, nil, err
	}

	if !t.Cart().SetQuantity(id, quantity) {
		return 0, nil, serrors.With(serrors.ErrNotFound, "product not in cart")
	}

	return http.StatusOK, cartBody(t), nil
}

func (h *Handler) RemoveCartLine(r *http.Request) (int, func(e *jx.Encoder), error) {
	t, err := h.terminal(r)
	if err != nil {
		return 0, nil, err
	}
	id, err := productID(r, "productId")
	if err != nil {
		return 0, nil, err
	}

	if !t.Cart().Remove(id) {
		return 0, nil, serrors.With(serrors.ErrNotFound, "product not in cart")
	}

	return http.StatusOK, cartBody(t), nil
}
