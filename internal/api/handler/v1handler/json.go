package v1handler

import (
	"intake/internal/intake"
	"intake/pkg/cart"
	"intake/pkg/domain"
	"intake/pkg/serrors"
	"intake/pkg/storage"
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

func encodeEntry(e *jx.Encoder, entry domain.CatalogEntry) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(entry.ID.String()) })
		e.Field("name", func(e *jx.Encoder) { e.Str(entry.Name) })
		e.Field("scanCode", func(e *jx.Encoder) { e.Str(entry.ScanCode.String()) })
		e.Field("kind", func(e *jx.Encoder) { e.Str(string(entry.Kind)) })
		e.Field("price", func(e *jx.Encoder) { e.Str(entry.Price.StringFixed(2)) })
		e.Field("pricePerWeight", func(e *jx.Encoder) {
			if !entry.PricePerWeight.Valid {
				e.Null()

				return
			}
			e.Str(entry.PricePerWeight.Decimal.StringFixed(2))
		})
		e.Field("stock", func(e *jx.Encoder) { e.Int(entry.Stock) })
		e.Field("minStock", func(e *jx.Encoder) { e.Int(entry.MinStock) })
		e.Field("lowStock", func(e *jx.Encoder) { e.Bool(entry.LowStock()) })
		e.Field("active", func(e *jx.Encoder) { e.Bool(entry.Active) })
	})
}

func encodeResult(e *jx.Encoder, r domain.ResolutionResult) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("outcome", func(e *jx.Encoder) { e.Str(string(r.Outcome)) })
		e.Field("code", func(e *jx.Encoder) { e.Str(r.Code.String()) })
		e.Field("source", func(e *jx.Encoder) { e.Str(string(r.Source)) })
		e.Field("product", func(e *jx.Encoder) {
			if !r.IsFound() {
				e.Null()

				return
			}
			encodeEntry(e, r.Entry)
		})
	})
}

func encodeInputState(e *jx.Encoder, st intake.State) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("mode", func(e *jx.Encoder) { e.Str(st.Mode.String()) })
		e.Field("buffer", func(e *jx.Encoder) { e.Str(st.Buffer) })
		e.Field("pending", func(e *jx.Encoder) { e.Bool(st.Pending) })
	})
}

func encodeCamera(e *jx.Encoder, st intake.CameraStatus) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("state", func(e *jx.Encoder) { e.Str(string(st.State)) })
		e.Field("devices", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, d := range st.Devices {
					e.Obj(func(e *jx.Encoder) {
						e.Field("id", func(e *jx.Encoder) { e.Str(d.ID) })
						e.Field("label", func(e *jx.Encoder) { e.Str(d.Label) })
					})
				}
			})
		})
		e.Field("selectedDeviceId", func(e *jx.Encoder) { e.Str(st.Selected) })
		if st.Err != nil {
			e.Field("error", func(e *jx.Encoder) { e.Str(classify(st.Err).Response.Message) })
		}
	})
}

func encodeStatus(e *jx.Encoder, st intake.TerminalStatus) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(st.ID.String()) })
		e.Field("operatorId", func(e *jx.Encoder) { e.Str(st.Operator.String()) })
		e.Field("createdAt", func(e *jx.Encoder) { e.Str(st.CreatedAt.UTC().Format(time.RFC3339Nano)) })
		e.Field("input", func(e *jx.Encoder) { encodeInputState(e, st.Input) })
		e.Field("screen", func(e *jx.Encoder) { e.Str(st.Screen.String()) })
		e.Field("camera", func(e *jx.Encoder) { encodeCamera(e, st.Camera) })
		e.Field("notice", func(e *jx.Encoder) {
			if st.Notice.Message == "" {
				e.Null()

				return
			}
			e.Obj(func(e *jx.Encoder) {
				e.Field("level", func(e *jx.Encoder) { e.Str(string(st.Notice.Level)) })
				e.Field("message", func(e *jx.Encoder) { e.Str(st.Notice.Message) })
				e.Field("at", func(e *jx.Encoder) { e.Str(st.Notice.At.UTC().Format(time.RFC3339Nano)) })
			})
		})
		e.Field("lastResult", func(e *jx.Encoder) {
			if st.LastResult == nil {
				e.Null()

				return
			}
			encodeResult(e, *st.LastResult)
		})
		e.Field("cartLines", func(e *jx.Encoder) { e.Int(st.CartLines) })
	})
}

func encodeCart(e *jx.Encoder, lines []cart.Line, totals cart.Totals) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("lines", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, l := range lines {
					e.Obj(func(e *jx.Encoder) {
						e.Field("productId", func(e *jx.Encoder) { e.Str(l.ProductID.String()) })
						e.Field("name", func(e *jx.Encoder) { e.Str(l.Name) })
						e.Field("scanCode", func(e *jx.Encoder) { e.Str(l.ScanCode.String()) })
						e.Field("unitPrice", func(e *jx.Encoder) { e.Str(l.UnitPrice.StringFixed(2)) })
						e.Field("quantity", func(e *jx.Encoder) { e.Str(l.Quantity.String()) })
						e.Field("subtotal", func(e *jx.Encoder) { e.Str(l.Subtotal().StringFixed(2)) })
					})
				}
			})
		})
		e.Field("subtotal", func(e *jx.Encoder) { e.Str(totals.Subtotal.StringFixed(2)) })
		e.Field("tax", func(e *jx.Encoder) { e.Str(totals.Tax.StringFixed(2)) })
		e.Field("total", func(e *jx.Encoder) { e.Str(totals.Total.StringFixed(2)) })
	})
}

// inputRequest is the body of input, submit and camera requests.
type inputRequest struct {
	Value    string
	At       time.Time
	DeviceID string
}

// decodeInput reads {"value", "at", "deviceId"}. "at" is the terminal's
// keystroke clock in unix milliseconds.
func decodeInput(data []byte) (inputRequest, error) {
	var req inputRequest
	if len(data) == 0 {
		return req, nil
	}

	err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "value":
			v, err := d.Str()
			req.Value = v

			return err
		case "deviceId":
			v, err := d.Str()
			req.DeviceID = v

			return err
		case "at":
			if d.Next() == jx.Null {
				return d.Null()
			}
			ms, err := d.Int64()
			if err != nil {
				return err
			}
			req.At = time.UnixMilli(ms)

			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return req, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body")
	}

	return req, nil
}

// productRequest is the body of product create and update requests. Absent
// fields stay nil.
type productRequest struct {
	Name           *string
	ScanCode       *domain.ScanCode
	Kind           *domain.ProductKind
	Price          *decimal.Decimal
	PricePerWeight *decimal.NullDecimal
	Stock          *int
	MinStock       *int
	Active         *bool
}

// decodeDecimal accepts a price either as a JSON string or a number.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	var raw string
	switch d.Next() {
	case jx.String:
		v, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		raw = v
	default:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		raw = n.String()
	}

	return decimal.NewFromString(raw)
}

// decodeQuantity reads {"quantity"} of a cart line update. Negative
// quantities are rejected.
func decodeQuantity(data []byte) (decimal.Decimal, error) {
	var (
		quantity decimal.Decimal
		seen     bool
	)
	if len(data) == 0 {
		return quantity, serrors.With(serrors.ErrBadRequest, "request body is required")
	}

	err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "quantity" {
			return d.Skip()
		}
		v, err := decodeDecimal(d)
		quantity, seen = v, true

		return err
	})
	if err != nil {
		return quantity, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body")
	}
	if !seen {
		return quantity, serrors.With(serrors.ErrBadRequest, "quantity is required")
	}
	if quantity.IsNegative() {
		return quantity, serrors.With(serrors.ErrBadRequest, "quantity must not be negative")
	}

	return quantity, nil
}

func decodeProduct(data []byte) (productRequest, error) {
	var req productRequest
	if len(data) == 0 {
		return req, serrors.With(serrors.ErrBadRequest, "request body is required")
	}

	err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "name":
			v, err := d.Str()
			req.Name = &v

			return err
		case "scanCode":
			v, err := d.Str()
			code := domain.ScanCode(v)
			req.ScanCode = &code

			return err
		case "kind":
			v, err := d.Str()
			kind := domain.ProductKind(v)
			req.Kind = &kind

			return err
		case "price":
			v, err := decodeDecimal(d)
			req.Price = &v

			return err
		case "pricePerWeight":
			var v decimal.NullDecimal
			if d.Next() == jx.Null {
				req.PricePerWeight = &v

				return d.Null()
			}
			dec, err := decodeDecimal(d)
			v = decimal.NewNullDecimal(dec)
			req.PricePerWeight = &v

			return err
		case "stock":
			v, err := d.Int()
			req.Stock = &v

			return err
		case "minStock":
			v, err := d.Int()
			req.MinStock = &v

			return err
		case "active":
			v, err := d.Bool()
			req.Active = &v

			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return req, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body")
	}

	return req, req.validate()
}

func (req productRequest) validate() error {
	if req.Name != nil && *req.Name == "" {
		return serrors.With(serrors.ErrBadRequest, "name must not be empty")
	}
	if req.Price != nil && req.Price.IsNegative() {
		return serrors.With(serrors.ErrBadRequest, "price must not be negative")
	}
	if req.Kind != nil && *req.Kind != domain.ProductKindBarcode && *req.Kind != domain.ProductKindByWeight {
		return serrors.With(serrors.ErrBadRequest, "unknown product kind %q", *req.Kind)
	}
	if req.Stock != nil && *req.Stock < 0 {
		return serrors.With(serrors.ErrBadRequest, "stock must not be negative")
	}

	return nil
}

// entry builds a new product out of a create request.
func (req productRequest) entry() (domain.CatalogEntry, error) {
	if req.Name == nil || req.Price == nil {
		return domain.CatalogEntry{}, serrors.With(serrors.ErrBadRequest, "name and price are required")
	}

	entry := domain.CatalogEntry{
		Name:   *req.Name,
		Kind:   domain.ProductKindBarcode,
		Price:  *req.Price,
		Active: true,
	}
	if req.ScanCode != nil {
		code, _ := domain.ParseScanCode(string(*req.ScanCode))
		entry.ScanCode = code
	}
	if req.Kind != nil {
		entry.Kind = *req.Kind
	}
	if req.PricePerWeight != nil {
		entry.PricePerWeight = *req.PricePerWeight
	}
	if req.Stock != nil {
		entry.Stock = *req.Stock
	}
	if req.MinStock != nil {
		entry.MinStock = *req.MinStock
	}
	if req.Active != nil {
		entry.Active = *req.Active
	}

	return entry, nil
}

// updates maps an update request onto storage.ProductUpdates. Kind and
// pricePerWeight cannot be changed after creation.
func (req productRequest) updates() (storage.ProductUpdates, error) {
	if req.Kind != nil || req.PricePerWeight != nil {
		return storage.ProductUpdates{}, serrors.With(serrors.ErrBadRequest, "kind and pricePerWeight are immutable")
	}

	updates := storage.ProductUpdates{
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		MinStock: req.MinStock,
		Active:   req.Active,
	}
	if req.ScanCode != nil {
		code, _ := domain.ParseScanCode(string(*req.ScanCode))
		updates.ScanCode = &code
	}

	return updates, nil
}
