package v1handler

import (
	"context"
	"intake/internal/worker"
	"intake/pkg/domain"
	"intake/pkg/serrors"
	"intake/pkg/storage"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

const (
	// productChangeReason tags catalog refreshes triggered by product edits.
	productChangeReason = "product"

	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

func productID(r *http.Request, param string) (domain.ProductID, error) {
	id, err := uuid.Parse(r.PathValue(param))
	if err != nil {
		return domain.ProductID{}, serrors.With(serrors.ErrBadRequest, "invalid product id")
	}

	return domain.ProductID(id), nil
}

// CreateProduct stores a product and schedules a catalog refresh in the same
// transaction so terminals pick it up.
func (h *Handler) CreateProduct(r *http.Request) (int, func(e *jx.Encoder), error) {
	body, err := readBody(r)
	if err != nil {
		return 0, nil, err
	}
	req, err := decodeProduct(body)
	if err != nil {
		return 0, nil, err
	}
	entry, err := req.entry()
	if err != nil {
		return 0, nil, err
	}

	var stored domain.CatalogEntry
	err = h.deps.Tx.WithTx(r.Context(), func(s storage.AllStorage) error {
		products, err := s.StoreProducts(r.Context(), entry)
		if err != nil {
			return err //nolint: wrapcheck
		}
		stored = products[0]

		return refreshAfterChange(r.Context(), s)
	})
	if err != nil {
		return 0, nil, err //nolint: wrapcheck
	}

	return http.StatusCreated, func(e *jx.Encoder) { encodeEntry(e, stored) }, nil
}

// GetProduct returns a product by id, including inactive ones.
func (h *Handler) GetProduct(r *http.Request) (int, func(e *jx.Encoder), error) {
	id, err := productID(r, "id")
	if err != nil {
		return 0, nil, err
	}

	entry, err := h.deps.Products.ProductByID(r.Context(), id)
	if err != nil {
		return 0, nil, err //nolint: wrapcheck
	}
	if entry == nil {
		return 0, nil, serrors.With(serrors.ErrNotFound, "product %s not found", id)
	}

	return http.StatusOK, func(e *jx.Encoder) { encodeEntry(e, *entry) }, nil
}

// UpdateProduct applies a partial update and schedules a catalog refresh.
func (h *Handler) UpdateProduct(r *http.Request) (int, func(e *jx.Encoder), error) {
	id, err := productID(r, "id")
	if err != nil {
		return 0, nil, err
	}
	body, err := readBody(r)
	if err != nil {
		return 0, nil, err
	}
	req, err := decodeProduct(body)
	if err != nil {
		return 0, nil, err
	}
	updates, err := req.updates()
	if err != nil {
		return 0, nil, err
	}

	var updated *domain.CatalogEntry
	err = h.deps.Tx.WithTx(r.Context(), func(s storage.AllStorage) error {
		updated, err = s.UpdateProduct(r.Context(), id, updates)
		if err != nil {
			return err //nolint: wrapcheck
		}
		if updated == nil {
			return serrors.With(serrors.ErrNotFound, "product %s not found", id)
		}

		return refreshAfterChange(r.Context(), s)
	})
	if err != nil {
		return 0, nil, err //nolint: wrapcheck
	}

	return http.StatusOK, func(e *jx.Encoder) { encodeEntry(e, *updated) }, nil
}

func refreshAfterChange(ctx context.Context, jobs storage.JobStorage) error {
	if _, err := jobs.AddJob(ctx, worker.CatalogRefreshArgs{Reason: productChangeReason}, nil); err != nil {
		return serrors.Wrap(serrors.ErrUnavailable, err, "could not enqueue catalog refresh")
	}

	return nil
}

// SearchProducts lists active products whose name or scan code contains q.
func (h *Handler) SearchProducts(r *http.Request) (int, func(e *jx.Encoder), error) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return 0, nil, serrors.With(serrors.ErrBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxSearchLimit)
	}

	entries, err := h.deps.Products.SearchProducts(r.Context(), query, limit)
	if err != nil {
		return 0, nil, err //nolint: wrapcheck
	}

	return http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("products", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, entry := range entries {
						encodeEntry(e, entry)
					}
				})
			})
		})
	}, nil
}

// ProductByBarcode looks up an active product by its exact scan code.
func (h *Handler) ProductByBarcode(r *http.Request) (int, func(e *jx.Encoder), error) {
	code, ok := domain.ParseScanCode(r.PathValue("code"))
	if !ok {
		return 0, nil, serrors.With(serrors.ErrBadRequest, "scan code is required")
	}

	entry, err := h.deps.Products.ProductByScanCode(r.Context(), code)
	if err != nil {
		return 0, nil, err //nolint: wrapcheck
	}
	if entry == nil {
		return 0, nil, serrors.With(serrors.ErrNotFound, "product with barcode %s not found", code)
	}

	return http.StatusOK, func(e *jx.Encoder) { encodeEntry(e, *entry) }, nil
}

// RefreshCatalog enqueues an immediate reload of the scan catalog.
func (h *Handler) RefreshCatalog(r *http.Request) (int, func(e *jx.Encoder), error) {
	inserted, err := h.deps.Jobs.AddJob(r.Context(), worker.CatalogRefreshArgs{Reason: "api"}, nil)
	if err != nil {
		return 0, nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not enqueue catalog refresh")
	}

	return http.StatusAccepted, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("enqueued", func(e *jx.Encoder) { e.Bool(inserted) })
		})
	}, nil
}
