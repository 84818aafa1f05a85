package postgres

import (
	"context"
	"errors"
	"fmt"
	"intake/pkg/domain"
	"intake/pkg/storage"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	productsTable = "products"
)

// translateErr maps constraint violations to storage errors and wraps the
// rest with msg.
func translateErr(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%s: %w: %w", msg, storage.ErrScanCodeTaken, err)
	}

	return fmt.Errorf("%s: %w", msg, err)
}

func (p *PgSQL) StoreProducts(ctx context.Context, products ...domain.CatalogEntry) ([]domain.CatalogEntry, error) {
	if len(products) == 0 {
		return nil, nil
	}

	var result []PgProduct
	if err := p.Builder.Insert(productsTable).
		Rows(domainProductsToPg(products)).
		Returning(&PgProduct{}).
		Executor().ScanStructsContext(ctx, &result); err != nil {
		return nil, translateErr(err, "could not store products into pg")
	}

	return pgProductsToDomain(result), nil
}

// UpdateProduct sets the provided fields and updated_at for one product.
func (p *PgSQL) UpdateProduct(
	ctx context.Context,
	id domain.ProductID,
	updates storage.ProductUpdates,
) (*domain.CatalogEntry, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
	}
	if updates.Name != nil {
		rec["name"] = *updates.Name
	}
	if updates.ScanCode != nil {
		if code, ok := domain.ParseScanCode(string(*updates.ScanCode)); ok {
			rec["scan_code"] = string(code)
		} else {
			rec["scan_code"] = goqu.L("NULL")
		}
	}
	if updates.Price != nil {
		rec["price"] = *updates.Price
	}
	if updates.Stock != nil {
		rec["stock"] = *updates.Stock
	}
	if updates.MinStock != nil {
		rec["min_stock"] = *updates.MinStock
	}
	if updates.Active != nil {
		rec["active"] = *updates.Active
	}

	var row PgProduct
	found, err := p.Builder.Update(productsTable).
		Set(rec).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Returning(&PgProduct{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, translateErr(err, "could not update product in pg")
	}
	if !found {
		return nil, nil
	}

	entry := row.ToDomain()

	return &entry, nil
}

// ProductByID returns a product by its ID, active or not.
func (p *PgSQL) ProductByID(ctx context.Context, id domain.ProductID) (*domain.CatalogEntry, error) {
	return p.oneProduct(ctx, goqu.I("id").Eq(uuid.UUID(id)))
}

// ProductByScanCode returns the active product carrying the exact code.
func (p *PgSQL) ProductByScanCode(ctx context.Context, code domain.ScanCode) (*domain.CatalogEntry, error) {
	if !code.Valid() {
		return nil, nil
	}

	return p.oneProduct(ctx,
		goqu.I("scan_code").Eq(string(code)),
		goqu.I("active").IsTrue(),
	)
}

func (p *PgSQL) oneProduct(ctx context.Context, where ...goqu.Expression) (*domain.CatalogEntry, error) {
	var row PgProduct
	found, err := p.Builder.From(productsTable).
		Where(where...).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch product: %w", err)
	}
	if !found {
		return nil, nil
	}

	entry := row.ToDomain()

	return &entry, nil
}

// ActiveProducts returns all active products ordered by name, id.
func (p *PgSQL) ActiveProducts(ctx context.Context) ([]domain.CatalogEntry, error) {
	var rows []PgProduct
	if err := p.Builder.From(productsTable).
		Where(goqu.I("active").IsTrue()).
		Order(goqu.I("name").Asc(), goqu.I("id").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch active products from pg: %w", err)
	}

	return pgProductsToDomain(rows), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`) //nolint: gochecknoglobals

// SearchProducts matches query as a literal substring of the name, ignoring
// case, or of the scan code. An empty query matches every active product.
func (p *PgSQL) SearchProducts(ctx context.Context, query string, limit int) ([]domain.CatalogEntry, error) {
	pattern := "%" + likeEscaper.Replace(query) + "%"

	var rows []PgProduct
	if err := p.Builder.From(productsTable).
		Where(
			goqu.I("active").IsTrue(),
			goqu.Or(
				goqu.I("name").ILike(pattern),
				goqu.I("scan_code").Like(pattern),
			),
		).
		Order(goqu.I("name").Asc(), goqu.I("id").Asc()).
		Limit(uint(limit)).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not search products in pg: %w", err)
	}

	return pgProductsToDomain(rows), nil
}
