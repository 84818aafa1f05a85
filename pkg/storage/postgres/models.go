package postgres

import (
	"database/sql"
	"intake/pkg/domain"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PgProduct struct {
	ID   uuid.UUID `db:"id"   goqu:"skipinsert"`
	Name string    `db:"name"`

	ScanCode       sql.NullString      `db:"scan_code"`
	Kind           string              `db:"kind"`
	Price          decimal.Decimal     `db:"price"`
	PricePerWeight decimal.NullDecimal `db:"price_per_weight"`

	Stock    int  `db:"stock"`
	MinStock int  `db:"min_stock"`
	Active   bool `db:"active"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

func (p *PgProduct) ToDomain() domain.CatalogEntry {
	return domain.CatalogEntry{
		ID:             domain.ProductID(p.ID),
		Name:           p.Name,
		ScanCode:       domain.ScanCode(p.ScanCode.String),
		Kind:           domain.ProductKind(p.Kind),
		Price:          p.Price,
		PricePerWeight: p.PricePerWeight,
		Stock:          p.Stock,
		MinStock:       p.MinStock,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt.Time,
	}
}

func (p *PgProduct) FromDomain(e domain.CatalogEntry) {
	kind := e.Kind
	if kind == "" {
		kind = domain.ProductKindBarcode
	}

	code, hasCode := domain.ParseScanCode(string(e.ScanCode))
	*p = PgProduct{
		ID:   uuid.UUID(e.ID),
		Name: e.Name,
		ScanCode: sql.NullString{
			String: string(code),
			Valid:  hasCode,
		},
		Kind:           string(kind),
		Price:          e.Price,
		PricePerWeight: e.PricePerWeight,
		Stock:          e.Stock,
		MinStock:       e.MinStock,
		Active:         e.Active,
		CreatedAt:      e.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  e.UpdatedAt,
			Valid: !e.UpdatedAt.IsZero(),
		},
	}
}

func domainProductsToPg(entries []domain.CatalogEntry) []PgProduct {
	out := make([]PgProduct, len(entries))
	for i := range out {
		out[i].FromDomain(entries[i])
	}

	return out
}

func pgProductsToDomain(rows []PgProduct) []domain.CatalogEntry {
	out := make([]domain.CatalogEntry, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}

	return out
}
