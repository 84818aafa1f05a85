// Package intake is the module root. It only carries assets that have to be
// embedded from the repository root, such as the SQL migrations.
package intake

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// Migrations holds the goose SQL migrations of the products schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Migrate applies the pending products migrations to db and returns how many
// were applied.
func Migrate(ctx context.Context, db *sql.DB) (int, error) {
	fsys, err := fs.Sub(Migrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("could not open migrations: %w", err)
	}

	provider, err := goose.NewProvider(database.DialectPostgres, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("could not create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not apply migrations: %w", err)
	}

	return len(results), nil
}
