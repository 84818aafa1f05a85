package postgres_test

import (
	"context"
	"database/sql"
	"intake/internal/worker"
	"intake/pkg/storage/postgres"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivertest"
	"github.com/stretchr/testify/require"
)

func TestPgSQL_AddJob(t *testing.T) {
	t.Parallel()

	pg := setupTestDB(t)
	ctx := context.Background()

	t.Run("inside a transaction", func(t *testing.T) {
		tx, err := pg.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()

		inserted, err := tx.AddJob(ctx, worker.CatalogRefreshArgs{Reason: "tx"}, &river.InsertOpts{Queue: "tx"})
		require.NoError(t, err)
		require.True(t, inserted)

		rivertest.RequireInsertedTx[*riverdatabasesql.Driver](ctx, t,
			tx.(*postgres.PgSQL).DB.(*sql.Tx), &worker.CatalogRefreshArgs{}, &rivertest.RequireInsertedOpts{Queue: "tx"})
	})

	t.Run("outside a transaction", func(t *testing.T) {
		inserted, err := pg.AddJob(ctx, worker.CatalogRefreshArgs{Reason: "api"}, nil)
		require.NoError(t, err)
		require.True(t, inserted)

		rivertest.RequireInserted[*riverdatabasesql.Driver](ctx, t,
			riverdatabasesql.New(pg.DB.(*sql.DB)), &worker.CatalogRefreshArgs{}, nil)
	})

	t.Run("refresh requests within the unique period collapse", func(t *testing.T) {
		inserted, err := pg.AddJob(ctx, worker.CatalogRefreshArgs{Reason: "api"}, nil)
		require.NoError(t, err)
		require.False(t, inserted)
	})

	t.Run("migrating twice applies nothing", func(t *testing.T) {
		applied, err := pg.MigrateQueue(ctx)
		require.NoError(t, err)
		require.Zero(t, applied)
	})
}
