package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"intake/internal/worker"
	"intake/pkg/storage"
	"intake/pkg/storage/postgres"
	"testing"

	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivertest"
	"github.com/stretchr/testify/require"
)

func TestPgSQL_Transactions(t *testing.T) {
	t.Parallel()

	pg := setupTestDB(t)
	ctx := context.Background()

	t.Run("commit and rollback outside tx", func(t *testing.T) {
		require.ErrorIs(t, pg.Commit(), storage.ErrNotInTx)
		require.ErrorIs(t, pg.Rollback(), storage.ErrNotInTx)
	})

	t.Run("nested begin", func(t *testing.T) {
		tx, err := pg.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()

		inner, ok := tx.(*postgres.PgSQL)
		require.True(t, ok)
		_, isTx := inner.DB.(*sql.Tx)
		require.True(t, isTx)

		_, err = inner.Begin(ctx)
		require.ErrorIs(t, err, storage.ErrAlreadyInTx)

		_, err = inner.MigrateQueue(ctx)
		require.ErrorIs(t, err, storage.ErrAlreadyInTx)
		require.NoError(t, inner.Close())
	})

	t.Run("commit persists products", func(t *testing.T) {
		tx, err := pg.Begin(ctx)
		require.NoError(t, err)

		_, err = tx.StoreProducts(ctx, product("Committed", "1000000000001"))
		require.NoError(t, err)
		require.Equal(t, 0, countProducts(t, pg, "Committed"))

		require.NoError(t, tx.Commit())
		require.Equal(t, 1, countProducts(t, pg, "Committed"))
	})

	t.Run("rollback discards products", func(t *testing.T) {
		tx, err := pg.Begin(ctx)
		require.NoError(t, err)

		_, err = tx.StoreProducts(ctx, product("Rolled back", "1000000000002"))
		require.NoError(t, err)

		require.NoError(t, tx.Rollback())
		require.Equal(t, 0, countProducts(t, pg, "Rolled back"))
	})
}

func TestPgSQL_WithTx(t *testing.T) {
	t.Parallel()

	pg := setupTestDB(t)
	ctx := context.Background()

	t.Run("product and refresh job commit together", func(t *testing.T) {
		err := pg.WithTx(ctx, func(s storage.AllStorage) error {
			if _, err := s.StoreProducts(ctx, product("Butter", "2000000000001")); err != nil {
				return err //nolint: wrapcheck
			}
			_, err := s.AddJob(ctx, worker.CatalogRefreshArgs{Reason: "product"}, nil)

			return err //nolint: wrapcheck
		})
		require.NoError(t, err)

		require.Equal(t, 1, countProducts(t, pg, "Butter"))
		rivertest.RequireInserted[*riverdatabasesql.Driver](ctx, t,
			riverdatabasesql.New(pg.DB.(*sql.DB)), &worker.CatalogRefreshArgs{}, nil)
	})

	t.Run("callback error rolls back", func(t *testing.T) {
		boom := errors.New("boom")
		err := pg.WithTx(ctx, func(s storage.AllStorage) error {
			_, err := s.StoreProducts(ctx, product("Cheese", "2000000000002"))
			require.NoError(t, err)

			return boom
		})
		require.ErrorIs(t, err, boom)
		require.Equal(t, 0, countProducts(t, pg, "Cheese"))
	})

	t.Run("conflict rolls back", func(t *testing.T) {
		err := pg.WithTx(ctx, func(s storage.AllStorage) error {
			_, err := s.StoreProducts(ctx, product("Butter again", "2000000000001"))

			return err //nolint: wrapcheck
		})
		require.ErrorIs(t, err, storage.ErrScanCodeTaken)
		require.Equal(t, 0, countProducts(t, pg, "Butter again"))
	})
}
