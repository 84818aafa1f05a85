package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"intake/pkg/storage"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertype"
)

// AddJob enqueues a river job. Inside a transaction the insert joins it and
// the job becomes visible on commit; otherwise it is visible immediately.
// Catalog refreshes requested over the API go through here.
func (p *PgSQL) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	var (
		res *rivertype.JobInsertResult
		err error
	)
	switch db := p.DB.(type) {
	case *sql.Tx:
		client, cerr := insertOnlyClient(nil)
		if cerr != nil {
			return false, cerr
		}
		res, err = client.InsertTx(ctx, db, args, opts)
	case *sql.DB:
		client, cerr := insertOnlyClient(db)
		if cerr != nil {
			return false, cerr
		}
		res, err = client.Insert(ctx, args, opts)
	default:
		return false, fmt.Errorf("unsupported executor %T", p.DB)
	}
	if err != nil {
		return false, fmt.Errorf("could not insert job %q: %w", args.Kind(), err)
	}

	return !res.UniqueSkippedAsDuplicate, nil
}

func insertOnlyClient(db *sql.DB) (*river.Client[*sql.Tx], error) {
	client, err := river.NewClient(riverdatabasesql.New(db), &river.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	return client, nil
}

// MigrateQueue brings the river queue tables to the latest version and returns
// how many versions were applied. It must not run inside a transaction.
func (p *PgSQL) MigrateQueue(ctx context.Context) (int, error) {
	db, ok := p.DB.(*sql.DB)
	if !ok {
		return 0, storage.ErrAlreadyInTx
	}

	migrator, err := rivermigrate.New(riverdatabasesql.New(db), nil)
	if err != nil {
		return 0, fmt.Errorf("could not create river queue migrator: %w", err)
	}

	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return 0, fmt.Errorf("could not migrate river queue: %w", err)
	}

	return len(res.Versions), nil
}
