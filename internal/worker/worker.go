// Package worker runs the background jobs of the intake service on river.
package worker

import (
	"context"
	"fmt"
	"intake/pkg/catalog"
	"intake/pkg/logger"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
)

// Options configure the job client.
type Options struct {
	// MaxWorkers is the concurrency of the default queue.
	MaxWorkers int
	// RefreshInterval schedules periodic catalog refreshes. Zero disables them.
	RefreshInterval time.Duration
}

// Start registers the workers and starts a river client on dbPool.
func Start(
	ctx context.Context,
	dbPool *pgxpool.Pool,
	options Options,
	cat *catalog.Memory,
	source catalog.Source,
) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewCatalogRefreshWorker(cat, source))

	if options.MaxWorkers <= 0 {
		options.MaxWorkers = 1
	}

	var periodic []*river.PeriodicJob
	if options.RefreshInterval > 0 {
		periodic = append(periodic, river.NewPeriodicJob(
			river.PeriodicInterval(options.RefreshInterval),
			func() (river.JobArgs, *river.InsertOpts) {
				return CatalogRefreshArgs{Reason: "periodic"}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		))
	}

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: options.MaxWorkers},
		},
		Workers:      workers,
		PeriodicJobs: periodic,
		Logger:       slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
