package worker

import (
	"context"
	"fmt"
	"intake/pkg/catalog"
	"intake/pkg/logger"
	"time"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// CatalogRefreshArgs asks for the in-memory catalog to be reloaded.
type CatalogRefreshArgs struct {
	// Reason tells periodic refreshes apart from requested ones in logs.
	Reason string `json:"reason"`
}

func (CatalogRefreshArgs) Kind() string { return "catalog_refresh" }

// InsertOpts collapses refresh requests arriving within a few seconds of each
// other into one job.
func (CatalogRefreshArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: 3,
		UniqueOpts: river.UniqueOpts{
			ByPeriod: 10 * time.Second,
		},
	}
}

// CatalogRefreshWorker reloads the catalog snapshot terminals resolve against.
// A failed reload keeps the previous snapshot.
type CatalogRefreshWorker struct {
	river.WorkerDefaults[CatalogRefreshArgs]

	catalog *catalog.Memory
	source  catalog.Source
}

// NewCatalogRefreshWorker creates a worker refreshing c from source.
func NewCatalogRefreshWorker(c *catalog.Memory, source catalog.Source) *CatalogRefreshWorker {
	return &CatalogRefreshWorker{catalog: c, source: source}
}

func (w *CatalogRefreshWorker) Work(ctx context.Context, job *river.Job[CatalogRefreshArgs]) error {
	ctx = logger.WithFields(ctx, zap.Int64("jobID", job.ID), zap.String("reason", job.Args.Reason))

	n, err := w.catalog.Refresh(ctx, w.source)
	if err != nil {
		logger.Error(ctx, "could not refresh catalog", zap.Error(err))

		return fmt.Errorf("could not refresh catalog: %w", err)
	}

	logger.Info(ctx, "catalog refreshed", zap.Int("products", n))

	return nil
}

func (w *CatalogRefreshWorker) Timeout(*river.Job[CatalogRefreshArgs]) time.Duration {
	return 30 * time.Second
}
