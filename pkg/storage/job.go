package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage enqueues background jobs. Implementations persist the job into
// the queue backend and should be atomic with respect to a surrounding
// transaction when the backend supports it.
type JobStorage interface {
	// AddJob enqueues a new job with the given arguments. The returned bool is
	// false when the job was skipped as a duplicate of a unique job.
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
