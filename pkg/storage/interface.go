// Package storage declares what the intake service persists: the product
// catalog and the background job queue. pkg/storage/postgres implements it.
package storage

import "context"

// AllStorage is everything a handler may do inside or outside a transaction.
type AllStorage interface {
	ProductStorage
	JobStorage
}

// TxStorage is a handle bound to one open transaction. It must not be used
// after Commit or Rollback.
type TxStorage interface {
	AllStorage

	Commit() error
	Rollback() error
}

// Storage is the long-lived handle created at startup.
type Storage interface {
	AllStorage

	// Close releases the connection pool.
	Close() error
	// Begin opens a transaction.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx runs cb in a transaction, committing if cb returns nil and
	// rolling back otherwise. Product changes use it to enqueue the catalog
	// refresh they trigger atomically.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
