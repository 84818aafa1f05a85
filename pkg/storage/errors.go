package storage

import "intake/pkg/serrors"

// Errors returned by storage implementations. They carry serrors kinds so
// handlers can map them without knowing the backend.
var (
	// ErrAlreadyInTx is returned by Begin on a handle that is already transactional.
	ErrAlreadyInTx = serrors.With(serrors.ErrInternal, "storage is already in a transaction")
	// ErrNotInTx is returned by Commit or Rollback outside a transaction.
	ErrNotInTx = serrors.With(serrors.ErrInternal, "storage is not in a transaction")
	// ErrScanCodeTaken is returned when a product would share its scan code
	// with another product.
	ErrScanCodeTaken = serrors.With(serrors.ErrConflict, "scan code already in use")
)
