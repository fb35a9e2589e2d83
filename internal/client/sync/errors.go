package sync

import "errors"

// Ошибки sync context
var (
	// ErrItemExists indicates an insert of a record already present in the local store
	ErrItemExists = errors.New("item already exists")

	// ErrInvalidItem indicates a record that cannot be written to a table
	ErrInvalidItem = errors.New("invalid item")

	// ErrPendingOperations indicates a purge of a table that still has queued operations
	ErrPendingOperations = errors.New("table has pending operations")

	// ErrClosed indicates use of a closed sync context
	ErrClosed = errors.New("sync context is closed")
)
