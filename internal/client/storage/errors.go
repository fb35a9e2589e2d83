package storage

import "errors"

// Common client storage errors
var (
	// ErrItemNotFound indicates that the record does not exist in the table
	ErrItemNotFound = errors.New("item not found")

	// ErrMissingID indicates that a record without an id was written
	ErrMissingID = errors.New("item has no id")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
