package pull

import "errors"

var (
	// ErrInvalidQuery is returned before any I/O when the pull request is malformed
	ErrInvalidQuery = errors.New("invalid pull query")

	// ErrTableDirty is returned when the table still has pending operations
	// after the push that precedes the pull
	ErrTableDirty = errors.New("the table has pending operations that could not be pushed")
)
