package history

import "errors"

// Sentinel errors for the history package.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("history record not found")

	// ErrAlreadyDecided is returned when an upgrade record already carries a
	// decision; decided records are immutable to further adjudication.
	ErrAlreadyDecided = errors.New("upgrade already decided")

	// ErrAlreadyMoved is returned when a record's final path was already set.
	ErrAlreadyMoved = errors.New("record already moved")
)
