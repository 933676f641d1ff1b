package entry

import "errors"

var (
	// ErrEntryNotFound indicates the entry doesn't exist.
	ErrEntryNotFound = errors.New("time entry not found")
	// ErrInvalidInput indicates invalid entry input.
	ErrInvalidInput = errors.New("invalid time entry input")
	// ErrAlreadyReplaced indicates the entry was superseded by a manual edit.
	ErrAlreadyReplaced = errors.New("time entry already replaced")
)
