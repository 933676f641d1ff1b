package mode

import "errors"

var (
	// ErrModeNotFound indicates the mode doesn't exist.
	ErrModeNotFound = errors.New("mode not found")
	// ErrInvalidInput indicates invalid mode input.
	ErrInvalidInput = errors.New("invalid mode input")
)
