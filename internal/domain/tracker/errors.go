package tracker

import "errors"

var (
	// ErrInvalidInput indicates a blank mode label or negative manual time.
	ErrInvalidInput = errors.New("invalid tracker input")
	// ErrUnknownProject indicates a project ID with no matching project.
	ErrUnknownProject = errors.New("unknown project")
	// ErrInvalidSettings indicates tuning values that would break gap classification.
	ErrInvalidSettings = errors.New("invalid tracker settings")
)
