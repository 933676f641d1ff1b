package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/manweek/internal/domain/entry"
	"github.com/rpggio/manweek/internal/domain/mode"
	"github.com/rpggio/manweek/internal/domain/project"
	"github.com/rpggio/manweek/internal/domain/tracker"
	"github.com/rpggio/manweek/internal/repository"
)

// errInvalidDate is returned for date arguments that are not YYYY-MM-DD.
var errInvalidDate = errors.New("invalid date")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to MCP error codes. Unknown errors are reported
// as INTERNAL with their message.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, tracker.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "mode is required and manual_seconds must not be negative"}
	case errors.Is(err, tracker.ErrUnknownProject):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: err.Error(), RecoveryHint: "Call list_projects"}
	case errors.Is(err, tracker.ErrInvalidSettings):
		return &APIError{Code: "INVALID_SETTINGS", Message: "tracker settings rejected", RecoveryHint: "Check the config file"}
	case errors.Is(err, entry.ErrEntryNotFound):
		return &APIError{Code: "ENTRY_NOT_FOUND", Message: "time entry not found", RecoveryHint: "List entries to find the ID"}
	case errors.Is(err, entry.ErrAlreadyReplaced):
		return &APIError{Code: "ALREADY_REPLACED", Message: "time entry was already replaced", RecoveryHint: "Replace the newer entry instead"}
	case errors.Is(err, entry.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "mode, a positive manual_seconds and a date are required"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects"}
	case errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "project code is required"}
	case errors.Is(err, mode.ErrModeNotFound):
		return &APIError{Code: "MODE_NOT_FOUND", Message: "mode not found", RecoveryHint: "Call list_modes"}
	case errors.Is(err, mode.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "mode label is required"}
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "referenced project does not exist", RecoveryHint: "Call list_projects"}
	case errors.Is(err, errInvalidDate):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Use YYYY-MM-DD"}
	default:
		return &APIError{Code: "INTERNAL", Message: err.Error()}
	}
}

func toolError(err error) error {
	if err == nil {
		return nil
	}
	return MapError(err)
}
