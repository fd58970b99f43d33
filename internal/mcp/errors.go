package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/timesheet/internal/bot"
	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/domain/report"
	"github.com/rpggio/timesheet/internal/domain/user"
)

// APIError is the error reported back to MCP clients as tool result text.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	if verrs, ok := project.AsValidationErrors(err); ok {
		return &APIError{Code: "INVALID_PROJECT", Message: verrs.Error(), RecoveryHint: "Abbreviation needs 2+ characters, name 3+, both unique"}
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid abbreviations"}
	case errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, report.ErrNoItems):
		return &APIError{Code: "NO_ITEMS", Message: "report has no items"}
	case errors.Is(err, report.ErrInvalidHours):
		return &APIError{Code: "INVALID_HOURS", Message: "hours out of range", RecoveryHint: "Hours must be above 0 and at most 24"}
	case errors.Is(err, report.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, user.ErrUserNotFound):
		return &APIError{Code: "USER_NOT_FOUND", Message: "user not found", RecoveryHint: "Call list_users for registered ids"}
	case errors.Is(err, bot.ErrNoData):
		return &APIError{Code: "NO_DATA", Message: "no reports yet"}
	default:
		return nil
	}
}

// toolError returns the mapped APIError when there is one, the wrapped
// original otherwise.
func toolError(op string, err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return fmt.Errorf("%s: %w", op, err)
}
