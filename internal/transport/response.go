package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpggio/timesheet/internal/bot"
	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/domain/report"
	"github.com/rpggio/timesheet/internal/webappdata"
)

// ErrorBody is the JSON body of a failed request.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps domain errors to HTTP status codes and error codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, bot.ErrAdminOnly):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, project.ErrDuplicateAbbr), errors.Is(err, project.ErrDuplicateName):
		return http.StatusConflict, "conflict"
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, bot.ErrNoData):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, bot.ErrMalformedPayload),
		errors.Is(err, bot.ErrUnknownType),
		errors.Is(err, webappdata.ErrMalformed),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, project.ErrAbbrTooShort),
		errors.Is(err, project.ErrNameTooShort),
		errors.Is(err, report.ErrInvalidInput),
		errors.Is(err, report.ErrInvalidHours),
		errors.Is(err, report.ErrNoItems):
		return http.StatusBadRequest, "invalid_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorBody{Error: code, Message: message})
}

func writeDomainError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, bot.ErrorText(err))
}
