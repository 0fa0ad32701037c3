package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/berwahousing/records-backend/internal/pkg/logger"
	"github.com/berwahousing/records-backend/internal/report"
	"github.com/berwahousing/records-backend/internal/repository"
)

// Error codes for common scenarios
const (
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
)

// APIError represents a structured API error response
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// statusForError translates the domain error taxonomy into an HTTP status,
// error code, and caller-facing message. This is the single place where
// domain errors become responses; handlers never pick status codes for
// domain errors themselves. Unrecognized errors become a generic 500 with
// no internal detail leaked.
func statusForError(err error) (int, string, string) {
	var ve *repository.ValidationError
	var fe *report.FormatError

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrCodeValidationFailed, ve.Error()
	case errors.As(err, &fe):
		return http.StatusBadRequest, ErrCodeInvalidRequest, fe.Error()
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "Record not found"
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"
	}
}

// respondDomainError maps err through the taxonomy and writes the response.
// 5xx causes are logged server-side with the request ID; the body stays generic.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := statusForError(err)
	if status >= 500 {
		slog.Error("request failed",
			"request_id", logger.FromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	respondJSON(w, status, APIError{Error: message, Code: code, Message: message})
}
