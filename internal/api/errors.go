package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// Error categories carried alongside the message.
const (
	CategoryValidationError = "VALIDATION_ERROR"
	CategoryObjectNotFound  = "OBJECT_NOT_FOUND"
	CategoryConflict        = "CONFLICT"
	CategoryUnauthorized    = "UNAUTHORIZED"
	CategoryInternal        = "INTERNAL_ERROR"
)

// Error is the JSON body of every failed request. Clients read the message
// from the "error" key.
type Error struct {
	Message       string        `json:"error"`
	Details       []ErrorDetail `json:"details,omitempty"`
	CorrelationID string        `json:"correlationId,omitempty"`
	Category      string        `json:"category,omitempty"`
}

// ErrorDetail names a single offending field.
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewNotFoundError creates a 404 error with the OBJECT_NOT_FOUND category.
func NewNotFoundError(message, correlationID string) *Error {
	return &Error{
		Message:       message,
		CorrelationID: correlationID,
		Category:      CategoryObjectNotFound,
	}
}

// NewValidationError creates a 400 error with the VALIDATION_ERROR category.
func NewValidationError(message, correlationID string, details []ErrorDetail) *Error {
	return &Error{
		Message:       message,
		CorrelationID: correlationID,
		Category:      CategoryValidationError,
		Details:       details,
	}
}

// NewConflictError creates a 409 error with the CONFLICT category.
func NewConflictError(message, correlationID string) *Error {
	return &Error{
		Message:       message,
		CorrelationID: correlationID,
		Category:      CategoryConflict,
	}
}

// NewUnauthorizedError creates a 401 error.
func NewUnauthorizedError(message, correlationID string) *Error {
	return &Error{
		Message:       message,
		CorrelationID: correlationID,
		Category:      CategoryUnauthorized,
	}
}

// WriteError writes an Error as a JSON response with the given HTTP status code.
func WriteError(w http.ResponseWriter, statusCode int, apiErr *Error) {
	WriteJSON(w, statusCode, apiErr)
}

// BadRequest writes a 400 validation error.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, http.StatusBadRequest, NewValidationError(message, CorrelationID(r.Context()), nil))
}

// NotFound writes a 404 error.
func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, http.StatusNotFound, NewNotFoundError(message, CorrelationID(r.Context())))
}

// StoreError maps an error returned by the store onto a response. Validation
// failures become 400, store.ErrNotFound becomes 404 with notFound as the
// message, store.ErrConflict 409. Anything else is logged and reported as a
// 500 carrying the raw error text.
func StoreError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	corrID := CorrelationID(r.Context())

	var missing *domain.MissingFieldsError
	var invalid *domain.ValidationError
	switch {
	case errors.As(err, &missing):
		details := make([]ErrorDetail, 0, len(missing.Fields))
		for _, f := range missing.Fields {
			details = append(details, ErrorDetail{Field: f, Message: "required"})
		}
		WriteError(w, http.StatusBadRequest, NewValidationError(missing.Error(), corrID, details))
	case errors.As(err, &invalid):
		var details []ErrorDetail
		if invalid.Field != "" {
			details = []ErrorDetail{{Field: invalid.Field, Message: invalid.Message}}
		}
		WriteError(w, http.StatusBadRequest, NewValidationError(invalid.Message, corrID, details))
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, http.StatusNotFound, NewNotFoundError(notFound, corrID))
	case errors.Is(err, store.ErrConflict):
		WriteError(w, http.StatusConflict, NewConflictError(err.Error(), corrID))
	default:
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"correlationId", corrID,
		)
		WriteError(w, http.StatusInternalServerError, &Error{
			Message:       err.Error(),
			CorrelationID: corrID,
			Category:      CategoryInternal,
		})
	}
}
