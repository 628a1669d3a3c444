package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/classreg/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidField         = "INVALID_FIELD"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInvalidPassword      = "INVALID_PASSWORD"
	CodeClassNotFound        = "CLASS_NOT_FOUND"
	CodeChildNotFound        = "CHILD_NOT_FOUND"
	CodeSessionNotFound      = "SESSION_NOT_FOUND"
	CodeRegistrationConflict = "REGISTRATION_CONFLICT"
	CodeAlreadySubmitted     = "ALREADY_SUBMITTED"
	CodeNothingToSubmit      = "NOTHING_TO_SUBMIT"
	CodeStoreReadFailed      = "STORE_READ_FAILED"
	CodeStoreWriteFailed     = "STORE_WRITE_FAILED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// IncorrectPasswordMessage is shown when admin login fails
const IncorrectPasswordMessage = "Incorrect password. Please try again."

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrRegistrationConflict):
		// The conflict message names the child and period
		return &httpError{http.StatusConflict, APIError{CodeRegistrationConflict, err.Error()}}
	case errors.Is(err, model.ErrAlreadySubmitted):
		return &httpError{http.StatusConflict, APIError{CodeAlreadySubmitted, "Registration already submitted"}}
	case errors.Is(err, model.ErrNothingToSubmit):
		return &httpError{http.StatusBadRequest, APIError{CodeNothingToSubmit, "Add at least one child with a first and last name"}}
	case errors.Is(err, model.ErrClassNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeClassNotFound, "Class not found"}}
	case errors.Is(err, model.ErrChildNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeChildNotFound, "Child not found"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Registration session not found"}}
	case errors.Is(err, model.ErrInvalidField),
		errors.Is(err, model.ErrInvalidPeriod),
		errors.Is(err, model.ErrInvalidAgeRange),
		errors.Is(err, model.ErrInvalidIcon):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidField, err.Error()}}
	case errors.Is(err, model.ErrInvalidPassword):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidPassword, IncorrectPasswordMessage}}
	case errors.Is(err, model.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired admin token"}}

	// Map store errors
	case errors.Is(err, model.ErrStoreWrite):
		return &httpError{http.StatusBadGateway, APIError{CodeStoreWriteFailed, "Failed to save changes. Please try again."}}
	case errors.Is(err, model.ErrStoreRead):
		return &httpError{http.StatusBadGateway, APIError{CodeStoreReadFailed, "Failed to load data. Please try again."}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Admin token required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
