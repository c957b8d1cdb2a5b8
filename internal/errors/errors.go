package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrTransactionNotFound is returned when a transaction is missing or
	// owned by another user. The two cases are deliberately indistinguishable.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidTransactionType is returned when the type is outside {income, expense}.
	ErrInvalidTransactionType = errors.New("transaction type must be income or expense")
	// ErrInvalidAmount is returned when the amount is negative.
	ErrInvalidAmount = errors.New("amount must not be negative")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrTransactionNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "TRANSACTION_NOT_FOUND")
	case ErrInvalidTransactionType:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	case ErrInvalidAmount:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
