package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = New(
		CodeUnauthorized,
		"Unauthorized",
		http.StatusUnauthorized,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)
)

// Storage wraps a database failure so callers surface it as a 500.
func Storage(err error) *AppError {
	return Wrap(err, CodeStorageError, "Storage operation failed", http.StatusInternalServerError)
}

func RequiredField(field string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("%s is required", field), http.StatusBadRequest)
}

func InvalidField(field string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("%s is invalid", field), http.StatusBadRequest)
}
