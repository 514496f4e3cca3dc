package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"

	// Server errors (5xx)
	CodeStorageError  = "STORAGE_ERROR"
	CodeInternalError = "INTERNAL_ERROR"
)
