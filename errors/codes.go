package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection/Availability errors (retryable)
const (
	// ErrCodeConnectionFailed indicates the kvrest service could not be reached.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeCanceled indicates the caller abandoned the request.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the bucket or key was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Authentication errors
const (
	// ErrCodeUnauthorized indicates the API key or master key was rejected.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected client-side failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeExternalService indicates the kvrest service answered with a failure.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	// ErrCodeUndecodable indicates a success response whose body was not JSON.
	ErrCodeUndecodable ErrorCode = "UNDECODABLE_RESPONSE"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
	ErrCodeExternalService:  true,
	ErrCodeInternal:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// The kvrest client never retries on its own; callers may use this hint.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsInputCode reports whether the code describes a caller mistake.
func IsInputCode(code ErrorCode) bool {
	return code == ErrCodeInvalidInput || code == ErrCodeMissingField
}
