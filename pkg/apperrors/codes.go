package apperrors

// ErrorCode is the machine-readable kind echoed to clients next to the message.
type ErrorCode string

// Cross-cutting codes
const (
	// System
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeUnavailable   ErrorCode = "UNAVAILABLE"

	// Business logic
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeLimitExceeded    ErrorCode = "LIMIT_EXCEEDED"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"

	// Authorization
	CodeForbidden ErrorCode = "FORBIDDEN"
)
