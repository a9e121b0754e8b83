package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline lifecycle errors
const (
	// ErrCodeNotWired indicates a pipe was pulled before its consumes slot was set.
	ErrCodeNotWired ErrorCode = "NOT_WIRED"
	// ErrCodeWorkerPanic indicates an async worker goroutine panicked.
	ErrCodeWorkerPanic ErrorCode = "WORKER_PANIC"
)

// Validation errors
const (
	// ErrCodeInvalidConfig indicates a configuration value is invalid.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
