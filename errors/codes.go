package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline construction errors
const (
	// ErrCodeInvalidStage indicates a stage was built with unusable arguments.
	ErrCodeInvalidStage ErrorCode = "INVALID_STAGE"
	// ErrCodeInvalidSignature indicates a function does not have the signature a stage expects.
	ErrCodeInvalidSignature ErrorCode = "INVALID_SIGNATURE"
	// ErrCodeInvalidRange indicates a range was built with out-of-bounds cursors.
	ErrCodeInvalidRange ErrorCode = "INVALID_RANGE"
)

// Misuse errors
const (
	// ErrCodeRangeExhausted indicates Next was called on a range with no values left.
	ErrCodeRangeExhausted ErrorCode = "RANGE_EXHAUSTED"
	// ErrCodeStreamConsumed indicates a stream handle was used after it was evaluated or moved.
	ErrCodeStreamConsumed ErrorCode = "STREAM_CONSUMED"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
