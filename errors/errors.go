package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code" yaml:"code"`
	// Message is a human-readable error message.
	Message string `json:"message" yaml:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-" yaml:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors ---

// InvalidStage reports a stage that cannot be built from its arguments.
func InvalidStage(stage, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidStage, Message: fmt.Sprintf("%s: %s", stage, reason),
		Details: map[string]any{"stage": stage},
	}
}

// InvalidSignature reports a function whose signature does not match what a stage expects.
func InvalidSignature(stage, want, got string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidSignature, Message: fmt.Sprintf("%s: want %s, got %s", stage, want, got),
		Details: map[string]any{"stage": stage, "want": want, "got": got},
	}
}

// InvalidRange reports cursors that fall outside the underlying sequence.
func InvalidRange(begin, end, length int) *AppError {
	return &AppError{
		Code: ErrCodeInvalidRange, Message: fmt.Sprintf("bounds [%d:%d] outside sequence of length %d", begin, end, length),
		Details: map[string]any{"begin": begin, "end": end, "length": length},
	}
}

// RangeExhausted reports a Next call on a range with no values left.
func RangeExhausted(kind string) *AppError {
	return &AppError{
		Code: ErrCodeRangeExhausted, Message: fmt.Sprintf("Next called on exhausted %s", kind),
		Details: map[string]any{"range": kind},
	}
}

// StreamConsumed reports an operation on a stream handle that was already evaluated or moved.
func StreamConsumed(op, by string) *AppError {
	return &AppError{
		Code: ErrCodeStreamConsumed, Message: fmt.Sprintf("%s called on a stream already consumed by %s", op, by),
		Details: map[string]any{"operation": op, "consumed_by": by},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		Details: details,
	}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Cause: cause,
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError carrying code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// FromPanic converts a recovered panic value into an AppError. Values that
// are not errors are wrapped as internal errors.
func FromPanic(r any) *AppError {
	switch v := r.(type) {
	case *AppError:
		return v
	case error:
		if appErr, ok := AsAppError(v); ok {
			return appErr
		}
		return Internal(v)
	default:
		return Internal(fmt.Errorf("%v", v))
	}
}
