package errors

import "fmt"

// ErrorCode represents a hawkd error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrUnknownAction  ErrorCode = "UNKNOWN_ACTION"  // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrCooldown       ErrorCode = "COOLDOWN"        // 429
	ErrTimeout        ErrorCode = "TIMEOUT"         // 504
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// HawkError represents a structured error with code, status, and details.
type HawkError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *HawkError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *HawkError {
	return &HawkError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnknownAction creates a 400 error for an unrecognized action value.
// Every request gets a response; unmatched actions must not hang the caller.
func NewUnknownAction(action string) *HawkError {
	return &HawkError{
		Code:    ErrUnknownAction,
		Status:  400,
		Message: fmt.Sprintf("unknown action: %s", action),
		Details: map[string]any{"action": action},
	}
}

// NewNotFound creates a 404 error for when a saved post cannot be found.
func NewNotFound(id string) *HawkError {
	return &HawkError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("saved post not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewCooldown creates a 429 error for capture/download rate limiting.
func NewCooldown(msg string) *HawkError {
	return &HawkError{
		Code:    ErrCooldown,
		Status:  429,
		Message: msg,
	}
}

// NewTimeout creates a 504 error when creative processing exceeds the ceiling.
func NewTimeout(platform string) *HawkError {
	return &HawkError{
		Code:    ErrTimeout,
		Status:  504,
		Message: "Processing timeout",
		Details: map[string]any{"platform": platform},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *HawkError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &HawkError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a HawkError with the given code.
func Is(err error, code ErrorCode) bool {
	if hErr, ok := err.(*HawkError); ok {
		return hErr.Code == code
	}
	return false
}
