package errors

import "fmt"

// ErrorCode represents a planboard error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"  // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"        // 404
	ErrReadOnly        ErrorCode = "READ_ONLY"        // 409
	ErrUnknownCategory ErrorCode = "UNKNOWN_CATEGORY" // 422
	ErrInternal        ErrorCode = "INTERNAL"         // 500
)

// BoardError represents a structured error with code, status, and details.
type BoardError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *BoardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *BoardError {
	return &BoardError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when an entity cannot be found.
func NewNotFound(id string) *BoardError {
	return &BoardError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("entity not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewReadOnly creates a 409 error for mutations against remote-sourced entities.
// The remote snapshot is refreshed wholesale; it is never edited or deleted here.
func NewReadOnly(id string) *BoardError {
	return &BoardError{
		Code:    ErrReadOnly,
		Status:  409,
		Message: fmt.Sprintf("entity %s comes from the remote snapshot and is read-only", id),
		Details: map[string]any{"id": id},
	}
}

// NewUnknownCategory creates a 422 error for a category outside the cost table
// of the given entity kind. Unknown categories fail loudly: silently defaulting
// a base cost would corrupt every cost comparison on the board.
func NewUnknownCategory(kind, category string) *BoardError {
	return &BoardError{
		Code:    ErrUnknownCategory,
		Status:  422,
		Message: fmt.Sprintf("unknown %s category: %q", kind, category),
		Details: map[string]any{"kind": kind, "category": category},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *BoardError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &BoardError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a BoardError with the given code.
func Is(err error, code ErrorCode) bool {
	if bErr, ok := err.(*BoardError); ok {
		return bErr.Code == code
	}
	return false
}
