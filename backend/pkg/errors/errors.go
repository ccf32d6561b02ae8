package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInvalidHandle represents a handle that is empty, too long or contains whitespace
	ErrorTypeInvalidHandle ErrorType = "invalid_handle"
	// ErrorTypeHandleTaken represents a handle already held by a live account
	ErrorTypeHandleTaken ErrorType = "handle_taken"
	// ErrorTypeAccountNotFound represents a handle or id with no live account
	ErrorTypeAccountNotFound ErrorType = "account_not_found"
	// ErrorTypeInvalidContent represents a message that is empty or too long
	ErrorTypeInvalidContent ErrorType = "invalid_content"
	// ErrorTypeTargetNotFound represents a reply or endorsement target that is not a live post or comment
	ErrorTypeTargetNotFound ErrorType = "target_not_found"
	// ErrorTypeNotActionable represents an action aimed at an endorsement
	ErrorTypeNotActionable ErrorType = "not_actionable"
	// ErrorTypeContentNotFound represents an unknown or already removed content id
	ErrorTypeContentNotFound ErrorType = "content_not_found"
	// ErrorTypePersistence represents snapshot save/load failures
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a BaseError of the same type, so that every
// constructed error matches its kind sentinel through errors.Is.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Kind sentinels, one per ErrorType. Compare with errors.Is.
var (
	ErrInvalidHandle   = NewBaseError(ErrorTypeInvalidHandle, "invalid handle", nil)
	ErrHandleTaken     = NewBaseError(ErrorTypeHandleTaken, "handle already in use", nil)
	ErrAccountNotFound = NewBaseError(ErrorTypeAccountNotFound, "account not found", nil)
	ErrInvalidContent  = NewBaseError(ErrorTypeInvalidContent, "invalid content", nil)
	ErrTargetNotFound  = NewBaseError(ErrorTypeTargetNotFound, "target not found", nil)
	ErrNotActionable   = NewBaseError(ErrorTypeNotActionable, "content is not actionable", nil)
	ErrContentNotFound = NewBaseError(ErrorTypeContentNotFound, "content not found", nil)
	ErrPersistence     = NewBaseError(ErrorTypePersistence, "persistence failure", nil)
)

// Account Errors

// ErrInvalidHandleValue is returned when a handle fails format validation
type ErrInvalidHandleValue struct {
	*BaseError
	Handle string
	Reason string
}

func NewInvalidHandle(handle, reason string) *ErrInvalidHandleValue {
	return &ErrInvalidHandleValue{
		BaseError: NewBaseError(ErrorTypeInvalidHandle, fmt.Sprintf("invalid handle %q: %s", handle, reason), nil),
		Handle:    handle,
		Reason:    reason,
	}
}

// ErrHandleInUse is returned when a live account already holds the handle
type ErrHandleInUse struct {
	*BaseError
	Handle string
}

func NewHandleTaken(handle string) *ErrHandleInUse {
	return &ErrHandleInUse{
		BaseError: NewBaseError(ErrorTypeHandleTaken, fmt.Sprintf("handle already in use: %s", handle), nil),
		Handle:    handle,
	}
}

// ErrAccountMissing is returned when no live account matches a handle or id.
// Exactly one of Handle or ID is set.
type ErrAccountMissing struct {
	*BaseError
	Handle string
	ID     int
}

func NewAccountNotFound(handle string) *ErrAccountMissing {
	return &ErrAccountMissing{
		BaseError: NewBaseError(ErrorTypeAccountNotFound, fmt.Sprintf("account not found: %s", handle), nil),
		Handle:    handle,
	}
}

func NewAccountIDNotFound(id int) *ErrAccountMissing {
	return &ErrAccountMissing{
		BaseError: NewBaseError(ErrorTypeAccountNotFound, fmt.Sprintf("account not found: id %d", id), nil),
		ID:        id,
	}
}

// Content Errors

// ErrInvalidMessage is returned when a post or comment message is rejected
type ErrInvalidMessage struct {
	*BaseError
	Length int
	Reason string
}

func NewInvalidContent(length int, reason string) *ErrInvalidMessage {
	return &ErrInvalidMessage{
		BaseError: NewBaseError(ErrorTypeInvalidContent, fmt.Sprintf("invalid message (%d characters): %s", length, reason), nil),
		Length:    length,
		Reason:    reason,
	}
}

// ErrTargetMissing is returned when a comment parent or endorsement target
// does not resolve to a live post or comment
type ErrTargetMissing struct {
	*BaseError
	ID int
}

func NewTargetNotFound(id int) *ErrTargetMissing {
	return &ErrTargetMissing{
		BaseError: NewBaseError(ErrorTypeTargetNotFound, fmt.Sprintf("no live post or comment with id %d", id), nil),
		ID:        id,
	}
}

// ErrEndorsementNotActionable is returned when an endorsement is commented,
// endorsed or asked for its reply tree
type ErrEndorsementNotActionable struct {
	*BaseError
	ID     int
	Action string
}

func NewNotActionable(id int, action string) *ErrEndorsementNotActionable {
	return &ErrEndorsementNotActionable{
		BaseError: NewBaseError(ErrorTypeNotActionable, fmt.Sprintf("content %d is an endorsement and cannot be %s", id, action), nil),
		ID:        id,
		Action:    action,
	}
}

// ErrContentMissing is returned when an id does not resolve to content
type ErrContentMissing struct {
	*BaseError
	ID int
}

func NewContentNotFound(id int) *ErrContentMissing {
	return &ErrContentMissing{
		BaseError: NewBaseError(ErrorTypeContentNotFound, fmt.Sprintf("content not found: %d", id), nil),
		ID:        id,
	}
}

// Persistence Errors

// ErrPersistenceFailed wraps a failure reported by a snapshot store or a
// snapshot rejected on load
type ErrPersistenceFailed struct {
	*BaseError
	Operation string
}

func NewPersistenceFailure(operation string, err error) *ErrPersistenceFailed {
	return &ErrPersistenceFailed{
		BaseError: NewBaseError(ErrorTypePersistence, fmt.Sprintf("%s failed", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// TypeOf returns the ErrorType of the first BaseError in err's chain.
func TypeOf(err error) (ErrorType, bool) {
	for err != nil {
		if holder, ok := err.(interface{ base() *BaseError }); ok {
			return holder.base().Type, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return "", false
		}
		err = unwrapper.Unwrap()
	}
	return "", false
}

func (e *BaseError) base() *BaseError { return e }

// Is and As forward to the standard library so callers need only this package
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

// New returns a plain error with the given text
func New(text string) error { return stderrors.New(text) }

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	t, ok := TypeOf(err)
	return ok && t == errType
}

// IsRetryable checks if an error is retryable. Graph errors describe the
// request itself and fail the same way on every attempt; only a store
// failure may clear up on its own.
func IsRetryable(err error) bool {
	return IsErrorType(err, ErrorTypePersistence)
}
