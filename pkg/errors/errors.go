// Package errors provides structured error types for the dockworks engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The dock taxonomy covers every way a placement can be refused:
//   - DOCK_FULL: the dock has no spare capacity
//   - SLOT_COLLISION: the requested slot is owned by another icon or drawer
//   - NO_ON_SCREEN_SLOT: no candidate slot lies inside a screen head
//   - OUT_OF_REACH: the pointer is too far from any acceptable slot
//   - UNRESOLVED_COMMAND: the icon has no launch command and none was supplied
//   - OMNIPRESENT_COLLISION: an icon cannot be replicated to every clip
//   - CORRUPT_PERSISTED_RECORD: a saved record could not be restored
//
// Placement errors are recoverable: the drag is rejected and the icon
// returns to where it was. Persisted-record errors skip one record only.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDockFull, "dock %s holds %d icons", id, n)
//	if errors.Is(err, errors.ErrCodeDockFull) {
//	    // Reject the drop
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "failed to load %s", key)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Placement errors
	ErrCodeDockFull             Code = "DOCK_FULL"
	ErrCodeSlotCollision        Code = "SLOT_COLLISION"
	ErrCodeNoOnScreenSlot       Code = "NO_ON_SCREEN_SLOT"
	ErrCodeOutOfReach           Code = "OUT_OF_REACH"
	ErrCodeUnresolvedCommand    Code = "UNRESOLVED_COMMAND"
	ErrCodeOmnipresentCollision Code = "OMNIPRESENT_COLLISION"
	ErrCodeNotApplicable        Code = "NOT_APPLICABLE"

	// Persistence errors
	ErrCodeCorruptRecord Code = "CORRUPT_PERSISTED_RECORD"
	ErrCodeStore         Code = "STORE_ERROR"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidName  Code = "INVALID_NAME"
	ErrCodeConfig       Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeDockNotFound Code = "DOCK_NOT_FOUND"
	ErrCodeIconNotFound Code = "ICON_NOT_FOUND"

	// Process errors
	ErrCodeLaunch Code = "LAUNCH_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsPlacement reports whether err is one of the recoverable placement
// refusals a drag handler swallows.
func IsPlacement(err error) bool {
	switch GetCode(err) {
	case ErrCodeDockFull, ErrCodeSlotCollision, ErrCodeNoOnScreenSlot, ErrCodeOutOfReach:
		return true
	}
	return false
}

// OmnipresentCause names why an icon could not be made omnipresent.
type OmnipresentCause string

const (
	CauseCollision OmnipresentCause = "collision"
	CauseCapacity  OmnipresentCause = "capacity"
)

// OmnipresentError provides the workspace and cause of a failed toggle.
type OmnipresentError struct {
	Cause     OmnipresentCause
	Workspace int
}

// Error implements the error interface.
func (e *OmnipresentError) Error() string {
	if e.Cause == CauseCapacity {
		return fmt.Sprintf("clip of workspace %d has no room for another icon", e.Workspace+1)
	}
	return fmt.Sprintf("icon position collides with an icon in workspace %d", e.Workspace+1)
}

// Code returns the error code for this error type.
func (e *OmnipresentError) Code() Code {
	return ErrCodeOmnipresentCollision
}
