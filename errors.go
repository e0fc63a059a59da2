// Package complexmul structured error types
package complexmul

import (
	"errors"
	"fmt"
)

// ErrorType represents categories of errors
type ErrorType int

const (
	// Invalid argument errors
	ErrTypeInvalidArg ErrorType = iota
	// Sequence length disagreements
	ErrTypeShape
	// Device discovery and selection errors
	ErrTypeDevice
	// Faults raised while a kernel runs on a device
	ErrTypeExecution
	// Device memory errors
	ErrTypeMemory
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Op      string      // Operation that failed
	Message string      // Human-readable message
	Err     error       // Underlying error if any
	Context interface{} // Additional context, e.g. the failing index
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("complexmul %s error in %s: %s (caused by: %v)",
			e.Type, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("complexmul %s error in %s: %s", e.Type, e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a category sentinel of the same type.
// Category sentinels carry no Op; sentinels with an Op only match
// themselves.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Type == e.Type
}

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeInvalidArg:
		return "InvalidArgument"
	case ErrTypeShape:
		return "ShapeMismatch"
	case ErrTypeDevice:
		return "Device"
	case ErrTypeExecution:
		return "Execution"
	case ErrTypeMemory:
		return "Memory"
	default:
		return "Unknown"
	}
}

// Common error constructors

// NewInvalidArgError creates an invalid argument error
func NewInvalidArgError(op string, message string) error {
	return &Error{
		Type:    ErrTypeInvalidArg,
		Op:      op,
		Message: message,
	}
}

// NewShapeError creates a sequence length mismatch error. The lengths are
// kept as context for diagnostics.
func NewShapeError(op string, lens ...int) error {
	return &Error{
		Type:    ErrTypeShape,
		Op:      op,
		Message: fmt.Sprintf("sequence lengths do not match: %v", lens),
		Context: lens,
	}
}

// NewDeviceError creates a device error
func NewDeviceError(op string, message string) error {
	return &Error{
		Type:    ErrTypeDevice,
		Op:      op,
		Message: message,
	}
}

// NewExecutionError creates an execution error. index is the work item that
// faulted, or -1 when the fault is not tied to a single item.
func NewExecutionError(op string, index int, err error) error {
	msg := "kernel execution failed"
	if index >= 0 {
		msg = fmt.Sprintf("kernel execution failed at index %d", index)
	}
	return &Error{
		Type:    ErrTypeExecution,
		Op:      op,
		Message: msg,
		Err:     err,
		Context: index,
	}
}

// Common pre-defined errors. Sentinels without an Op match any error of
// their category through errors.Is; the others match only themselves.

var (
	// ErrShapeMismatch indicates input and output lengths disagree
	ErrShapeMismatch = &Error{Type: ErrTypeShape, Message: "sequence lengths do not match"}

	// ErrNoUsableDevice indicates no enumerated device scored above zero.
	// Only device selection returns it; other device errors do not match.
	ErrNoUsableDevice = NewDeviceError("SelectDevice", "no usable device")

	// ErrTargetExecution indicates a fault on the device during a kernel
	ErrTargetExecution = &Error{Type: ErrTypeExecution, Message: "kernel execution failed"}

	// ErrBufferBusy indicates a buffer is already owned by a pending submission
	ErrBufferBusy = NewInvalidArgError("Accessor", "buffer is in use by another submission")

	// ErrQueueClosed indicates a submission to a closed queue
	ErrQueueClosed = NewInvalidArgError("Submit", "queue is closed")
)

// IsShapeError checks if an error is a length mismatch error
func IsShapeError(err error) bool {
	return isType(err, ErrTypeShape)
}

// IsDeviceError checks if an error is a device error
func IsDeviceError(err error) bool {
	return isType(err, ErrTypeDevice)
}

// IsExecutionError checks if an error is an execution error
func IsExecutionError(err error) bool {
	return isType(err, ErrTypeExecution)
}

// IsInvalidArgError checks if an error is an invalid argument error
func IsInvalidArgError(err error) bool {
	return isType(err, ErrTypeInvalidArg)
}

func isType(err error, t ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// FaultIndex returns the work item index recorded on an execution error.
func FaultIndex(err error) (int, bool) {
	var e *Error
	if !errors.As(err, &e) || e.Type != ErrTypeExecution {
		return 0, false
	}
	idx, ok := e.Context.(int)
	if !ok || idx < 0 {
		return 0, false
	}
	return idx, true
}
