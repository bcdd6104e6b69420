// Package dberr defines the structured error type used across the storage
// layer. Every failure surfaces to the caller carrying a specific Kind; this
// layer never substitutes a null or empty result for a genuine failure.
package dberr

import (
	"fmt"
	"runtime"
	"strings"
)

// Kind classifies a storage error. Callers dispatch on Kind via Is / KindOf
// rather than matching message strings.
type Kind int

const (
	// KindUnknown is the zero Kind, used when wrapping foreign errors.
	KindUnknown Kind = iota

	// KindInvalidArgument means a caller passed an argument that can never be
	// valid, e.g. a page identity belonging to a different table.
	KindInvalidArgument

	// KindNotFound means a required resource is missing, e.g. the backing
	// store vanished between construction and read.
	KindNotFound

	// KindIOFailure means a read, seek or stat on the backing store failed,
	// including short reads of a page.
	KindIOFailure

	// KindEndOfSequence means an iterator was asked for a tuple past its end.
	KindEndOfSequence

	// KindNotImplemented marks declared operations that this milestone does
	// not support; signalled instead of silently returning an empty result.
	KindNotImplemented

	// KindTransactionAborted means the transaction owning the operation was
	// aborted, e.g. by deadlock resolution in the lock manager. It must
	// propagate unmasked to the scan's caller.
	KindTransactionAborted

	// KindPreconditionViolation means an operation was invoked in a state
	// that does not permit it, e.g. Next on an unopened iterator.
	KindPreconditionViolation
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindIOFailure:
		return "IO_FAILURE"
	case KindEndOfSequence:
		return "END_OF_SEQUENCE"
	case KindNotImplemented:
		return "NOT_IMPLEMENTED"
	case KindTransactionAborted:
		return "TRANSACTION_ABORTED"
	case KindPreconditionViolation:
		return "PRECONDITION_VIOLATION"
	default:
		return "UNKNOWN"
	}
}

// DBError is a structured storage error with context about where it arose.
type DBError struct {
	// Kind classifies the failure for programmatic handling.
	Kind Kind

	// Message is a human-readable description of what went wrong.
	Message string

	// Operation identifies the operation in flight, e.g. "ReadPage", "Scan".
	Operation string

	// Component identifies the component of origin, e.g. "HeapFile",
	// "PageStore".
	Component string

	// Cause is the underlying error, if any.
	Cause error

	// Stack is the call stack captured at creation, for debugging.
	Stack []uintptr
}

// New creates a DBError with the given kind and formatted message.
func New(kind Kind, format string, args ...any) *DBError {
	return &DBError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(),
	}
}

// Wrap attaches kind, operation and component context to an existing error.
// If err is already a DBError its kind is preserved and only missing context
// is filled in, so the original classification survives rewrapping.
func Wrap(err error, kind Kind, operation, component string) *DBError {
	if err == nil {
		return nil
	}

	if dbErr, ok := err.(*DBError); ok {
		if dbErr.Operation == "" {
			dbErr.Operation = operation
		}
		if dbErr.Component == "" {
			dbErr.Component = component
		}
		return dbErr
	}

	return &DBError{
		Kind:      kind,
		Message:   err.Error(),
		Operation: operation,
		Component: component,
		Cause:     err,
		Stack:     captureStack(),
	}
}

// WithOp returns the error annotated with operation and component context.
func (e *DBError) WithOp(operation, component string) *DBError {
	e.Operation = operation
	e.Component = component
	return e
}

// Error implements the error interface. Format:
//
//	[KIND] message (operation: Op, component: Comp) caused by: cause
func (e *DBError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Kind, e.Message))

	if e.Operation != "" {
		b.WriteString(fmt.Sprintf(" (operation: %s", e.Operation))
		if e.Component != "" {
			b.WriteString(fmt.Sprintf(", component: %s", e.Component))
		}
		b.WriteString(")")
	}

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(" caused by: %v", e.Cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause, enabling errors.Is / errors.As chains.
func (e *DBError) Unwrap() error {
	return e.Cause
}

// Is checks whether err (or anything it wraps) is a DBError of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf extracts the Kind from an error chain, or KindUnknown if no DBError
// is present.
func KindOf(err error) Kind {
	for err != nil {
		if dbErr, ok := err.(*DBError); ok {
			return dbErr.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindUnknown
		}
		err = u.Unwrap()
	}
	return KindUnknown
}

// FormatStack returns a human-readable stack trace for debugging.
func (e *DBError) FormatStack() string {
	if len(e.Stack) == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(e.Stack)

	b.WriteString("Stack trace:\n")
	for {
		f, more := frames.Next()
		b.WriteString(fmt.Sprintf("  %s\n    %s:%d\n", f.Function, f.File, f.Line))
		if !more {
			break
		}
	}

	return b.String()
}

// captureStack skips the frames of this package so the stack starts at the
// error's origin.
func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[0:n]
}
