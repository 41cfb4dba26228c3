package window

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed window operation.
type ErrorKind int

const (
	// KindOSCall means the OS reported a failure for the call.
	KindOSCall ErrorKind = iota
	// KindInvalidHandle means the handle no longer names a live window.
	KindInvalidHandle
	// KindUnsupported means the backend cannot perform the operation.
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidHandle:
		return "invalid handle"
	case KindUnsupported:
		return "unsupported"
	default:
		return "os call"
	}
}

// ErrInvalidHandle matches any OpError of kind KindInvalidHandle.
var ErrInvalidHandle = errors.New("invalid window handle")

// OpError records a failed attribute operation on one window.
type OpError struct {
	Op     string
	Handle Handle
	Kind   ErrorKind
	Err    error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("window %s %s: %s", e.Handle, e.Op, e.Kind)
	}
	return fmt.Sprintf("window %s %s: %s: %v", e.Handle, e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrInvalidHandle) match invalid-handle failures.
func (e *OpError) Is(target error) bool {
	return target == ErrInvalidHandle && e.Kind == KindInvalidHandle
}

// NewOpError builds an OpError.
func NewOpError(op string, h Handle, kind ErrorKind, err error) *OpError {
	return &OpError{Op: op, Handle: h, Kind: kind, Err: err}
}

// KindOf returns the kind of err if it wraps an OpError, and false otherwise.
func KindOf(err error) (ErrorKind, bool) {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind, true
	}
	return 0, false
}
