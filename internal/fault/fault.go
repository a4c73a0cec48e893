// Package fault classifies the failures that can occur while scoring resumes.
//
// Components return plain errors wrapped in *Error so that callers can decide
// on a recovery value with errors.Is against one of the kinds below.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrInputUnavailable marks a document that could not be read or extracted.
	ErrInputUnavailable = errors.New("input unavailable")
	// ErrServiceUnavailable marks an AI or embedding call that failed after retries.
	ErrServiceUnavailable = errors.New("external service unavailable")
	// ErrInternal marks an unexpected failure inside a computation.
	ErrInternal = errors.New("internal computation error")
)

// Error carries the operation that failed together with its kind.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Input wraps err as an input-unavailable failure of op.
func Input(op string, err error) error {
	return &Error{Kind: ErrInputUnavailable, Op: op, Err: err}
}

// Service wraps err as a service-unavailable failure of op.
func Service(op string, err error) error {
	return &Error{Kind: ErrServiceUnavailable, Op: op, Err: err}
}

// Internal wraps err as an internal failure of op.
func Internal(op string, err error) error {
	return &Error{Kind: ErrInternal, Op: op, Err: err}
}

// Recover converts a panic into an internal error stored in errp. It must be
// deferred directly:
//
//	defer fault.Recover("score", &err)
func Recover(op string, errp *error) {
	if r := recover(); r != nil {
		*errp = Internal(op, fmt.Errorf("panic: %v", r))
	}
}

// Kind reports which of the known kinds err belongs to, or nil.
func Kind(err error) error {
	for _, kind := range []error{ErrInputUnavailable, ErrServiceUnavailable, ErrInternal} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
