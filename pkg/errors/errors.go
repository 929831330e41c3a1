// Package errors provides structured error handling for the Verve runtime.
package errors

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindIdentity indicates an operation on a released entity, a failed
	// weak upgrade, or a type-tag mismatch on downcast. Always recoverable.
	KindIdentity
	// KindReentrancy indicates mutable access to an entity already being
	// mutated. A programming error, surfaced as a panic.
	KindReentrancy
	// KindCapacity indicates an arena allocation exceeding its backing
	// capacity. Recoverable by growing the arena or rejecting the frame.
	KindCapacity
	// KindResource indicates a platform-level failure reported to the
	// caller. Never retried internally.
	KindResource
)

func (k ErrorKind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindReentrancy:
		return "reentrancy"
	case KindCapacity:
		return "capacity"
	case KindResource:
		return "resource"
	default:
		return "unknown"
	}
}

// Sentinel errors for the recoverable failure modes.
var (
	// ErrReleased reports an operation on an entity whose last strong
	// handle has been dropped.
	ErrReleased = errors.New("entity released")
	// ErrTypeMismatch reports a downcast of a type-erased handle to the
	// wrong type.
	ErrTypeMismatch = errors.New("type tag mismatch")
	// ErrArenaFull reports an allocation exceeding the arena's remaining
	// capacity.
	ErrArenaFull = errors.New("arena capacity exceeded")
	// ErrNoGlobal reports a read of a global that was never set and has no
	// default.
	ErrNoGlobal = errors.New("global not present")
)

// UIError represents a structured error in the Verve runtime.
type UIError struct {
	// Op is the operation that failed (e.g., "entity.Read").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
}

func (e *UIError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *UIError) Unwrap() error {
	return e.Err
}

// New wraps err with an operation name and kind.
func New(op string, kind ErrorKind, err error) *UIError {
	return &UIError{Op: op, Kind: kind, Err: err}
}

// Identity builds a recoverable identity error.
func Identity(op string, err error) *UIError {
	return New(op, KindIdentity, err)
}

// Capacity builds a recoverable capacity error.
func Capacity(op string, err error) *UIError {
	return New(op, KindCapacity, err)
}

// Resource builds a platform resource error.
func Resource(op string, err error) *UIError {
	return New(op, KindResource, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
