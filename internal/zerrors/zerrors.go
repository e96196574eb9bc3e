// Package zerrors defines the error taxonomy used across Zephir's pipeline:
// I/O, Archive, Invocation, and Configuration failures (spec.md §7). Each
// kind is a distinct, comparable sentinel so callers can classify a failure
// with errors.Is without string-matching messages.
package zerrors

import (
	"errors"
	"fmt"
)

// Kind classifies a Zephir error into one of the taxonomy buckets spec.md
// §7 defines.
type Kind int

const (
	// KindIO covers filesystem and process I/O failures that aren't more
	// specifically an Archive or Invocation failure.
	KindIO Kind = iota
	// KindArchive covers bundle decode/encode failures, including the
	// invalid-input and permission-denied sanitizer classifications from
	// spec.md §4.1.
	KindArchive
	// KindInvocation covers artifact-execution failures (non-zero exit,
	// missing WASM export, Lua runtime error).
	KindInvocation
	// KindConfiguration covers malformed or missing configuration.
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindArchive:
		return "archive"
	case KindInvocation:
		return "invocation"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Reason further classifies an Archive error, matching spec.md §4.1's three
// sanitizer outcomes.
type Reason int

const (
	// ReasonNone is used when a Kind carries no finer-grained Reason.
	ReasonNone Reason = iota
	// ReasonInvalidInput marks an absolute path or a ".." path component
	// inside an archive entry.
	ReasonInvalidInput
	// ReasonPermissionDenied marks an archive entry whose sanitized path
	// would escape the destination root.
	ReasonPermissionDenied
	// ReasonOther marks errors that don't fit either of the above, such as
	// a symlink entry, which spec.md §4.1 rejects outright.
	ReasonOther
)

// Error is Zephir's wrapped error type. It carries a Kind (and, for Archive
// errors, a Reason) alongside the underlying cause.
type Error struct {
	Kind   Kind
	Reason Reason
	Op     string
	Err    error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, zerrors.KindArchive-shaped sentinel) style
// comparisons against a Kind-only template (Err/Op left zero).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Reason != ReasonNone && t.Reason != e.Reason {
		return false
	}
	return true
}

// IO wraps err as an I/O error.
func IO(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindIO, Op: op, Err: err}
}

// Archive wraps err as an archive error with the given Reason.
func Archive(op string, reason Reason, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindArchive, Reason: reason, Op: op, Err: err}
}

// Invocation wraps err as an invocation error.
func Invocation(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindInvocation, Op: op, Err: err}
}

// Configuration wraps err as a configuration error.
func Configuration(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindConfiguration, Op: op, Err: err}
}

// IsKind reports whether err is, or wraps, a *Error of the given Kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == k
}
