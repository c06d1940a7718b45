// Package diag defines the error taxonomy shared by every trustc phase.
// Sub-packages of the compiler return *Error values; the compiler facade
// attaches the source line before handing them to the caller.
package diag

import (
	"errors"
	"fmt"
)

// Kind represents the category of a compilation failure.
type Kind string

const (
	// Invocation and I/O
	UsageError    Kind = "USAGE_ERROR"
	SourceIOError Kind = "SOURCE_IO_ERROR"

	// Source-level errors
	SyntaxError        Kind = "SYNTAX_ERROR"
	UndefinedReference Kind = "UNDEFINED_REFERENCE"
	TypeMismatchError  Kind = "TYPE_MISMATCH"
	BoundsError        Kind = "BOUNDS_ERROR"
	ArityError         Kind = "ARITY_ERROR"

	// External native compiler
	ToolchainError Kind = "TOOLCHAIN_ERROR"
)

// Error is a categorized failure. Message is phrased so that it reads
// naturally after "unable to".
type Error struct {
	Kind    Kind
	Message string
	Err     error // Underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Syntax creates a SyntaxError.
func Syntax(format string, args ...any) *Error {
	return New(SyntaxError, format, args...)
}

// Undefined creates an UndefinedReference error for the named entity.
func Undefined(what, name string) *Error {
	return New(UndefinedReference, "resolve %s '%s'", what, name)
}

// TypeMismatch creates a TypeMismatchError.
func TypeMismatch(format string, args ...any) *Error {
	return New(TypeMismatchError, format, args...)
}

// OutOfBounds creates a BoundsError for an array access.
func OutOfBounds(name string, index float64, length int) *Error {
	return New(BoundsError, "index array '%s' at %v (length %d)", name, index, length)
}

// Arity creates an ArityError for a call.
func Arity(function string, want, got int) *Error {
	return New(ArityError, "call '%s': expected %d argument(s), got %d", function, want, got)
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if
// there is none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
