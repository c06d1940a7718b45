package diag

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "syntax",
			err:      Syntax("find '=' in %s declaration", "Integer"),
			contains: []string{"SYNTAX_ERROR", "find '=' in Integer declaration"},
		},
		{
			name:     "undefined",
			err:      Undefined("variable", "x"),
			contains: []string{"UNDEFINED_REFERENCE", "variable 'x'"},
		},
		{
			name:     "bounds",
			err:      OutOfBounds("arr", 3, 3),
			contains: []string{"BOUNDS_ERROR", "'arr'", "at 3", "length 3"},
		},
		{
			name:     "arity",
			err:      Arity("f", 1, 0),
			contains: []string{"ARITY_ERROR", "expected 1", "got 0"},
		},
		{
			name:     "wrapped",
			err:      Wrap(SourceIOError, errors.New("permission denied"), "read %s", "a.trust"),
			contains: []string{"SOURCE_IO_ERROR", "read a.trust", "permission denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, want it to contain %q", msg, want)
				}
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	base := TypeMismatch("use string 's' as a number")
	wrapped := fmt.Errorf("line 3: %w", base)

	if got := KindOf(wrapped); got != TypeMismatchError {
		t.Errorf("KindOf(wrapped) = %q, want %q", got, TypeMismatchError)
	}
	if !Is(wrapped, TypeMismatchError) {
		t.Error("Is(wrapped, TypeMismatchError) = false")
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ToolchainError, cause, "compile native executable")
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the underlying cause")
	}
}
