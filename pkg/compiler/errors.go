// Package compiler provides the compilation pipeline for Trust source files.
// This file defines the CompileError type for structured error reporting.
package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zurustar/trustc/pkg/compiler/diag"
	"github.com/zurustar/trustc/pkg/compiler/interpreter"
)

// Phases that report a CompileError.
const (
	PhaseLoad      = "load"
	PhaseStatement = "statement"
	PhaseCodegen   = "codegen"
)

// CompileError represents a compilation error with the offending source line.
// It wraps the categorized *diag.Error produced by the phase.
type CompileError struct {
	// Phase indicates which compilation phase generated the error.
	Phase string

	// Kind is the error category.
	Kind diag.Kind

	// Message is the description, phrased to follow "unable to".
	Message string

	// Line is the 1-indexed line number where the error occurred.
	// Zero when the error is not tied to a line.
	Line int

	// Text is the exact source line, indentation included.
	Text string

	// Context contains up to 2 lines before and after the error line.
	Context string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var msg string
	if e.Line > 0 {
		msg = fmt.Sprintf("%s: Building failed on %d line: \"%s\" - unable to %s",
			e.Kind, e.Line, e.Text, e.Message)
	} else {
		msg = fmt.Sprintf("%s: Building failed - unable to %s", e.Kind, e.Message)
	}
	if e.Context != "" {
		return msg + "\n" + e.Context
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// IsCompileError checks if err is or wraps a *CompileError.
func IsCompileError(err error) (*CompileError, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// WrapError converts an error of the given phase to a *CompileError.
// Line information is taken from an *interpreter.StatementError in the chain;
// source, when not empty, is used to build the context excerpt.
func WrapError(err error, phase, source string) *CompileError {
	if ce, ok := IsCompileError(err); ok {
		return ce
	}

	ce := &CompileError{
		Phase:   phase,
		Kind:    diag.KindOf(err),
		Message: err.Error(),
		Err:     err,
	}

	var de *diag.Error
	if errors.As(err, &de) {
		ce.Message = de.Message
		if de.Err != nil {
			ce.Message = fmt.Sprintf("%s: %v", de.Message, de.Err)
		}
	}

	var se *interpreter.StatementError
	if errors.As(err, &se) {
		ce.Line = se.Line
		ce.Text = se.Text
		ce.Context = GenerateErrorContext(source, se.Line, 0)
	}
	return ce
}

// CollectErrors converts every error of a phase with WrapError.
func CollectErrors(errs []error, phase, source string) []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		out = append(out, WrapError(err, phase, source))
	}
	return out
}

// GenerateErrorContext generates source code context around an error location.
// It includes 2 lines before and 2 lines after the error line, with line numbers.
// A pointer (^) is added under the error column when column is positive.
//
// Example output:
//
//	  2 | Integer x = 5;
//	  3 | Integer y = 10;
//	> 4 | Integer z = ;
//	    |             ^
//	  5 | print(x);
//	  6 | print(y);
func GenerateErrorContext(source string, line, column int) string {
	if source == "" || line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	// A trailing newline does not start another line
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if line > len(lines) {
		return ""
	}

	// Calculate the range of lines to show (2 before and 2 after)
	start := line - 3
	if start < 0 {
		start = 0
	}
	end := line + 2
	if end > len(lines) {
		end = len(lines)
	}

	var buf strings.Builder

	// Calculate the width needed for line numbers
	lineNumWidth := len(fmt.Sprintf("%d", end))

	for i := start; i < end; i++ {
		lineNum := i + 1
		lineContent := strings.TrimSuffix(lines[i], "\r")

		if lineNum != line {
			buf.WriteString(fmt.Sprintf("  %*d | %s\n", lineNumWidth, lineNum, lineContent))
			continue
		}

		buf.WriteString(fmt.Sprintf("> %*d | %s\n", lineNumWidth, lineNum, lineContent))
		if column > 0 {
			buf.WriteString(fmt.Sprintf("  %s | %s^\n", strings.Repeat(" ", lineNumWidth), strings.Repeat(" ", column-1)))
		}
	}

	return buf.String()
}
