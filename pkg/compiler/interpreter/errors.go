package interpreter

import (
	"errors"
	"fmt"

	"github.com/zurustar/trustc/pkg/compiler/symbols"
)

// StatementError attaches the offending source line to an error raised while
// processing or lowering a statement.
type StatementError struct {
	Line int    // 1-indexed line number
	Text string // Original line text
	Err  error
}

// NewStatementError wraps err with the position of line. An error that
// already carries a position is returned unchanged.
func NewStatementError(line symbols.Line, err error) *StatementError {
	var se *StatementError
	if errors.As(err, &se) {
		return se
	}
	return &StatementError{Line: line.Number, Text: line.Raw, Err: err}
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}
