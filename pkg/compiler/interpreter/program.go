package interpreter

import (
	"github.com/zurustar/trustc/pkg/compiler/symbols"
	"github.com/zurustar/trustc/pkg/opcode"
)

// Program is the result of the statement pass over a whole source file.
type Program struct {
	Scope        *symbols.Scope         // Final module scope
	Functions    *symbols.FunctionTable // Declared functions
	Instructions []opcode.OpCode        // Entry instructions in source order
	Pool         *opcode.Pool           // String constants allocated so far
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{
		Scope:        symbols.NewScope(nil),
		Functions:    symbols.NewFunctionTable(),
		Instructions: []opcode.OpCode{},
		Pool:         opcode.NewPool(),
	}
}
