// Package opcode defines the instruction stream of a compiled Trust program.
// This package is the foundation that both the statement processor and the
// IR emitter depend on: the processor records instructions in source order,
// and the emitter replays them inside the synthetic entry function.
package opcode

import (
	"fmt"
	"strings"

	"github.com/zurustar/trustc/pkg/compiler/symbols"
)

// Cmd represents an instruction type.
type Cmd string

const (
	// Print writes one line of text.
	// Text: the rendered output, without the trailing newline
	Print Cmd = "Print"

	// Call invokes a user-defined function.
	// Function: the callee name; Args: the lowered arguments in order
	Call Cmd = "Call"
)

// OpCode represents a single entry of the instruction stream.
type OpCode struct {
	Cmd      Cmd
	Text     string // Print payload
	Function string // Call target
	Args     []Arg  // Call arguments
	Line     int    // Source line that produced the instruction
}

// NewPrint creates a Print instruction.
func NewPrint(text string, line int) OpCode {
	return OpCode{Cmd: Print, Text: text, Line: line}
}

// NewCall creates a Call instruction.
func NewCall(function string, args []Arg, line int) OpCode {
	return OpCode{Cmd: Call, Function: function, Args: args, Line: line}
}

// String returns a short human readable form, used in debug logs.
func (op OpCode) String() string {
	switch op.Cmd {
	case Print:
		return fmt.Sprintf("Print(%q)", op.Text)
	case Call:
		parts := make([]string, len(op.Args))
		for i, a := range op.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("Call(%s, [%s])", op.Function, strings.Join(parts, ", "))
	default:
		return string(op.Cmd)
	}
}

// Arg is a call argument lowered to a constant of the parameter's IR type.
type Arg struct {
	Type   symbols.ParamType
	Int    int32   // IntegerParam
	Bool   bool    // BoolParam
	Global *Global // StringParam: the constant holding the literal
}

// IntArg creates an Integer argument.
func IntArg(v int32) Arg {
	return Arg{Type: symbols.IntegerParam, Int: v}
}

// BoolArg creates a Bool argument.
func BoolArg(v bool) Arg {
	return Arg{Type: symbols.BoolParam, Bool: v}
}

// StringArg creates a String argument referring to a global constant.
func StringArg(g *Global) Arg {
	return Arg{Type: symbols.StringParam, Global: g}
}

// String returns a short human readable form.
func (a Arg) String() string {
	switch a.Type {
	case symbols.StringParam:
		if a.Global == nil {
			return "String(<nil>)"
		}
		return fmt.Sprintf("String(@%s)", a.Global.Name)
	case symbols.BoolParam:
		return fmt.Sprintf("Bool(%t)", a.Bool)
	default:
		return fmt.Sprintf("Integer(%d)", a.Int)
	}
}

// Formatted renders the literal payload of a string that is handed to
// printf as its format: '%' is doubled and exactly one trailing newline is
// ensured.
func Formatted(text string) string {
	text = strings.ReplaceAll(text, "%", "%%")
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text
}
