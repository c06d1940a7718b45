// Package codegen emits textual LLVM IR for a processed Trust program.
//
// Module-level statements have already been folded by the statement pass, so
// the entry function is a straight replay of print and call instructions.
// Function bodies are lowered here, against a child scope of the final module
// scope, because their parameters are only known at run time.
package codegen

import (
	"fmt"
	"strings"

	"github.com/zurustar/trustc/pkg/compiler/interpreter"
	"github.com/zurustar/trustc/pkg/opcode"
)

// DefaultModuleID names the emitted module when no ID is configured.
const DefaultModuleID = "trust_module"

// Options controls IR emission.
type Options struct {
	ModuleID      string // Defaults to DefaultModuleID
	TargetTriple  string // Omitted from the module when empty
	CollectErrors bool   // Keep lowering the remaining functions after a failure
}

// Generator converts a Program to an LLVM IR module.
type Generator struct {
	opts   Options
	prog   *interpreter.Program
	pool   *opcode.Pool
	errors []error

	printsNumbers bool // Some function prints a runtime number
}

// New creates a new code generator.
func New(opts Options) *Generator {
	if opts.ModuleID == "" {
		opts.ModuleID = DefaultModuleID
	}
	return &Generator{opts: opts}
}

// Errors returns the generator errors. Each one is a
// *interpreter.StatementError pointing at a function body line.
func (g *Generator) Errors() []error {
	return g.errors
}

// Generate renders prog as a complete IR module. It returns an empty string
// when any function body fails to lower; see Errors.
// The program itself is left untouched, so Generate may be called again.
func (g *Generator) Generate(prog *interpreter.Program) string {
	g.prog = prog
	g.pool = prog.Pool.Clone()
	g.errors = nil
	g.printsNumbers = false

	var functions []string
	for _, fn := range prog.Functions.All() {
		text, err := g.lowerFunction(fn)
		if err != nil {
			g.errors = append(g.errors, err)
			if !g.opts.CollectErrors {
				return ""
			}
			continue
		}
		functions = append(functions, text)
	}
	if len(g.errors) > 0 {
		return ""
	}

	entry, err := g.entry()
	if err != nil {
		g.errors = append(g.errors, err)
		return ""
	}

	if g.printsNumbers {
		printer, err := g.numberPrinter()
		if err != nil {
			g.errors = append(g.errors, err)
			return ""
		}
		functions = append(functions, printer)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "; ModuleID = '%s'\n", g.opts.ModuleID)
	fmt.Fprintf(&b, "source_filename = \"%s\"\n", g.opts.ModuleID)
	if g.opts.TargetTriple != "" {
		fmt.Fprintf(&b, "target triple = \"%s\"\n", g.opts.TargetTriple)
	}
	b.WriteString("\ndeclare i32 @printf(ptr, ...)\n")
	if g.printsNumbers {
		b.WriteString(numberDecls)
	}

	if g.pool.Len() > 0 {
		b.WriteString("\n")
		for _, gl := range g.pool.Globals() {
			fmt.Fprintf(&b, "@%s = private unnamed_addr constant [%d x i8] c\"%s\"\n", gl.Name, gl.Len(), Escape(gl.Bytes))
		}
	}

	for _, text := range functions {
		b.WriteString("\n")
		b.WriteString(text)
	}
	b.WriteString("\n")
	b.WriteString(entry)
	return b.String()
}

// entry renders the synthetic entry function from the instruction stream.
func (g *Generator) entry() (string, error) {
	var b strings.Builder
	b.WriteString("define i32 @main() {\nentry:\n")

	printCount := 0
	for _, op := range g.prog.Instructions {
		switch op.Cmd {
		case opcode.Print:
			gl, err := g.pool.Add(fmt.Sprintf(".str.%d", printCount), opcode.Formatted(op.Text))
			if err != nil {
				return "", err
			}
			printCount++
			fmt.Fprintf(&b, "  call i32 (ptr, ...) @printf(ptr %s)\n", GEP(gl))

		case opcode.Call:
			args := make([]string, len(op.Args))
			for i, a := range op.Args {
				args[i] = constantArg(a)
			}
			fmt.Fprintf(&b, "  call void @%s(%s)\n", op.Function, strings.Join(args, ", "))

		default:
			return "", fmt.Errorf("unknown instruction %s at line %d", op.Cmd, op.Line)
		}
	}

	b.WriteString("  ret i32 0\n}\n")
	return b.String(), nil
}

func constantArg(a opcode.Arg) string {
	switch a.Type.IRType() {
	case "ptr":
		return "ptr " + GEP(a.Global)
	case "i1":
		return fmt.Sprintf("i1 %t", a.Bool)
	default:
		return fmt.Sprintf("i32 %d", a.Int)
	}
}

// GEP returns the constant expression addressing the first byte of gl.
func GEP(gl *opcode.Global) string {
	return fmt.Sprintf("getelementptr inbounds ([%d x i8], ptr @%s, i32 0, i32 0)", gl.Len(), gl.Name)
}
