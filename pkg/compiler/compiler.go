// Package compiler provides the compilation pipeline for Trust source files.
// It transforms source code into textual LLVM IR through two phases:
// 1. Statement pass: folds module-level statements and registers functions
// 2. Codegen: lowers function bodies and emits the IR module
//
// This package provides a unified API for compiling Trust programs:
// - Compile: Compiles a source code string to IR
// - CompileWithOptions: Compiles with additional options
// - CompileScript: Compiles a script loaded by the script package
// - CompileFile: Compiles a file (handles Shift-JIS encoding)
package compiler

import (
	"github.com/zurustar/trustc/pkg/compiler/codegen"
	"github.com/zurustar/trustc/pkg/compiler/diag"
	"github.com/zurustar/trustc/pkg/compiler/interpreter"
	"github.com/zurustar/trustc/pkg/script"
)

// CompileOptions provides configuration options for compilation.
type CompileOptions struct {
	// CollectErrors reports every failing statement instead of stopping at
	// the first one. No IR is produced either way when an error occurred.
	CollectErrors bool

	// ModuleID names the emitted module. Defaults to codegen.DefaultModuleID.
	ModuleID string

	// TargetTriple is written to the module when not empty.
	TargetTriple string
}

// Result is the output of a successful compilation.
type Result struct {
	IR      string               // Complete IR module text
	Program *interpreter.Program // Statement pass result, for diagnostics
}

// Compile compiles source code to IR with default options.
//
// Returns:
//   - *Result: The compiled module (nil on failure)
//   - []error: *CompileError values (empty if successful)
func Compile(source string) (*Result, []error) {
	return CompileWithOptions(source, CompileOptions{})
}

// CompileWithOptions compiles source code with additional options.
func CompileWithOptions(source string, opts CompileOptions) (*Result, []error) {
	return CompileScript(script.FromString("", source), opts)
}

// CompileFile compiles a file to IR with default options.
func CompileFile(path string) (*Result, []error) {
	return CompileFileWithOptions(path, CompileOptions{})
}

// CompileFileWithOptions reads a file, converting Shift-JIS to UTF-8 when
// needed, and compiles its content.
func CompileFileWithOptions(path string, opts CompileOptions) (*Result, []error) {
	s, err := script.Load(path)
	if err != nil {
		return nil, []error{WrapError(diag.Wrap(diag.SourceIOError, err, "read source file %s", path), PhaseLoad, "")}
	}
	return CompileScript(s, opts)
}

// CompileScript runs the statement pass and the IR emitter over a loaded
// script. The pipeline stops after the statement pass if it reported errors.
func CompileScript(s *script.Script, opts CompileOptions) (*Result, []error) {
	in := interpreter.NewInterpreter(interpreter.Options{CollectErrors: opts.CollectErrors})
	prog, errs := in.Interpret(s.Lines)
	if len(errs) > 0 {
		return nil, CollectErrors(errs, PhaseStatement, s.Content)
	}

	g := codegen.New(codegen.Options{
		ModuleID:      opts.ModuleID,
		TargetTriple:  opts.TargetTriple,
		CollectErrors: opts.CollectErrors,
	})
	ir := g.Generate(prog)
	if errs := g.Errors(); len(errs) > 0 {
		return nil, CollectErrors(errs, PhaseCodegen, s.Content)
	}

	return &Result{IR: ir, Program: prog}, nil
}
