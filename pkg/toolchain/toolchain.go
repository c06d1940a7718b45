// Package toolchain runs the external native compiler that turns the
// emitted IR into an executable.
package toolchain

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/zurustar/trustc/pkg/compiler/diag"
)

// DefaultCompiler is used when neither the command line nor the
// configuration names a compiler.
const DefaultCompiler = "clang"

// Compiler is an external compiler invoked as
// `<Path> <Flags...> <ir> -o <output>`.
type Compiler struct {
	Path  string
	Flags []string

	// Child output is forwarded here. Nil means the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a Compiler that forwards its output to the process streams.
func New(path string, flags []string) *Compiler {
	if path == "" {
		path = DefaultCompiler
	}
	return &Compiler{
		Path:   path,
		Flags:  flags,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Args returns the arguments passed to the compiler for one build.
func (c *Compiler) Args(irPath, outPath string) []string {
	args := make([]string, 0, len(c.Flags)+3)
	args = append(args, c.Flags...)
	return append(args, irPath, "-o", outPath)
}

// Build compiles irPath into the executable outPath.
// A compiler that cannot be started or exits non-zero yields a
// ToolchainError.
func (c *Compiler) Build(ctx context.Context, irPath, outPath string) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args(irPath, outPath)...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return diag.Wrap(diag.ToolchainError, err, "build %s with %s (exit code %d)", outPath, c.Path, exitErr.ExitCode())
		}
		return diag.Wrap(diag.ToolchainError, err, "start native compiler %s", c.Path)
	}
	return nil
}

// Available reports whether the compiler executable can be found.
func (c *Compiler) Available() bool {
	_, err := exec.LookPath(c.Path)
	return err == nil
}
