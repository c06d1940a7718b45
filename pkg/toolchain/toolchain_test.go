package toolchain

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/zurustar/trustc/pkg/compiler/diag"
)

func lookPath(t *testing.T, name string) string {
	t.Helper()
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
	return path
}

func TestNew_Default(t *testing.T) {
	c := New("", nil)
	if c.Path != DefaultCompiler {
		t.Errorf("Path = %q, want %q", c.Path, DefaultCompiler)
	}
}

func TestArgs(t *testing.T) {
	c := New("clang", []string{"-O2", "-g"})
	got := c.Args("tmp/output.ll", "hello")
	want := []string{"-O2", "-g", "tmp/output.ll", "-o", "hello"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestBuild_Success(t *testing.T) {
	c := New(lookPath(t, "true"), nil)
	if err := c.Build(context.Background(), "in.ll", "out"); err != nil {
		t.Errorf("Build() error = %v", err)
	}
}

func TestBuild_NonZeroExit(t *testing.T) {
	c := New(lookPath(t, "false"), nil)
	err := c.Build(context.Background(), "in.ll", "out")
	if err == nil {
		t.Fatal("expected error")
	}
	if diag.KindOf(err) != diag.ToolchainError {
		t.Errorf("kind = %s, want %s", diag.KindOf(err), diag.ToolchainError)
	}
}

func TestBuild_MissingCompiler(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "no-such-cc"), nil)
	if c.Available() {
		t.Fatal("compiler should not be available")
	}
	err := c.Build(context.Background(), "in.ll", "out")
	if diag.KindOf(err) != diag.ToolchainError {
		t.Errorf("kind = %s, want %s", diag.KindOf(err), diag.ToolchainError)
	}
}

func TestBuild_ForwardsOutput(t *testing.T) {
	c := New(lookPath(t, "echo"), []string{"compiling"})
	var stdout bytes.Buffer
	c.Stdout = &stdout
	if err := c.Build(context.Background(), "in.ll", "out"); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := stdout.String(); got != "compiling in.ll -o out\n" {
		t.Errorf("stdout = %q", got)
	}
}
