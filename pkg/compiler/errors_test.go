package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/zurustar/trustc/pkg/compiler/diag"
	"github.com/zurustar/trustc/pkg/compiler/interpreter"
)

// TestCompileError_Error tests the Error() method of CompileError.
func TestCompileError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *CompileError
		want string
	}{
		{
			name: "with line",
			err: &CompileError{
				Phase:   PhaseStatement,
				Kind:    diag.SyntaxError,
				Message: "find ';' at end of Integer declaration",
				Line:    3,
				Text:    "    Integer x = 5",
			},
			want: `SYNTAX_ERROR: Building failed on 3 line: "    Integer x = 5" - unable to find ';' at end of Integer declaration`,
		},
		{
			name: "without line",
			err: &CompileError{
				Phase:   PhaseLoad,
				Kind:    diag.SourceIOError,
				Message: "read source file a.trust",
			},
			want: "SOURCE_IO_ERROR: Building failed - unable to read source file a.trust",
		},
		{
			name: "with context",
			err: &CompileError{
				Kind:    diag.UndefinedReference,
				Message: "resolve variable 'x'",
				Line:    1,
				Text:    "print(x);",
				Context: "> 1 | print(x);\n",
			},
			want: "UNDEFINED_REFERENCE: Building failed on 1 line: \"print(x);\" - unable to resolve variable 'x'\n> 1 | print(x);\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestWrapError tests that a statement error becomes a located CompileError.
func TestWrapError(t *testing.T) {
	source := "Integer a = 1;\nprint(b);\nprint(a);"
	cause := diag.Undefined("variable", "b")
	err := &interpreter.StatementError{Line: 2, Text: "print(b);", Err: cause}

	ce := WrapError(err, PhaseStatement, source)
	if ce.Phase != PhaseStatement {
		t.Errorf("Phase = %q, want %q", ce.Phase, PhaseStatement)
	}
	if ce.Kind != diag.UndefinedReference {
		t.Errorf("Kind = %q, want %q", ce.Kind, diag.UndefinedReference)
	}
	if ce.Message != "resolve variable 'b'" {
		t.Errorf("Message = %q", ce.Message)
	}
	if ce.Line != 2 || ce.Text != "print(b);" {
		t.Errorf("Line/Text = %d/%q", ce.Line, ce.Text)
	}
	if !strings.Contains(ce.Context, "> 2 | print(b);") {
		t.Errorf("Context = %q", ce.Context)
	}
	if !errors.Is(ce, cause) {
		t.Error("CompileError should unwrap to the diag error")
	}

	if again := WrapError(ce, PhaseCodegen, source); again != ce {
		t.Error("WrapError should return an existing CompileError unchanged")
	}
}

// TestWrapError_PlainError tests wrapping an error without kind or line.
func TestWrapError_PlainError(t *testing.T) {
	ce := WrapError(errors.New("boom"), PhaseCodegen, "")
	if ce.Kind != "" || ce.Message != "boom" || ce.Line != 0 {
		t.Errorf("WrapError = %+v", ce)
	}
}

// TestIsCompileError tests the IsCompileError helper function.
func TestIsCompileError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantOk    bool
		wantPhase string
	}{
		{"CompileError", &CompileError{Phase: PhaseStatement}, true, PhaseStatement},
		{"standard error", errors.New("standard error"), false, ""},
		{"nil error", nil, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce, ok := IsCompileError(tt.err)
			if ok != tt.wantOk {
				t.Errorf("IsCompileError() ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && ce.Phase != tt.wantPhase {
				t.Errorf("IsCompileError() Phase = %q, want %q", ce.Phase, tt.wantPhase)
			}
		})
	}
}

// TestGenerateErrorContext tests the excerpt around an error line.
func TestGenerateErrorContext(t *testing.T) {
	source := `Integer a = 1;
Integer b = 2;
Integer c = 3;
Integer d = ;
Integer e = 5;
Integer f = 6;
Integer g = 7;`

	tests := []struct {
		name        string
		source      string
		line        int
		column      int
		contains    []string
		notContains []string
	}{
		{
			name:   "error in middle of file",
			source: source,
			line:   4,
			column: 13,
			contains: []string{
				"2 |", "Integer b = 2;",
				"3 |", "Integer c = 3;",
				"> 4 |", "Integer d = ;",
				"^",
				"5 |", "Integer e = 5;",
				"6 |", "Integer f = 6;",
			},
			notContains: []string{"1 |", "7 |"},
		},
		{
			name:        "error at beginning of file",
			source:      source,
			line:        1,
			column:      0,
			contains:    []string{"> 1 |", "2 |", "3 |"},
			notContains: []string{"4 |", "^"},
		},
		{
			name:        "error at end of file",
			source:      source,
			line:        7,
			column:      0,
			contains:    []string{"5 |", "6 |", "> 7 |"},
			notContains: []string{"4 |"},
		},
		{
			name:   "empty source",
			source: "",
			line:   1,
		},
		{
			name:   "invalid line number",
			source: source,
			line:   0,
		},
		{
			name:   "line number exceeds source",
			source: source,
			line:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			context := GenerateErrorContext(tt.source, tt.line, tt.column)

			if len(tt.contains) == 0 && context != "" {
				t.Errorf("GenerateErrorContext() = %q, want empty", context)
			}
			for _, substr := range tt.contains {
				if !strings.Contains(context, substr) {
					t.Errorf("GenerateErrorContext() = %q, want to contain %q", context, substr)
				}
			}
			for _, substr := range tt.notContains {
				if strings.Contains(context, substr) {
					t.Errorf("GenerateErrorContext() = %q, should not contain %q", context, substr)
				}
			}
		})
	}
}

// TestGenerateErrorContext_TrailingNewline tests that a final newline adds no empty line.
func TestGenerateErrorContext_TrailingNewline(t *testing.T) {
	context := GenerateErrorContext("Integer a = 1;\nprint(b);\n", 2, 0)
	want := "  1 | Integer a = 1;\n> 2 | print(b);\n"
	if context != want {
		t.Errorf("GenerateErrorContext() = %q, want %q", context, want)
	}
	if got := GenerateErrorContext("print(b);\n", 2, 0); got != "" {
		t.Errorf("line past the end = %q, want empty", got)
	}
}

// TestGenerateErrorContext_PointerPosition tests that the pointer is under the column.
func TestGenerateErrorContext_PointerPosition(t *testing.T) {
	source := "Integer x = ;"
	context := GenerateErrorContext(source, 1, 13)
	lines := strings.Split(strings.TrimSuffix(context, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected error line and pointer line, got %q", context)
	}
	if strings.Index(lines[1], "^") != strings.Index(lines[0], ";") {
		t.Errorf("pointer misaligned:\n%s", context)
	}
}
