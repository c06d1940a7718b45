package expr

import (
	"math"
	"testing"

	"github.com/zurustar/trustc/pkg/compiler/diag"
	"github.com/zurustar/trustc/pkg/compiler/symbols"
)

func newTestScope() *symbols.Scope {
	s := symbols.NewScope(nil)
	s.SetScalar("x", 5)
	s.SetScalar("y", 2.5)
	s.SetBool("flag", true)
	s.SetString("name", "trust")
	s.SetArray("arr", []symbols.Element{
		symbols.NumberOf(10),
		symbols.BoolOf(false),
		symbols.StringOf("text"),
	})
	s.SetArray("idx", []symbols.Element{symbols.NumberOf(0), symbols.NumberOf(1)})
	return s
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want float64
	}{
		{"precedence", "2 + 3 * 4", 14},
		{"parentheses", "(2 + 3) * 4", 20},
		{"left associative minus", "10 - 4 - 3", 3},
		{"left associative divide", "100 / 10 / 2", 5},
		{"not zero", "!0", 1},
		{"not nonzero", "!5", 0},
		{"double not", "!!7", 1},
		{"not binds tighter than plus", "!0 + 1", 2},
		{"true", "true", 1},
		{"false", "false", 0},
		{"variable", "x * 2", 10},
		{"fraction", "y * 2", 5},
		{"bool variable", "flag + 1", 2},
		{"signed literal", "-3 + 5", 2},
		{"plus sign literal", "+4", 4},
		{"minus negative", "2 - -3", 5},
		{"decimal", "1.5 * 2", 3},
		{"spaces", "   ( 1+2 )   ", 3},
		{"array element", "arr[0] + 1", 11},
		{"bool element", "arr[1]", 0},
		{"computed index", "arr[x - 5]", 10},
		{"nested index", "arr[idx[1]]", 0},
		{"truncated index", "arr[0.9]", 10},
		{"negative fraction index truncates to zero", "arr[-0.5]", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.src, newTestScope())
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.src, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind diag.Kind
	}{
		{"undefined variable", "z + 1", diag.UndefinedReference},
		{"undefined array", "nope[0]", diag.UndefinedReference},
		{"string variable", "name + 1", diag.TypeMismatchError},
		{"string element", "arr[2]", diag.TypeMismatchError},
		{"array without index", "arr + 1", diag.TypeMismatchError},
		{"index a scalar", "x[0]", diag.TypeMismatchError},
		{"index past end", "arr[3]", diag.BoundsError},
		{"negative index", "arr[-1]", diag.BoundsError},
		{"infinite index", "arr[1/0]", diag.BoundsError},
		{"missing paren", "(1 + 2", diag.SyntaxError},
		{"missing bracket", "arr[1", diag.SyntaxError},
		{"trailing characters", "1 2", diag.SyntaxError},
		{"second decimal point", "1.2.3", diag.SyntaxError},
		{"empty", "", diag.SyntaxError},
		{"lone sign", "-", diag.SyntaxError},
		{"dangling operator", "1 +", diag.SyntaxError},
		{"negated identifier via sign", "-x", diag.SyntaxError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.src, newTestScope())
			if err == nil {
				t.Fatalf("Evaluate(%q) expected error", tt.src)
			}
			if got := diag.KindOf(err); got != tt.kind {
				t.Errorf("Evaluate(%q) kind = %s, want %s (%v)", tt.src, got, tt.kind, err)
			}
		})
	}
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	s := newTestScope()

	v, err := Evaluate("1 / 0", s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsInf(v, 1) {
		t.Errorf("1 / 0 = %v, want +Inf", v)
	}

	v, err = Evaluate("0 / 0", s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(v) {
		t.Errorf("0 / 0 = %v, want NaN", v)
	}
}

func TestResolveIndex(t *testing.T) {
	tests := []struct {
		index float64
		want  int
		ok    bool
	}{
		{0, 0, true},
		{2, 2, true},
		{2.99, 2, true},
		{3, 0, false},
		{-1, 0, false},
		{math.NaN(), 0, false},
	}
	for _, tt := range tests {
		got, err := ResolveIndex("a", tt.index, 3)
		if (err == nil) != tt.ok {
			t.Errorf("ResolveIndex(%v) error = %v, want ok=%v", tt.index, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ResolveIndex(%v) = %d, want %d", tt.index, got, tt.want)
		}
		if !tt.ok && !diag.Is(err, diag.BoundsError) {
			t.Errorf("ResolveIndex(%v) kind = %s, want BoundsError", tt.index, diag.KindOf(err))
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "5"},
		{-12, "-12"},
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{2.5, "2.5"},
		{0.1, "0.1"},
		{1.0 / 3.0, "0.3333333333333333"},
		{3.0000000001, "3"},
		{1e6, "1000000"},
		{1234567.5, "1234567.5"},
		{0.1 + 0.2, "0.30000000000000004"},
		{1.5e-7, "1.5e-07"},
		{1e300, "1e+300"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "nan"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatchBracket(t *testing.T) {
	if got := MatchBracket("a[b[1]]+1", 1); got != 6 {
		t.Errorf("MatchBracket = %d, want 6", got)
	}
	if got := MatchBracket("a[1", 1); got != -1 {
		t.Errorf("MatchBracket unterminated = %d, want -1", got)
	}
	if got := MatchParen("(1 + (2)) == 3", 0); got != 8 {
		t.Errorf("MatchParen = %d, want 8", got)
	}
}

func TestIsIdentifier(t *testing.T) {
	for _, s := range []string{"x", "_tmp", "value2", "CamelCase"} {
		if !IsIdentifier(s) {
			t.Errorf("IsIdentifier(%q) = false", s)
		}
	}
	for _, s := range []string{"", "2x", "a-b", "a b", "x[0]"} {
		if IsIdentifier(s) {
			t.Errorf("IsIdentifier(%q) = true", s)
		}
	}
}
