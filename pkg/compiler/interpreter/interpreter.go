// Package interpreter runs the statement pass of the Trust compiler.
// It walks the source lines once, folds module-level statements into the
// module scope, registers functions, and records the entry instructions that
// the IR emitter replays.
package interpreter

import (
	"fmt"
	"math"
	"strings"

	"github.com/zurustar/trustc/pkg/compiler/diag"
	"github.com/zurustar/trustc/pkg/compiler/expr"
	"github.com/zurustar/trustc/pkg/compiler/symbols"
	"github.com/zurustar/trustc/pkg/opcode"
)

// reservedNames cannot be used as function names because they collide with
// symbols of the emitted module.
var reservedNames = map[string]bool{
	"main":   true,
	"printf": true,
}

// Options controls the statement pass.
type Options struct {
	// CollectErrors keeps processing after a failed statement so that all
	// diagnostics of a file are reported at once.
	CollectErrors bool
}

// Env is a constant environment that also resolves string variables.
type Env interface {
	expr.Env
	String(name string) (string, bool)
}

// Interpreter processes source lines into a Program.
type Interpreter struct {
	opts     Options
	prog     *Program
	errs     []error
	argCount int
}

// NewInterpreter creates a new Interpreter instance
func NewInterpreter(opts Options) *Interpreter {
	return &Interpreter{opts: opts}
}

// Interpret processes lines in order. It stops at the first failed statement
// unless CollectErrors is set. Every returned error is a *StatementError.
func (in *Interpreter) Interpret(lines []symbols.Line) (*Program, []error) {
	in.prog = NewProgram()
	in.errs = nil
	in.argCount = 0

	for i := 0; i < len(lines); {
		text := strings.TrimSpace(lines[i].Text)
		if text == "" || text == "}" {
			i++
			continue
		}

		next, err := in.execute(lines, i, text)
		if err != nil {
			in.errs = append(in.errs, NewStatementError(lines[i], err))
			if !in.opts.CollectErrors {
				break
			}
			next = i + 1
			if opensBlock(text) {
				next = SkipBlock(lines, i)
			}
		}
		i = next
	}
	return in.prog, in.errs
}

// opensBlock reports whether a failed line starts a block whose body must
// not run.
func opensBlock(text string) bool {
	return (hasKeyword(text, "if") || hasKeyword(text, "Memory")) && strings.Contains(text, "{")
}

// execute runs the statement at lines[i] and returns the next line index.
func (in *Interpreter) execute(lines []symbols.Line, i int, text string) (int, error) {
	stmt, err := ParseStatement(text)
	if err != nil {
		return 0, err
	}
	scope := in.prog.Scope

	switch s := stmt.(type) {
	case *IntegerDecl:
		v, err := expr.Evaluate(s.Expr, scope)
		if err != nil {
			return 0, err
		}
		scope.SetScalar(s.Name, v)

	case *StringDecl:
		scope.SetString(s.Name, s.Value)

	case *BoolDecl:
		scope.SetBool(s.Name, s.Value)

	case *ArrayDecl:
		elems := make([]symbols.Element, len(s.Elements))
		for k, e := range s.Elements {
			elem, err := ParseElement(e, func(src string) (float64, error) {
				return expr.Evaluate(src, scope)
			})
			if err != nil {
				return 0, err
			}
			elems[k] = elem
		}
		scope.SetArray(s.Name, elems)

	case *FunctionDecl:
		return in.declare(lines, i, s)

	case *PrintStmt:
		out, err := RenderConstant(s.Arg, scope)
		if err != nil {
			return 0, err
		}
		in.prog.Instructions = append(in.prog.Instructions, opcode.NewPrint(out, lines[i].Number))

	case *IfStmt:
		v, err := expr.Evaluate(s.Cond, scope)
		if err != nil {
			return 0, err
		}
		// Only exactly 1.0 is true.
		if v != 1.0 {
			return SkipBlock(lines, i), nil
		}

	case *CallStmt:
		op, err := in.call(s, lines[i].Number)
		if err != nil {
			return 0, err
		}
		in.prog.Instructions = append(in.prog.Instructions, op)
	}
	return i + 1, nil
}

// declare registers a function and returns the line after its body.
func (in *Interpreter) declare(lines []symbols.Line, i int, s *FunctionDecl) (int, error) {
	if reservedNames[s.Name] {
		return 0, diag.Syntax("'%s' is reserved and cannot be used as a function name", s.Name)
	}
	end, closed := FindBlockEnd(lines, i)
	if !closed {
		return 0, diag.Syntax("find closing '}' for function '%s'", s.Name)
	}

	body := make([]symbols.Line, end-1-(i+1))
	copy(body, lines[i+1:end-1])
	for _, l := range body {
		if hasKeyword(strings.TrimSpace(l.Text), "Memory") {
			return 0, NewStatementError(l, diag.Syntax("declare a function inside function '%s'", s.Name))
		}
	}

	fn := &symbols.Function{
		Name:   s.Name,
		Params: s.Params,
		Body:   body,
		Line:   lines[i].Number,
	}
	if !in.prog.Functions.Define(fn) {
		return 0, diag.Syntax("function '%s' is already declared", s.Name)
	}
	return end, nil
}

// call checks a module-level call against the function table and lowers
// its arguments to constants.
func (in *Interpreter) call(s *CallStmt, line int) (opcode.OpCode, error) {
	fn, ok := in.prog.Functions.Get(s.Name)
	if !ok {
		return opcode.OpCode{}, diag.Undefined("function", s.Name)
	}
	if len(s.Args) != len(fn.Params) {
		return opcode.OpCode{}, diag.Arity(s.Name, len(fn.Params), len(s.Args))
	}

	args := make([]opcode.Arg, len(fn.Params))
	for k, p := range fn.Params {
		text := s.Args[k]
		if p.Type == symbols.StringParam {
			if !IsQuoted(text) {
				return opcode.OpCode{}, diag.TypeMismatch("pass '%s' to String parameter '%s' of '%s' (a string literal is required)", text, p.Name, s.Name)
			}
			g, err := in.prog.Pool.Add(fmt.Sprintf(".arg.%d", in.argCount), Unquote(text))
			if err != nil {
				return opcode.OpCode{}, err
			}
			in.argCount++
			args[k] = opcode.StringArg(g)
			continue
		}

		if IsQuoted(text) {
			return opcode.OpCode{}, diag.TypeMismatch("pass string literal to %s parameter '%s' of '%s'", p.Type, p.Name, s.Name)
		}
		v, err := expr.Evaluate(text, in.prog.Scope)
		if err != nil {
			return opcode.OpCode{}, err
		}
		if p.Type == symbols.BoolParam {
			args[k] = opcode.BoolArg(v != 0)
			continue
		}
		n, err := ToInt32(v)
		if err != nil {
			return opcode.OpCode{}, err
		}
		args[k] = opcode.IntArg(n)
	}
	return opcode.NewCall(s.Name, args, line), nil
}

// ParseElement classifies one array element: a quoted string, true/false,
// or a numeric expression evaluated by eval.
func ParseElement(text string, eval func(string) (float64, error)) (symbols.Element, error) {
	switch {
	case IsQuoted(text):
		return symbols.StringOf(Unquote(text)), nil
	case text == "true":
		return symbols.BoolOf(true), nil
	case text == "false":
		return symbols.BoolOf(false), nil
	}
	v, err := eval(text)
	if err != nil {
		return symbols.Element{}, err
	}
	return symbols.NumberOf(v), nil
}

// RenderElement renders an array element the way print shows it.
func RenderElement(e symbols.Element) string {
	switch e.Kind {
	case symbols.StringElement:
		return e.Text
	case symbols.BoolElement:
		return expr.FormatBool(e.Number)
	default:
		return expr.FormatNumber(e.Number)
	}
}

// RenderConstant renders a print argument against a constant environment.
// An indexed array element is rendered by its type, a quoted literal
// verbatim, a string variable by its value, and anything else is evaluated
// as an expression and formatted as a number.
func RenderConstant(arg string, env Env) (string, error) {
	if name, index, ok := SplitIndexed(arg); ok {
		i, err := expr.Evaluate(index, env)
		if err != nil {
			return "", err
		}
		elem, err := expr.ElementAt(env, name, i)
		if err != nil {
			return "", err
		}
		return RenderElement(elem), nil
	}
	if IsQuoted(arg) {
		return Unquote(arg), nil
	}
	if s, ok := env.String(arg); ok {
		return s, nil
	}
	v, err := expr.Evaluate(arg, env)
	if err != nil {
		return "", err
	}
	return expr.FormatNumber(v), nil
}

// ToInt32 truncates v toward zero for a 32-bit Integer parameter.
func ToInt32(v float64) (int32, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, diag.New(diag.BoundsError, "pass %v as a 32-bit Integer", v)
	}
	t := math.Trunc(v)
	if t < math.MinInt32 || t > math.MaxInt32 {
		return 0, diag.New(diag.BoundsError, "pass %v as a 32-bit Integer", v)
	}
	return int32(t), nil
}
