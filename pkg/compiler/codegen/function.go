package codegen

import (
	"fmt"
	"strings"

	"github.com/zurustar/trustc/pkg/compiler/diag"
	"github.com/zurustar/trustc/pkg/compiler/expr"
	"github.com/zurustar/trustc/pkg/compiler/interpreter"
	"github.com/zurustar/trustc/pkg/compiler/symbols"
	"github.com/zurustar/trustc/pkg/opcode"
)

// stringFormat prints a String parameter.
const stringFormat = "%s\n"

// operand is a double value inside a function body: either a folded
// constant or an SSA register.
type operand struct {
	reg   string
	value float64
}

func (o operand) isConst() bool {
	return o.reg == ""
}

func (o operand) ir() string {
	if o.isConst() {
		return DoubleLiteral(o.value)
	}
	return o.reg
}

type bindingKind int

const (
	noBinding bindingKind = iota
	runtimeNumber
	runtimeString
	constBinding
)

// level is one lexical level of a function body. Constant bindings live in
// consts; values computed at run time are tracked by register.
// The outermost level wraps the module scope.
type level struct {
	consts  *symbols.Scope
	numbers map[string]string // name -> double register
	strs    map[string]string // name -> ptr register
	parent  *level
}

func newLevel(consts *symbols.Scope, parent *level) *level {
	return &level{
		consts:  consts,
		numbers: make(map[string]string),
		strs:    make(map[string]string),
		parent:  parent,
	}
}

// resolve finds the nearest level binding name.
func (lv *level) resolve(name string) (*level, bindingKind) {
	for l := lv; l != nil; l = l.parent {
		if _, ok := l.numbers[name]; ok {
			return l, runtimeNumber
		}
		if _, ok := l.strs[name]; ok {
			return l, runtimeString
		}
		if l.consts.LookupLocal(name) != symbols.Unbound {
			return l, constBinding
		}
	}
	return nil, noBinding
}

// Lookup implements expr.Env.
func (lv *level) Lookup(name string) symbols.BindingKind {
	l, kind := lv.resolve(name)
	switch kind {
	case runtimeNumber:
		return symbols.ScalarBinding
	case runtimeString:
		return symbols.StringBinding
	case constBinding:
		return l.consts.LookupLocal(name)
	}
	return symbols.Unbound
}

// Scalar implements expr.Env.
func (lv *level) Scalar(name string) (float64, bool) {
	if l, kind := lv.resolve(name); kind == constBinding {
		return l.consts.Scalar(name)
	}
	return 0, false
}

// Array implements expr.Env.
func (lv *level) Array(name string) ([]symbols.Element, bool) {
	if l, kind := lv.resolve(name); kind == constBinding {
		return l.consts.Array(name)
	}
	return nil, false
}

// String implements interpreter.Env.
func (lv *level) String(name string) (string, bool) {
	if l, kind := lv.resolve(name); kind == constBinding {
		return l.consts.String(name)
	}
	return "", false
}

func (lv *level) bindNumber(name string, v operand) {
	delete(lv.strs, name)
	if v.isConst() {
		delete(lv.numbers, name)
		lv.consts.SetScalar(name, v.value)
		return
	}
	lv.consts.Delete(name)
	lv.numbers[name] = v.reg
}

func (lv *level) bindConst(name string) {
	delete(lv.numbers, name)
	delete(lv.strs, name)
}

// lowering holds the state of one function being lowered.
type lowering struct {
	g     *Generator
	fn    *symbols.Function
	b     strings.Builder
	level *level

	temps, labels                int
	strCount, fmtCount, argCount int
}

// lowerFunction renders the definition of fn.
func (g *Generator) lowerFunction(fn *symbols.Function) (string, error) {
	module := newLevel(g.prog.Scope, nil)
	l := &lowering{
		g:     g,
		fn:    fn,
		level: newLevel(symbols.NewScope(g.prog.Scope), module),
	}

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %%p.%s", p.Type.IRType(), p.Name)
	}
	fmt.Fprintf(&l.b, "define void @%s(%s) {\nentry:\n", fn.Name, strings.Join(params, ", "))

	for _, p := range fn.Params {
		switch p.Type {
		case symbols.StringParam:
			l.level.strs[p.Name] = "%p." + p.Name
		case symbols.BoolParam:
			t := l.temp()
			l.emit("%s = uitofp i1 %%p.%s to double", t, p.Name)
			l.level.numbers[p.Name] = t
		default:
			t := l.temp()
			l.emit("%s = sitofp i32 %%p.%s to double", t, p.Name)
			l.level.numbers[p.Name] = t
		}
	}

	if err := l.lowerLines(fn.Body); err != nil {
		return "", err
	}
	l.b.WriteString("  ret void\n}\n")
	return l.b.String(), nil
}

func (l *lowering) emit(format string, args ...any) {
	l.b.WriteString("  ")
	fmt.Fprintf(&l.b, format, args...)
	l.b.WriteString("\n")
}

func (l *lowering) temp() string {
	t := fmt.Sprintf("%%t.%d", l.temps)
	l.temps++
	return t
}

func (l *lowering) lowerLines(lines []symbols.Line) error {
	for i := 0; i < len(lines); {
		text := strings.TrimSpace(lines[i].Text)
		if text == "" || text == "}" {
			i++
			continue
		}
		next, err := l.lowerStatement(lines, i, text)
		if err != nil {
			return interpreter.NewStatementError(lines[i], err)
		}
		i = next
	}
	return nil
}

func (l *lowering) lowerStatement(lines []symbols.Line, i int, text string) (int, error) {
	stmt, err := interpreter.ParseStatement(text)
	if err != nil {
		return 0, err
	}

	switch s := stmt.(type) {
	case *interpreter.IntegerDecl:
		v, err := expr.Parse[operand](s.Expr, l)
		if err != nil {
			return 0, err
		}
		l.level.bindNumber(s.Name, v)

	case *interpreter.StringDecl:
		l.level.bindConst(s.Name)
		l.level.consts.SetString(s.Name, s.Value)

	case *interpreter.BoolDecl:
		l.level.bindConst(s.Name)
		l.level.consts.SetBool(s.Name, s.Value)

	case *interpreter.ArrayDecl:
		elems := make([]symbols.Element, len(s.Elements))
		for k, e := range s.Elements {
			elem, err := interpreter.ParseElement(e, l.constant)
			if err != nil {
				return 0, err
			}
			elems[k] = elem
		}
		l.level.bindConst(s.Name)
		l.level.consts.SetArray(s.Name, elems)

	case *interpreter.FunctionDecl:
		return 0, diag.Syntax("declare a function inside function '%s'", l.fn.Name)

	case *interpreter.PrintStmt:
		if err := l.print(s.Arg); err != nil {
			return 0, err
		}

	case *interpreter.IfStmt:
		return l.lowerIf(lines, i, s)

	case *interpreter.CallStmt:
		if err := l.call(s); err != nil {
			return 0, err
		}
	}
	return i + 1, nil
}

// lowerIf folds a constant condition like the statement pass does and
// branches on anything else.
func (l *lowering) lowerIf(lines []symbols.Line, i int, s *interpreter.IfStmt) (int, error) {
	cond, err := expr.Parse[operand](s.Cond, l)
	if err != nil {
		return 0, err
	}
	if cond.isConst() {
		if cond.value != 1.0 {
			return interpreter.SkipBlock(lines, i), nil
		}
		return i + 1, nil
	}

	end, closed := interpreter.FindBlockEnd(lines, i)
	if !closed {
		return 0, diag.Syntax("find closing '}' for if")
	}

	k := l.labels
	l.labels++
	c := l.temp()
	l.emit("%s = fcmp oeq double %s, 1.0", c, cond.reg)
	l.emit("br i1 %s, label %%if.then.%d, label %%if.end.%d", c, k, k)
	fmt.Fprintf(&l.b, "if.then.%d:\n", k)

	// A block closed on the header line has an empty body.
	body := lines[i+1 : max(end-1, i+1)]

	outer := l.level
	l.level = newLevel(symbols.NewScope(outer.consts), outer)
	err = l.lowerLines(body)
	l.level = outer
	if err != nil {
		return 0, err
	}

	l.emit("br label %%if.end.%d", k)
	fmt.Fprintf(&l.b, "if.end.%d:\n", k)
	return end, nil
}

func (l *lowering) print(arg string) error {
	if name, index, ok := interpreter.SplitIndexed(arg); ok {
		i, err := l.constant(index)
		if err != nil {
			return err
		}
		elem, err := expr.ElementAt(l.level, name, i)
		if err != nil {
			return err
		}
		return l.printLiteral(interpreter.RenderElement(elem))
	}
	if interpreter.IsQuoted(arg) {
		return l.printLiteral(interpreter.Unquote(arg))
	}
	if lv, kind := l.level.resolve(arg); kind == runtimeString {
		return l.printValue(stringFormat, "ptr "+lv.strs[arg])
	}
	if s, ok := l.level.String(arg); ok {
		return l.printLiteral(s)
	}

	v, err := expr.Parse[operand](arg, l)
	if err != nil {
		return err
	}
	if v.isConst() {
		return l.printLiteral(expr.FormatNumber(v.value))
	}
	l.g.printsNumbers = true
	l.emit("call void @%s(double %s)", printNumberFn, v.reg)
	return nil
}

func (l *lowering) printLiteral(text string) error {
	gl, err := l.g.pool.Add(fmt.Sprintf(".str.%s.%d", l.fn.Name, l.strCount), opcode.Formatted(text))
	if err != nil {
		return err
	}
	l.strCount++
	l.emit("call i32 (ptr, ...) @printf(ptr %s)", GEP(gl))
	return nil
}

func (l *lowering) printValue(format, value string) error {
	gl, err := l.g.pool.Add(fmt.Sprintf(".fmt.%s.%d", l.fn.Name, l.fmtCount), format)
	if err != nil {
		return err
	}
	l.fmtCount++
	l.emit("call i32 (ptr, ...) @printf(ptr %s, %s)", GEP(gl), value)
	return nil
}

func (l *lowering) call(s *interpreter.CallStmt) error {
	fn, ok := l.g.prog.Functions.Get(s.Name)
	if !ok {
		return diag.Undefined("function", s.Name)
	}
	if len(s.Args) != len(fn.Params) {
		return diag.Arity(s.Name, len(fn.Params), len(s.Args))
	}

	args := make([]string, len(fn.Params))
	for k, p := range fn.Params {
		text := s.Args[k]
		if p.Type == symbols.StringParam {
			if !interpreter.IsQuoted(text) {
				return diag.TypeMismatch("pass '%s' to String parameter '%s' of '%s' (a string literal is required)", text, p.Name, s.Name)
			}
			gl, err := l.g.pool.Add(fmt.Sprintf(".arg.%s.%d", l.fn.Name, l.argCount), interpreter.Unquote(text))
			if err != nil {
				return err
			}
			l.argCount++
			args[k] = "ptr " + GEP(gl)
			continue
		}

		if interpreter.IsQuoted(text) {
			return diag.TypeMismatch("pass string literal to %s parameter '%s' of '%s'", p.Type, p.Name, s.Name)
		}
		v, err := expr.Parse[operand](text, l)
		if err != nil {
			return err
		}

		if p.Type == symbols.BoolParam {
			if v.isConst() {
				args[k] = fmt.Sprintf("i1 %t", v.value != 0)
				continue
			}
			t := l.temp()
			l.emit("%s = fcmp one double %s, 0.0", t, v.reg)
			args[k] = "i1 " + t
			continue
		}

		if v.isConst() {
			n, err := interpreter.ToInt32(v.value)
			if err != nil {
				return err
			}
			args[k] = fmt.Sprintf("i32 %d", n)
			continue
		}
		t := l.temp()
		l.emit("%s = fptosi double %s to i32", t, v.reg)
		args[k] = "i32 " + t
	}

	l.emit("call void @%s(%s)", s.Name, strings.Join(args, ", "))
	return nil
}

// constant evaluates src and requires the result to be known at compile time.
func (l *lowering) constant(src string) (float64, error) {
	v, err := expr.Parse[operand](src, l)
	if err != nil {
		return 0, err
	}
	if !v.isConst() {
		return 0, diag.TypeMismatch("use '%s' where a compile-time constant is required", src)
	}
	return v.value, nil
}

// Number implements expr.Semantics.
func (l *lowering) Number(v float64) operand {
	return operand{value: v}
}

// Ident implements expr.Semantics.
func (l *lowering) Ident(name string) (operand, error) {
	if lv, kind := l.level.resolve(name); kind == runtimeNumber {
		return operand{reg: lv.numbers[name]}, nil
	}
	v, err := expr.Constant{Env: l.level}.Ident(name)
	if err != nil {
		return operand{}, err
	}
	return operand{value: v}, nil
}

// Index implements expr.Semantics. Indices must fold to constants.
func (l *lowering) Index(name string, index operand) (operand, error) {
	if !index.isConst() {
		return operand{}, diag.TypeMismatch("index array '%s' with a value only known at run time", name)
	}
	v, err := expr.Constant{Env: l.level}.Index(name, index.value)
	if err != nil {
		return operand{}, err
	}
	return operand{value: v}, nil
}

// Binary implements expr.Semantics.
func (l *lowering) Binary(op byte, left, right operand) (operand, error) {
	if left.isConst() && right.isConst() {
		return operand{value: expr.Apply(op, left.value, right.value)}, nil
	}
	var inst string
	switch op {
	case '+':
		inst = "fadd"
	case '-':
		inst = "fsub"
	case '*':
		inst = "fmul"
	case '/':
		inst = "fdiv"
	default:
		return operand{}, diag.Syntax("unknown operator '%c'", op)
	}
	t := l.temp()
	l.emit("%s = %s double %s, %s", t, inst, left.ir(), right.ir())
	return operand{reg: t}, nil
}

// Not implements expr.Semantics.
func (l *lowering) Not(v operand) (operand, error) {
	if v.isConst() {
		return operand{value: expr.Negate(v.value)}, nil
	}
	c := l.temp()
	l.emit("%s = fcmp oeq double %s, 0.0", c, v.reg)
	t := l.temp()
	l.emit("%s = uitofp i1 %s to double", t, c)
	return operand{reg: t}, nil
}
