package expr

import (
	"math"

	"github.com/zurustar/trustc/pkg/compiler/diag"
	"github.com/zurustar/trustc/pkg/compiler/symbols"
)

// Env is the snapshot of symbol tables an expression is evaluated against.
// *symbols.Scope implements it.
type Env interface {
	Lookup(name string) symbols.BindingKind
	Scalar(name string) (float64, bool)
	Array(name string) ([]symbols.Element, bool)
}

// Evaluate parses src and folds it to a number using the bindings in env.
//
// Errors:
//   - SyntaxError: malformed expression or trailing characters
//   - UndefinedReference: unknown variable or array
//   - TypeMismatchError: a string (variable or array element) in numeric context
//   - BoundsError: array index outside [0, length)
//
// Division follows IEEE semantics, so x/0 yields an infinity or NaN.
func Evaluate(src string, env Env) (float64, error) {
	return Parse[float64](src, Constant{Env: env})
}

// Constant is the float64 domain of the grammar.
type Constant struct {
	Env Env
}

// Number implements Semantics.
func (c Constant) Number(v float64) float64 {
	return v
}

// Ident implements Semantics.
func (c Constant) Ident(name string) (float64, error) {
	if v, ok := c.Env.Scalar(name); ok {
		return v, nil
	}
	return 0, unresolved(c.Env, name)
}

// Index implements Semantics.
func (c Constant) Index(name string, index float64) (float64, error) {
	elem, err := ElementAt(c.Env, name, index)
	if err != nil {
		return 0, err
	}
	if elem.Kind == symbols.StringElement {
		return 0, diag.TypeMismatch("use string element %s[%d] in a numeric expression", name, int(math.Trunc(index)))
	}
	return elem.Number, nil
}

// Binary implements Semantics.
func (c Constant) Binary(op byte, left, right float64) (float64, error) {
	return Apply(op, left, right), nil
}

// Not implements Semantics.
func (c Constant) Not(v float64) (float64, error) {
	return Negate(v), nil
}

// Apply folds a binary operator.
func Apply(op byte, left, right float64) float64 {
	switch op {
	case '+':
		return left + right
	case '-':
		return left - right
	case '*':
		return left * right
	default:
		return left / right
	}
}

// Negate maps zero to 1 and everything else to 0.
func Negate(v float64) float64 {
	if v == 0 {
		return 1
	}
	return 0
}

// ElementAt resolves name[index] in env. The index is truncated toward zero.
func ElementAt(env Env, name string, index float64) (symbols.Element, error) {
	elems, ok := env.Array(name)
	if !ok {
		if env.Lookup(name) != symbols.Unbound {
			return symbols.Element{}, diag.TypeMismatch("index '%s', which is not an array", name)
		}
		return symbols.Element{}, diag.Undefined("array", name)
	}
	i, err := ResolveIndex(name, index, len(elems))
	if err != nil {
		return symbols.Element{}, err
	}
	return elems[i], nil
}

// ResolveIndex truncates index toward zero and checks it against length.
func ResolveIndex(name string, index float64, length int) (int, error) {
	if math.IsNaN(index) || math.IsInf(index, 0) {
		return 0, diag.OutOfBounds(name, index, length)
	}
	t := math.Trunc(index)
	if t < 0 || t >= float64(length) {
		return 0, diag.OutOfBounds(name, index, length)
	}
	return int(t), nil
}

// unresolved builds the error for an identifier that is not a scalar.
func unresolved(env Env, name string) error {
	switch env.Lookup(name) {
	case symbols.StringBinding:
		return diag.TypeMismatch("use string '%s' in a numeric expression", name)
	case symbols.ArrayBinding:
		return diag.TypeMismatch("use array '%s' without an index", name)
	}
	return diag.Undefined("variable", name)
}
