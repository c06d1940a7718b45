// Package expr implements the recursive-descent expression grammar of the
// Trust language.
//
// Grammar, lowest to highest precedence:
//
//	expression := term (('+'|'-') term)*
//	term       := factor (('*'|'/') factor)*
//	factor     := '!' factor | '(' expression ')' | identifier | number
//
// The parser is generic over the value domain: Evaluate folds expressions to
// float64 against a symbol scope, while the code generator plugs in a domain
// that produces IR values.
package expr

import (
	"strconv"

	"github.com/zurustar/trustc/pkg/compiler/diag"
)

// Semantics gives meaning to the grammar's productions in a value domain T.
type Semantics[T any] interface {
	// Number returns the value of a numeric literal, true (1) or false (0).
	Number(v float64) T
	// Ident resolves a plain identifier.
	Ident(name string) (T, error)
	// Index resolves name[index]. The index has already been evaluated.
	Index(name string, index T) (T, error)
	// Binary applies one of '+', '-', '*', '/'.
	Binary(op byte, left, right T) (T, error)
	// Not applies logical negation.
	Not(operand T) (T, error)
}

// Parse parses the whole of src and evaluates it in the given domain.
// Trailing characters that are not part of the expression are an error.
func Parse[T any](src string, sem Semantics[T]) (T, error) {
	p := &parser[T]{src: src, sem: sem}
	v, err := p.parseExpression()
	if err != nil {
		var zero T
		return zero, err
	}
	p.skipSpaces()
	if p.pos != len(p.src) {
		var zero T
		return zero, diag.Syntax("parse expression '%s': unexpected characters '%s'", src, p.src[p.pos:])
	}
	return v, nil
}

// parser holds the cursor for one (sub-)expression.
// Nested array indices get their own parser over a sub-slice.
type parser[T any] struct {
	src string
	pos int
	sem Semantics[T]
}

func (p *parser[T]) skipSpaces() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser[T]) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser[T]) parseExpression() (T, error) {
	result, err := p.parseTerm()
	if err != nil {
		return result, err
	}
	for {
		p.skipSpaces()
		op := p.peek()
		if op != '+' && op != '-' {
			return result, nil
		}
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return rhs, err
		}
		if result, err = p.sem.Binary(op, result, rhs); err != nil {
			return result, err
		}
	}
}

func (p *parser[T]) parseTerm() (T, error) {
	result, err := p.parseFactor()
	if err != nil {
		return result, err
	}
	for {
		p.skipSpaces()
		op := p.peek()
		if op != '*' && op != '/' {
			return result, nil
		}
		p.pos++
		rhs, err := p.parseFactor()
		if err != nil {
			return rhs, err
		}
		if result, err = p.sem.Binary(op, result, rhs); err != nil {
			return result, err
		}
	}
}

func (p *parser[T]) parseFactor() (T, error) {
	p.skipSpaces()
	c := p.peek()
	switch {
	case c == '!':
		p.pos++
		v, err := p.parseFactor()
		if err != nil {
			return v, err
		}
		return p.sem.Not(v)
	case c == '(':
		p.pos++
		v, err := p.parseExpression()
		if err != nil {
			return v, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			var zero T
			return zero, diag.Syntax("find closing parenthesis in '%s'", p.src)
		}
		p.pos++
		return v, nil
	case isIdentStart(c):
		return p.parseIdentifier()
	default:
		return p.parseNumber()
	}
}

func (p *parser[T]) parseIdentifier() (T, error) {
	var zero T
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	name := p.src[start:p.pos]

	if p.peek() == '[' {
		closing := MatchBracket(p.src, p.pos)
		if closing < 0 {
			return zero, diag.Syntax("find closing ']' for array '%s'", name)
		}
		inner := p.src[p.pos+1 : closing]
		p.pos = closing + 1
		index, err := Parse(inner, p.sem)
		if err != nil {
			return zero, err
		}
		return p.sem.Index(name, index)
	}

	switch name {
	case "true":
		return p.sem.Number(1), nil
	case "false":
		return p.sem.Number(0), nil
	}
	return p.sem.Ident(name)
}

// parseNumber reads an optional sign, digits and at most one decimal point.
// A second decimal point ends the literal; whatever follows is left for the
// caller to reject.
func (p *parser[T]) parseNumber() (T, error) {
	var zero T
	p.skipSpaces()
	start := p.pos
	if c := p.peek(); c == '+' || c == '-' {
		p.pos++
	}
	dotFound := false
	for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
		if p.src[p.pos] == '.' {
			if dotFound {
				break
			}
			dotFound = true
		}
		p.pos++
	}
	if start == p.pos {
		return zero, diag.Syntax("parse expression '%s': expected number", p.src)
	}
	lit := p.src[start:p.pos]
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return zero, diag.Syntax("parse expression '%s': expected number, got '%s'", p.src, lit)
	}
	return p.sem.Number(v), nil
}

// MatchBracket returns the index of the ']' matching the '[' at open, or -1.
func MatchBracket(s string, open int) int {
	return matchPair(s, open, '[', ']')
}

// MatchParen returns the index of the ')' matching the '(' at open, or -1.
func MatchParen(s string, open int) int {
	return matchPair(s, open, '(', ')')
}

func matchPair(s string, open int, l, r byte) int {
	if open < 0 || open >= len(s) || s[open] != l {
		return -1
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case l:
			depth++
		case r:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// IsIdentifier reports whether s is a well-formed identifier.
func IsIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}
