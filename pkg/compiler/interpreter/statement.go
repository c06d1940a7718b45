package interpreter

import (
	"strings"

	"github.com/zurustar/trustc/pkg/compiler/diag"
	"github.com/zurustar/trustc/pkg/compiler/expr"
	"github.com/zurustar/trustc/pkg/compiler/symbols"
)

// Statement is one classified source line.
// ParseStatement only checks the shape of the line; binding names and
// evaluating expressions is left to the caller.
type Statement interface {
	statementNode()
}

// IntegerDecl is `Integer <name> = <expr>;`.
type IntegerDecl struct {
	Name string
	Expr string
}

// StringDecl is `String <name> = "<text>";`.
type StringDecl struct {
	Name  string
	Value string
}

// BoolDecl is `Bool <name> = true|false;`.
type BoolDecl struct {
	Name  string
	Value bool
}

// ArrayDecl is `Array <name> = [<elements>];`.
// Elements holds the raw, trimmed element texts.
type ArrayDecl struct {
	Name     string
	Elements []string
}

// FunctionDecl is the header line `Memory <name>(<params>) = {`.
type FunctionDecl struct {
	Name   string
	Params []symbols.Param
}

// PrintStmt is `print(<arg>);`.
type PrintStmt struct {
	Arg string
}

// IfStmt is the header line `if (<cond>) {`. The body starts on the next
// line. Text after the opening '{' on the header line, as in
// `if (c) { print("x"); }`, only takes part in brace counting and is never
// executed.
type IfStmt struct {
	Cond string
}

// CallStmt is `<name>(<args>);`.
type CallStmt struct {
	Name string
	Args []string
}

func (*IntegerDecl) statementNode()  {}
func (*StringDecl) statementNode()   {}
func (*BoolDecl) statementNode()     {}
func (*ArrayDecl) statementNode()    {}
func (*FunctionDecl) statementNode() {}
func (*PrintStmt) statementNode()    {}
func (*IfStmt) statementNode()       {}
func (*CallStmt) statementNode()     {}

// ParseStatement classifies a trimmed, comment-free line by its leading
// keyword. Keywords only match as whole words, so `printAll();` is a call.
func ParseStatement(line string) (Statement, error) {
	switch {
	case hasKeyword(line, "Integer"):
		name, value, err := parseDecl("Integer", line)
		if err != nil {
			return nil, err
		}
		if value == "" {
			return nil, diag.Syntax("find an expression in Integer declaration")
		}
		return &IntegerDecl{Name: name, Expr: value}, nil

	case hasKeyword(line, "String"):
		name, value, err := parseDecl("String", line)
		if err != nil {
			return nil, err
		}
		if !IsQuoted(value) {
			return nil, diag.Syntax("parse string literal %s", value)
		}
		return &StringDecl{Name: name, Value: Unquote(value)}, nil

	case hasKeyword(line, "Bool"):
		name, value, err := parseDecl("Bool", line)
		if err != nil {
			return nil, err
		}
		switch value {
		case "true":
			return &BoolDecl{Name: name, Value: true}, nil
		case "false":
			return &BoolDecl{Name: name, Value: false}, nil
		}
		return nil, diag.Syntax("parse Bool value '%s' (expected true or false)", value)

	case hasKeyword(line, "Array"):
		name, value, err := parseDecl("Array", line)
		if err != nil {
			return nil, err
		}
		if len(value) < 2 || value[0] != '[' || expr.MatchBracket(value, 0) != len(value)-1 {
			return nil, diag.Syntax("find '[...]' in Array declaration")
		}
		return &ArrayDecl{Name: name, Elements: SplitArgs(value[1 : len(value)-1])}, nil

	case hasKeyword(line, "Memory"):
		return parseFunctionHeader(line)

	case hasKeyword(line, "print"):
		args, err := parseCallShape("print", strings.TrimSpace(line[len("print"):]))
		if err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, diag.Syntax("print expects exactly one argument, got %d", len(args))
		}
		return &PrintStmt{Arg: args[0]}, nil

	case hasKeyword(line, "if"):
		return parseIfHeader(line)
	}

	name, rest := leadingIdent(line)
	if name == "" || !strings.HasPrefix(strings.TrimSpace(rest), "(") {
		return nil, diag.Syntax("unrecognized statement")
	}
	args, err := parseCallShape(name, strings.TrimSpace(rest))
	if err != nil {
		return nil, err
	}
	return &CallStmt{Name: name, Args: args}, nil
}

// parseDecl splits `<keyword> <name> = <value>;` into name and value.
func parseDecl(keyword, line string) (name, value string, err error) {
	rest := strings.TrimSpace(line[len(keyword):])
	name, rest = leadingIdent(rest)
	if !expr.IsIdentifier(name) {
		return "", "", diag.Syntax("find valid variable name in %s declaration", keyword)
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "=") {
		return "", "", diag.Syntax("find '=' in %s declaration", keyword)
	}
	rest = strings.TrimSpace(rest[1:])
	if !strings.HasSuffix(rest, ";") {
		return "", "", diag.Syntax("find ';' at end of %s declaration", keyword)
	}
	return name, strings.TrimSpace(strings.TrimSuffix(rest, ";")), nil
}

// parseCallShape checks `(<args>);` and returns the split arguments.
func parseCallShape(what, rest string) ([]string, error) {
	if !strings.HasPrefix(rest, "(") {
		return nil, diag.Syntax("find '(' after %s", what)
	}
	closing := ClosingParen(rest, 0)
	if closing < 0 {
		return nil, diag.Syntax("find ')' closing %s", what)
	}
	if strings.TrimSpace(rest[closing+1:]) != ";" {
		return nil, diag.Syntax("find ';' after %s(...)", what)
	}
	return SplitArgs(rest[1:closing]), nil
}

func parseIfHeader(line string) (Statement, error) {
	rest := strings.TrimSpace(line[len("if"):])
	if !strings.HasPrefix(rest, "(") {
		return nil, diag.Syntax("find '(' after if")
	}
	closing := ClosingParen(rest, 0)
	if closing < 0 {
		return nil, diag.Syntax("find ')' closing if condition")
	}
	tail := strings.TrimSpace(rest[closing+1:])
	if !strings.HasPrefix(tail, "{") {
		return nil, diag.Syntax("find '{' after if condition")
	}
	cond := strings.TrimSpace(rest[1:closing])
	if cond == "" {
		return nil, diag.Syntax("find a condition in if statement")
	}
	return &IfStmt{Cond: cond}, nil
}

func parseFunctionHeader(line string) (Statement, error) {
	rest := strings.TrimSpace(line[len("Memory"):])
	name, rest := leadingIdent(rest)
	if !expr.IsIdentifier(name) {
		return nil, diag.Syntax("find valid function name after Memory")
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "(") {
		return nil, diag.Syntax("find '(' after function name '%s'", name)
	}
	closing := ClosingParen(rest, 0)
	if closing < 0 {
		return nil, diag.Syntax("find ')' closing parameters of '%s'", name)
	}
	tail := strings.TrimSpace(rest[closing+1:])
	if !strings.HasPrefix(tail, "=") || strings.TrimSpace(tail[1:]) != "{" {
		return nil, diag.Syntax("find '= {' after parameters of '%s'", name)
	}

	var params []symbols.Param
	seen := make(map[string]bool)
	for _, p := range SplitArgs(rest[1:closing]) {
		fields := strings.Fields(p)
		if len(fields) != 2 {
			return nil, diag.Syntax("parse parameter '%s' of '%s' (expected '<type> <name>')", p, name)
		}
		typ, ok := symbols.ParseParamType(fields[0])
		if !ok {
			return nil, diag.Syntax("unknown parameter type '%s' in '%s'", fields[0], name)
		}
		if !expr.IsIdentifier(fields[1]) {
			return nil, diag.Syntax("invalid parameter name '%s' in '%s'", fields[1], name)
		}
		if seen[fields[1]] {
			return nil, diag.Syntax("duplicate parameter '%s' in '%s'", fields[1], name)
		}
		seen[fields[1]] = true
		params = append(params, symbols.Param{Type: typ, Name: fields[1]})
	}
	return &FunctionDecl{Name: name, Params: params}, nil
}
