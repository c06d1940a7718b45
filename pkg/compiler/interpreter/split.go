package interpreter

import (
	"strings"

	"github.com/zurustar/trustc/pkg/compiler/expr"
)

// SplitArgs splits s on top-level commas. Commas inside double quotes,
// parentheses or brackets do not split. Each piece is trimmed.
// A blank s yields no arguments; otherwise every piece counts, including
// empty ones, so "1," has two arguments.
func SplitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var args []string
	var current strings.Builder
	inQuotes := false
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == ',' && depth == 0:
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
			continue
		}
		current.WriteByte(c)
	}
	args = append(args, strings.TrimSpace(current.String()))
	return args
}

// ClosingParen returns the index of the ')' matching the '(' at open,
// ignoring parentheses inside double quotes. It returns -1 if there is none.
func ClosingParen(s string, open int) int {
	if open < 0 || open >= len(s) || s[open] != '(' {
		return -1
	}
	depth := 0
	inQuotes := false
	for i := open; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// IsQuoted reports whether s is a double-quoted string literal.
func IsQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// Unquote strips the surrounding quotes of a literal checked with IsQuoted.
// No escape sequences are interpreted.
func Unquote(s string) string {
	return s[1 : len(s)-1]
}

// SplitIndexed recognizes "name[index]" where the ']' matching the first
// '[' is the last character. It returns the name and the index text.
func SplitIndexed(s string) (name, index string, ok bool) {
	open := strings.IndexByte(s, '[')
	if open <= 0 || s[len(s)-1] != ']' {
		return "", "", false
	}
	name = strings.TrimSpace(s[:open])
	if !expr.IsIdentifier(name) {
		return "", "", false
	}
	if expr.MatchBracket(s, open) != len(s)-1 {
		return "", "", false
	}
	return name, s[open+1 : len(s)-1], true
}

// leadingIdent returns the identifier at the start of s and the rest.
func leadingIdent(s string) (ident, rest string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9') {
			i++
			continue
		}
		break
	}
	return s[:i], s[i:]
}

// hasKeyword reports whether line starts with keyword as a whole word.
func hasKeyword(line, keyword string) bool {
	if !strings.HasPrefix(line, keyword) {
		return false
	}
	if len(line) == len(keyword) {
		return true
	}
	c := line[len(keyword)]
	return !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'))
}
