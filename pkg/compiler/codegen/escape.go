package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Escape renders s as the body of an IR c"..." constant, NUL terminator
// included. Backslash, double quote and every byte outside printable ASCII
// become \XX with two uppercase hex digits.
func Escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\5C`)
		case c == '"':
			b.WriteString(`\22`)
		case c < 32 || c > 126:
			fmt.Fprintf(&b, `\%02X`, c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteString(`\00`)
	return b.String()
}

// maxDecimalLiteral bounds the integral values written in decimal form.
const maxDecimalLiteral = 1e15

// DoubleLiteral renders v as an IR double constant.
// Small integral values are written in decimal; everything else uses the
// exact hexadecimal bit pattern.
func DoubleLiteral(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < maxDecimalLiteral {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return fmt.Sprintf("0x%016X", math.Float64bits(v))
}
