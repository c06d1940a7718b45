package interpreter

import "github.com/zurustar/trustc/pkg/compiler/symbols"

// FindBlockEnd scans from the line at start, which opens a block, and
// returns the index just past the line where the brace depth returns to
// zero after the first '{'. Every brace counts, including braces inside
// string literals.
// If the block never closes it returns len(lines) and false.
func FindBlockEnd(lines []symbols.Line, start int) (int, bool) {
	depth := 0
	opened := false
	for i := start; i < len(lines); i++ {
		for _, c := range lines[i].Text {
			switch c {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			}
		}
		if opened && depth <= 0 {
			return i + 1, true
		}
	}
	return len(lines), false
}

// SkipBlock returns the index of the first line after the block opened at
// start. An unterminated block extends to the end of the input.
func SkipBlock(lines []symbols.Line, start int) int {
	end, _ := FindBlockEnd(lines, start)
	return end
}
