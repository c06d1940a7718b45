package codegen

import (
	"fmt"
	"strings"

	"github.com/zurustar/trustc/pkg/compiler/expr"
)

// printNumberFn prints a double the way expr.FormatNumber renders a
// constant. It is emitted only when some function prints a runtime number.
const printNumberFn = ".print.number"

// Declarations the number printer needs besides printf.
const numberDecls = `declare i32 @snprintf(ptr, i64, ptr, ...)
declare double @strtod(ptr, ptr)
declare double @llvm.round.f64(double)
declare double @llvm.fabs.f64(double)
`

// numberBufSize holds the longest %.17g rendering with room to spare.
const numberBufSize = 32

// maxInt64Double is 2^63, the first magnitude that no longer fits an i64.
const maxInt64Double = "0x43E0000000000000"

// numberPrinter renders the definition of the number printer and allocates
// its format strings in the pool.
func (g *Generator) numberPrinter() (string, error) {
	intFmt, err := g.pool.Add(".num.int", "%lld\n")
	if err != nil {
		return "", err
	}
	nanText, err := g.pool.Add(".num.nan", "nan\n")
	if err != nil {
		return "", err
	}
	strFmt, err := g.pool.Add(".num.str", "%s\n")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "define private void @%s(double %%v) {\nentry:\n", printNumberFn)
	fmt.Fprintf(&b, "  %%buf = alloca [%d x i8]\n", numberBufSize)
	b.WriteString("  %r = call double @llvm.round.f64(double %v)\n")
	b.WriteString("  %diff = fsub double %v, %r\n")
	b.WriteString("  %dist = call double @llvm.fabs.f64(double %diff)\n")
	fmt.Fprintf(&b, "  %%near = fcmp olt double %%dist, %s\n", DoubleLiteral(expr.IntegralTolerance))
	b.WriteString("  %mag = call double @llvm.fabs.f64(double %r)\n")
	fmt.Fprintf(&b, "  %%fits = fcmp olt double %%mag, %s\n", maxInt64Double)
	b.WriteString("  %integral = and i1 %near, %fits\n")
	b.WriteString("  br i1 %integral, label %whole, label %frac\n")

	b.WriteString("whole:\n")
	b.WriteString("  %n = fptosi double %r to i64\n")
	fmt.Fprintf(&b, "  call i32 (ptr, ...) @printf(ptr %s, i64 %%n)\n", GEP(intFmt))
	b.WriteString("  ret void\n")

	b.WriteString("frac:\n")
	b.WriteString("  %isnan = fcmp uno double %v, %v\n")
	fmt.Fprintf(&b, "  br i1 %%isnan, label %%not.a.number, label %%g%d\n", expr.RoundTripPrecisions[0])

	b.WriteString("not.a.number:\n")
	fmt.Fprintf(&b, "  call i32 (ptr, ...) @printf(ptr %s)\n", GEP(nanText))
	b.WriteString("  ret void\n")

	// Try each precision until the text reads back as the same value.
	precs := expr.RoundTripPrecisions
	for i, prec := range precs {
		gfmt, err := g.pool.Add(fmt.Sprintf(".num.g%d", prec), fmt.Sprintf("%%.%dg", prec))
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "g%d:\n", prec)
		fmt.Fprintf(&b, "  call i32 (ptr, i64, ptr, ...) @snprintf(ptr %%buf, i64 %d, ptr %s, double %%v)\n", numberBufSize, GEP(gfmt))
		if i == len(precs)-1 {
			b.WriteString("  br label %done\n")
			break
		}
		fmt.Fprintf(&b, "  %%back%d = call double @strtod(ptr %%buf, ptr null)\n", prec)
		fmt.Fprintf(&b, "  %%same%d = fcmp oeq double %%back%d, %%v\n", prec, prec)
		fmt.Fprintf(&b, "  br i1 %%same%d, label %%done, label %%g%d\n", prec, precs[i+1])
	}

	b.WriteString("done:\n")
	fmt.Fprintf(&b, "  call i32 (ptr, ...) @printf(ptr %s, ptr %%buf)\n", GEP(strFmt))
	b.WriteString("  ret void\n}\n")
	return b.String(), nil
}
