package symbols

import "fmt"

// ElementKind is the runtime type tag of an array element.
type ElementKind int

const (
	NumberElement ElementKind = iota
	BoolElement
	StringElement
)

// String returns the source-level name of the kind.
func (k ElementKind) String() string {
	switch k {
	case NumberElement:
		return "number"
	case BoolElement:
		return "bool"
	case StringElement:
		return "string"
	default:
		return fmt.Sprintf("ElementKind(%d)", int(k))
	}
}

// Element is one entry of a heterogeneous array.
// Number holds the value for NumberElement and BoolElement (0 or 1);
// Text holds the value for StringElement.
type Element struct {
	Kind   ElementKind
	Number float64
	Text   string
}

// NumberOf creates a numeric element.
func NumberOf(v float64) Element {
	return Element{Kind: NumberElement, Number: v}
}

// BoolOf creates a boolean element.
func BoolOf(b bool) Element {
	return Element{Kind: BoolElement, Number: BoolValue(b)}
}

// StringOf creates a string element.
func StringOf(s string) Element {
	return Element{Kind: StringElement, Text: s}
}

// ParamType is the declared type of a function parameter.
type ParamType string

const (
	IntegerParam ParamType = "Integer"
	StringParam  ParamType = "String"
	BoolParam    ParamType = "Bool"
)

// ParseParamType converts a source type keyword to a ParamType.
func ParseParamType(s string) (ParamType, bool) {
	switch ParamType(s) {
	case IntegerParam, StringParam, BoolParam:
		return ParamType(s), true
	}
	return "", false
}

// IRType returns the LLVM type used to pass a parameter of this type.
func (t ParamType) IRType() string {
	switch t {
	case StringParam:
		return "ptr"
	case BoolParam:
		return "i1"
	default:
		return "i32"
	}
}

// Param is one formal parameter of a function.
type Param struct {
	Type ParamType
	Name string
}

// Line is a source line as seen by the statement processor.
type Line struct {
	Number int    // 1-indexed line number in the source file
	Text   string // Code text with the trailing comment removed
	Raw    string // Original text, used in diagnostics
}

// Function is a declared function.
// It is registered once when the declaration is processed and never changed.
type Function struct {
	Name   string
	Params []Param
	Body   []Line // Lines strictly between the header and the closing brace
	Line   int    // Line number of the declaration header
}

// FunctionTable maps function names to their declarations and remembers
// declaration order.
type FunctionTable struct {
	byName map[string]*Function
	order  []*Function
}

// NewFunctionTable creates an empty table.
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{byName: make(map[string]*Function)}
}

// Define registers a function. It returns false if the name is taken.
func (t *FunctionTable) Define(fn *Function) bool {
	if _, exists := t.byName[fn.Name]; exists {
		return false
	}
	t.byName[fn.Name] = fn
	t.order = append(t.order, fn)
	return true
}

// Get looks up a function by name.
func (t *FunctionTable) Get(name string) (*Function, bool) {
	fn, ok := t.byName[name]
	return fn, ok
}

// All returns the functions in declaration order.
func (t *FunctionTable) All() []*Function {
	return t.order
}

// Len returns the number of declared functions.
func (t *FunctionTable) Len() int {
	return len(t.order)
}
