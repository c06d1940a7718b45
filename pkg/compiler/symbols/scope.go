// Package symbols provides the symbol tables used while compiling a Trust
// program: scalars, strings and arrays grouped into parent-chained scopes,
// plus the function table entries.
package symbols

// BindingKind tells which table a name is bound in.
type BindingKind int

const (
	Unbound BindingKind = iota
	ScalarBinding
	StringBinding
	ArrayBinding
)

// Scope represents one level of name bindings.
// The module scope has no parent; a function lowering creates a child scope
// whose declarations shadow, but never mutate, the module scope.
//
// A name has at most one binding per level: declaring it in one table
// removes it from the other two tables of the same level.
type Scope struct {
	scalars map[string]float64
	strings map[string]string
	arrays  map[string][]Element
	parent  *Scope
}

// NewScope creates a new scope with an optional parent scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		scalars: make(map[string]float64),
		strings: make(map[string]string),
		arrays:  make(map[string][]Element),
		parent:  parent,
	}
}

// Lookup reports which table binds name, searching the current level first
// and then the parent levels.
func (s *Scope) Lookup(name string) BindingKind {
	for sc := s; sc != nil; sc = sc.parent {
		if k := sc.localKind(name); k != Unbound {
			return k
		}
	}
	return Unbound
}

// LookupLocal reports which table binds name in this level only.
func (s *Scope) LookupLocal(name string) BindingKind {
	return s.localKind(name)
}

func (s *Scope) localKind(name string) BindingKind {
	if _, ok := s.scalars[name]; ok {
		return ScalarBinding
	}
	if _, ok := s.strings[name]; ok {
		return StringBinding
	}
	if _, ok := s.arrays[name]; ok {
		return ArrayBinding
	}
	return Unbound
}

// Scalar returns the numeric value bound to name.
// The boolean is false when the nearest binding of name is not a scalar.
func (s *Scope) Scalar(name string) (float64, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		switch sc.localKind(name) {
		case ScalarBinding:
			return sc.scalars[name], true
		case Unbound:
			continue
		default:
			return 0, false
		}
	}
	return 0, false
}

// String returns the string value bound to name.
func (s *Scope) String(name string) (string, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		switch sc.localKind(name) {
		case StringBinding:
			return sc.strings[name], true
		case Unbound:
			continue
		default:
			return "", false
		}
	}
	return "", false
}

// Array returns the elements bound to name.
func (s *Scope) Array(name string) ([]Element, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		switch sc.localKind(name) {
		case ArrayBinding:
			return sc.arrays[name], true
		case Unbound:
			continue
		default:
			return nil, false
		}
	}
	return nil, false
}

// SetScalar binds a number in the current scope.
func (s *Scope) SetScalar(name string, value float64) {
	s.unbind(name)
	s.scalars[name] = value
}

// SetBool binds a boolean (stored as 1.0 or 0.0) in the current scope.
func (s *Scope) SetBool(name string, value bool) {
	s.SetScalar(name, BoolValue(value))
}

// SetString binds a string in the current scope.
func (s *Scope) SetString(name, value string) {
	s.unbind(name)
	s.strings[name] = value
}

// SetArray binds an array in the current scope.
// The slice is copied so later changes by the caller do not leak in.
func (s *Scope) SetArray(name string, elems []Element) {
	s.unbind(name)
	cp := make([]Element, len(elems))
	copy(cp, elems)
	s.arrays[name] = cp
}

// Delete removes any binding of name from the current level.
// Bindings in parent levels become visible again.
func (s *Scope) Delete(name string) {
	s.unbind(name)
}

func (s *Scope) unbind(name string) {
	delete(s.scalars, name)
	delete(s.strings, name)
	delete(s.arrays, name)
}

// Len returns the number of bindings in the current scope only.
func (s *Scope) Len() int {
	return len(s.scalars) + len(s.strings) + len(s.arrays)
}

// BoolValue converts a boolean to its scalar representation.
func BoolValue(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
