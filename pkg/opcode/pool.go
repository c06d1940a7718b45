package opcode

import "fmt"

// Global is an addressable string constant of the emitted module.
type Global struct {
	Name  string // Symbol name without the leading '@'
	Bytes string // Content including any newline, excluding the NUL terminator
}

// Len returns the exact byte length of the constant, NUL terminator included.
func (g *Global) Len() int {
	return len(g.Bytes) + 1
}

// Pool is the set of global string constants in allocation order.
// Constants are never coalesced: every call site gets its own global.
type Pool struct {
	globals []*Global
	names   map[string]bool
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{names: make(map[string]bool)}
}

// Add registers a new constant. Names must be unique within the module.
func (p *Pool) Add(name, bytes string) (*Global, error) {
	if p.names[name] {
		return nil, fmt.Errorf("duplicate global name: %s", name)
	}
	g := &Global{Name: name, Bytes: bytes}
	p.names[name] = true
	p.globals = append(p.globals, g)
	return g, nil
}

// Globals returns the constants in allocation order.
func (p *Pool) Globals() []*Global {
	return p.globals
}

// Len returns the number of constants.
func (p *Pool) Len() int {
	return len(p.globals)
}

// Clone returns a pool with the same constants that can grow independently.
func (p *Pool) Clone() *Pool {
	c := &Pool{
		globals: make([]*Global, len(p.globals)),
		names:   make(map[string]bool, len(p.names)),
	}
	copy(c.globals, p.globals)
	for name := range p.names {
		c.names[name] = true
	}
	return c
}
