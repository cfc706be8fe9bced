package value

import (
	"github.com/klisp-lang/klisp/internal/ioadapter"
	"github.com/klisp-lang/klisp/internal/kerr"
)

// Environment is a lexically scoped, mutable, parent-linked symbol table.
// The evaluator is single-threaded (see package eval), so Environment
// carries no locking.
type Environment struct {
	vars   map[string]Value
	parent *Environment
	io     ioadapter.Adapter
}

// NewEnvironment creates a frame linked to parent. parent may be nil for
// a root frame.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{vars: make(map[string]Value), parent: parent}
}

// Child creates a fresh frame linked to e.
func (e *Environment) Child() *Environment {
	return NewEnvironment(e)
}

// Lookup walks the parent chain and returns the first binding found.
func (e *Environment) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Define unconditionally inserts or overwrites name in this frame.
func (e *Environment) Define(name string, v Value) {
	e.vars[name] = v
}

// Assign walks the parent chain and mutates the first frame containing
// name. It fails if no frame defines name.
func (e *Environment) Assign(name string, v Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = v
			return nil
		}
	}
	return kerr.NewEval("Undefined variable: %s", name)
}

// SetIO attaches an I/O adapter to this frame.
func (e *Environment) SetIO(a ioadapter.Adapter) {
	e.io = a
}

// LookupIO walks to the nearest ancestor frame (including e) carrying an
// I/O adapter, returning nil if none is wired.
func (e *Environment) LookupIO() ioadapter.Adapter {
	for env := e; env != nil; env = env.parent {
		if env.io != nil {
			return env.io
		}
	}
	return nil
}
