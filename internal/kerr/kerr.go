// Package kerr defines the three error kinds klisp surfaces to callers —
// Parse, Eval, and Runtime — and the printed prefix each carries.
package kerr

import "fmt"

// Kind classifies an error by where in the pipeline it originated.
type Kind int

const (
	// Parse errors come from the reader.
	Parse Kind = iota
	// Eval errors are static-ish mistakes caught during evaluation:
	// arity, type mismatches, unbound names.
	Eval
	// Runtime errors are I/O failures, division/modulo by zero, and
	// user-triggered `raise`.
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Parse:
		return "Parse error"
	case Eval:
		return "Eval error"
	case Runtime:
		return "Runtime error"
	default:
		return "error"
	}
}

// Error is a klisp error carrying its Kind alongside the message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Msg }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NewParse(format string, args ...any) error   { return New(Parse, format, args...) }
func NewEval(format string, args ...any) error    { return New(Eval, format, args...) }
func NewRuntime(format string, args ...any) error { return New(Runtime, format, args...) }

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	ke, ok := err.(*Error)
	return ok && ke.Kind == kind
}
