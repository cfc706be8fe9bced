// Package value defines the run-time value model of klisp: the tagged sum
// of values the reader produces and the evaluator operates on, plus the
// lexically-scoped Environment that stores bindings for them.
package value

import (
	"strconv"
	"strings"

	"github.com/klisp-lang/klisp/internal/token"
)

// Value is the interface every run-time value implements. Print returns
// the canonical external (unquoted-string) form described in the data
// model; Show (see show.go) is the REPL-facing variant that quotes
// strings.
type Value interface {
	Print() string
}

// Integer is a 64-bit signed integer value.
type Integer int64

func (i Integer) Print() string { return strconv.FormatInt(int64(i), 10) }

// Float is an IEEE-754 double value.
type Float float64

func (f Float) Print() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Str is an immutable UTF-8 string value.
type Str struct {
	Text string
}

func (s Str) Print() string { return s.Text }

// Bool is a boolean value.
type Bool bool

func (b Bool) Print() string {
	if b {
		return "true"
	}
	return "false"
}

// Symbol is a non-empty identifier. Symbols are not self-evaluating: the
// evaluator looks them up in the environment.
type Symbol struct {
	Name string
}

func (s Symbol) Print() string { return s.Name }

// NilValue is the unit value and also the empty list.
type NilValue struct{}

func (NilValue) Print() string { return "nil" }

// Nil is the shared Nil value. Equality between Nils is structural
// (NilValue is a zero-size struct), so any NilValue{} compares equal to
// this one; Nil exists only as a convenient, readable spelling.
var Nil = NilValue{}

// Cons is an ordered pair; the spine of lists. A Cons whose Cdr is
// neither Nil nor another Cons is an improper list.
type Cons struct {
	Car Value
	Cdr Value
}

func (c Cons) Print() string { return printCons(c, Value.Print) }

// Builtin is a reified special form.
type Builtin struct {
	Tag token.SpecialForm
}

func (b Builtin) Print() string { return b.Tag.String() }

// Lambda is a closure: params bound positionally, an optional variadic
// tail parameter, a single body form, and the environment captured at
// definition time.
type Lambda struct {
	Params   []Symbol
	Variadic *Symbol
	Body     Value
	Captured *Environment
}

func (l Lambda) Print() string { return printParams("lambda", l.Params, l.Variadic) }

// Macro has the same parameter shape as Lambda but does not close over an
// environment: expansion substitutes into Body using the call-site
// environment.
type Macro struct {
	Params   []Symbol
	Variadic *Symbol
	Body     Value
}

func (m Macro) Print() string { return printParams("macro", m.Params, m.Variadic) }

func printParams(keyword string, params []Symbol, variadic *Symbol) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(keyword)
	for _, p := range params {
		sb.WriteString(" ")
		sb.WriteString(p.Name)
	}
	if variadic != nil {
		sb.WriteString(" . ")
		sb.WriteString(variadic.Name)
	}
	sb.WriteString(")")
	return sb.String()
}

// printCons renders a Cons as "(e1 e2 … en)" for a proper list and
// "(e1 e2 … en . t)" for an improper tail, using elemPrint to render each
// element (Print for the canonical form, Show for the REPL form).
func printCons(c Cons, elemPrint func(Value) string) string {
	var parts []string
	var cur Value = c
	for {
		cc, ok := cur.(Cons)
		if !ok {
			break
		}
		parts = append(parts, elemPrint(cc.Car))
		cur = cc.Cdr
	}
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(strings.Join(parts, " "))
	if _, isNil := cur.(NilValue); !isNil {
		sb.WriteString(" . ")
		sb.WriteString(elemPrint(cur))
	}
	sb.WriteString(")")
	return sb.String()
}
