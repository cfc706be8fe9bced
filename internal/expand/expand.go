// Package expand implements the macro expander: Value x Environment ->
// Value, recursively expanding macro calls to a fixed point.
package expand

import (
	"github.com/klisp-lang/klisp/internal/kerr"
	"github.com/klisp-lang/klisp/internal/value"
)

// Expand walks v bottom-up, replacing any macro call it finds with its
// substituted body and re-expanding the result in env until no macro call
// remains reachable. Non-Cons values and the one-element Nil-headed form
// Cons(Nil, Nil) are returned unchanged.
func Expand(v value.Value, env *value.Environment) (value.Value, error) {
	c, ok := v.(value.Cons)
	if !ok || value.IsEmptyForm(v) {
		return v, nil
	}

	if sym, ok := c.Car.(value.Symbol); ok {
		if bound, found := env.Lookup(sym.Name); found {
			if macro, ok := bound.(value.Macro); ok {
				args, proper := value.ToSlice(c.Cdr)
				if !proper {
					return nil, kerr.NewEval("macro call arguments must be a proper list")
				}
				substituted, err := expandMacroCall(macro, args)
				if err != nil {
					return nil, err
				}
				return Expand(substituted, env)
			}
		}
	}

	expandedCar, err := Expand(c.Car, env)
	if err != nil {
		return nil, err
	}
	expandedCdr, err := Expand(c.Cdr, env)
	if err != nil {
		return nil, err
	}
	return value.Cons{Car: expandedCar, Cdr: expandedCdr}, nil
}

// expandMacroCall binds macro's parameters to the unevaluated argument
// forms and substitutes them into its body.
func expandMacroCall(macro value.Macro, args []value.Value) (value.Value, error) {
	fixed := len(macro.Params)
	if macro.Variadic == nil {
		if len(args) != fixed {
			return nil, kerr.NewEval("macro expects %d argument(s), got %d", fixed, len(args))
		}
	} else if len(args) < fixed {
		return nil, kerr.NewEval("macro expects at least %d argument(s), got %d", fixed, len(args))
	}

	bindings := make(map[string]value.Value, fixed+1)
	for i, p := range macro.Params {
		bindings[p.Name] = args[i]
	}
	if macro.Variadic != nil {
		bindings[macro.Variadic.Name] = value.FromSlice(args[fixed:])
	}
	return substitute(macro.Body, bindings), nil
}

// substitute is a pure, non-hygienic tree walk: Symbols bound in bindings
// are replaced by the caller's unevaluated argument expression; Cons
// cells are rebuilt recursively; everything else passes through
// unchanged. No gensyms, no renaming — a macro parameter can capture an
// identically-named binding at the call site.
func substitute(v value.Value, bindings map[string]value.Value) value.Value {
	switch t := v.(type) {
	case value.Symbol:
		if replacement, ok := bindings[t.Name]; ok {
			return replacement
		}
		return v
	case value.Cons:
		return value.Cons{
			Car: substitute(t.Car, bindings),
			Cdr: substitute(t.Cdr, bindings),
		}
	default:
		return v
	}
}
