// Package eval implements klisp's evaluator: the trampoline-driven
// tree-walker that turns an expanded Value into a concrete Value, plus
// the Store interface through which top-level definitions may be
// persisted across process runs.
package eval

import (
	"github.com/klisp-lang/klisp/internal/expand"
	"github.com/klisp-lang/klisp/internal/ioadapter"
	"github.com/klisp-lang/klisp/internal/kerr"
	"github.com/klisp-lang/klisp/internal/trampoline"
	"github.com/klisp-lang/klisp/internal/value"
)

// Store persists top-level def bindings by name. Implementations live in
// package store and satisfy this interface structurally.
type Store interface {
	Get(name string) (value.Value, bool, error)
	Put(name string, v value.Value) error
	Delete(name string) error
	Close() error
}

// Evaluator holds the configuration shared across a sequence of Eval
// calls: the root environment, an optional persistence store, and the
// I/O adapter wired into that environment.
type Evaluator struct {
	root  *value.Environment
	store Store
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithIOAdapter wires an I/O adapter into the evaluator's root
// environment, used by print/read/load.
func WithIOAdapter(a ioadapter.Adapter) Option {
	return func(e *Evaluator) { e.root.SetIO(a) }
}

// WithStore attaches a persistence store. A symbol lookup that misses in
// the root environment falls back to the store, so bindings from a prior
// session surface lazily as they're referenced rather than all being
// loaded up front.
func WithStore(s Store) Option {
	return func(e *Evaluator) { e.store = s }
}

// New creates an Evaluator with a fresh root environment and applies opts.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{root: value.NewEnvironment(nil)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RootEnv returns the evaluator's root environment, e.g. so a caller can
// Define prelude bindings into it before the first Eval.
func (e *Evaluator) RootEnv() *value.Environment {
	return e.root
}

// Eval expands form in env (defaulting to the root environment when env
// is nil) and drives the result to a concrete Value through the
// trampoline.
func (e *Evaluator) Eval(form value.Value, env *value.Environment) (value.Value, error) {
	if env == nil {
		env = e.root
	}
	expanded, err := expand.Expand(form, env)
	if err != nil {
		return nil, err
	}
	t, err := evalT(expanded, env, e)
	if err != nil {
		return nil, err
	}
	return trampoline.Run(t)
}

// runToValue drives a non-tail subexpression to a concrete Value: every
// argument, condition, and non-final `do` form goes through here rather
// than being returned as a deferred thunk.
func runToValue(form value.Value, env *value.Environment, e *Evaluator) (value.Value, error) {
	t, err := evalT(form, env, e)
	if err != nil {
		return nil, err
	}
	return trampoline.Run(t)
}

// evalT is the per-form dispatcher. It returns Done(v) for anything that
// doesn't require unwinding the host stack, and More(thunk) for tail
// positions so the caller's driver resumes them iteratively.
func evalT(form value.Value, env *value.Environment, e *Evaluator) (trampoline.Trampoline, error) {
	switch t := form.(type) {
	case value.Integer, value.Float, value.Str, value.Bool, value.NilValue,
		value.Builtin, value.Lambda, value.Macro:
		return trampoline.Done(form), nil

	case value.Symbol:
		v, ok := env.Lookup(t.Name)
		if !ok {
			if e.store != nil {
				if stored, found, err := e.store.Get(t.Name); err == nil && found {
					e.root.Define(t.Name, stored)
					return trampoline.Done(stored), nil
				}
			}
			return trampoline.Trampoline{}, kerr.NewEval("Undefined symbol: %s", t.Name)
		}
		return trampoline.Done(v), nil

	case value.Cons:
		if value.IsEmptyForm(t) {
			return trampoline.Done(value.Nil), nil
		}
		return evalCons(t, env, e)

	default:
		return trampoline.Trampoline{}, kerr.NewEval("cannot evaluate value of unknown type")
	}
}

// evalCons evaluates the head to a callee (non-tail), materializes the
// tail as unevaluated argument expressions, and dispatches to a Builtin
// or Lambda.
func evalCons(c value.Cons, env *value.Environment, e *Evaluator) (trampoline.Trampoline, error) {
	callee, err := runToValue(c.Car, env, e)
	if err != nil {
		return trampoline.Trampoline{}, err
	}
	args, ok := value.ToSlice(c.Cdr)
	if !ok {
		return trampoline.Trampoline{}, kerr.NewEval("call arguments must be a proper list")
	}

	switch fn := callee.(type) {
	case value.Builtin:
		return applyBuiltin(fn.Tag, args, env, e)
	case value.Lambda:
		return applyLambda(fn, args, env, e)
	default:
		return trampoline.Trampoline{}, kerr.NewEval("cannot call a value of type %s", typeName(callee))
	}
}

// applyLambda is the trampoline-critical path: validate arity, build a
// child of the lambda's captured environment, evaluate each argument
// eagerly in the caller's environment, bind parameters, then return a
// deferred continuation for the body rather than recursing into it.
func applyLambda(fn value.Lambda, args []value.Value, callerEnv *value.Environment, e *Evaluator) (trampoline.Trampoline, error) {
	fixed := len(fn.Params)
	if fn.Variadic == nil {
		if len(args) != fixed {
			return trampoline.Trampoline{}, kerr.NewEval("lambda expects %d argument(s), got %d", fixed, len(args))
		}
	} else if len(args) < fixed {
		return trampoline.Trampoline{}, kerr.NewEval("lambda expects at least %d argument(s), got %d", fixed, len(args))
	}

	childEnv := fn.Captured.Child()
	for i, p := range fn.Params {
		v, err := runToValue(args[i], callerEnv, e)
		if err != nil {
			return trampoline.Trampoline{}, err
		}
		childEnv.Define(p.Name, v)
	}
	if fn.Variadic != nil {
		rest := make([]value.Value, 0, len(args)-fixed)
		for _, a := range args[fixed:] {
			v, err := runToValue(a, callerEnv, e)
			if err != nil {
				return trampoline.Trampoline{}, err
			}
			rest = append(rest, v)
		}
		childEnv.Define(fn.Variadic.Name, value.FromSlice(rest))
	}

	body := fn.Body
	return trampoline.More(func() (trampoline.Trampoline, error) {
		return evalT(body, childEnv, e)
	}), nil
}
