// Package klisp provides the public API for embedding the klisp
// interpreter: a Runtime wraps an Evaluator, its root environment's I/O
// adapter, and an optional persistence store, and loads a default prelude
// of convenience macros before first use.
package klisp

import (
	"github.com/klisp-lang/klisp/internal/eval"
	"github.com/klisp-lang/klisp/internal/ioadapter"
	"github.com/klisp-lang/klisp/internal/reader"
	"github.com/klisp-lang/klisp/internal/value"
)

// Runtime is the klisp interpreter runtime.
type Runtime struct {
	evaluator *eval.Evaluator
	store     eval.Store
	io        ioadapter.Adapter
	noPrelude bool
}

// New creates a Runtime with the given options, then loads the default
// prelude (unless WithNoPrelude was given).
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{}
	for _, opt := range opts {
		opt(r)
	}

	if r.io == nil {
		r.io = ioadapter.NewStdio()
	}

	evalOpts := []eval.Option{eval.WithIOAdapter(r.io)}
	if r.store != nil {
		evalOpts = append(evalOpts, eval.WithStore(r.store))
	}
	r.evaluator = eval.New(evalOpts...)

	if !r.noPrelude {
		if _, err := r.EvalString(DefaultPrelude); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Eval evaluates an already-read form in the runtime's root environment.
func (r *Runtime) Eval(form value.Value) (value.Value, error) {
	return r.evaluator.Eval(form, nil)
}

// EvalString reads and evaluates every top-level form in input, returning
// the value of the last one.
func (r *Runtime) EvalString(input string) (value.Value, error) {
	forms, err := reader.ReadAll(input)
	if err != nil {
		return nil, err
	}
	var result value.Value = value.Nil
	for _, form := range forms {
		result, err = r.evaluator.Eval(form, nil)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// EvalFile reads the file at path through the runtime's I/O adapter and
// evaluates every top-level form in it.
func (r *Runtime) EvalFile(path string) (value.Value, error) {
	contents, err := r.io.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r.EvalString(contents)
}

// Close releases the runtime's persistence store, if any.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}
