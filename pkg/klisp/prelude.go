package klisp

// DefaultPrelude defines the convenience macros/lambdas supplementing the
// core builtin set: a single-binding let (nest for more than one
// binding), binary and/or (nest for more than two operands), not, and a
// variadic list constructor. None of these add a new Builtin tag — they
// are ordinary Macro/Lambda values bound by evaluating this source
// before a Runtime's first caller-supplied form.
//
// let and and/or are pure substitution macros rather than recursive
// destructuring, so they only take the fixed arity pure substitution can
// express; or wraps its first operand in a throwaway lambda parameter to
// evaluate it exactly once despite appearing twice in its expansion.
const DefaultPrelude = `
(def let (macro (name val body) ((lambda (name) body) val)))
(def not (macro (x) (if x false true)))
(def and (macro (a b) (if a b false)))
(def or (macro (a b) ((lambda (__or_tmp__) (if __or_tmp__ __or_tmp__ b)) a)))
(def list (lambda (. rest) rest))
`
