// Package store provides persistence for klisp's top-level def bindings,
// so a klisp run --db path.db invocation can resume a prior session's
// definitions. Memory and SQLite satisfy eval.Store structurally — this
// package does not import package eval, avoiding a cycle.
package store
