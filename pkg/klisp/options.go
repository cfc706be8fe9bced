package klisp

import (
	"github.com/klisp-lang/klisp/internal/ioadapter"
	"github.com/klisp-lang/klisp/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithSQLiteStore configures SQLite persistence of def bindings at path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err == nil {
			r.store = s
		}
	}
}

// WithMemoryStore configures an in-memory store.
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
	}
}

// WithIOAdapter sets the I/O adapter backing print/read/load. Defaults to
// Stdio when not given.
func WithIOAdapter(a ioadapter.Adapter) Option {
	return func(r *Runtime) { r.io = a }
}

// WithNoPrelude skips loading DefaultPrelude.
func WithNoPrelude() Option {
	return func(r *Runtime) { r.noPrelude = true }
}
