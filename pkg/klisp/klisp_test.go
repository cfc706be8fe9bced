package klisp

import (
	"testing"

	"github.com/klisp-lang/klisp/internal/ioadapter"
	"github.com/klisp-lang/klisp/internal/value"
)

func TestEvalStringArithmetic(t *testing.T) {
	rt, err := New(WithMemoryStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rt.Close()

	got, err := rt.EvalString("(+ 1 2 3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := got.(value.Integer); !ok || n != 6 {
		t.Errorf("got %v, want Integer 6", got)
	}
}

func TestEvalStringEvaluatesEveryFormReturningLast(t *testing.T) {
	rt, err := New(WithMemoryStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rt.Close()

	got, err := rt.EvalString("(def x 1) (def y 2) (+ x y)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := got.(value.Integer); !ok || n != 3 {
		t.Errorf("got %v, want Integer 3", got)
	}
}

func TestDefaultPreludeLet(t *testing.T) {
	rt, err := New(WithMemoryStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rt.Close()

	got, err := rt.EvalString("(let a 5 (+ a 1))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := got.(value.Integer); !ok || n != 6 {
		t.Errorf("got %v, want Integer 6", got)
	}
}

func TestDefaultPreludeAndOr(t *testing.T) {
	rt, err := New(WithMemoryStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rt.Close()

	cases := []struct {
		src  string
		want bool
	}{
		{"(and true true)", true},
		{"(and true false)", false},
		{"(or false true)", true},
		{"(or false false)", false},
		{"(not false)", true},
		{"(not true)", false},
	}
	for _, c := range cases {
		got, err := rt.EvalString(c.src)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.src, err)
		}
		b, ok := got.(value.Bool)
		if !ok || bool(b) != c.want {
			t.Errorf("%s = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestDefaultPreludeOrEvaluatesFirstOperandOnce(t *testing.T) {
	rt, err := New(WithMemoryStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rt.Close()

	got, err := rt.EvalString(`
		(do
			(def n 0)
			(def bump (lambda () (do (set! n (+ n 1)) true)))
			(or (bump) (bump))
			n)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := got.(value.Integer); !ok || n != 1 {
		t.Errorf("got %v, want Integer 1 (first operand evaluated exactly once)", got)
	}
}

func TestDefaultPreludeList(t *testing.T) {
	rt, err := New(WithMemoryStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rt.Close()

	got, err := rt.EvalString("(list 1 2 3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Print() != "(1 2 3)" {
		t.Errorf("got %q, want \"(1 2 3)\"", got.Print())
	}
}

func TestWithNoPreludeSkipsPrelude(t *testing.T) {
	rt, err := New(WithMemoryStore(), WithNoPrelude())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rt.Close()

	if _, err := rt.EvalString("(let a 1 a)"); err == nil {
		t.Errorf("expected an error: let should be undefined without the prelude")
	}
}

func TestEvalFileUsesIOAdapter(t *testing.T) {
	io := ioadapter.NewStringBacked()
	io.Files["prog.klisp"] = "(+ 1 1)"
	rt, err := New(WithMemoryStore(), WithIOAdapter(io))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rt.Close()

	got, err := rt.EvalFile("prog.klisp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := got.(value.Integer); !ok || n != 2 {
		t.Errorf("got %v, want Integer 2", got)
	}
}

func TestSQLiteStorePersistsDefAcrossRuntimes(t *testing.T) {
	dbPath := t.TempDir() + "/klisp.db"

	rt1, err := New(WithSQLiteStore(dbPath))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := rt1.EvalString("(def remembered 99)"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := rt1.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rt2, err := New(WithSQLiteStore(dbPath))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rt2.Close()

	got, err := rt2.EvalString("remembered")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := got.(value.Integer); !ok || n != 99 {
		t.Errorf("got %v, want Integer 99", got)
	}
}
