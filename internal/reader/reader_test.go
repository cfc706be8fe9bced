package reader

import (
	"testing"

	"github.com/klisp-lang/klisp/internal/kerr"
	"github.com/klisp-lang/klisp/internal/token"
	"github.com/klisp-lang/klisp/internal/value"
)

func TestReadAtoms(t *testing.T) {
	cases := []struct {
		in   string
		want value.Value
	}{
		{"42", value.Integer(42)},
		{"-7", value.Integer(-7)},
		{"3.14", value.Float(3.14)},
		{"nil", value.Nil},
		{"true", value.Bool(true)},
		{"FALSE", value.Bool(false)},
		{"abc", value.Symbol{Name: "abc"}},
	}
	for _, c := range cases {
		v, rest, err := Read(c.in)
		if err != nil {
			t.Fatalf("Read(%q): unexpected error: %v", c.in, err)
		}
		if rest != "" {
			t.Errorf("Read(%q): expected empty remainder, got %q", c.in, rest)
		}
		if v.Print() != c.want.Print() {
			t.Errorf("Read(%q) = %v, want %v", c.in, v, c.want)
		}
	}
}

func TestReadList(t *testing.T) {
	v, _, err := Read("(1 2 3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := v.Print(), "(1 2 3)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadNestedList(t *testing.T) {
	v, _, err := Read("(a (b c) d)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := v.Print(), "(a (b c) d)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadEmptyList(t *testing.T) {
	v, _, err := Read("()")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(value.NilValue); !ok {
		t.Errorf("() should read as Nil, got %v", v)
	}
}

func TestReadQuoteSugar(t *testing.T) {
	v, _, err := Read("'x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := v.Print(), "(quote x)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadString(t *testing.T) {
	v, _, err := Read(`"hello\nworld"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := v.(value.Str)
	if !ok {
		t.Fatalf("expected Str, got %T", v)
	}
	if s.Text != "hello\nworld" {
		t.Errorf("got %q", s.Text)
	}
}

func TestReadAllMultipleForms(t *testing.T) {
	forms, err := ReadAll("1 2 (+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forms) != 3 {
		t.Fatalf("expected 3 forms, got %d", len(forms))
	}
}

func TestReadSkipsLineComments(t *testing.T) {
	v, _, err := Read("; a comment\n42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := v.(value.Integer); !ok || n != 42 {
		t.Errorf("got %v", v)
	}
}

func TestReadErrors(t *testing.T) {
	cases := []string{
		"",
		")",
		"'",
		"(1 2",
		`"unterminated`,
	}
	for _, in := range cases {
		_, _, err := Read(in)
		if err == nil {
			t.Errorf("Read(%q): expected error, got none", in)
			continue
		}
		if !kerr.Is(err, kerr.Parse) {
			t.Errorf("Read(%q): expected a Parse error, got %v", in, err)
		}
	}
}

func TestReadKeywordBecomesBuiltin(t *testing.T) {
	v, _, err := Read("+")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(value.Builtin); !ok {
		t.Errorf("expected Builtin, got %T", v)
	}
}

func TestReadDottedMethodSugar(t *testing.T) {
	v, _, err := Read("(.method obj 1 2)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := v.(value.Cons)
	if !ok {
		t.Fatalf("expected Cons, got %T", v)
	}
	if _, ok := c.Car.(value.Builtin); !ok {
		t.Errorf("expected head rewritten to a Builtin, got %T", c.Car)
	}
}

func TestReadDotFieldSugarFused(t *testing.T) {
	v, _, err := Read("(.-field obj)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := v.(value.Cons)
	if !ok {
		t.Fatalf("expected Cons, got %T", v)
	}
	b, ok := c.Car.(value.Builtin)
	if !ok {
		t.Fatalf("expected head rewritten to a Builtin, got %T", c.Car)
	}
	if b.Tag != token.DOT_FIELD {
		t.Errorf("expected DOT_FIELD, got %v", b.Tag)
	}
}

// TestReadDotFieldSugarSeparated guards against the fused-prefix case
// ("len(name) > 1 && strings.HasPrefix(name, \".\")") stealing the exact
// two-character head symbol ".-" before the dedicated ".-" case runs,
// which would misrewrite this as DOT with a bogus method name "-" instead
// of DOT_FIELD.
func TestReadDotFieldSugarSeparated(t *testing.T) {
	v, _, err := Read("(.- field obj)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := v.(value.Cons)
	if !ok {
		t.Fatalf("expected Cons, got %T", v)
	}
	b, ok := c.Car.(value.Builtin)
	if !ok {
		t.Fatalf("expected head rewritten to a Builtin, got %T", c.Car)
	}
	if b.Tag != token.DOT_FIELD {
		t.Errorf("expected DOT_FIELD, got %v", b.Tag)
	}
}

func TestReadDotMethodSugarSeparated(t *testing.T) {
	v, _, err := Read("(. method obj 1)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := v.(value.Cons)
	if !ok {
		t.Fatalf("expected Cons, got %T", v)
	}
	b, ok := c.Car.(value.Builtin)
	if !ok {
		t.Fatalf("expected head rewritten to a Builtin, got %T", c.Car)
	}
	if b.Tag != token.DOT {
		t.Errorf("expected DOT, got %v", b.Tag)
	}
}
