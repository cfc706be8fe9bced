package token

import "testing"

func TestLookupAndStringRoundTrip(t *testing.T) {
	cases := []string{"+", "-", "*", "/", "%", "^", "=", ">", "<", "++", "if", "do", "def", "set!", "lambda", "macro", "expand-macro", "eval", "car", "cdr", "cons", "type-of", "symbol", "print", "read", "load", "raise", "quote"}
	for _, name := range cases {
		tag, ok := Lookup(name)
		if !ok {
			t.Errorf("Lookup(%q): expected a match", name)
			continue
		}
		if got := tag.String(); got != name {
			t.Errorf("tag for %q stringifies as %q", name, got)
		}
	}
}

func TestLookupRejectsDotSugarTokens(t *testing.T) {
	if _, ok := Lookup("."); ok {
		t.Errorf("bare \".\" should not be a keyword lookup hit")
	}
	if _, ok := Lookup(".-"); ok {
		t.Errorf("bare \".-\" should not be a keyword lookup hit")
	}
}

func TestLookupMiss(t *testing.T) {
	if _, ok := Lookup("not-a-keyword"); ok {
		t.Errorf("expected a miss")
	}
}
