package value

import "testing"

func TestPrintAtoms(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Integer(42), "42"},
		{Integer(-3), "-3"},
		{Float(1.5), "1.5"},
		{Float(16), "16.0"},
		{Str{Text: "hi"}, "hi"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Nil, "nil"},
		{Symbol{Name: "x"}, "x"},
	}
	for _, c := range cases {
		if got := c.v.Print(); got != c.want {
			t.Errorf("Print(%#v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestShowQuotesStrings(t *testing.T) {
	if got, want := Show(Str{Text: "hi"}), `"hi"`; got != want {
		t.Errorf("Show(Str) = %q, want %q", got, want)
	}
	if got, want := Show(Integer(5)), "5"; got != want {
		t.Errorf("Show(Integer) = %q, want %q", got, want)
	}
}

func TestPrintProperList(t *testing.T) {
	l := FromSlice([]Value{Integer(1), Integer(2), Integer(3)})
	if got, want := l.Print(), "(1 2 3)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintImproperList(t *testing.T) {
	c := Cons{Car: Integer(1), Cdr: Integer(2)}
	if got, want := c.Print(), "(1 . 2)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintLambdaOmitsBody(t *testing.T) {
	l := Lambda{Params: []Symbol{{Name: "a"}, {Name: "b"}}, Body: Integer(0)}
	if got, want := l.Print(), "(lambda a b)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestToSliceAndFromSlice(t *testing.T) {
	elems := []Value{Integer(1), Integer(2), Integer(3)}
	l := FromSlice(elems)
	got, ok := ToSlice(l)
	if !ok {
		t.Fatalf("expected a proper list")
	}
	if len(got) != len(elems) {
		t.Fatalf("got %d elements, want %d", len(got), len(elems))
	}
	for i := range elems {
		if got[i] != elems[i] {
			t.Errorf("element %d: got %v, want %v", i, got[i], elems[i])
		}
	}
}

func TestToSliceImproperList(t *testing.T) {
	c := Cons{Car: Integer(1), Cdr: Integer(2)}
	_, ok := ToSlice(c)
	if ok {
		t.Errorf("expected an improper list to report ok=false")
	}
}

func TestIsEmptyForm(t *testing.T) {
	if !IsEmptyForm(Cons{Car: Nil, Cdr: Nil}) {
		t.Errorf("Cons(Nil, Nil) should be the empty form")
	}
	if IsEmptyForm(FromSlice([]Value{Integer(1)})) {
		t.Errorf("a one-element list of Integer should not be the empty form")
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		a, b Value
		want bool
	}{
		{Integer(2), Float(2), true},
		{Integer(2), Integer(3), false},
		{Str{Text: "a"}, Str{Text: "a"}, true},
		{Str{Text: "a"}, Str{Text: "b"}, false},
		{Bool(true), Bool(true), true},
		{Nil, Nil, true},
		{Integer(1), Str{Text: "1"}, false},
	}
	for _, c := range cases {
		if got := Equal(c.a, c.b); got != c.want {
			t.Errorf("Equal(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	if Truthy(Bool(false)) {
		t.Errorf("false should be falsey")
	}
	if Truthy(Nil) {
		t.Errorf("nil should be falsey")
	}
	if !Truthy(Integer(0)) {
		t.Errorf("0 should be truthy")
	}
	if !Truthy(Str{Text: ""}) {
		t.Errorf("empty string should be truthy")
	}
}

func TestEnvironmentLookupDefineAssign(t *testing.T) {
	root := NewEnvironment(nil)
	root.Define("x", Integer(1))

	child := root.Child()
	if v, ok := child.Lookup("x"); !ok || v != Value(Integer(1)) {
		t.Fatalf("expected child to see parent binding, got %v %v", v, ok)
	}

	child.Define("x", Integer(2))
	if v, _ := child.Lookup("x"); v != Value(Integer(2)) {
		t.Errorf("child shadow failed, got %v", v)
	}
	if v, _ := root.Lookup("x"); v != Value(Integer(1)) {
		t.Errorf("shadowing in child should not affect parent, got %v", v)
	}

	if err := child.Assign("x", Integer(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := child.Lookup("x"); v != Value(Integer(3)) {
		t.Errorf("assign failed, got %v", v)
	}

	if err := child.Assign("undefined", Integer(0)); err == nil {
		t.Errorf("expected an error assigning an undefined variable")
	}
}

func TestEnvironmentAssignWalksUpToParent(t *testing.T) {
	root := NewEnvironment(nil)
	root.Define("x", Integer(1))
	child := root.Child()

	if err := child.Assign("x", Integer(9)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := root.Lookup("x"); v != Value(Integer(9)) {
		t.Errorf("assign from child should mutate the parent's binding, got %v", v)
	}
}
