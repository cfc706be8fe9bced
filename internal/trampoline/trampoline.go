// Package trampoline linearizes tail calls. An evaluator that would
// otherwise recurse on the host stack for every tail call instead returns
// a Trampoline; the driver in Run unwinds that recursion into an
// iterative loop, giving O(1) host stack usage for tail-recursive klisp
// programs.
package trampoline

import "github.com/klisp-lang/klisp/internal/value"

// Thunk produces the next step of a deferred computation.
type Thunk func() (Trampoline, error)

// Trampoline is either a computed value (Done) or a deferred
// continuation (More) that produces another Trampoline when invoked.
type Trampoline struct {
	done  bool
	value value.Value
	next  Thunk
}

// Done wraps a fully computed value.
func Done(v value.Value) Trampoline {
	return Trampoline{done: true, value: v}
}

// More wraps a deferred continuation. The caller's driver must return
// More rather than invoking next itself, so the outer Run loop unwinds
// the host stack before resuming.
func More(next Thunk) Trampoline {
	return Trampoline{done: false, next: next}
}

// Run drives t to completion: while t is More, invoke its thunk and
// continue; once Done, return the value. This is the only mechanism for
// unbounded tail recursion in the evaluator.
func Run(t Trampoline) (value.Value, error) {
	for !t.done {
		next, err := t.next()
		if err != nil {
			return nil, err
		}
		t = next
	}
	return t.value, nil
}
