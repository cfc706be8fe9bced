package value

// IsProperList reports whether v is Nil or a Cons spine terminated by Nil.
func IsProperList(v Value) bool {
	for {
		switch t := v.(type) {
		case NilValue:
			return true
		case Cons:
			v = t.Cdr
		default:
			return false
		}
	}
}

// IsEmptyForm reports whether v is the one-element list whose sole
// element is Nil: Cons(Nil, Nil). The expander and evaluator both give this
// shape special treatment (see the expand and eval packages).
func IsEmptyForm(v Value) bool {
	c, ok := v.(Cons)
	if !ok {
		return false
	}
	_, carNil := c.Car.(NilValue)
	_, cdrNil := c.Cdr.(NilValue)
	return carNil && cdrNil
}

// ToSlice walks a proper list into a slice of its elements. ok is false
// if v is not a proper list, in which case elems holds whatever spine was
// walked before the improper tail was hit.
func ToSlice(v Value) (elems []Value, ok bool) {
	for {
		switch t := v.(type) {
		case NilValue:
			return elems, true
		case Cons:
			elems = append(elems, t.Car)
			v = t.Cdr
		default:
			return elems, false
		}
	}
}

// FromSlice builds a proper list right-to-left from elems, mirroring the
// reader: FromSlice([a, b, c]) == Cons(a, Cons(b, Cons(c, Nil))).
func FromSlice(elems []Value) Value {
	var result Value = Nil
	for i := len(elems) - 1; i >= 0; i-- {
		result = Cons{Car: elems[i], Cdr: result}
	}
	return result
}
