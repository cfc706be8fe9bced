package value

import "strings"

// Show renders v the way the REPL displays results: identical to Print
// except that a Str prints its text quoted and escaped. Nested Cons
// elements are shown with the same rule applied recursively.
func Show(v Value) string {
	switch t := v.(type) {
	case Str:
		return quote(t.Text)
	case Cons:
		return printCons(t, Show)
	default:
		return v.Print()
	}
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
