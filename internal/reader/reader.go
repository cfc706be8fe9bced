// Package reader implements klisp's reader: a recursive-descent parser
// from source text to a single value.Value, returning the lexically
// unused remainder of the input so callers can stream multiple top-level
// forms out of one string or file.
package reader

import (
	"strconv"
	"strings"

	"github.com/klisp-lang/klisp/internal/kerr"
	"github.com/klisp-lang/klisp/internal/token"
	"github.com/klisp-lang/klisp/internal/value"
)

// Read parses one top-level form from input and returns it along with the
// unused remainder. A parse failure returns a non-nil error whose message
// is prefixed "Parse error".
func Read(input string) (value.Value, string, error) {
	p := &parser{runes: []rune(input)}
	p.skipAtmosphere()
	if p.atEOF() {
		return nil, "", kerr.NewParse("unexpected end of input")
	}
	v, err := p.readForm()
	if err != nil {
		return nil, "", err
	}
	return v, string(p.runes[p.pos:]), nil
}

// ReadAll parses every top-level form in input, in order.
func ReadAll(input string) ([]value.Value, error) {
	var forms []value.Value
	rest := input
	for {
		p := &parser{runes: []rune(rest)}
		p.skipAtmosphere()
		if p.atEOF() {
			return forms, nil
		}
		v, remainder, err := Read(rest)
		if err != nil {
			return nil, err
		}
		forms = append(forms, v)
		rest = remainder
	}
}

type parser struct {
	runes []rune
	pos   int
}

func (p *parser) atEOF() bool { return p.pos >= len(p.runes) }

func (p *parser) peek() rune {
	if p.atEOF() {
		return 0
	}
	return p.runes[p.pos]
}

func (p *parser) advance() rune {
	r := p.runes[p.pos]
	p.pos++
	return r
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isDelimiter(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '(', ')', ';', '\'', '`', ',':
		return true
	default:
		return false
	}
}

// skipAtmosphere consumes whitespace and line comments.
func (p *parser) skipAtmosphere() {
	for {
		for !p.atEOF() && isSpace(p.peek()) {
			p.pos++
		}
		if !p.atEOF() && p.peek() == ';' {
			for !p.atEOF() && p.peek() != '\n' {
				p.pos++
			}
			continue
		}
		break
	}
}

func (p *parser) readForm() (value.Value, error) {
	switch p.peek() {
	case '(':
		return p.readList()
	case ')':
		return nil, kerr.NewParse("unexpected ')'")
	case '"':
		return p.readString()
	case '\'':
		return p.readQuote()
	default:
		return p.readAtom()
	}
}

func (p *parser) readQuote() (value.Value, error) {
	p.advance() // consume '\''
	p.skipAtmosphere()
	if p.atEOF() {
		return nil, kerr.NewParse("bare ' at end of input")
	}
	inner, err := p.readForm()
	if err != nil {
		return nil, err
	}
	return value.Cons{
		Car: value.Builtin{Tag: token.QUOTE},
		Cdr: value.Cons{Car: inner, Cdr: value.Nil},
	}, nil
}

func (p *parser) readList() (value.Value, error) {
	p.advance() // consume '('
	var items []value.Value
	for {
		p.skipAtmosphere()
		if p.atEOF() {
			return nil, kerr.NewParse("missing ')'")
		}
		if p.peek() == ')' {
			p.advance()
			break
		}
		item, err := p.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	items = rewriteDotSugar(items)
	return value.FromSlice(items), nil
}

func (p *parser) readString() (value.Value, error) {
	p.advance() // consume opening '"'
	var sb strings.Builder
	for {
		if p.atEOF() {
			return nil, kerr.NewParse("unterminated string")
		}
		r := p.advance()
		if r == '"' {
			return value.Str{Text: sb.String()}, nil
		}
		if r != '\\' {
			sb.WriteRune(r)
			continue
		}
		if p.atEOF() {
			return nil, kerr.NewParse("unterminated string")
		}
		switch e := p.advance(); e {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\':
			sb.WriteByte('\\')
		case '"':
			sb.WriteByte('"')
		default:
			sb.WriteByte('\\')
			sb.WriteRune(e)
		}
	}
}

func (p *parser) readAtom() (value.Value, error) {
	start := p.pos
	for !p.atEOF() && !isDelimiter(p.peek()) {
		p.pos++
	}
	if p.pos == start {
		return nil, kerr.NewParse("unexpected character %q", p.peek())
	}
	text := string(p.runes[start:p.pos])
	return classifyAtom(text), nil
}

func classifyAtom(text string) value.Value {
	if text == "nil" {
		return value.Nil
	}
	if isIntegerLiteral(text) {
		n, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return value.Integer(n)
		}
	}
	if isFloatLiteral(text) {
		f, err := strconv.ParseFloat(text, 64)
		if err == nil {
			return value.Float(f)
		}
	}
	switch strings.ToLower(text) {
	case "true":
		return value.Bool(true)
	case "false":
		return value.Bool(false)
	}
	if tag, ok := token.Lookup(text); ok {
		return value.Builtin{Tag: tag}
	}
	return value.Symbol{Name: text}
}

func isIntegerLiteral(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i = 1
	}
	if i == len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isFloatLiteral(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i = 1
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return false
	}
	sawFraction := false
	if i < len(s) && s[i] == '.' {
		i++
		fracStart := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == fracStart {
			return false
		}
		sawFraction = true
	}
	sawExponent := false
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expStart := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == expStart {
			return false
		}
		sawExponent = true
	}
	return i == len(s) && (sawFraction || sawExponent)
}

// rewriteDotSugar applies the dotted-method sugar rewrite rules to the
// just-read elements of a list, positionally: (.method obj args…) and
// (.-field obj) rewrite the fused head symbol, while (. method obj args…)
// and (.- field obj) of length >= 3 replace a bare "." or ".-" head
// symbol with the corresponding Builtin. A bare "." list of length < 3 used
// elsewhere (e.g. the variadic separator in a lambda parameter list) is
// left untouched.
func rewriteDotSugar(items []value.Value) []value.Value {
	if len(items) == 0 {
		return items
	}
	head, ok := items[0].(value.Symbol)
	if !ok {
		return items
	}
	name := head.Name
	switch {
	// Exact-match separated forms ("." and ".-" as their own token) must
	// be checked before the fused-prefix cases below: ".-" also satisfies
	// the generic "."-prefix, non-"." check, which would otherwise steal
	// it and mis-rewrite (.- field obj) as DOT with method name "-".
	case name == "." && len(items) >= 3:
		out := append([]value.Value{}, items...)
		out[0] = value.Builtin{Tag: token.DOT}
		return out
	case name == ".-" && len(items) >= 3:
		out := append([]value.Value{}, items...)
		out[0] = value.Builtin{Tag: token.DOT_FIELD}
		return out
	case len(name) > 2 && strings.HasPrefix(name, ".-"):
		rewritten := make([]value.Value, 0, len(items)+1)
		rewritten = append(rewritten, value.Builtin{Tag: token.DOT_FIELD}, value.Symbol{Name: name[2:]})
		return append(rewritten, items[1:]...)
	case len(name) > 1 && strings.HasPrefix(name, ".") && name != ".":
		rewritten := make([]value.Value, 0, len(items)+1)
		rewritten = append(rewritten, value.Builtin{Tag: token.DOT}, value.Symbol{Name: name[1:]})
		return append(rewritten, items[1:]...)
	default:
		return items
	}
}
