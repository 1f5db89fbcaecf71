package automata

import (
	"fmt"
	"sort"
	"strconv"
)

type tokenKind uint8

const (
	tokSymbols tokenKind = iota // operand: a set of alternative symbols
	tokConcat                   // explicit concatenation, inserted by the tokenizer
	tokUnion
	tokStar
	tokPlus
	tokOptional
	tokRepeat // bounded repetition {m}, {m,}, {,n}, {m,n}
	tokLParen
	tokRParen
)

// token is one atomic unit of the scanned pattern. pos is the rune
// offset of the token in the original pattern, kept for error messages.
type token struct {
	kind     tokenKind
	symbols  []Symbol // tokSymbols only, sorted
	min, max int      // tokRepeat only; max == -1 means no upper bound
	pos      int
}

// DefaultAlphabet returns the symbol universe used by `.` and by negated
// classes when no alphabet is supplied: printable ASCII (0x20..0x7E).
func DefaultAlphabet() []Symbol {
	alphabet := make([]Symbol, 0, 0x7f-0x20)
	for r := rune(0x20); r <= 0x7e; r++ {
		alphabet = append(alphabet, Symbol(r))
	}
	return alphabet
}

func symbolRange(lo, hi rune) []Symbol {
	set := make([]Symbol, 0, hi-lo+1)
	for r := lo; r <= hi; r++ {
		set = append(set, Symbol(r))
	}
	return set
}

func digitSymbols() []Symbol {
	return symbolRange('0', '9')
}

func wordSymbols() []Symbol {
	set := symbolRange('0', '9')
	set = append(set, symbolRange('A', 'Z')...)
	set = append(set, Symbol('_'))
	set = append(set, symbolRange('a', 'z')...)
	return set
}

func spaceSymbols() []Symbol {
	return []Symbol{'\t', '\n', '\v', '\f', '\r', ' '}
}

// complementOf returns alphabet minus set, sorted.
func complementOf(alphabet, set []Symbol) []Symbol {
	drop := make(map[Symbol]struct{}, len(set))
	for _, a := range set {
		drop[a] = struct{}{}
	}
	rest := make([]Symbol, 0, len(alphabet))
	for _, a := range alphabet {
		if _, ok := drop[a]; !ok {
			rest = append(rest, a)
		}
	}
	return rest
}

func sortSymbols(set []Symbol) []Symbol {
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	out := set[:0]
	var last Symbol = -2
	for _, a := range set {
		if a != last {
			out = append(out, a)
			last = a
		}
	}
	return out
}

type tokenizer struct {
	input    []rune
	pos      int
	alphabet []Symbol
}

func (t *tokenizer) more() bool {
	return t.pos < len(t.input)
}

func (t *tokenizer) peek() rune {
	return t.input[t.pos]
}

func (t *tokenizer) match(c rune) bool {
	if t.more() && t.input[t.pos] == c {
		t.pos++
		return true
	}
	return false
}

func (t *tokenizer) next() (rune, error) {
	if !t.more() {
		return 0, fmt.Errorf("unexpected end of pattern at position %d", t.pos)
	}
	c := t.input[t.pos]
	t.pos++
	return c, nil
}

// tokenize scans pattern into atomic tokens and inserts the explicit
// concatenation operator between adjacent tokens that are implicitly
// concatenated, because the parser treats concatenation as an ordinary
// binary operator.
func tokenize(pattern string, alphabet []Symbol) ([]token, error) {
	t := &tokenizer{input: []rune(pattern), alphabet: alphabet}
	tokens := make([]token, 0, len(t.input))

	push := func(tok token) {
		if len(tokens) > 0 && startsOperand(tok.kind) && endsOperand(tokens[len(tokens)-1].kind) {
			tokens = append(tokens, token{kind: tokConcat, pos: tok.pos})
		}
		tokens = append(tokens, tok)
	}

	for t.more() {
		pos := t.pos
		c, err := t.next()
		if err != nil {
			return nil, err
		}
		switch c {
		case '(':
			push(token{kind: tokLParen, pos: pos})
		case ')':
			push(token{kind: tokRParen, pos: pos})
		case '|':
			push(token{kind: tokUnion, pos: pos})
		case '*':
			push(token{kind: tokStar, pos: pos})
		case '+':
			push(token{kind: tokPlus, pos: pos})
		case '?':
			push(token{kind: tokOptional, pos: pos})
		case '{':
			tok, err := t.scanRepeat(pos)
			if err != nil {
				return nil, err
			}
			push(tok)
		case '}':
			return nil, fmt.Errorf("unmatched '}' at position %d", pos)
		case '[':
			set, err := t.scanClass(pos)
			if err != nil {
				return nil, err
			}
			push(token{kind: tokSymbols, symbols: set, pos: pos})
		case ']':
			return nil, fmt.Errorf("unmatched ']' at position %d", pos)
		case '.':
			push(token{kind: tokSymbols, symbols: t.alphabet, pos: pos})
		case '\\':
			set, err := t.scanEscape(pos)
			if err != nil {
				return nil, err
			}
			push(token{kind: tokSymbols, symbols: set, pos: pos})
		default:
			push(token{kind: tokSymbols, symbols: []Symbol{Symbol(c)}, pos: pos})
		}
	}
	return tokens, nil
}

// startsOperand reports whether a token of this kind can begin an
// implicitly concatenated unit.
func startsOperand(k tokenKind) bool {
	return k == tokSymbols || k == tokLParen
}

// endsOperand reports whether a token of this kind can end one.
func endsOperand(k tokenKind) bool {
	switch k {
	case tokSymbols, tokRParen, tokStar, tokPlus, tokOptional, tokRepeat:
		return true
	}
	return false
}

func (t *tokenizer) scanInt() (int, bool, error) {
	start := t.pos
	for t.more() && t.peek() >= '0' && t.peek() <= '9' {
		t.pos++
	}
	if start == t.pos {
		return 0, false, nil
	}
	n, err := strconv.Atoi(string(t.input[start:t.pos]))
	if err != nil {
		return 0, false, fmt.Errorf("bad repetition bound at position %d: %w", start, err)
	}
	return n, true, nil
}

// scanRepeat parses {m}, {m,}, {,n} or {m,n}; the opening brace was
// already consumed.
func (t *tokenizer) scanRepeat(pos int) (token, error) {
	min, hasMin, err := t.scanInt()
	if err != nil {
		return token{}, err
	}
	max := min
	hasMax := hasMin
	if t.match(',') {
		n, ok, err := t.scanInt()
		if err != nil {
			return token{}, err
		}
		if ok {
			max = n
			hasMax = true
		} else {
			max = -1
			hasMax = false
		}
	}
	if !hasMin && !hasMax {
		return token{}, fmt.Errorf("repetition needs at least one bound at position %d", pos)
	}
	if !hasMin {
		min = 0
	}
	if !t.match('}') {
		return token{}, fmt.Errorf("expected '}' at position %d", t.pos)
	}
	if max != -1 && min > max {
		return token{}, fmt.Errorf("repetition lower bound %d exceeds upper bound %d at position %d", min, max, pos)
	}
	return token{kind: tokRepeat, min: min, max: max, pos: pos}, nil
}

// scanClass parses a bracket class; the opening bracket was already
// consumed. Ranges require start <= end. Negation complements against
// the alphabet.
func (t *tokenizer) scanClass(pos int) ([]Symbol, error) {
	negate := t.match('^')
	set := make([]Symbol, 0)
	for t.more() && t.peek() != ']' {
		itemPos := t.pos
		item, isClass, err := t.scanClassItem()
		if err != nil {
			return nil, err
		}
		if isClass || !t.more() || t.peek() != '-' {
			set = append(set, item...)
			continue
		}
		// Peek past '-': a trailing '-' before ']' is a literal.
		t.pos++
		if !t.more() || t.peek() == ']' {
			set = append(set, item...)
			set = append(set, Symbol('-'))
			continue
		}
		hi, isClass, err := t.scanClassItem()
		if err != nil {
			return nil, err
		}
		if isClass {
			return nil, fmt.Errorf("character class cannot bound a range at position %d", itemPos)
		}
		if item[0] > hi[0] {
			return nil, fmt.Errorf("invalid range %q-%q at position %d", rune(item[0]), rune(hi[0]), itemPos)
		}
		set = append(set, symbolRange(rune(item[0]), rune(hi[0]))...)
	}
	if !t.match(']') {
		return nil, fmt.Errorf("expected ']' at position %d", t.pos)
	}
	set = sortSymbols(set)
	if negate {
		set = complementOf(t.alphabet, set)
	}
	return set, nil
}

// scanClassItem reads one class member: a literal, an escape, or a class
// shorthand. isClass reports a multi-symbol shorthand, which cannot
// serve as a range endpoint.
func (t *tokenizer) scanClassItem() ([]Symbol, bool, error) {
	pos := t.pos
	c, err := t.next()
	if err != nil {
		return nil, false, err
	}
	if c != '\\' {
		return []Symbol{Symbol(c)}, false, nil
	}
	set, err := t.scanEscape(pos)
	if err != nil {
		return nil, false, err
	}
	return set, len(set) != 1, nil
}

// scanEscape resolves the fixed escape table; the backslash was already
// consumed. Anything outside the table is rejected, never silently
// matched.
func (t *tokenizer) scanEscape(pos int) ([]Symbol, error) {
	c, err := t.next()
	if err != nil {
		return nil, err
	}
	switch c {
	case 'd':
		return digitSymbols(), nil
	case 'D':
		return complementOf(t.alphabet, digitSymbols()), nil
	case 'w':
		return wordSymbols(), nil
	case 'W':
		return complementOf(t.alphabet, wordSymbols()), nil
	case 's':
		return spaceSymbols(), nil
	case 'S':
		return complementOf(t.alphabet, spaceSymbols()), nil
	case 'a':
		return []Symbol{0x07}, nil
	case 'b':
		return []Symbol{0x08}, nil
	case 'f':
		return []Symbol{0x0c}, nil
	case 'n':
		return []Symbol{'\n'}, nil
	case 'r':
		return []Symbol{'\r'}, nil
	case 't':
		return []Symbol{'\t'}, nil
	case 'v':
		return []Symbol{0x0b}, nil
	case '.', '|', '*', '+', '?', '(', ')', '{', '}', '[', ']', '\\', '-', '^', '$', '"', '\'':
		return []Symbol{Symbol(c)}, nil
	}
	return nil, fmt.Errorf("unsupported escape sequence '\\%c' at position %d", c, pos)
}
