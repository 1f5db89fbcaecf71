package automata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCompileAccepts(t *testing.T) {
	tests := []struct {
		pattern string
		accept  []string
		reject  []string
	}{
		{
			pattern: "(a?b)*?c+d",
			accept:  []string{"cd", "bcd", "abcd", "babbbababcccccd"},
			reject:  []string{"", "c", "acd", "cda"},
		},
		{
			pattern: "((ab){3})*",
			accept:  []string{"", "ababab", "abababababab"},
			reject:  []string{"ab", "abab", "abababab"},
		},
		{
			pattern: "a{2,4}",
			accept:  []string{"aa", "aaa", "aaaa"},
			reject:  []string{"", "a", "aaaaa"},
		},
		{
			pattern: "a{3,}",
			accept:  []string{"aaa", "aaaaaa"},
			reject:  []string{"aa"},
		},
		{
			pattern: "a{0,2}b",
			accept:  []string{"b", "ab", "aab"},
			reject:  []string{"aaab", "a"},
		},
		{
			pattern: "[a-c]+",
			accept:  []string{"a", "cab", "bbb"},
			reject:  []string{"", "d", "abd"},
		},
		{
			pattern: "[^ab]",
			accept:  []string{"c", "z", "!"},
			reject:  []string{"a", "b", "cc"},
		},
		{
			pattern: `\d{2}-\d{2}`,
			accept:  []string{"12-34", "00-99"},
			reject:  []string{"1-34", "12-3a"},
		},
		{
			pattern: `\w+@\w+`,
			accept:  []string{"a@b", "user_1@host"},
			reject:  []string{"@b", "a@"},
		},
		{
			pattern: `a\+b`,
			accept:  []string{"a+b"},
			reject:  []string{"ab", "aab"},
		},
		{
			pattern: "a.c",
			accept:  []string{"abc", "a c", "a.c"},
			reject:  []string{"ac", "abbc"},
		},
		{
			pattern: "[-x]",
			accept:  []string{"-", "x"},
			reject:  []string{"y"},
		},
		{
			pattern: "",
			accept:  []string{""},
			reject:  []string{"a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			d, err := Compile(tt.pattern)
			require.NoError(t, err)
			for _, w := range tt.accept {
				assert.True(t, d.Accepts(w), "should accept %q", w)
			}
			for _, w := range tt.reject {
				assert.False(t, d.Accepts(w), "should reject %q", w)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		pattern string
		message string
	}{
		{pattern: "a{3,2}", message: "lower bound 3 exceeds upper bound 2"},
		{pattern: "[z-a]", message: `invalid range 'z'-'a'`},
		{pattern: `\q`, message: `unsupported escape sequence '\q'`},
		{pattern: "(ab", message: "unmatched '('"},
		{pattern: "ab)", message: "unmatched ')'"},
		{pattern: "a]", message: "unmatched ']'"},
		{pattern: "a}", message: "unmatched '}'"},
		{pattern: "a{}", message: "at least one bound"},
		{pattern: "a{,}", message: "at least one bound"},
		{pattern: "a{2", message: "expected '}'"},
		{pattern: "[ab", message: "expected ']'"},
		{pattern: "*a", message: "missing an operand"},
		{pattern: "a|", message: "missing an operand"},
		{pattern: `[a-\d]`, message: "character class cannot bound a range"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Compile(tt.pattern)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestCompileWithAlphabet(t *testing.T) {
	alphabet := []Symbol{'a', 'b', 'c'}

	t.Run("negatedClass", func(t *testing.T) {
		d, err := Compile("[^a]", WithAlphabet(alphabet))
		require.NoError(t, err)
		assert.True(t, d.Accepts("b"))
		assert.True(t, d.Accepts("c"))
		assert.False(t, d.Accepts("a"))
		assert.False(t, d.Accepts("z"))
	})

	t.Run("dot", func(t *testing.T) {
		d, err := Compile(".", WithAlphabet(alphabet))
		require.NoError(t, err)
		assert.True(t, d.Accepts("a"))
		assert.False(t, d.Accepts("z"))
	})
}

func TestCompileCompleteStaysTotalAfterMinimization(t *testing.T) {
	d, err := Compile("ab", WithComplete())
	require.NoError(t, err)
	// Minimal three states plus the trap.
	assert.Equal(t, 4, d.NumStates())
	for _, q := range d.States() {
		assert.Equal(t, []Symbol{'a', 'b'}, d.Sigma(q), "state %d", q)
	}
	assert.True(t, d.Accepts("ab"))
	assert.False(t, d.Accepts("ba"))
	assert.False(t, d.Accepts("abx"))
}

func TestCompleteDFA(t *testing.T) {
	t.Run("fillsMissingSlotsThroughOneTrap", func(t *testing.T) {
		d := SingleWord("ab")
		CompleteDFA(d, []Symbol{'a', 'b'})
		assert.Equal(t, 4, d.NumStates())
		for _, q := range d.States() {
			assert.Equal(t, []Symbol{'a', 'b'}, d.Sigma(q))
		}
		assert.True(t, d.Accepts("ab"))
		assert.False(t, d.Accepts("aa"))
	})

	t.Run("totalAutomatonIsUnchanged", func(t *testing.T) {
		d := endsWithB(t)
		states, edges := d.NumStates(), d.NumEdges()
		CompleteDFA(d, []Symbol{'a', 'b'})
		assert.Equal(t, states, d.NumStates())
		assert.Equal(t, edges, d.NumEdges())
	})
}

// postfixRecorder writes the postfix stream as text, one glyph per
// token. Any PostfixSink can sit behind the parser; this one exists to
// pin the emitted order down.
type postfixRecorder struct {
	out strings.Builder
}

func (r *postfixRecorder) Operand(t token) error {
	if len(t.symbols) == 1 {
		r.out.WriteRune(rune(t.symbols[0]))
	} else {
		r.out.WriteByte('S')
	}
	return nil
}

func (r *postfixRecorder) Operator(t token) error {
	switch t.kind {
	case tokConcat:
		r.out.WriteByte('&')
	case tokUnion:
		r.out.WriteByte('|')
	case tokStar:
		r.out.WriteByte('*')
	case tokPlus:
		r.out.WriteByte('+')
	case tokOptional:
		r.out.WriteByte('?')
	case tokRepeat:
		r.out.WriteByte('R')
	}
	return nil
}

func TestShuntingYard(t *testing.T) {
	tests := []struct {
		pattern string
		postfix string
	}{
		{pattern: "ab|c*", postfix: "ab&c*|"},
		{pattern: "a(b|c)d", postfix: "abc|&d&"},
		{pattern: "ab*", postfix: "ab*&"},
		{pattern: "(ab)*", postfix: "ab&*"},
		{pattern: "a|b|c", postfix: "ab|c|"},
		{pattern: "abc", postfix: "ab&c&"},
		{pattern: "a+?", postfix: "a+?"},
		{pattern: "[ab]c{2}", postfix: "ScR&"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			tokens, err := tokenize(tt.pattern, DefaultAlphabet())
			require.NoError(t, err)
			r := &postfixRecorder{}
			require.NoError(t, shuntingYard(tokens, r))
			assert.Equal(t, tt.postfix, r.out.String())
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Run("insertsExplicitConcatenation", func(t *testing.T) {
		tokens, err := tokenize("ab", DefaultAlphabet())
		require.NoError(t, err)
		require.Len(t, tokens, 3)
		assert.Equal(t, tokSymbols, tokens[0].kind)
		assert.Equal(t, tokConcat, tokens[1].kind)
		assert.Equal(t, tokSymbols, tokens[2].kind)
	})

	t.Run("noConcatenationAroundOperators", func(t *testing.T) {
		tokens, err := tokenize("a|b", DefaultAlphabet())
		require.NoError(t, err)
		require.Len(t, tokens, 3)
		assert.Equal(t, tokUnion, tokens[1].kind)
	})

	t.Run("classWithRangeAndEscape", func(t *testing.T) {
		tokens, err := tokenize(`[a-c\n]`, DefaultAlphabet())
		require.NoError(t, err)
		require.Len(t, tokens, 1)
		assert.Equal(t, []Symbol{'\n', 'a', 'b', 'c'}, tokens[0].symbols)
	})

	t.Run("repeatBounds", func(t *testing.T) {
		tokens, err := tokenize("a{2,5}", DefaultAlphabet())
		require.NoError(t, err)
		require.Len(t, tokens, 2)
		assert.Equal(t, 2, tokens[1].min)
		assert.Equal(t, 5, tokens[1].max)

		tokens, err = tokenize("a{,3}", DefaultAlphabet())
		require.NoError(t, err)
		assert.Equal(t, 0, tokens[1].min)
		assert.Equal(t, 3, tokens[1].max)

		tokens, err = tokenize("a{4,}", DefaultAlphabet())
		require.NoError(t, err)
		assert.Equal(t, 4, tokens[1].min)
		assert.Equal(t, -1, tokens[1].max)
	})
}

func TestCompileNFAMatchesCompiledDFA(t *testing.T) {
	patterns := []string{
		"a(b|c)*",
		"(ab)+c?",
		"[abc]{2,3}",
		"a*b*c*",
		"(a|bc)*",
	}
	rapid.Check(t, func(rt *rapid.T) {
		pattern := rapid.SampledFrom(patterns).Draw(rt, "pattern")
		word := rapid.StringMatching(`[abc]{0,8}`).Draw(rt, "word")

		n, err := CompileNFA(pattern)
		if err != nil {
			rt.Fatalf("compile NFA %q: %v", pattern, err)
		}
		d, err := Compile(pattern)
		if err != nil {
			rt.Fatalf("compile %q: %v", pattern, err)
		}
		if n.Accepts(word) != d.Accepts(word) {
			rt.Fatalf("%q: NFA and DFA disagree on %q", pattern, word)
		}
	})
}
