package automata

import "fmt"

// fragment is an automaton under construction with exactly one initial
// and one final state. Every splice below preserves that invariant.
type fragment struct {
	nfa     *NFA
	in, out State
}

// newFragment allocates a fresh two-state fragment with no transitions.
func newFragment() fragment {
	n := NewNFA()
	return fragment{nfa: n, in: n.AddState(), out: n.AddState()}
}

// symbolFragment accepts exactly the one-symbol words drawn from set:
// one transition per symbol from the initial to the final state.
func symbolFragment(set []Symbol) fragment {
	f := newFragment()
	for _, a := range set {
		f.nfa.AddTransition(f.in, f.out, a)
	}
	return f
}

// emptyWordFragment accepts exactly the empty word.
func emptyWordFragment() fragment {
	f := newFragment()
	f.nfa.AddTransition(f.in, f.out, Epsilon)
	return f
}

// cloneFragment deep-copies f into a fresh arena, allocating new state
// ids and remapping every transition.
func cloneFragment(f fragment) fragment {
	n := NewNFA()
	offset := n.Import(f.nfa)
	return fragment{nfa: n, in: f.in + offset, out: f.out + offset}
}

// concatFragments splices f2 after f1: f2's states move into f1's arena
// and f1's final is epsilon-linked to f2's relocated initial, ceasing to
// be final.
func concatFragments(f1, f2 fragment) fragment {
	offset := f1.nfa.Import(f2.nfa)
	f1.nfa.AddTransition(f1.out, f2.in+offset, Epsilon)
	return fragment{nfa: f1.nfa, in: f1.in, out: f2.out + offset}
}

// alternateFragments builds f1|f2: a new shared initial epsilons to both
// original initials, a new shared final receives epsilons from both
// original finals.
func alternateFragments(f1, f2 fragment) fragment {
	offset := f1.nfa.Import(f2.nfa)
	in := f1.nfa.AddState()
	out := f1.nfa.AddState()
	f1.nfa.AddTransition(in, f1.in, Epsilon)
	f1.nfa.AddTransition(in, f2.in+offset, Epsilon)
	f1.nfa.AddTransition(f1.out, out, Epsilon)
	f1.nfa.AddTransition(f2.out+offset, out, Epsilon)
	return fragment{nfa: f1.nfa, in: in, out: out}
}

// optionalFragment builds f?: an epsilon bypass from initial to final.
func optionalFragment(f fragment) fragment {
	f.nfa.AddTransition(f.in, f.out, Epsilon)
	return f
}

// starFragment builds f*: a fresh wrapping initial/final pair, an
// epsilon back-edge forming the loop, and a straight epsilon from the
// new initial to the new final to allow zero repetitions.
func starFragment(f fragment) fragment {
	in := f.nfa.AddState()
	out := f.nfa.AddState()
	f.nfa.AddTransition(in, f.in, Epsilon)
	f.nfa.AddTransition(f.out, out, Epsilon)
	f.nfa.AddTransition(f.out, f.in, Epsilon)
	f.nfa.AddTransition(in, out, Epsilon)
	return fragment{nfa: f.nfa, in: in, out: out}
}

// plusFragment builds f+: like f* without the zero-repetition bypass.
func plusFragment(f fragment) fragment {
	in := f.nfa.AddState()
	out := f.nfa.AddState()
	f.nfa.AddTransition(in, f.in, Epsilon)
	f.nfa.AddTransition(f.out, out, Epsilon)
	f.nfa.AddTransition(f.out, f.in, Epsilon)
	return fragment{nfa: f.nfa, in: in, out: out}
}

// repeatFragment unrolls bounded repetition by deep copies of f:
//
//	{m}   m sequential copies;
//	{m,}  m-1 copies concatenated with one-or-more;
//	{m,n} m mandatory copies followed by n-m optional ones, each
//	      optional copy's exit epsilon-joined to one shared final.
func repeatFragment(f fragment, min, max int) fragment {
	if max == -1 {
		if min == 0 {
			return starFragment(cloneFragment(f))
		}
		result := plusFragment(cloneFragment(f))
		for i := 1; i < min; i++ {
			result = concatFragments(cloneFragment(f), result)
		}
		return result
	}
	var mandatory fragment
	if min == 0 {
		mandatory = emptyWordFragment()
	} else {
		mandatory = cloneFragment(f)
		for i := 1; i < min; i++ {
			mandatory = concatFragments(mandatory, cloneFragment(f))
		}
	}
	if max == min {
		return mandatory
	}
	shared := mandatory.nfa.AddState()
	mandatory.nfa.AddTransition(mandatory.out, shared, Epsilon)
	tail := mandatory.out
	for i := 0; i < max-min; i++ {
		c := cloneFragment(f)
		offset := mandatory.nfa.Import(c.nfa)
		mandatory.nfa.AddTransition(tail, c.in+offset, Epsilon)
		tail = c.out + offset
		mandatory.nfa.AddTransition(tail, shared, Epsilon)
	}
	return fragment{nfa: mandatory.nfa, in: mandatory.in, out: shared}
}

// thompsonSink synthesizes an NFA from the postfix stream, maintaining a
// stack of fragments.
type thompsonSink struct {
	stack []fragment
}

func (s *thompsonSink) Operand(t token) error {
	s.stack = append(s.stack, symbolFragment(t.symbols))
	return nil
}

func (s *thompsonSink) pop() fragment {
	f := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return f
}

func (s *thompsonSink) Operator(t token) error {
	info, _ := operatorInfo(t.kind)
	if len(s.stack) < info.arity {
		return fmt.Errorf("operator at position %d is missing an operand", t.pos)
	}
	switch t.kind {
	case tokConcat:
		f2 := s.pop()
		f1 := s.pop()
		s.stack = append(s.stack, concatFragments(f1, f2))
	case tokUnion:
		f2 := s.pop()
		f1 := s.pop()
		s.stack = append(s.stack, alternateFragments(f1, f2))
	case tokStar:
		s.stack = append(s.stack, starFragment(s.pop()))
	case tokPlus:
		s.stack = append(s.stack, plusFragment(s.pop()))
	case tokOptional:
		s.stack = append(s.stack, optionalFragment(s.pop()))
	case tokRepeat:
		s.stack = append(s.stack, repeatFragment(s.pop(), t.min, t.max))
	default:
		return fmt.Errorf("unexpected operator at position %d", t.pos)
	}
	return nil
}

func (s *thompsonSink) result() (fragment, error) {
	if len(s.stack) != 1 {
		return fragment{}, fmt.Errorf("malformed expression: %d loose fragments", len(s.stack))
	}
	return s.stack[0], nil
}

type compileOptions struct {
	alphabet []Symbol
	complete bool
}

type CompileOption func(*compileOptions)

// WithAlphabet overrides the symbol universe used by `.`, by negated
// classes, and by complete determinization.
func WithAlphabet(alphabet []Symbol) CompileOption {
	return func(o *compileOptions) {
		o.alphabet = alphabet
	}
}

// WithComplete makes CompileDFA and Compile produce a total transition
// function, manufacturing a trap state where needed.
func WithComplete() CompileOption {
	return func(o *compileOptions) {
		o.complete = true
	}
}

func newCompileOptions(opts []CompileOption) *compileOptions {
	o := &compileOptions{alphabet: DefaultAlphabet()}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// CompileNFA compiles pattern into a non-deterministic automaton:
// tokenizer, then shunting-yard, then Thompson construction. The empty
// pattern yields the empty-word automaton.
func CompileNFA(pattern string, opts ...CompileOption) (*NFA, error) {
	o := newCompileOptions(opts)
	tokens, err := tokenize(pattern, o.alphabet)
	if err != nil {
		return nil, err
	}
	var frag fragment
	if len(tokens) == 0 {
		frag = emptyWordFragment()
	} else {
		sink := &thompsonSink{}
		if err := shuntingYard(tokens, sink); err != nil {
			return nil, err
		}
		frag, err = sink.result()
		if err != nil {
			return nil, err
		}
	}
	frag.nfa.AddInitial(frag.in)
	frag.nfa.SetFinal(frag.out, true)
	return frag.nfa, nil
}

// CompileDFA compiles pattern and determinizes the result.
func CompileDFA(pattern string, opts ...CompileOption) (*DFA, error) {
	o := newCompileOptions(opts)
	n, err := CompileNFA(pattern, opts...)
	if err != nil {
		return nil, err
	}
	return Determinize(n, o.complete), nil
}

// Compile compiles pattern all the way down to a minimal deterministic
// automaton. Minimization trims the trap state, so with WithComplete the
// transition function is made total again afterward; the result is the
// minimal automaton plus at most one trap.
func Compile(pattern string, opts ...CompileOption) (*DFA, error) {
	o := newCompileOptions(opts)
	n, err := CompileNFA(pattern, opts...)
	if err != nil {
		return nil, err
	}
	d := HopcroftMinimize(Determinize(n, false))
	if o.complete {
		CompleteDFA(d, n.Alphabet())
	}
	return d, nil
}
