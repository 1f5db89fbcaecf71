package automata

import "fmt"

// NewTrie returns a reverse-incidence DFA accepting exactly the given
// words, built as a prefix tree. Reverse tracking is kept so the result
// can be handed straight to RevuzMinimize.
func NewTrie(words ...string) *DFA {
	d := NewReverseDFA()
	d.SetInitial(d.AddState())
	for _, w := range words {
		AddWord(d, w)
	}
	return d
}

// AddWord inserts word into a trie-shaped automaton, reusing existing
// prefix states and marking the last state final.
func AddWord(d *DFA, word string) {
	q := d.Initial()
	for _, r := range word {
		next := d.Delta(q, Symbol(r))
		if next == Bottom {
			next = d.AddState()
			d.AddTransition(q, next, Symbol(r))
		}
		q = next
	}
	d.SetFinal(q, true)
}

// fuser drives the in-place deterministic fusion of t2 into t1: whenever
// an edge of t2 has no counterpart in t1, the missing state is created
// in t1 before the engine resolves the successor pair, so the pair walk
// always finds a live t1 component.
type fuser struct {
	NopPairVisitor
	t1, t2 *DFA
}

func (f *fuser) ExamineSymbol(p Pair, a Symbol) {
	if p.Q2 == Bottom || f.t2.Delta(p.Q2, a) == Bottom {
		return
	}
	if f.t1.Delta(p.Q1, a) == Bottom {
		s := f.t1.AddState()
		f.t1.AddTransition(p.Q1, s, a)
	}
}

func (f *fuser) DiscoverPair(p Pair) {
	if p.Q2 != Bottom && f.t2.IsFinal(p.Q2) {
		f.t1.SetFinal(p.Q1, true)
	}
}

// Fuse merges t2 into t1 in place, so that t1 accepts L(t1) ∪ L(t2).
// Existing t1 states are reused; finality is OR-combined onto the
// (possibly newly created) t1 state. t2 is left untouched.
func Fuse(t1, t2 *DFA) {
	f := &fuser{t1: t1, t2: t2}
	ParallelBreadthFirst(t1, t2, nil, f)
}

// Word is an immutable automaton view of a fixed string: state i sits
// before rune i, the single final state is the rune count. It accepts
// exactly the word it wraps and costs no construction beyond the rune
// slice, which makes it cheap to compare one word against a trie or DFA
// through the product engine.
type Word struct {
	runes []rune
}

func NewWord(s string) *Word {
	return &Word{runes: []rune(s)}
}

func (w *Word) Initial() State {
	return 0
}

func (w *Word) Delta(q State, a Symbol) State {
	if q < 0 || int(q) >= len(w.runes) {
		return Bottom
	}
	if w.runes[q] == rune(a) {
		return q + 1
	}
	return Bottom
}

func (w *Word) Sigma(q State) []Symbol {
	if q < 0 || int(q) >= len(w.runes) {
		return nil
	}
	return []Symbol{Symbol(w.runes[q])}
}

func (w *Word) IsFinal(q State) bool {
	return int(q) == len(w.runes)
}

// SetFinal is present only to trip callers that treat the view as
// mutable. A Word never changes.
func (w *Word) SetFinal(State, bool) {
	panic("automata: mutation of an immutable word view")
}

// AddTransition is present only to trip callers that treat the view as
// mutable. A Word never changes.
func (w *Word) AddTransition(q, r State, a Symbol) (Edge, bool) {
	panic(fmt.Sprintf("automata: mutation of an immutable word view (%d -> %d)", q, r))
}
