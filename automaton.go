package automata

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// State identifies a state inside one automaton. Ids are dense
// non-negative ints assigned by AddState and are never reused within an
// automaton's lifetime; minimization emits a fresh automaton with denser
// ids instead of recycling old ones.
type State int

// Bottom is the sentinel for "no such state". Delta returns it when a
// transition is undefined, and it absorbs further consumption: once a run
// reaches Bottom every later step also yields Bottom.
const Bottom State = -1

// Symbol labels a transition.
type Symbol rune

// Epsilon labels the empty-word transitions of non-deterministic
// automata. It never appears in a DFA.
const Epsilon Symbol = -1

// Edge is one labeled transition.
type Edge struct {
	Source State
	Target State
	Label  Symbol
}

// DFA is a deterministic automaton: a labeled graph with one designated
// initial state and at most one transition per (state, symbol).
//
// A reverse-incidence variant built with NewReverseDFA additionally
// maintains the in-edges of every state. The reverse index is updated
// in the same operation as the forward one on every add and remove,
// never derived lazily, because minimization and pruning need
// O(in-degree) backward lookups.
type DFA struct {
	next     []map[Symbol]State
	prev     []map[Edge]struct{} // nil unless reverse-tracking
	removed  *bitset.BitSet
	final    *bitset.BitSet
	initial  State
	numEdges int
}

func NewDFA() *DFA {
	return &DFA{
		removed: bitset.New(2),
		final:   bitset.New(2),
		initial: Bottom,
	}
}

// NewReverseDFA returns a DFA that also maintains reverse incidence, for
// algorithms that must walk transitions backward.
func NewReverseDFA() *DFA {
	d := NewDFA()
	d.prev = make([]map[Edge]struct{}, 0)
	return d
}

// TracksReverse reports whether this automaton maintains in-edges.
func (d *DFA) TracksReverse() bool {
	return d.prev != nil
}

// AddState creates a new state and returns its id.
func (d *DFA) AddState() State {
	q := State(len(d.next))
	d.next = append(d.next, make(map[Symbol]State))
	if d.prev != nil {
		d.prev = append(d.prev, make(map[Edge]struct{}))
	}
	return q
}

func (d *DFA) alive(q State) bool {
	return q >= 0 && int(q) < len(d.next) && !d.removed.Test(uint(q))
}

// NumStates returns the number of live states.
func (d *DFA) NumStates() int {
	return len(d.next) - int(d.removed.Count())
}

// NumEdges returns the number of transitions.
func (d *DFA) NumEdges() int {
	return d.numEdges
}

// States enumerates the live states in increasing id order.
func (d *DFA) States() []State {
	states := make([]State, 0, d.NumStates())
	for q := 0; q < len(d.next); q++ {
		if !d.removed.Test(uint(q)) {
			states = append(states, State(q))
		}
	}
	return states
}

// Edges enumerates every transition, ordered by source then label.
func (d *DFA) Edges() []Edge {
	edges := make([]Edge, 0, d.numEdges)
	for _, q := range d.States() {
		edges = append(edges, d.OutEdges(q)...)
	}
	return edges
}

// AddTransition adds (q, a) -> r. It reports false, creating nothing,
// when (q, a) already maps to a different target: callers routinely probe
// before inserting, so a determinism violation is an ordinary result, not
// an error. Re-adding an existing transition succeeds without effect.
func (d *DFA) AddTransition(q, r State, a Symbol) (Edge, bool) {
	if !d.alive(q) || !d.alive(r) {
		panic(fmt.Sprintf("automata: AddTransition on dead or invalid state (%d -> %d)", q, r))
	}
	if a == Epsilon {
		panic("automata: epsilon transition on a deterministic automaton")
	}
	if cur, ok := d.next[q][a]; ok {
		if cur == r {
			return Edge{Source: q, Target: r, Label: a}, true
		}
		return Edge{}, false
	}
	e := Edge{Source: q, Target: r, Label: a}
	d.next[q][a] = r
	if d.prev != nil {
		d.prev[r][e] = struct{}{}
	}
	d.numEdges++
	return e, true
}

// RemoveTransition deletes (q, a) -> r if present. The (state, symbol)
// slot is freed but the state's transition table stays allocated, so new
// out-transitions can still be inserted later.
func (d *DFA) RemoveTransition(q, r State, a Symbol) {
	cur, ok := d.next[q][a]
	if !ok || cur != r {
		return
	}
	delete(d.next[q], a)
	if d.prev != nil {
		delete(d.prev[r], Edge{Source: q, Target: r, Label: a})
	}
	d.numEdges--
}

// RemoveState deletes q: first every incident transition, forward and
// backward, then the state itself. The id is retired, never reused.
func (d *DFA) RemoveState(q State) {
	if !d.alive(q) {
		return
	}
	// Materialize the incident edges before mutating the adjacency maps.
	out := d.OutEdges(q)
	for _, e := range out {
		d.RemoveTransition(e.Source, e.Target, e.Label)
	}
	if d.prev != nil {
		in := d.InEdges(q)
		for _, e := range in {
			d.RemoveTransition(e.Source, e.Target, e.Label)
		}
	} else {
		for _, p := range d.States() {
			if p == q {
				continue
			}
			for _, e := range d.OutEdges(p) {
				if e.Target == q {
					d.RemoveTransition(e.Source, e.Target, e.Label)
				}
			}
		}
	}
	d.removed.Set(uint(q))
	d.final.Clear(uint(q))
	if d.initial == q {
		d.initial = Bottom
	}
}

// Delta returns the target of the transition leaving q on a, or Bottom
// when the transition is undefined. Delta(Bottom, a) is Bottom.
func (d *DFA) Delta(q State, a Symbol) State {
	if !d.alive(q) {
		return Bottom
	}
	if r, ok := d.next[q][a]; ok {
		return r
	}
	return Bottom
}

// Sigma returns the outgoing alphabet of q in increasing symbol order.
func (d *DFA) Sigma(q State) []Symbol {
	if !d.alive(q) {
		return nil
	}
	symbols := make([]Symbol, 0, len(d.next[q]))
	for a := range d.next[q] {
		symbols = append(symbols, a)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
	return symbols
}

// OutEdges returns the transitions leaving q, ordered by label.
func (d *DFA) OutEdges(q State) []Edge {
	symbols := d.Sigma(q)
	edges := make([]Edge, 0, len(symbols))
	for _, a := range symbols {
		edges = append(edges, Edge{Source: q, Target: d.next[q][a], Label: a})
	}
	return edges
}

// InEdges returns the transitions entering q, ordered by source then
// label. Calling it on an automaton built without reverse incidence is a
// caller bug.
func (d *DFA) InEdges(q State) []Edge {
	if d.prev == nil {
		panic("automata: InEdges on an automaton built without reverse incidence")
	}
	if !d.alive(q) {
		return nil
	}
	edges := make([]Edge, 0, len(d.prev[q]))
	for e := range d.prev[q] {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Label < edges[j].Label
	})
	return edges
}

// SetInitial designates q as the initial state.
func (d *DFA) SetInitial(q State) {
	if !d.alive(q) {
		panic(fmt.Sprintf("automata: SetInitial on dead or invalid state %d", q))
	}
	d.initial = q
}

// Initial returns the initial state, or Bottom if none was designated.
func (d *DFA) Initial() State {
	return d.initial
}

// SetFinal sets or clears the finality of q.
func (d *DFA) SetFinal(q State, final bool) {
	if !d.alive(q) {
		panic(fmt.Sprintf("automata: SetFinal on dead or invalid state %d", q))
	}
	d.final.SetTo(uint(q), final)
}

// IsFinal reports whether q is a final state. IsFinal(Bottom) is false.
func (d *DFA) IsFinal(q State) bool {
	return d.alive(q) && d.final.Test(uint(q))
}

// Accepts consumes word rune by rune from the initial state.
func (d *DFA) Accepts(word string) bool {
	q := d.initial
	for _, r := range word {
		q = d.Delta(q, Symbol(r))
		if q == Bottom {
			return false
		}
	}
	return d.IsFinal(q)
}
