package automata

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// NFA is a non-deterministic automaton: a set of initial states,
// epsilon transitions, and possibly several targets per (state, symbol).
// Parallel transitions on the same symbol are kept in insertion order;
// their position in the target list disambiguates them.
type NFA struct {
	next     []map[Symbol][]State
	initials map[State]struct{}
	final    *bitset.BitSet
	numEdges int
}

func NewNFA() *NFA {
	return &NFA{
		initials: make(map[State]struct{}),
		final:    bitset.New(2),
	}
}

// AddState creates a new state and returns its id.
func (n *NFA) AddState() State {
	q := State(len(n.next))
	n.next = append(n.next, make(map[Symbol][]State))
	return q
}

func (n *NFA) NumStates() int {
	return len(n.next)
}

func (n *NFA) NumEdges() int {
	return n.numEdges
}

// States enumerates the states in increasing id order.
func (n *NFA) States() []State {
	states := make([]State, len(n.next))
	for q := range n.next {
		states[q] = State(q)
	}
	return states
}

// AddTransition adds (q, a) -> r. Non-deterministic automata permit
// parallel transitions, so the add always succeeds; the returned edge is
// the newly appended one.
func (n *NFA) AddTransition(q, r State, a Symbol) Edge {
	n.next[q][a] = append(n.next[q][a], r)
	n.numEdges++
	return Edge{Source: q, Target: r, Label: a}
}

// Next returns the targets of (q, a), including duplicates, in insertion
// order.
func (n *NFA) Next(q State, a Symbol) []State {
	return n.next[q][a]
}

// Sigma returns the outgoing non-epsilon alphabet of q in increasing
// symbol order.
func (n *NFA) Sigma(q State) []Symbol {
	symbols := make([]Symbol, 0, len(n.next[q]))
	for a := range n.next[q] {
		if a != Epsilon {
			symbols = append(symbols, a)
		}
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
	return symbols
}

// OutEdges returns the transitions leaving q ordered by label then
// target; epsilon transitions sort first.
func (n *NFA) OutEdges(q State) []Edge {
	edges := make([]Edge, 0)
	for a, targets := range n.next[q] {
		for _, r := range targets {
			edges = append(edges, Edge{Source: q, Target: r, Label: a})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Label != edges[j].Label {
			return edges[i].Label < edges[j].Label
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

// Alphabet returns every non-epsilon symbol appearing on a transition,
// sorted.
func (n *NFA) Alphabet() []Symbol {
	seen := make(map[Symbol]struct{})
	for q := range n.next {
		for a := range n.next[q] {
			if a != Epsilon {
				seen[a] = struct{}{}
			}
		}
	}
	symbols := make([]Symbol, 0, len(seen))
	for a := range seen {
		symbols = append(symbols, a)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
	return symbols
}

// AddInitial adds q to the initial state set.
func (n *NFA) AddInitial(q State) {
	n.initials[q] = struct{}{}
}

// Initials returns the initial states, sorted.
func (n *NFA) Initials() []State {
	states := make([]State, 0, len(n.initials))
	for q := range n.initials {
		states = append(states, q)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}

// SetFinal sets or clears the finality of q.
func (n *NFA) SetFinal(q State, final bool) {
	n.final.SetTo(uint(q), final)
}

func (n *NFA) IsFinal(q State) bool {
	return q >= 0 && n.final.Test(uint(q))
}

// Import bulk-copies every state and transition of o into n, assigning
// sequential fresh ids, and returns the offset to add to o's state ids to
// find their copies. Initial-state markings are not imported; finality
// is. This is the splice primitive behind fragment composition.
func (n *NFA) Import(o *NFA) State {
	offset := State(len(n.next))
	for q := 0; q < len(o.next); q++ {
		n.AddState()
	}
	for q := 0; q < len(o.next); q++ {
		for a, targets := range o.next[q] {
			for _, r := range targets {
				n.AddTransition(State(q)+offset, r+offset, a)
			}
		}
		if o.IsFinal(State(q)) {
			n.SetFinal(State(q)+offset, true)
		}
	}
	return offset
}

// EpsilonClosure returns the set of states reachable from set using only
// epsilon transitions, sorted. The input states are included.
func (n *NFA) EpsilonClosure(set []State) []State {
	seen := bitset.New(uint(len(n.next)))
	stack := make([]State, 0, len(set))
	for _, q := range set {
		if !seen.Test(uint(q)) {
			seen.Set(uint(q))
			stack = append(stack, q)
		}
	}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, r := range n.next[q][Epsilon] {
			if !seen.Test(uint(r)) {
				seen.Set(uint(r))
				stack = append(stack, r)
			}
		}
	}
	closure := make([]State, 0, seen.Count())
	for q, ok := seen.NextSet(0); ok; q, ok = seen.NextSet(q + 1) {
		closure = append(closure, State(q))
	}
	return closure
}

// Accepts consumes word rune by rune from the epsilon closure of the
// initial set.
func (n *NFA) Accepts(word string) bool {
	current := n.EpsilonClosure(n.Initials())
	for _, r := range word {
		if len(current) == 0 {
			return false
		}
		move := make([]State, 0)
		for _, q := range current {
			move = append(move, n.next[q][Symbol(r)]...)
		}
		current = n.EpsilonClosure(move)
	}
	for _, q := range current {
		if n.IsFinal(q) {
			return true
		}
	}
	return false
}
