package automata

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotAcyclic reports an input automaton with a cycle to an algorithm
// that requires an acyclic one.
var ErrNotAcyclic = errors.New("automata: automaton has a cycle")

// ErrNeedsReverse reports an automaton built without reverse incidence
// to an operation that must walk transitions backward.
var ErrNeedsReverse = errors.New("automata: operation requires a reverse-incidence automaton")

// stateHeights layers an acyclic automaton backward from its leaves:
// height(leaf) = 0 and height(q) = 1 + max height of q's successors, so
// a state enters its round only once every successor is settled.
func stateHeights(d *DFA) (*MapAttribute[State, int], error) {
	heights := NewMapAttribute[State, int]()
	pending := make(map[State]int)
	best := make(map[State]int)
	queue := make([]State, 0)
	for _, q := range d.States() {
		degree := len(d.Sigma(q))
		if degree == 0 {
			queue = append(queue, q)
		} else {
			pending[q] = degree
		}
	}
	settled := 0
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		settled++
		h := heights.Get(q)
		for _, e := range d.InEdges(q) {
			p := e.Source
			if best[p] < h+1 {
				best[p] = h + 1
			}
			pending[p]--
			if pending[p] == 0 {
				heights.Put(p, best[p])
				queue = append(queue, p)
			}
		}
	}
	if settled != d.NumStates() {
		return nil, ErrNotAcyclic
	}
	return heights, nil
}

// signature is the structural key Revuz groups by: two states of equal
// height with equal signatures accept the same residual language.
func signature(d *DFA, q State) string {
	var b strings.Builder
	if d.IsFinal(q) {
		b.WriteByte('F')
	} else {
		b.WriteByte('-')
	}
	for _, e := range d.OutEdges(q) {
		fmt.Fprintf(&b, "|%d>%d", e.Label, e.Target)
	}
	return b.String()
}

// RevuzMinimize minimizes an acyclic automaton in place, merging
// equivalent states bottom-up by height: leaves first, so shared
// suffixes collapse before the states above them are compared. This is
// the classical minimal-acyclic-automaton construction used for
// compressed dictionaries. d must track reverse incidence and must be
// acyclic; mergeable states are processed in increasing id order so the
// result is reproducible.
func RevuzMinimize(d *DFA) error {
	if !d.TracksReverse() {
		return ErrNeedsReverse
	}
	heights, err := stateHeights(d)
	if err != nil {
		return err
	}
	maxHeight := 0
	rounds := make(map[int][]State)
	for _, q := range d.States() {
		h := heights.Get(q)
		rounds[h] = append(rounds[h], q)
		if h > maxHeight {
			maxHeight = h
		}
	}

	for h := 0; h <= maxHeight; h++ {
		round := rounds[h]
		sort.Slice(round, func(i, j int) bool { return round[i] < round[j] })
		survivors := make(map[string]State)
		for _, q := range round {
			sig := signature(d, q)
			survivor, ok := survivors[sig]
			if !ok {
				survivors[sig] = q
				continue
			}
			if err := mergeInto(d, survivor, q); err != nil {
				return err
			}
		}
	}
	return nil
}

// mergeInto redirects every in-transition of dup to survivor and deletes
// dup. On a deterministic automaton the redirect can never collide with
// an existing (source, symbol) slot: the source held at most one
// transition on that symbol and it pointed at dup. The check stays,
// because a collision would mean the input was corrupted.
func mergeInto(d *DFA, survivor, dup State) error {
	in := d.InEdges(dup) // materialized before mutation
	for _, e := range in {
		d.RemoveTransition(e.Source, dup, e.Label)
		if _, ok := d.AddTransition(e.Source, survivor, e.Label); !ok {
			return fmt.Errorf("automata: redirect of (%d, %q) collides at state %d", e.Source, rune(e.Label), survivor)
		}
	}
	if d.Initial() == dup {
		d.SetInitial(survivor)
	}
	d.RemoveState(dup)
	return nil
}

// IsAcyclic reports whether d has no directed cycle, using the DFS
// back-edge test.
func IsAcyclic(g Graph) bool {
	acyclic := true
	v := &cycleVisitor{flag: &acyclic}
	DepthFirst(g, g.States(), v)
	return acyclic
}

type cycleVisitor struct {
	NopVisitor
	flag *bool
}

func (c *cycleVisitor) BackEdge(Graph, Edge) {
	*c.flag = false
}

// AcceptedWords enumerates the words an acyclic automaton accepts, in
// lexicographic symbol order. It refuses cyclic inputs, whose language
// may be infinite.
func AcceptedWords(d *DFA) ([]string, error) {
	if !IsAcyclic(d) {
		return nil, ErrNotAcyclic
	}
	words := make([]string, 0)
	if d.Initial() == Bottom {
		return words, nil
	}
	type frame struct {
		state  State
		prefix string
	}
	stack := []frame{{state: d.Initial()}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if d.IsFinal(f.state) {
			words = append(words, f.prefix)
		}
		out := d.OutEdges(f.state)
		for i := len(out) - 1; i >= 0; i-- {
			stack = append(stack, frame{state: out[i].Target, prefix: f.prefix + string(rune(out[i].Label))})
		}
	}
	sort.Strings(words)
	return words, nil
}
