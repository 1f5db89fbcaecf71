package automata

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// trimCopy returns a reverse-incidence copy of d, densely renumbered in
// increasing id order, keeping only useful states: reachable from the
// initial state and with a final state reachable from them.
func trimCopy(d *DFA) *DFA {
	out := NewReverseDFA()
	if d.Initial() == Bottom {
		return out
	}
	forward := make(map[State]struct{})
	for _, q := range Reachable(d, []State{d.Initial()}) {
		forward[q] = struct{}{}
	}

	// One-shot predecessor scratch; the input may not track reverse.
	pred := make(map[State][]State)
	for _, e := range d.Edges() {
		pred[e.Target] = append(pred[e.Target], e.Source)
	}
	backward := make(map[State]struct{})
	stack := make([]State, 0)
	for _, q := range d.States() {
		if d.IsFinal(q) {
			backward[q] = struct{}{}
			stack = append(stack, q)
		}
	}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range pred[q] {
			if _, ok := backward[p]; !ok {
				backward[p] = struct{}{}
				stack = append(stack, p)
			}
		}
	}

	keep := make([]State, 0, len(forward))
	for q := range forward {
		if _, ok := backward[q]; ok {
			keep = append(keep, q)
		}
	}
	sort.Slice(keep, func(i, j int) bool { return keep[i] < keep[j] })

	remap := make(map[State]State, len(keep))
	for _, q := range keep {
		remap[q] = out.AddState()
		out.SetFinal(remap[q], d.IsFinal(q))
	}
	for _, q := range keep {
		for _, e := range d.OutEdges(q) {
			if r, ok := remap[e.Target]; ok {
				out.AddTransition(remap[q], r, e.Label)
			}
		}
	}
	if q, ok := remap[d.Initial()]; ok {
		out.SetInitial(q)
	}
	return out
}

func automatonAlphabet(d *DFA) []Symbol {
	seen := make(map[Symbol]struct{})
	symbols := make([]Symbol, 0)
	for _, e := range d.Edges() {
		if _, ok := seen[e.Label]; !ok {
			seen[e.Label] = struct{}{}
			symbols = append(symbols, e.Label)
		}
	}
	return sortSymbols(symbols)
}

// HopcroftMinimize returns the minimal DFA for d's language by partition
// refinement. d itself is never mutated; the result is a fresh automaton
// with dense state ids, one per surviving block. Ties between equally
// eligible blocks are broken by state id so repeated runs produce the
// same automaton.
func HopcroftMinimize(d *DFA) *DFA {
	trimmed := trimCopy(d)
	n := trimmed.NumStates()
	if n == 0 {
		// Empty language: one non-final initial state.
		out := NewDFA()
		out.SetInitial(out.AddState())
		return out
	}
	alphabet := automatonAlphabet(trimmed)

	finals := bitset.New(uint(n))
	for _, q := range trimmed.States() {
		if trimmed.IsFinal(q) {
			finals.Set(uint(q))
		}
	}
	nonFinals := bitset.New(uint(n))
	for q := 0; q < n; q++ {
		if !finals.Test(uint(q)) {
			nonFinals.Set(uint(q))
		}
	}

	blockOf := make([]int, n)
	blocks := make([]*bitset.BitSet, 0, 2)
	queue := make([]int, 0, 2)
	inQueue := make([]bool, 0, 2)

	addBlock := func(members *bitset.BitSet) int {
		id := len(blocks)
		blocks = append(blocks, members)
		inQueue = append(inQueue, false)
		for q, ok := members.NextSet(0); ok; q, ok = members.NextSet(q + 1) {
			blockOf[q] = id
		}
		return id
	}
	enqueue := func(id int) {
		if !inQueue[id] {
			inQueue[id] = true
			queue = append(queue, id)
		}
	}

	// Initial partition: finals and non-finals, both seeded into the
	// refinement worklist.
	if finals.Count() > 0 {
		enqueue(addBlock(finals))
	}
	if nonFinals.Count() > 0 {
		enqueue(addBlock(nonFinals))
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		inQueue[id] = false
		// The splitter is the block's content at dequeue time; later
		// splits must not alter it.
		splitter := blocks[id].Clone()

		for _, a := range alphabet {
			// X: states with an a-transition into the splitter.
			perBlock := make(map[int]*bitset.BitSet)
			for q, ok := splitter.NextSet(0); ok; q, ok = splitter.NextSet(q + 1) {
				for _, e := range trimmed.InEdges(State(q)) {
					if e.Label != a {
						continue
					}
					y := blockOf[e.Source]
					if perBlock[y] == nil {
						perBlock[y] = bitset.New(uint(n))
					}
					perBlock[y].Set(uint(e.Source))
				}
			}
			touched := make([]int, 0, len(perBlock))
			for y := range perBlock {
				touched = append(touched, y)
			}
			sort.Ints(touched)

			for _, y := range touched {
				inter := perBlock[y]
				if inter.Count() == blocks[y].Count() {
					continue
				}
				diff := blocks[y].Difference(inter)
				blocks[y] = diff
				newID := addBlock(inter)
				if inQueue[y] {
					// Y was queued: replace it by both halves.
					enqueue(newID)
				} else if inter.Count() < diff.Count() {
					enqueue(newID)
				} else {
					enqueue(y)
				}
			}
		}
	}

	// One output state per block, numbered by smallest original member.
	order := make([]int, len(blocks))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		qi, _ := blocks[order[i]].NextSet(0)
		qj, _ := blocks[order[j]].NextSet(0)
		return qi < qj
	})

	out := NewDFA()
	newState := make([]State, len(blocks))
	for _, id := range order {
		rep, _ := blocks[id].NextSet(0)
		q := out.AddState()
		newState[id] = q
		out.SetFinal(q, trimmed.IsFinal(State(rep)))
	}
	for _, id := range order {
		rep, _ := blocks[id].NextSet(0)
		for _, e := range trimmed.OutEdges(State(rep)) {
			out.AddTransition(newState[id], newState[blockOf[e.Target]], e.Label)
		}
	}
	out.SetInitial(newState[blockOf[trimmed.Initial()]])
	return out
}
