package automata

// Determinize converts n into an equivalent DFA by subset construction
// over epsilon closures. Only subsets reachable from the initial closure
// are ever materialized; there is no 2^n enumeration.
//
// With complete=true every DFA state receives a transition for every
// symbol of n's alphabet, manufacturing a single trap state as needed,
// so the transition function is total. With complete=false only symbols
// actually enabled in a subset are followed and no trap state exists.
func Determinize(n *NFA, complete bool) *DFA {
	d := NewDFA()
	alphabet := n.Alphabet()

	anyFinal := func(set []State) bool {
		for _, q := range set {
			if n.IsFinal(q) {
				return true
			}
		}
		return false
	}

	subsets := NewHashMap[*FrozenStateSet](WithCapacity(4))
	worklist := make([]*FrozenStateSet, 0)

	// intern returns the DFA state for a closed subset, allocating it on
	// first sight and queueing the subset for expansion.
	intern := func(set []State) *FrozenStateSet {
		acc := NewStateSet()
		for _, q := range set {
			acc.Incr(q)
		}
		if frozen, ok := subsets.Get(acc); ok {
			return frozen
		}
		q := d.AddState()
		d.SetFinal(q, anyFinal(set))
		frozen := acc.Freeze(q)
		subsets.Set(frozen, frozen)
		worklist = append(worklist, frozen)
		return frozen
	}

	start := intern(n.EpsilonClosure(n.Initials()))
	d.SetInitial(start.Mapped())

	trap := Bottom
	ensureTrap := func() State {
		if trap == Bottom {
			trap = d.AddState()
			for _, a := range alphabet {
				d.AddTransition(trap, trap, a)
			}
		}
		return trap
	}

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]

		symbols := alphabet
		if !complete {
			symbols = enabledSymbols(n, cur.Values())
		}
		for _, a := range symbols {
			move := make([]State, 0)
			for _, q := range cur.Values() {
				move = append(move, n.Next(q, a)...)
			}
			if len(move) == 0 {
				if complete {
					d.AddTransition(cur.Mapped(), ensureTrap(), a)
				}
				continue
			}
			target := intern(n.EpsilonClosure(move))
			d.AddTransition(cur.Mapped(), target.Mapped(), a)
		}
	}
	return d
}

// CompleteDFA makes d's transition function total over alphabet in
// place, manufacturing a single trap state if any (state, symbol) slot
// is empty. An already total automaton is left unchanged.
func CompleteDFA(d *DFA, alphabet []Symbol) {
	trap := Bottom
	for _, q := range d.States() {
		for _, a := range alphabet {
			if d.Delta(q, a) != Bottom {
				continue
			}
			if trap == Bottom {
				trap = d.AddState()
				for _, b := range alphabet {
					d.AddTransition(trap, trap, b)
				}
			}
			d.AddTransition(q, trap, a)
		}
	}
}

// enabledSymbols returns the union of the outgoing alphabets of the
// subset members, sorted.
func enabledSymbols(n *NFA, set []State) []Symbol {
	seen := make(map[Symbol]struct{})
	symbols := make([]Symbol, 0)
	for _, q := range set {
		for _, a := range n.Sigma(q) {
			if _, ok := seen[a]; !ok {
				seen[a] = struct{}{}
				symbols = append(symbols, a)
			}
		}
	}
	return sortSymbols(symbols)
}
