package automata

import "fmt"

// LabeledTransition describes one transition of an automaton whose
// states are named by labels rather than ids, for callers that already
// have a state machine in hand.
type LabeledTransition struct {
	Source string
	Target string
	Label  Symbol
}

// BuildDFA constructs a reverse-incidence DFA from an explicit
// transition list, an initial-state label, and a finality predicate over
// labels. States are allocated on first mention, the initial state
// first. Two transitions leaving the same (source, label) slot are a
// determinism violation and fail the build.
func BuildDFA(transitions []LabeledTransition, initial string, isFinal func(label string) bool) (*DFA, map[string]State, error) {
	d := NewReverseDFA()
	names := make(map[string]State)
	state := func(label string) State {
		if q, ok := names[label]; ok {
			return q
		}
		q := d.AddState()
		names[label] = q
		if isFinal != nil && isFinal(label) {
			d.SetFinal(q, true)
		}
		return q
	}
	d.SetInitial(state(initial))
	for _, t := range transitions {
		src := state(t.Source)
		dst := state(t.Target)
		if _, ok := d.AddTransition(src, dst, t.Label); !ok {
			return nil, nil, fmt.Errorf("duplicate transition from %q on %q", t.Source, rune(t.Label))
		}
	}
	return d, names, nil
}

// EmptyLanguage returns a DFA accepting nothing: one non-final initial
// state, no transitions.
func EmptyLanguage() *DFA {
	d := NewDFA()
	d.SetInitial(d.AddState())
	return d
}

// EmptyWord returns a DFA accepting only the empty word.
func EmptyWord() *DFA {
	d := NewDFA()
	q := d.AddState()
	d.SetInitial(q)
	d.SetFinal(q, true)
	return d
}

// SingleWord returns a DFA accepting exactly word.
func SingleWord(word string) *DFA {
	d := NewDFA()
	q := d.AddState()
	d.SetInitial(q)
	for _, r := range word {
		next := d.AddState()
		d.AddTransition(q, next, Symbol(r))
		q = next
	}
	d.SetFinal(q, true)
	return d
}
