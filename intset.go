package automata

import (
	"slices"
	"sort"
)

// StateSet is a mutable multiset of states with an order-insensitive
// incremental hash, used while accumulating the member states of one
// determinization subset.
type StateSet struct {
	inner       map[State]int
	hashUpdated bool
	hashCode    uint64
}

func NewStateSet() *StateSet {
	return &StateSet{inner: make(map[State]int)}
}

func (s *StateSet) Hash() uint64 {
	if s.hashUpdated {
		return s.hashCode
	}
	s.hashCode = uint64(len(s.inner))
	for q := range s.inner {
		s.hashCode += uint64(mix32(int(q)))
	}
	s.hashUpdated = true
	return s.hashCode
}

func (s *StateSet) Equals(other Hashable) bool {
	set, ok := other.(interface{ Values() []State })
	if !ok {
		return false
	}
	return slices.Equal(s.Values(), set.Values())
}

// Values returns the distinct member states, sorted.
func (s *StateSet) Values() []State {
	values := make([]State, 0, len(s.inner))
	for q := range s.inner {
		values = append(values, q)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return values
}

func (s *StateSet) Size() int {
	return len(s.inner)
}

func (s *StateSet) keyChanged() {
	s.hashUpdated = false
	s.hashCode = 0
}

// Incr adds one occurrence of state.
func (s *StateSet) Incr(state State) {
	s.inner[state]++
	if s.inner[state] == 1 {
		s.keyChanged()
	}
}

// Decr removes one occurrence of state, dropping it at zero.
func (s *StateSet) Decr(state State) {
	count, ok := s.inner[state]
	if !ok {
		return
	}
	if count == 1 {
		delete(s.inner, state)
		s.keyChanged()
	} else {
		s.inner[state]--
	}
}

// Freeze captures the current membership as an immutable set remembering
// the automaton state it was mapped to.
func (s *StateSet) Freeze(mapped State) *FrozenStateSet {
	return &FrozenStateSet{values: s.Values(), mapped: mapped, hashCode: s.Hash()}
}

// FrozenStateSet is an immutable sorted state set; determinization keys
// its subset table with these.
type FrozenStateSet struct {
	values   []State
	mapped   State
	hashCode uint64
}

func (f *FrozenStateSet) Hash() uint64 {
	return f.hashCode
}

func (f *FrozenStateSet) Equals(other Hashable) bool {
	set, ok := other.(interface{ Values() []State })
	if !ok {
		return false
	}
	return slices.Equal(f.values, set.Values())
}

func (f *FrozenStateSet) Values() []State {
	return f.values
}

func (f *FrozenStateSet) Size() int {
	return len(f.values)
}

// Mapped returns the automaton state this subset was assigned.
func (f *FrozenStateSet) Mapped() State {
	return f.mapped
}
