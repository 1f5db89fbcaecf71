package automata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDFATransitions(t *testing.T) {
	t.Run("addTransitionReportsDeterminismViolation", func(t *testing.T) {
		d := NewDFA()
		q := d.AddState()
		r := d.AddState()
		s := d.AddState()

		_, ok := d.AddTransition(q, r, 'a')
		assert.True(t, ok)

		// Same slot, different target: not added, nothing corrupted.
		_, ok = d.AddTransition(q, s, 'a')
		assert.False(t, ok)
		assert.Equal(t, r, d.Delta(q, 'a'))
		assert.Equal(t, 1, d.NumEdges())

		// Re-adding the identical transition is a no-op success.
		_, ok = d.AddTransition(q, r, 'a')
		assert.True(t, ok)
		assert.Equal(t, 1, d.NumEdges())
	})

	t.Run("deltaBottomPropagates", func(t *testing.T) {
		d := NewDFA()
		q := d.AddState()
		d.SetInitial(q)
		assert.Equal(t, Bottom, d.Delta(q, 'a'))
		assert.Equal(t, Bottom, d.Delta(Bottom, 'a'))
		assert.False(t, d.IsFinal(Bottom))
	})

	t.Run("sigmaIsSorted", func(t *testing.T) {
		d := NewDFA()
		q := d.AddState()
		r := d.AddState()
		d.AddTransition(q, r, 'c')
		d.AddTransition(q, r, 'a')
		d.AddTransition(q, r, 'b')
		assert.Equal(t, []Symbol{'a', 'b', 'c'}, d.Sigma(q))
	})

	t.Run("removeTransitionKeepsSlotUsable", func(t *testing.T) {
		d := NewDFA()
		q := d.AddState()
		r := d.AddState()
		s := d.AddState()
		d.AddTransition(q, r, 'a')
		d.RemoveTransition(q, r, 'a')
		assert.Equal(t, Bottom, d.Delta(q, 'a'))

		_, ok := d.AddTransition(q, s, 'a')
		assert.True(t, ok)
		assert.Equal(t, s, d.Delta(q, 'a'))
	})
}

func TestDFAReverseIncidence(t *testing.T) {
	t.Run("inEdgesTrackAdds", func(t *testing.T) {
		d := NewReverseDFA()
		q := d.AddState()
		r := d.AddState()
		s := d.AddState()
		d.AddTransition(q, s, 'a')
		d.AddTransition(r, s, 'b')

		in := d.InEdges(s)
		require.Len(t, in, 2)
		assert.Equal(t, Edge{Source: q, Target: s, Label: 'a'}, in[0])
		assert.Equal(t, Edge{Source: r, Target: s, Label: 'b'}, in[1])
	})

	t.Run("removeStateDropsIncidentEdgesBothWays", func(t *testing.T) {
		d := NewReverseDFA()
		q := d.AddState()
		r := d.AddState()
		s := d.AddState()
		d.AddTransition(q, r, 'a')
		d.AddTransition(r, s, 'b')
		d.AddTransition(s, r, 'c')

		d.RemoveState(r)
		assert.Equal(t, 0, d.NumEdges())
		assert.Equal(t, 2, d.NumStates())
		assert.Equal(t, Bottom, d.Delta(q, 'a'))
		assert.Empty(t, d.InEdges(s))
	})

	t.Run("inEdgesOnForwardOnlyAutomatonPanics", func(t *testing.T) {
		d := NewDFA()
		q := d.AddState()
		assert.Panics(t, func() { d.InEdges(q) })
	})
}

func TestDFAAccepts(t *testing.T) {
	d := SingleWord("chat")
	assert.True(t, d.Accepts("chat"))
	assert.False(t, d.Accepts("cha"))
	assert.False(t, d.Accepts("chats"))
	assert.False(t, d.Accepts(""))
	assert.True(t, EmptyWord().Accepts(""))
	assert.False(t, EmptyLanguage().Accepts(""))
}

func TestNFAModel(t *testing.T) {
	t.Run("parallelTransitionsAllowed", func(t *testing.T) {
		n := NewNFA()
		q := n.AddState()
		r := n.AddState()
		s := n.AddState()
		n.AddTransition(q, r, 'a')
		n.AddTransition(q, s, 'a')
		assert.Equal(t, []State{r, s}, n.Next(q, 'a'))
	})

	t.Run("epsilonClosure", func(t *testing.T) {
		n := NewNFA()
		q0 := n.AddState()
		q1 := n.AddState()
		q2 := n.AddState()
		q3 := n.AddState()
		n.AddTransition(q0, q1, Epsilon)
		n.AddTransition(q1, q2, Epsilon)
		n.AddTransition(q2, q3, 'a')
		assert.Equal(t, []State{q0, q1, q2}, n.EpsilonClosure([]State{q0}))
		assert.Equal(t, []State{q3}, n.EpsilonClosure([]State{q3}))
	})

	t.Run("importRemapsStates", func(t *testing.T) {
		n := NewNFA()
		a0 := n.AddState()
		a1 := n.AddState()
		n.AddTransition(a0, a1, 'x')

		o := NewNFA()
		b0 := o.AddState()
		b1 := o.AddState()
		o.AddTransition(b0, b1, 'y')
		o.SetFinal(b1, true)

		offset := n.Import(o)
		assert.Equal(t, State(2), offset)
		assert.Equal(t, []State{b1 + offset}, n.Next(b0+offset, 'y'))
		assert.True(t, n.IsFinal(b1+offset))
		assert.Equal(t, 4, n.NumStates())
	})

	t.Run("accepts", func(t *testing.T) {
		// a(b|c) with an epsilon detour.
		n := NewNFA()
		q0 := n.AddState()
		q1 := n.AddState()
		q2 := n.AddState()
		q3 := n.AddState()
		n.AddInitial(q0)
		n.AddTransition(q0, q1, 'a')
		n.AddTransition(q1, q2, Epsilon)
		n.AddTransition(q1, q3, 'b')
		n.AddTransition(q2, q3, 'c')
		n.SetFinal(q3, true)

		assert.True(t, n.Accepts("ab"))
		assert.True(t, n.Accepts("ac"))
		assert.False(t, n.Accepts("a"))
		assert.False(t, n.Accepts("abc"))
	})
}

func TestBuildDFA(t *testing.T) {
	transitions := []LabeledTransition{
		{Source: "q0", Target: "q0", Label: 'a'},
		{Source: "q0", Target: "q1", Label: 'b'},
		{Source: "q1", Target: "q2", Label: 'a'},
		{Source: "q1", Target: "q1", Label: 'b'},
		{Source: "q2", Target: "q1", Label: 'a'},
		{Source: "q2", Target: "q1", Label: 'b'},
	}
	d, names, err := BuildDFA(transitions, "q0", func(label string) bool { return label == "q1" })
	require.NoError(t, err)
	assert.Equal(t, 3, d.NumStates())
	assert.Equal(t, 6, d.NumEdges())
	assert.Equal(t, names["q0"], d.Initial())
	assert.True(t, d.IsFinal(names["q1"]))

	assert.True(t, d.Accepts("b"))
	assert.True(t, d.Accepts("aab"))
	assert.True(t, d.Accepts("baa"))
	assert.False(t, d.Accepts("ba"))

	_, _, err = BuildDFA(append(transitions, LabeledTransition{Source: "q0", Target: "q2", Label: 'a'}), "q0", nil)
	assert.Error(t, err)
}
