package automata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond: 0 -a-> 1, 0 -b-> 2, 1 -c-> 3, 2 -d-> 3, final 3.
func diamondDFA(t *testing.T) *DFA {
	t.Helper()
	d, _, err := BuildDFA([]LabeledTransition{
		{Source: "s", Target: "l", Label: 'a'},
		{Source: "s", Target: "r", Label: 'b'},
		{Source: "l", Target: "f", Label: 'c'},
		{Source: "r", Target: "f", Label: 'd'},
	}, "s", func(label string) bool { return label == "f" })
	require.NoError(t, err)
	return d
}

func TestBreadthFirst(t *testing.T) {
	d := diamondDFA(t)

	t.Run("discoveryOrder", func(t *testing.T) {
		v := &collectVisitor{}
		BreadthFirst(d, []State{d.Initial()}, v)
		assert.Equal(t, []State{0, 1, 2, 3}, v.states)
	})

	t.Run("edgeFilter", func(t *testing.T) {
		v := &collectVisitor{}
		BreadthFirst(d, []State{d.Initial()}, v, WithEdgeFilter(func(e Edge) bool {
			return e.Label != 'b'
		}))
		assert.Equal(t, []State{0, 1, 3}, v.states)
	})

	t.Run("suppliedColorsSkipMarkedStates", func(t *testing.T) {
		colors := NewMapAttribute[State, Color]()
		colors.Put(1, Black)
		v := &collectVisitor{}
		BreadthFirst(d, []State{d.Initial()}, v, WithColors(colors))
		// State 1 is already done; 3 is still found through 2.
		assert.Equal(t, []State{0, 2, 3}, v.states)
	})

	t.Run("forwardOrCrossEdgeOnReconvergence", func(t *testing.T) {
		var crossed []Edge
		v := &edgeHookVisitor{onForwardOrCross: func(e Edge) { crossed = append(crossed, e) }}
		BreadthFirst(d, []State{d.Initial()}, v)
		// 3 is discovered through 1 first; the edge from 2 re-reaches it.
		require.Len(t, crossed, 1)
		assert.Equal(t, Edge{Source: 2, Target: 3, Label: 'd'}, crossed[0])
	})
}

type edgeHookVisitor struct {
	NopVisitor
	onBack           func(Edge)
	onForwardOrCross func(Edge)
}

func (v *edgeHookVisitor) BackEdge(_ Graph, e Edge) {
	if v.onBack != nil {
		v.onBack(e)
	}
}

func (v *edgeHookVisitor) ForwardOrCrossEdge(_ Graph, e Edge) {
	if v.onForwardOrCross != nil {
		v.onForwardOrCross(e)
	}
}

type finishVisitor struct {
	NopVisitor
	finished []State
}

func (v *finishVisitor) FinishState(_ Graph, q State) {
	v.finished = append(v.finished, q)
}

func TestDepthFirst(t *testing.T) {
	t.Run("finishesLeavesFirst", func(t *testing.T) {
		d := SingleWord("ab")
		v := &finishVisitor{}
		DepthFirst(d, []State{d.Initial()}, v)
		assert.Equal(t, []State{2, 1, 0}, v.finished)
	})

	t.Run("backEdgeOnCycle", func(t *testing.T) {
		d := NewDFA()
		q := d.AddState()
		r := d.AddState()
		d.SetInitial(q)
		d.AddTransition(q, r, 'a')
		d.AddTransition(r, q, 'b')

		var back []Edge
		v := &edgeHookVisitor{onBack: func(e Edge) { back = append(back, e) }}
		DepthFirst(d, []State{q}, v)
		require.Len(t, back, 1)
		assert.Equal(t, Edge{Source: r, Target: q, Label: 'b'}, back[0])
	})

	t.Run("multiVisitorFansOut", func(t *testing.T) {
		d := diamondDFA(t)
		v1 := &collectVisitor{}
		v2 := &finishVisitor{}
		DepthFirst(d, []State{d.Initial()}, MultiVisitor{v1, v2})
		assert.Len(t, v1.states, 4)
		assert.Len(t, v2.finished, 4)
	})
}

func TestReachability(t *testing.T) {
	d := NewReverseDFA()
	q0 := d.AddState()
	q1 := d.AddState()
	q2 := d.AddState() // dead end, no final reachable
	q3 := d.AddState() // unreachable from the initial state
	d.SetInitial(q0)
	d.AddTransition(q0, q1, 'a')
	d.AddTransition(q0, q2, 'b')
	d.AddTransition(q3, q1, 'c')
	d.SetFinal(q1, true)

	t.Run("reachable", func(t *testing.T) {
		assert.Equal(t, []State{q0, q1, q2}, Reachable(d, []State{q0}))
	})

	t.Run("coReachable", func(t *testing.T) {
		co, err := CoReachable(d)
		require.NoError(t, err)
		assert.ElementsMatch(t, []State{q0, q1, q3}, co)
	})

	t.Run("coReachableNeedsReverse", func(t *testing.T) {
		_, err := CoReachable(NewDFA())
		assert.ErrorIs(t, err, ErrNeedsReverse)
	})

	t.Run("pruneKeepsOnlyUsefulStates", func(t *testing.T) {
		require.NoError(t, Prune(d))
		assert.Equal(t, 2, d.NumStates())
		assert.Equal(t, 1, d.NumEdges())
		assert.True(t, d.Accepts("a"))
		assert.False(t, d.Accepts("b"))
	})
}

func TestParallelBreadthFirst(t *testing.T) {
	t.Run("exploresPairUnionOfAlphabets", func(t *testing.T) {
		t1 := NewTrie("ab")
		t2 := NewTrie("ac")
		v := &pairCollector{}
		ParallelBreadthFirst(t1, t2, nil, v)
		assert.Equal(t, []Pair{
			{Q1: 0, Q2: 0},
			{Q1: 1, Q2: 1},
			{Q1: 2, Q2: Bottom},
			{Q1: Bottom, Q2: 2},
		}, v.pairs)
	})

	t.Run("bothBottomSourcePanics", func(t *testing.T) {
		t1 := NewTrie("a")
		assert.Panics(t, func() {
			ParallelBreadthFirst(t1, t1, []Pair{{Q1: Bottom, Q2: Bottom}}, NopPairVisitor{})
		})
	})
}

type pairCollector struct {
	NopPairVisitor
	pairs []Pair
}

func (c *pairCollector) DiscoverPair(p Pair) {
	c.pairs = append(c.pairs, p)
}
