package automata

import "fmt"

// Stepper is the deterministic read surface the product engine walks:
// one initial state, single-valued delta with Bottom for "undefined".
// DFA satisfies it, as does the immutable Word view.
type Stepper interface {
	Initial() State
	Delta(q State, a Symbol) State
	Sigma(q State) []Symbol
	IsFinal(q State) bool
}

// Pair is one product state. Either component may legitimately be
// Bottom: the corresponding automaton simply has no transition for the
// word spelled so far. Both components Bottom is a bug in the engine or
// its caller.
type Pair struct {
	Q1 State
	Q2 State
}

// PairVisitor receives product traversal events. Embed NopPairVisitor
// and override what you need. ExamineSymbol fires before the engine
// resolves the pair's successors on that symbol, so a visitor may still
// grow the underlying automata there (trie fusion does).
type PairVisitor interface {
	StartPair(p Pair)
	ExaminePair(p Pair)
	DiscoverPair(p Pair)
	FinishPair(p Pair)
	ExamineSymbol(p Pair, a Symbol)
	TreeEdge(p Pair, a Symbol, next Pair)
	GrayTarget(p Pair, a Symbol, next Pair)
	BlackTarget(p Pair, a Symbol, next Pair)
}

// NopPairVisitor implements PairVisitor with no-op hooks.
type NopPairVisitor struct{}

func (NopPairVisitor) StartPair(Pair)                 {}
func (NopPairVisitor) ExaminePair(Pair)               {}
func (NopPairVisitor) DiscoverPair(Pair)              {}
func (NopPairVisitor) FinishPair(Pair)                {}
func (NopPairVisitor) ExamineSymbol(Pair, Symbol)     {}
func (NopPairVisitor) TreeEdge(Pair, Symbol, Pair)    {}
func (NopPairVisitor) GrayTarget(Pair, Symbol, Pair)  {}
func (NopPairVisitor) BlackTarget(Pair, Symbol, Pair) {}

func stepperDelta(g Stepper, q State, a Symbol) State {
	if q == Bottom {
		return Bottom
	}
	return g.Delta(q, a)
}

func stepperSigma(g Stepper, q State) []Symbol {
	if q == Bottom {
		return nil
	}
	return g.Sigma(q)
}

// pairSigma merges the sorted outgoing alphabets of both components.
func pairSigma(g1, g2 Stepper, p Pair) []Symbol {
	s1 := stepperSigma(g1, p.Q1)
	s2 := stepperSigma(g2, p.Q2)
	merged := make([]Symbol, 0, len(s1)+len(s2))
	i, j := 0, 0
	for i < len(s1) || j < len(s2) {
		switch {
		case j >= len(s2) || (i < len(s1) && s1[i] < s2[j]):
			merged = append(merged, s1[i])
			i++
		case i >= len(s1) || s2[j] < s1[i]:
			merged = append(merged, s2[j])
			j++
		default:
			merged = append(merged, s1[i])
			i++
			j++
		}
	}
	return merged
}

// ParallelBreadthFirst explores the product space of g1 and g2 by a
// worklist of state pairs. From (q1, q2) the symbols considered are the
// union of both outgoing alphabets; the successor on a is
// (delta1(q1, a), delta2(q2, a)), either component possibly Bottom. Each
// pair is colored exactly once, keyed by the pair itself, so the work is
// bounded by |Q1| x |Q2| pairs.
//
// Passing nil sources explores from (initial(g1), initial(g2)).
func ParallelBreadthFirst(g1, g2 Stepper, sources []Pair, v PairVisitor) {
	if sources == nil {
		sources = []Pair{{Q1: g1.Initial(), Q2: g2.Initial()}}
	}
	colors := make(map[Pair]Color)
	queue := make([]Pair, 0, len(sources))
	for _, p := range sources {
		if p.Q1 == Bottom && p.Q2 == Bottom {
			panic("automata: product pair with both components absent")
		}
		if colors[p] != White {
			continue
		}
		v.StartPair(p)
		colors[p] = Gray
		v.DiscoverPair(p)
		queue = append(queue, p)
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		v.ExaminePair(p)
		for _, a := range pairSigma(g1, g2, p) {
			v.ExamineSymbol(p, a)
			next := Pair{
				Q1: stepperDelta(g1, p.Q1, a),
				Q2: stepperDelta(g2, p.Q2, a),
			}
			if next.Q1 == Bottom && next.Q2 == Bottom {
				panic(fmt.Sprintf("automata: product pair (%d, %d) has no successor on %q", p.Q1, p.Q2, rune(a)))
			}
			switch colors[next] {
			case White:
				v.TreeEdge(p, a, next)
				colors[next] = Gray
				v.DiscoverPair(next)
				queue = append(queue, next)
			case Gray:
				v.GrayTarget(p, a, next)
			default:
				v.BlackTarget(p, a, next)
			}
		}
		colors[p] = Black
		v.FinishPair(p)
	}
}
