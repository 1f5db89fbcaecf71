package automata

// Combinator merges the finality (or initiality) of two product
// components into one boolean.
type Combinator func(b1, b2 bool) bool

func or(b1, b2 bool) bool  { return b1 || b2 }
func and(b1, b2 bool) bool { return b1 && b2 }

// productBuilder lazily materializes an output state per discovered pair
// and mirrors every product edge into the output automaton.
type productBuilder struct {
	NopPairVisitor
	g1, g2 Stepper
	comb   Combinator
	out    *DFA
	states map[Pair]State
}

func (b *productBuilder) state(p Pair) State {
	if q, ok := b.states[p]; ok {
		return q
	}
	q := b.out.AddState()
	f1 := p.Q1 != Bottom && b.g1.IsFinal(p.Q1)
	f2 := p.Q2 != Bottom && b.g2.IsFinal(p.Q2)
	b.out.SetFinal(q, b.comb(f1, f2))
	b.states[p] = q
	return q
}

func (b *productBuilder) DiscoverPair(p Pair) {
	b.state(p)
}

func (b *productBuilder) TreeEdge(p Pair, a Symbol, next Pair) {
	b.out.AddTransition(b.state(p), b.state(next), a)
}

func (b *productBuilder) GrayTarget(p Pair, a Symbol, next Pair) {
	b.out.AddTransition(b.state(p), b.state(next), a)
}

func (b *productBuilder) BlackTarget(p Pair, a Symbol, next Pair) {
	b.out.AddTransition(b.state(p), b.state(next), a)
}

func product(g1, g2 Stepper, comb Combinator) *DFA {
	b := &productBuilder{
		g1:     g1,
		g2:     g2,
		comb:   comb,
		out:    NewDFA(),
		states: make(map[Pair]State),
	}
	source := Pair{Q1: g1.Initial(), Q2: g2.Initial()}
	ParallelBreadthFirst(g1, g2, []Pair{source}, b)
	b.out.SetInitial(b.states[source])
	return b.out
}

// DeterministicUnion returns a DFA accepting L(g1) ∪ L(g2).
func DeterministicUnion(g1, g2 Stepper) *DFA {
	return product(g1, g2, or)
}

// DeterministicIntersection returns a DFA accepting L(g1) ∩ L(g2).
func DeterministicIntersection(g1, g2 Stepper) *DFA {
	return product(g1, g2, and)
}

// Inclusion is the verdict of a language comparison.
type Inclusion int

const (
	// LanguagesEqual reports L(g1) == L(g2).
	LanguagesEqual Inclusion = 0
	// ProperSubset reports L(g1) ⊂ L(g2), strictly.
	ProperSubset Inclusion = -1
	// ProperSuperset reports L(g2) ⊂ L(g1), strictly.
	ProperSuperset Inclusion = 1
	// NoVerdict reports incomparable languages: each automaton accepts a
	// word the other rejects. A first-class result, not an error.
	NoVerdict Inclusion = 2
)

func (i Inclusion) String() string {
	switch i {
	case LanguagesEqual:
		return "equal"
	case ProperSubset:
		return "proper subset"
	case ProperSuperset:
		return "proper superset"
	case NoVerdict:
		return "no verdict"
	}
	return "unknown"
}

type inclusionVisitor struct {
	NopPairVisitor
	g1, g2    Stepper
	leftOnly  bool // a word of L(g1) outside L(g2) exists
	rightOnly bool // a word of L(g2) outside L(g1) exists
}

func (v *inclusionVisitor) DiscoverPair(p Pair) {
	f1 := p.Q1 != Bottom && v.g1.IsFinal(p.Q1)
	f2 := p.Q2 != Bottom && v.g2.IsFinal(p.Q2)
	if f1 && !f2 {
		v.leftOnly = true
	}
	if f2 && !f1 {
		v.rightOnly = true
	}
}

// DeterministicInclusion compares the languages of two automata by
// walking their product once. Finality mismatches along the way set a
// running verdict; mismatches in both directions mean the languages are
// incomparable.
func DeterministicInclusion(g1, g2 Stepper) Inclusion {
	v := &inclusionVisitor{g1: g1, g2: g2}
	ParallelBreadthFirst(g1, g2, nil, v)
	switch {
	case v.leftOnly && v.rightOnly:
		return NoVerdict
	case v.leftOnly:
		return ProperSuperset
	case v.rightOnly:
		return ProperSubset
	}
	return LanguagesEqual
}

// EquivalentLanguages reports whether g1 and g2 accept the same language.
func EquivalentLanguages(g1, g2 Stepper) bool {
	return DeterministicInclusion(g1, g2) == LanguagesEqual
}

// MatchStats classifies the discovered product states of two automata by
// the finality of their components. Comparing two tries, BothFinal
// counts the shared words.
type MatchStats struct {
	BothFinal    int
	LeftFinal    int
	RightFinal   int
	NeitherFinal int
}

type statsVisitor struct {
	NopPairVisitor
	g1, g2 Stepper
	stats  MatchStats
}

func (v *statsVisitor) DiscoverPair(p Pair) {
	f1 := p.Q1 != Bottom && v.g1.IsFinal(p.Q1)
	f2 := p.Q2 != Bottom && v.g2.IsFinal(p.Q2)
	switch {
	case f1 && f2:
		v.stats.BothFinal++
	case f1:
		v.stats.LeftFinal++
	case f2:
		v.stats.RightFinal++
	default:
		v.stats.NeitherFinal++
	}
}

// MatchingStatistics walks the product of g1 and g2 and counts the
// discovered pairs by their 2x2 finality classification.
func MatchingStatistics(g1, g2 Stepper) MatchStats {
	v := &statsVisitor{g1: g1, g2: g2}
	ParallelBreadthFirst(g1, g2, nil, v)
	return v.stats
}
