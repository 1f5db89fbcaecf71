package automata

// Color is the 3-valued traversal marking: unvisited, in progress, done.
type Color uint8

const (
	White Color = iota
	Gray
	Black
)

// Graph is the read surface traversals walk over. DFA and NFA both
// satisfy it, as does any structure exposing states and labeled edges.
type Graph interface {
	States() []State
	OutEdges(q State) []Edge
	IsFinal(q State) bool
}

// Visitor receives traversal events. Embed NopVisitor and override only
// the hooks you need.
type Visitor interface {
	// DiscoverState fires the first time a state is reached.
	DiscoverState(g Graph, q State)
	// ExamineEdge fires for every out-edge of an examined state, before
	// the edge filter is consulted.
	ExamineEdge(g Graph, e Edge)
	// TreeEdge fires for edges leading to an undiscovered state.
	TreeEdge(g Graph, e Edge)
	// BackEdge fires for edges leading to an in-progress (gray) state.
	BackEdge(g Graph, e Edge)
	// ForwardOrCrossEdge fires for edges leading to a finished state.
	ForwardOrCrossEdge(g Graph, e Edge)
	// FinishState fires once all out-edges of a state were examined.
	FinishState(g Graph, q State)
}

// NopVisitor implements Visitor with no-op hooks.
type NopVisitor struct{}

func (NopVisitor) DiscoverState(Graph, State)     {}
func (NopVisitor) ExamineEdge(Graph, Edge)        {}
func (NopVisitor) TreeEdge(Graph, Edge)           {}
func (NopVisitor) BackEdge(Graph, Edge)           {}
func (NopVisitor) ForwardOrCrossEdge(Graph, Edge) {}
func (NopVisitor) FinishState(Graph, State)       {}

// MultiVisitor fans every event out to a list of visitors, in order.
type MultiVisitor []Visitor

func (m MultiVisitor) DiscoverState(g Graph, q State) {
	for _, v := range m {
		v.DiscoverState(g, q)
	}
}

func (m MultiVisitor) ExamineEdge(g Graph, e Edge) {
	for _, v := range m {
		v.ExamineEdge(g, e)
	}
}

func (m MultiVisitor) TreeEdge(g Graph, e Edge) {
	for _, v := range m {
		v.TreeEdge(g, e)
	}
}

func (m MultiVisitor) BackEdge(g Graph, e Edge) {
	for _, v := range m {
		v.BackEdge(g, e)
	}
}

func (m MultiVisitor) ForwardOrCrossEdge(g Graph, e Edge) {
	for _, v := range m {
		v.ForwardOrCrossEdge(g, e)
	}
}

func (m MultiVisitor) FinishState(g Graph, q State) {
	for _, v := range m {
		v.FinishState(g, q)
	}
}

// EdgeFilter decides whether a traversal follows an edge.
type EdgeFilter func(e Edge) bool

type traverseOptions struct {
	colors AttributeMap[State, Color]
	filter EdgeFilter
}

type TraverseOption func(*traverseOptions)

// WithColors supplies the color storage, so callers control allocation
// and can rerun a traversal over partially marked states.
func WithColors(colors AttributeMap[State, Color]) TraverseOption {
	return func(o *traverseOptions) {
		o.colors = colors
	}
}

// WithEdgeFilter prunes which transitions are followed.
func WithEdgeFilter(filter EdgeFilter) TraverseOption {
	return func(o *traverseOptions) {
		o.filter = filter
	}
}

func newTraverseOptions(opts []TraverseOption) *traverseOptions {
	o := &traverseOptions{
		colors: NewMapAttribute[State, Color](),
		filter: func(Edge) bool { return true },
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// BreadthFirst walks g from sources with an explicit queue, never
// recursing, firing visitor hooks along the way. Each state is
// discovered at most once.
func BreadthFirst(g Graph, sources []State, v Visitor, opts ...TraverseOption) {
	o := newTraverseOptions(opts)
	queue := make([]State, 0, len(sources))
	for _, q := range sources {
		if o.colors.Get(q) != White {
			continue
		}
		o.colors.Put(q, Gray)
		v.DiscoverState(g, q)
		queue = append(queue, q)
	}
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		for _, e := range g.OutEdges(q) {
			v.ExamineEdge(g, e)
			if !o.filter(e) {
				continue
			}
			switch o.colors.Get(e.Target) {
			case White:
				v.TreeEdge(g, e)
				o.colors.Put(e.Target, Gray)
				v.DiscoverState(g, e.Target)
				queue = append(queue, e.Target)
			case Gray:
				v.BackEdge(g, e)
			default:
				v.ForwardOrCrossEdge(g, e)
			}
		}
		o.colors.Put(q, Black)
		v.FinishState(g, q)
	}
}

type dfsFrame struct {
	state State
	edges []Edge
	next  int
}

// DepthFirst walks g from sources with an explicit stack, never
// recursing; automata with thousands of states must not be bounded by
// the goroutine stack. FinishState fires in leaves-first order.
func DepthFirst(g Graph, sources []State, v Visitor, opts ...TraverseOption) {
	o := newTraverseOptions(opts)
	for _, src := range sources {
		if o.colors.Get(src) != White {
			continue
		}
		o.colors.Put(src, Gray)
		v.DiscoverState(g, src)
		stack := []dfsFrame{{state: src, edges: g.OutEdges(src)}}
		for len(stack) > 0 {
			frame := &stack[len(stack)-1]
			if frame.next >= len(frame.edges) {
				o.colors.Put(frame.state, Black)
				v.FinishState(g, frame.state)
				stack = stack[:len(stack)-1]
				continue
			}
			e := frame.edges[frame.next]
			frame.next++
			v.ExamineEdge(g, e)
			if !o.filter(e) {
				continue
			}
			switch o.colors.Get(e.Target) {
			case White:
				v.TreeEdge(g, e)
				o.colors.Put(e.Target, Gray)
				v.DiscoverState(g, e.Target)
				stack = append(stack, dfsFrame{state: e.Target, edges: g.OutEdges(e.Target)})
			case Gray:
				v.BackEdge(g, e)
			default:
				v.ForwardOrCrossEdge(g, e)
			}
		}
	}
}

type collectVisitor struct {
	NopVisitor
	states []State
}

func (c *collectVisitor) DiscoverState(_ Graph, q State) {
	c.states = append(c.states, q)
}

// Reachable returns the states reachable from sources, in discovery
// order.
func Reachable(g Graph, sources []State, opts ...TraverseOption) []State {
	v := &collectVisitor{}
	BreadthFirst(g, sources, v, opts...)
	return v.states
}

// reverseView exposes the in-edges of a reverse-tracking DFA as
// out-edges, so forward traversals double as backward ones.
type reverseView struct {
	d *DFA
}

func (r reverseView) States() []State {
	return r.d.States()
}

func (r reverseView) OutEdges(q State) []Edge {
	in := r.d.InEdges(q)
	out := make([]Edge, len(in))
	for i, e := range in {
		out[i] = Edge{Source: e.Target, Target: e.Source, Label: e.Label}
	}
	return out
}

func (r reverseView) IsFinal(q State) bool {
	return r.d.IsFinal(q)
}

// CoReachable returns the states from which a final state is reachable,
// found by walking backward from the final states. d must track reverse
// incidence.
func CoReachable(d *DFA) ([]State, error) {
	if !d.TracksReverse() {
		return nil, ErrNeedsReverse
	}
	finals := make([]State, 0)
	for _, q := range d.States() {
		if d.IsFinal(q) {
			finals = append(finals, q)
		}
	}
	return Reachable(reverseView{d}, finals), nil
}

// Prune removes every state that is not on some path from the initial
// state to a final state, in place. d must track reverse incidence.
func Prune(d *DFA) error {
	useful := make(map[State]struct{})
	co, err := CoReachable(d)
	if err != nil {
		return err
	}
	coSet := make(map[State]struct{}, len(co))
	for _, q := range co {
		coSet[q] = struct{}{}
	}
	if d.Initial() != Bottom {
		for _, q := range Reachable(d, []State{d.Initial()}) {
			if _, ok := coSet[q]; ok {
				useful[q] = struct{}{}
			}
		}
	}
	// Materialize the doomed states before mutating.
	doomed := make([]State, 0)
	for _, q := range d.States() {
		if _, ok := useful[q]; !ok {
			doomed = append(doomed, q)
		}
	}
	for _, q := range doomed {
		d.RemoveState(q)
	}
	return nil
}
