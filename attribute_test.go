package automata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapAttribute(t *testing.T) {
	m := NewMapAttribute[State, int]()
	assert.Equal(t, 0, m.Get(7)) // zero value for unknown keys
	m.Put(7, 42)
	assert.Equal(t, 42, m.Get(7))
	m.Put(7, 43)
	assert.Equal(t, 43, m.Get(7))
	assert.Equal(t, 1, m.Len())
}

func TestFuncAttribute(t *testing.T) {
	depth := NewFuncAttribute(func(q State) int { return int(q) * 2 })
	assert.Equal(t, 6, depth.Get(3))
	assert.Panics(t, func() { depth.Put(3, 0) })
}

func TestConstAttribute(t *testing.T) {
	c := NewConstAttribute[State](White)
	assert.Equal(t, White, c.Get(0))
	assert.Equal(t, White, c.Get(999))
	assert.Panics(t, func() { c.Put(0, Black) })
}

func TestAttributeMapAsTraversalColors(t *testing.T) {
	// A function-backed read-only map cannot serve a traversal, which
	// writes colors; a table-backed one can, and exposes the marks after.
	d := SingleWord("ab")
	colors := NewMapAttribute[State, Color]()
	BreadthFirst(d, []State{d.Initial()}, NopVisitor{}, WithColors(colors))
	for _, q := range d.States() {
		assert.Equal(t, Black, colors.Get(q))
	}
}
