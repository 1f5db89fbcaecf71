package automata

// AttributeMap decorates states or transitions with values without fixing
// the storage strategy. Algorithms receive one and call Get/Put; the
// caller decides whether it is backed by a table, a pure function or a
// single constant.
type AttributeMap[K comparable, V any] interface {
	Get(key K) V
	Put(key K, value V)
}

// MapAttribute is a hash-table backed attribute map. Get on an unknown
// key returns the zero value of V.
type MapAttribute[K comparable, V any] struct {
	values map[K]V
}

func NewMapAttribute[K comparable, V any]() *MapAttribute[K, V] {
	return &MapAttribute[K, V]{values: make(map[K]V)}
}

func (m *MapAttribute[K, V]) Get(key K) V {
	return m.values[key]
}

func (m *MapAttribute[K, V]) Put(key K, value V) {
	m.values[key] = value
}

// Len returns how many keys have been written.
func (m *MapAttribute[K, V]) Len() int {
	return len(m.values)
}

// FuncAttribute answers Get from a pure function. It is read-only: a
// function has nowhere to store a value, so Put is a caller bug.
type FuncAttribute[K comparable, V any] struct {
	fn func(K) V
}

func NewFuncAttribute[K comparable, V any](fn func(K) V) *FuncAttribute[K, V] {
	return &FuncAttribute[K, V]{fn: fn}
}

func (f *FuncAttribute[K, V]) Get(key K) V {
	return f.fn(key)
}

func (f *FuncAttribute[K, V]) Put(K, V) {
	panic("automata: Put on a function-backed attribute map")
}

// ConstAttribute returns the same value for every key.
type ConstAttribute[K comparable, V any] struct {
	value V
}

func NewConstAttribute[K comparable, V any](value V) *ConstAttribute[K, V] {
	return &ConstAttribute[K, V]{value: value}
}

func (c *ConstAttribute[K, V]) Get(K) V {
	return c.value
}

func (c *ConstAttribute[K, V]) Put(K, V) {
	panic("automata: Put on a constant attribute map")
}
