package automata

// Hashable is the key contract for HashMap. Equals must compare
// contents, not hashes; equal hashes with unequal contents are ordinary
// collisions.
type Hashable interface {
	Hash() uint64
	Equals(other Hashable) bool
}

// HashMap is a chained hash table keyed by Hashable values, for keys
// (state subsets) that Go's built-in maps cannot index.
type HashMap[T any] struct {
	buckets    []*entry[T]
	size       int
	mask       uint64
	emptyValue T
	loadFactor float64
}

type entry[T any] struct {
	key   Hashable
	value T
	next  *entry[T]
}

type hashMapOptions struct {
	capacity   int
	loadFactor float64
}

type HashMapOption func(*hashMapOptions)

func WithCapacity(capacity int) HashMapOption {
	return func(o *hashMapOptions) {
		o.capacity = capacity
	}
}

func NewHashMap[T any](options ...HashMapOption) *HashMap[T] {
	o := &hashMapOptions{capacity: 1, loadFactor: 0.75}
	for _, fn := range options {
		fn(o)
	}
	capacity := 1
	for capacity < o.capacity {
		capacity <<= 1
	}
	return &HashMap[T]{
		buckets:    make([]*entry[T], capacity),
		mask:       uint64(capacity - 1),
		loadFactor: o.loadFactor,
	}
}

// Set inserts or updates key.
func (m *HashMap[T]) Set(key Hashable, value T) {
	index := key.Hash() & m.mask
	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			e.value = value
			return
		}
	}
	m.buckets[index] = &entry[T]{key: key, value: value, next: m.buckets[index]}
	m.size++
	if float64(m.size)/float64(len(m.buckets)) > m.loadFactor {
		m.resize()
	}
}

// Get looks key up.
func (m *HashMap[T]) Get(key Hashable) (T, bool) {
	index := key.Hash() & m.mask
	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			return e.value, true
		}
	}
	return m.emptyValue, false
}

func (m *HashMap[T]) Size() int {
	return m.size
}

func (m *HashMap[T]) resize() {
	newCap := len(m.buckets) << 1
	newBuckets := make([]*entry[T], newCap)
	newMask := uint64(newCap - 1)
	for _, head := range m.buckets {
		for e := head; e != nil; e = e.next {
			index := e.key.Hash() & newMask
			newBuckets[index] = &entry[T]{key: e.key, value: e.value, next: newBuckets[index]}
		}
	}
	m.buckets = newBuckets
	m.mask = newMask
}
