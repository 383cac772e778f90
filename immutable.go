package linkmap

import (
	"fmt"
)

// Immutable is a read-only insertion-ordered hash map built in a single
// pass. It has no mutating methods, so it is safe to share between
// goroutines without locking once constructed.
type Immutable[K comparable, V any] struct {
	t *table[K, V]
}

// NewImmutable builds an Immutable from parallel key and value slices.
// A duplicated key keeps the position of its first occurrence and the value
// of its last one. Mismatched lengths fail with ErrLengthMismatch.
//
// WithCapacity is ignored: the capacity is derived from len(keys).
func NewImmutable[K comparable, V any](
	keys []K,
	values []V,
	options ...func(*MapConfig),
) (*Immutable[K, V], error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("%w: %d keys, %d values", ErrLengthMismatch, len(keys), len(values))
	}
	cfg, err := parseConfig(options)
	if err != nil {
		return nil, err
	}
	t, err := newTableFromConfig[K, V](cfg, len(keys))
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		t.build(k, values[i])
	}
	return &Immutable[K, V]{t: t}, nil
}

// NewImmutableFromMap builds an Immutable from a Go map. The iteration
// order is the (unspecified) order in which the Go map yields its entries.
func NewImmutableFromMap[K comparable, V any](
	source map[K]V,
	options ...func(*MapConfig),
) (*Immutable[K, V], error) {
	cfg, err := parseConfig(options)
	if err != nil {
		return nil, err
	}
	t, err := newTableFromConfig[K, V](cfg, len(source))
	if err != nil {
		return nil, err
	}
	for k, v := range source {
		t.build(k, v)
	}
	return &Immutable[K, V]{t: t}, nil
}

// build inserts without ever resizing. The table was sized for every
// input entry, so at least one slot stays free.
func (t *table[K, V]) build(key K, value V) {
	pos, found := t.find(key, t.hasher.sum(key))
	if found {
		t.values[pos] = value
		return
	}
	t.claim(pos, key, value)
	t.linkLast(int32(pos))
	t.size++
}

// Get returns the value stored under key and whether it exists.
func (m *Immutable[K, V]) Get(key K) (value V, ok bool) {
	return m.t.get(key)
}

// GetOrDefault returns the value stored under key, or def if absent.
func (m *Immutable[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := m.t.get(key); ok {
		return v
	}
	return def
}

// ContainsKey reports whether key exists.
func (m *Immutable[K, V]) ContainsKey(key K) bool {
	return m.t.containsKey(key)
}

// ContainsValue reports whether some entry holds value. It is O(n).
func (m *Immutable[K, V]) ContainsValue(value V) bool {
	return m.t.containsValue(value)
}

// Size returns the number of entries.
func (m *Immutable[K, V]) Size() int {
	return m.t.size
}

// IsEmpty reports whether the map holds no entries.
func (m *Immutable[K, V]) IsEmpty() bool {
	return m.t.size == 0
}

// First returns the oldest entry.
func (m *Immutable[K, V]) First() (key K, value V, ok bool) {
	return m.t.entryAt(m.t.first)
}

// Last returns the newest entry.
func (m *Immutable[K, V]) Last() (key K, value V, ok bool) {
	return m.t.entryAt(m.t.last)
}

// Capacity returns the length of the slot arrays.
func (m *Immutable[K, V]) Capacity() int {
	return m.t.n
}

// Clone returns a deep copy.
func (m *Immutable[K, V]) Clone() *Immutable[K, V] {
	return &Immutable[K, V]{t: m.t.clone()}
}

// Thaw returns a mutable Map with the same contents and order.
func (m *Immutable[K, V]) Thaw() *Map[K, V] {
	return &Map[K, V]{t: m.t.clone()}
}

// Cursor returns a cursor positioned before the first entry.
func (m *Immutable[K, V]) Cursor() *ReadOnlyCursor[K, V] {
	return &ReadOnlyCursor[K, V]{newCursor(m.t)}
}

// CursorAt returns a cursor positioned just after key.
func (m *Immutable[K, V]) CursorAt(key K) (*ReadOnlyCursor[K, V], error) {
	pos, found := m.t.find(key, m.t.hasher.sum(key))
	if !found {
		return nil, fmt.Errorf("%w: %v", ErrNoSuchKey, key)
	}
	return &ReadOnlyCursor[K, V]{newCursorAfter(m.t, int32(pos))}, nil
}

// Stats returns diagnostics about the table layout. It is O(n).
func (m *Immutable[K, V]) Stats() *MapStats {
	s := &MapStats{Segments: 1}
	m.t.stats(s)
	return s.finish()
}

// String implements fmt.Stringer, listing up to 1024 entries in order.
func (m *Immutable[K, V]) String() string {
	return m.t.format("Immutable")
}
