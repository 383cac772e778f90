// Package linkmap provides insertion-ordered hash maps built on open
// addressing: a single-goroutine Map, a lock-segmented concurrent
// Segmented map and a read-only Immutable map.
package linkmap

import (
	"fmt"
	"strings"
)

// Map is an insertion-ordered hash map backed by open addressing with
// linear probing.
//
// Key features:
//   - keys, values and order links live in flat parallel arrays
//   - deletion shifts later probe-run members backwards, leaving no tombstones
//   - iteration follows insertion order, unaffected by resizes
//   - growth and shrinking are amortized O(1) per operation
//   - any key value, including the zero value, is a regular key
//
// A Map is not safe for concurrent use. Use Segmented when several
// goroutines mutate the same map, or Immutable to share a read-only view.
type Map[K comparable, V any] struct {
	t *table[K, V]
}

// Entry is a key/value pair copied out of a map.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// ComputeOp tells the compute family what to do with the result of the
// user function.
type ComputeOp int

const (
	// CancelOp signals to Compute to not do anything as a result
	// of executing the lambda. If the entry was not present in
	// the map, nothing happens, and if it was present, the
	// returned value is ignored.
	CancelOp ComputeOp = iota
	// UpdateOp signals to Compute to update the entry to the
	// value returned by the lambda, creating it if necessary.
	UpdateOp
	// DeleteOp signals to Compute to always delete the entry
	// from the map.
	DeleteOp
)

// New creates an empty Map.
//
// Parameters:
//   - WithCapacity: expected entries; also the capacity floor for shrinking
//   - WithLoadFactor: growth threshold in (0, 1), default 0.75
//   - WithKeyHasher, WithKeyEqual, WithValueEqual, WithSeed, WithLogger
func New[K comparable, V any](options ...func(*MapConfig)) (*Map[K, V], error) {
	cfg, err := parseConfig(options)
	if err != nil {
		return nil, err
	}
	t, err := newTableFromConfig[K, V](cfg, cfg.capacity)
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{t: t}, nil
}

func newTableFromConfig[K comparable, V any](cfg *MapConfig, expected int) (*table[K, V], error) {
	if err := checkCapacity(expected, cfg.loadFactor); err != nil {
		return nil, err
	}
	hasher, err := newKeyHasher[K](cfg)
	if err != nil {
		return nil, err
	}
	valEqual, err := valueEqual[V](cfg)
	if err != nil {
		return nil, err
	}
	n := arraySize(expected, cfg.loadFactor)
	return newTable[K, V](n, n, cfg.loadFactor, hasher, valEqual, cfg.logger), nil
}

// Get returns the value stored under key and whether it exists.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	return m.t.get(key)
}

// GetOrDefault returns the value stored under key, or def if absent.
func (m *Map[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := m.t.get(key); ok {
		return v
	}
	return def
}

// ContainsKey reports whether key exists.
func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.t.containsKey(key)
}

// ContainsValue reports whether some entry holds value. It is O(n).
func (m *Map[K, V]) ContainsValue(value V) bool {
	return m.t.containsValue(value)
}

// Put stores value under key. New keys are appended to the iteration
// order; existing keys keep their position.
func (m *Map[K, V]) Put(key K, value V) (previous V, loaded bool) {
	return m.t.put(key, value)
}

// PutIfAbsent stores value only if key is absent. It returns the value
// now associated with key and whether it was already present.
func (m *Map[K, V]) PutIfAbsent(key K, value V) (actual V, loaded bool) {
	return m.t.processEntry(key, putIfAbsentFn(value))
}

// Remove deletes key and returns its value.
func (m *Map[K, V]) Remove(key K) (previous V, loaded bool) {
	return m.t.remove(key)
}

// RemoveIf deletes key only if it currently maps to value.
func (m *Map[K, V]) RemoveIf(key K, value V) bool {
	_, ok := m.t.processEntry(key, removeIfFn(value, m.t.valEqual))
	return ok
}

// Replace stores value only if key exists and returns the replaced value.
func (m *Map[K, V]) Replace(key K, value V) (previous V, replaced bool) {
	return m.t.processEntry(key, replaceFn[V](value))
}

// ReplaceIf stores value only if key currently maps to old.
func (m *Map[K, V]) ReplaceIf(key K, old, value V) bool {
	_, ok := m.t.processEntry(key, replaceIfFn(old, value, m.t.valEqual))
	return ok
}

// Process applies a compute-style update to the entry for key.
// fn receives the current value and whether it exists, and returns the
// new value, the operation to apply, and the results of Process.
//
// fn must not access the map.
func (m *Map[K, V]) Process(
	key K,
	fn func(old V, loaded bool) (newV V, op ComputeOp, ret V, status bool),
) (V, bool) {
	return m.t.processEntry(key, fn)
}

// Compute either sets the computed new value for the key, deletes the
// value for the key, or does nothing, based on the returned ComputeOp.
// The ok result indicates whether the entry is present after the
// operation, and actual holds its value.
func (m *Map[K, V]) Compute(
	key K,
	valueFn func(oldValue V, loaded bool) (newValue V, op ComputeOp),
) (actual V, ok bool) {
	return m.t.processEntry(key, computeFn(valueFn))
}

// ComputeIfAbsent stores valueFn(key) when key is absent. It returns the
// value now associated with key and whether it was already present.
func (m *Map[K, V]) ComputeIfAbsent(key K, valueFn func(key K) V) (actual V, loaded bool) {
	return m.t.processEntry(key, computeIfAbsentFn(key, valueFn))
}

// ComputeIfPresent recomputes the value of an existing key. The entry is
// deleted when valueFn returns DeleteOp. ok reports whether the key is
// present after the operation.
func (m *Map[K, V]) ComputeIfPresent(
	key K,
	valueFn func(key K, old V) (newValue V, op ComputeOp),
) (actual V, ok bool) {
	return m.t.processEntry(key, computeIfPresentFn(key, valueFn))
}

// Merge stores value when key is absent, and otherwise combines the old
// and given values with mergeFn. ok reports whether the key is present
// after the operation.
func (m *Map[K, V]) Merge(
	key K,
	value V,
	mergeFn func(old, value V) (newValue V, op ComputeOp),
) (actual V, ok bool) {
	return m.t.processEntry(key, mergeFnOf(value, mergeFn))
}

// Size returns the number of entries.
func (m *Map[K, V]) Size() int {
	return m.t.size
}

// IsEmpty reports whether the map holds no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return m.t.size == 0
}

// Clear removes every entry and returns to the minimal capacity.
func (m *Map[K, V]) Clear() {
	m.t.clear()
}

// Clone returns a structurally independent copy with identical contents
// and iteration order.
func (m *Map[K, V]) Clone() *Map[K, V] {
	return &Map[K, V]{t: m.t.clone()}
}

// Freeze returns an Immutable snapshot with the same contents and order.
func (m *Map[K, V]) Freeze() *Immutable[K, V] {
	return &Immutable[K, V]{t: m.t.clone()}
}

// Capacity returns the length of the slot arrays.
func (m *Map[K, V]) Capacity() int {
	return m.t.n
}

// Trim shrinks the table to the smallest capacity holding the current
// entries, never below the configured capacity.
func (m *Map[K, V]) Trim() bool {
	return m.t.trim()
}

// EnsureCapacity grows the table so it holds expected entries without
// further growth.
func (m *Map[K, V]) EnsureCapacity(expected int) {
	m.t.ensureCapacity(expected)
}

// First returns the oldest entry.
func (m *Map[K, V]) First() (key K, value V, ok bool) {
	return m.t.entryAt(m.t.first)
}

// Last returns the newest entry.
func (m *Map[K, V]) Last() (key K, value V, ok bool) {
	return m.t.entryAt(m.t.last)
}

// PollFirst removes and returns the oldest entry.
func (m *Map[K, V]) PollFirst() (key K, value V, ok bool) {
	return m.t.poll(m.t.first)
}

// PollLast removes and returns the newest entry.
func (m *Map[K, V]) PollLast() (key K, value V, ok bool) {
	return m.t.poll(m.t.last)
}

// MoveToFirst moves an existing key to the head of the iteration order.
func (m *Map[K, V]) MoveToFirst(key K) bool {
	pos, found := m.t.find(key, m.t.hasher.sum(key))
	if found {
		m.t.moveToFirst(int32(pos))
	}
	return found
}

// MoveToLast moves an existing key to the tail of the iteration order.
func (m *Map[K, V]) MoveToLast(key K) bool {
	pos, found := m.t.find(key, m.t.hasher.sum(key))
	if found {
		m.t.moveToLast(int32(pos))
	}
	return found
}

// GetAndMoveToFirst returns the value of key and moves it to the head of
// the iteration order.
func (m *Map[K, V]) GetAndMoveToFirst(key K) (value V, ok bool) {
	pos, found := m.t.find(key, m.t.hasher.sum(key))
	if !found {
		return
	}
	m.t.moveToFirst(int32(pos))
	return m.t.values[pos], true
}

// GetAndMoveToLast returns the value of key and moves it to the tail of
// the iteration order. Together with PollFirst it makes an LRU cache.
func (m *Map[K, V]) GetAndMoveToLast(key K) (value V, ok bool) {
	pos, found := m.t.find(key, m.t.hasher.sum(key))
	if !found {
		return
	}
	m.t.moveToLast(int32(pos))
	return m.t.values[pos], true
}

// PutAndMoveToFirst stores value under key and moves the entry to the head
// of the iteration order.
func (m *Map[K, V]) PutAndMoveToFirst(key K, value V) (previous V, loaded bool) {
	return m.t.putAndMove(key, value, true)
}

// PutAndMoveToLast stores value under key and moves the entry to the tail
// of the iteration order.
func (m *Map[K, V]) PutAndMoveToLast(key K, value V) (previous V, loaded bool) {
	return m.t.putAndMove(key, value, false)
}

// Cursor returns a cursor positioned before the first entry.
func (m *Map[K, V]) Cursor() *Cursor[K, V] {
	return &Cursor[K, V]{newCursor(m.t)}
}

// CursorAt returns a cursor positioned just after key: Next returns the
// entry following key and Previous returns key itself.
func (m *Map[K, V]) CursorAt(key K) (*Cursor[K, V], error) {
	pos, found := m.t.find(key, m.t.hasher.sum(key))
	if !found {
		return nil, fmt.Errorf("%w: %v", ErrNoSuchKey, key)
	}
	return &Cursor[K, V]{newCursorAfter(m.t, int32(pos))}, nil
}

// Stats returns diagnostics about the table layout. It is O(n).
func (m *Map[K, V]) Stats() *MapStats {
	s := &MapStats{Segments: 1}
	m.t.stats(s)
	return s.finish()
}

// String implements fmt.Stringer, listing up to 1024 entries in order.
func (m *Map[K, V]) String() string {
	return m.t.format("Map")
}

func (t *table[K, V]) entryAt(pos int32) (key K, value V, ok bool) {
	if pos == noLink {
		return
	}
	return t.keys[pos], t.values[pos], true
}

func (t *table[K, V]) poll(pos int32) (key K, value V, ok bool) {
	if pos == noLink {
		return
	}
	key = t.keys[pos]
	return key, t.removeSlot(int(pos), nil, true), true
}

func (t *table[K, V]) putAndMove(key K, value V, toFirst bool) (previous V, loaded bool) {
	pos, found := t.find(key, t.hasher.sum(key))
	if found {
		previous = t.values[pos]
		t.values[pos] = value
		if toFirst {
			t.moveToFirst(int32(pos))
		} else {
			t.moveToLast(int32(pos))
		}
		return previous, true
	}
	if toFirst {
		t.claim(pos, key, value)
		t.linkFirst(int32(pos))
		t.grow()
		return
	}
	t.insertAt(pos, key, value)
	return
}

func (t *table[K, V]) format(name string) string {
	const limit = 1024
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('[')
	n := 0
	for i := t.first; i != noLink && n < limit; i = t.links[i].next {
		if n > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v:%v", t.keys[i], t.values[i])
		n++
	}
	sb.WriteByte(']')
	return sb.String()
}
