package linkmap

import (
	"github.com/bits-and-blooms/bitset"
	"go.uber.org/zap"
)

// table is the open-addressing core shared by Map, every segment of
// Segmented, and Immutable.
//
// Layout:
//   - keys, values and links are parallel arrays of length n (a power of two)
//   - used marks occupied slots; an unoccupied slot ends every probe run
//   - links chains the occupied slots in insertion order, first to last
//
// Invariants:
//   - size <= maxFill < n, so at least one slot is always unoccupied
//   - every occupied key is reachable by linear probing from sum(key)&mask
//   - links forms a single chain over exactly the occupied slots
//
// A table is not safe for concurrent use; Segmented guards each table
// with its segment lock.
type table[K comparable, V any] struct {
	keys   []K
	values []V
	links  []link
	used   *bitset.BitSet

	n       int // capacity
	mask    int
	size    int
	maxFill int
	minN    int // never shrink below
	f       float32

	first, last int32

	growths uint32
	shrinks uint32

	hasher   *keyHasher[K]
	valEqual func(a, b V) bool
	logger   *zap.Logger
}

func newTable[K comparable, V any](
	n, minN int,
	f float32,
	hasher *keyHasher[K],
	valEqual func(a, b V) bool,
	logger *zap.Logger,
) *table[K, V] {
	t := &table[K, V]{
		minN:     minN,
		f:        f,
		hasher:   hasher,
		valEqual: valEqual,
		logger:   logger,
	}
	t.install(n)
	return t
}

// install allocates empty arrays of length n.
func (t *table[K, V]) install(n int) {
	t.keys = make([]K, n)
	t.values = make([]V, n)
	t.links = make([]link, n)
	t.used = bitset.New(uint(n))
	t.n = n
	t.mask = n - 1
	t.maxFill = maxFill(n, t.f)
	t.size = 0
	t.first, t.last = noLink, noLink
}

//go:nosplit
func (t *table[K, V]) occupied(pos int) bool {
	return t.used.Test(uint(pos))
}

// find probes for key. It returns the slot holding key and true, or the
// unoccupied slot ending the probe run and false. The same scan serves
// lookup and insertion.
func (t *table[K, V]) find(key K, h uint64) (int, bool) {
	pos := int(h) & t.mask
	for t.occupied(pos) {
		if t.hasher.eq(t.keys[pos], key) {
			return pos, true
		}
		pos = (pos + 1) & t.mask
	}
	return pos, false
}

func (t *table[K, V]) get(key K) (value V, ok bool) {
	if t.size == 0 {
		return
	}
	if pos, found := t.find(key, t.hasher.sum(key)); found {
		return t.values[pos], true
	}
	return
}

func (t *table[K, V]) containsKey(key K) bool {
	if t.size == 0 {
		return false
	}
	_, found := t.find(key, t.hasher.sum(key))
	return found
}

func (t *table[K, V]) containsValue(value V) bool {
	for i := t.first; i != noLink; i = t.links[i].next {
		if t.valEqual(t.values[i], value) {
			return true
		}
	}
	return false
}

// put stores value under key and returns the previous value, if any.
func (t *table[K, V]) put(key K, value V) (previous V, loaded bool) {
	pos, found := t.find(key, t.hasher.sum(key))
	if found {
		previous = t.values[pos]
		t.values[pos] = value
		return previous, true
	}
	t.insertAt(pos, key, value)
	return
}

// insertAt claims the unoccupied slot pos returned by find, appends it to
// the order chain and grows the table once size reaches maxFill.
func (t *table[K, V]) insertAt(pos int, key K, value V) {
	t.claim(pos, key, value)
	t.linkLast(int32(pos))
	t.grow()
}

// grow accounts for one inserted entry and rehashes once size reaches
// maxFill. The new entry must already be linked.
func (t *table[K, V]) grow() {
	t.size++
	if t.size >= t.maxFill {
		if n := arraySize(t.size+1, t.f); n > t.n {
			t.rehash(n, mapGrowHint)
		} else if t.size >= t.n-1 {
			panic("linkmap: table exceeds maximum capacity")
		}
	}
}

//go:nosplit
func (t *table[K, V]) claim(pos int, key K, value V) {
	t.keys[pos] = key
	t.values[pos] = value
	t.used.Set(uint(pos))
}

//go:nosplit
func (t *table[K, V]) release(pos int) {
	var (
		zeroK K
		zeroV V
	)
	t.keys[pos] = zeroK
	t.values[pos] = zeroV
	t.links[pos] = link{}
	t.used.Clear(uint(pos))
}

// remove deletes key and returns its value.
func (t *table[K, V]) remove(key K) (previous V, loaded bool) {
	if t.size == 0 {
		return
	}
	pos, found := t.find(key, t.hasher.sum(key))
	if !found {
		return
	}
	return t.removeSlot(pos, nil, true), true
}

// removeSlot deletes the occupied slot pos. Entries relocated by the
// backward shift are reported to moved, if set. With shrink disabled the
// slot layout changes only by those relocations, which lets a live cursor
// keep its position.
func (t *table[K, V]) removeSlot(pos int, moved func(from, to int32), shrink bool) V {
	value := t.values[pos]
	t.unlink(int32(pos))
	t.size--
	t.shiftKeys(pos, moved)
	if shrink && t.n > t.minN && t.size < t.maxFill/4 {
		t.rehash(max(t.n/2, t.minN), mapShrinkHint)
	}
	return value
}

// shiftKeys closes the gap at pos by moving later members of the probe run
// backwards, so no tombstone is ever left behind. An entry at pos may fill
// the gap at last unless its ideal slot lies cyclically in (last, pos].
func (t *table[K, V]) shiftKeys(pos int, moved func(from, to int32)) {
	for {
		last := pos
		pos = (last + 1) & t.mask
		for {
			if !t.occupied(pos) {
				t.release(last)
				return
			}
			slot := int(t.hasher.sum(t.keys[pos])) & t.mask
			if last <= pos {
				if last >= slot || slot > pos {
					break
				}
			} else if last >= slot && slot > pos {
				break
			}
			pos = (pos + 1) & t.mask
		}
		t.keys[last] = t.keys[pos]
		t.values[last] = t.values[pos]
		t.onNodeMoved(int32(pos), int32(last))
		if moved != nil {
			moved(int32(pos), int32(last))
		}
	}
}

// clear drops every entry and returns to the minimal capacity.
func (t *table[K, V]) clear() {
	if t.size == 0 && t.n == t.minN {
		return
	}
	t.install(t.minN)
}

// clone deep-copies all arrays; the copy shares only the hasher.
func (t *table[K, V]) clone() *table[K, V] {
	c := *t
	c.keys = append([]K(nil), t.keys...)
	c.values = append([]V(nil), t.values...)
	c.links = append([]link(nil), t.links...)
	c.used = t.used.Clone()
	return &c
}

// processEntry is the compute core behind every conditional mutation.
// fn receives the current value and whether it exists and returns the new
// value, the operation to apply, the value to return and the status.
func (t *table[K, V]) processEntry(
	key K,
	fn func(old V, loaded bool) (newV V, op ComputeOp, ret V, status bool),
) (V, bool) {
	pos, found := t.find(key, t.hasher.sum(key))
	var old V
	if found {
		old = t.values[pos]
	}
	newV, op, ret, status := fn(old, found)
	switch op {
	case UpdateOp:
		if found {
			t.values[pos] = newV
		} else {
			t.insertAt(pos, key, newV)
		}
	case DeleteOp:
		if found {
			t.removeSlot(pos, nil, true)
		}
	}
	return ret, status
}
