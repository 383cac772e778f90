package linkmap

import (
	"fmt"
	"math/bits"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"
)

// parallelCloneSegments is the segment count from which Clone copies
// segments on a worker pool.
const parallelCloneSegments = 64

// Segmented is a concurrent hash map split into independently locked
// segments, each an insertion-ordered open-addressing table.
//
// The top bits of a key's hash select its segment and the low bits its
// slot, so both stay independent. Point operations lock exactly one
// segment: writers exclusively, readers shared. Aggregates such as Size,
// Range or Clear visit the segments one at a time and never hold two
// locks, hence they are weakly consistent: they observe each segment at a
// different moment.
//
// Iteration follows insertion order within a segment; there is no order
// across segments.
type Segmented[K comparable, V any] struct {
	segments []segment[K, V]
	shift    uint
	hasher   *keyHasher[K]
	valEqual func(a, b V) bool
	logger   *zap.Logger
}

// NewSegmented creates an empty Segmented map.
//
// Parameters:
//   - WithConcurrencyLevel: expected writers; segments = next power of two
//   - WithCapacity: expected entries over all segments
//   - WithLoadFactor, WithKeyHasher, WithKeyEqual, WithValueEqual,
//     WithSeed, WithLogger as for New
func NewSegmented[K comparable, V any](options ...func(*MapConfig)) (*Segmented[K, V], error) {
	cfg, err := parseConfig(options)
	if err != nil {
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

	count := min(nextPowOf2(cfg.concurrency), maxSegments)
	perSegment := cfg.capacity / count
	if cfg.capacity%count != 0 {
		perSegment++
	}
	if err := checkCapacity(perSegment, cfg.loadFactor); err != nil {
		return nil, err
	}
	n := arraySize(perSegment, cfg.loadFactor)

	m := &Segmented[K, V]{
		segments: make([]segment[K, V], count),
		shift:    uint(64 - bits.TrailingZeros(uint(count))),
		hasher:   hasher,
		valEqual: valEqual,
		logger:   cfg.logger,
	}
	for i := range m.segments {
		m.segments[i].t = newTable[K, V](n, n, cfg.loadFactor, hasher, valEqual,
			cfg.logger.With(zap.Int("segment", i)))
	}
	cfg.logger.Debug("linkmap: segmented map created",
		zap.Int("segments", count),
		zap.Int("segment_capacity", n),
		zap.Float32("load_factor", cfg.loadFactor),
		zap.Bool("padded", enablePadding),
	)
	return m, nil
}

//go:nosplit
func (m *Segmented[K, V]) segmentFor(key K) *segment[K, V] {
	// A shift of 64 yields 0 for a single segment.
	return &m.segments[m.hasher.sum(key)>>m.shift]
}

// SegmentCount returns the number of segments.
func (m *Segmented[K, V]) SegmentCount() int {
	return len(m.segments)
}

// Get returns the value stored under key and whether it exists.
func (m *Segmented[K, V]) Get(key K) (value V, ok bool) {
	s := m.segmentFor(key)
	s.mu.RLock()
	value, ok = s.t.get(key)
	s.mu.RUnlock()
	return
}

// GetOrDefault returns the value stored under key, or def if absent.
func (m *Segmented[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

// ContainsKey reports whether key exists.
func (m *Segmented[K, V]) ContainsKey(key K) bool {
	s := m.segmentFor(key)
	s.mu.RLock()
	ok := s.t.containsKey(key)
	s.mu.RUnlock()
	return ok
}

// ContainsValue reports whether some entry holds value. It visits the
// segments one after another.
func (m *Segmented[K, V]) ContainsValue(value V) bool {
	for i := range m.segments {
		s := &m.segments[i]
		s.mu.RLock()
		ok := s.t.containsValue(value)
		s.mu.RUnlock()
		if ok {
			return true
		}
	}
	return false
}

// Put stores value under key and returns the previous value, if any.
func (m *Segmented[K, V]) Put(key K, value V) (previous V, loaded bool) {
	s := m.segmentFor(key)
	s.mu.Lock()
	previous, loaded = s.t.put(key, value)
	s.mu.Unlock()
	return
}

// Remove deletes key and returns its value.
func (m *Segmented[K, V]) Remove(key K) (previous V, loaded bool) {
	s := m.segmentFor(key)
	s.mu.Lock()
	previous, loaded = s.t.remove(key)
	s.mu.Unlock()
	return
}

// Process applies a compute-style update to the entry for key while
// holding the key's segment lock. fn must not access the map.
func (m *Segmented[K, V]) Process(
	key K,
	fn func(old V, loaded bool) (newV V, op ComputeOp, ret V, status bool),
) (V, bool) {
	s := m.segmentFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.processEntry(key, fn)
}

// PutIfAbsent stores value only if key is absent. It returns the value
// now associated with key and whether it was already present.
func (m *Segmented[K, V]) PutIfAbsent(key K, value V) (actual V, loaded bool) {
	return m.Process(key, putIfAbsentFn(value))
}

// RemoveIf deletes key only if it currently maps to value.
func (m *Segmented[K, V]) RemoveIf(key K, value V) bool {
	_, ok := m.Process(key, removeIfFn(value, m.valEqual))
	return ok
}

// Replace stores value only if key exists and returns the replaced value.
func (m *Segmented[K, V]) Replace(key K, value V) (previous V, replaced bool) {
	return m.Process(key, replaceFn[V](value))
}

// ReplaceIf stores value only if key currently maps to old.
func (m *Segmented[K, V]) ReplaceIf(key K, old, value V) bool {
	_, ok := m.Process(key, replaceIfFn(old, value, m.valEqual))
	return ok
}

// Compute is the Map.Compute counterpart, run under the segment lock.
func (m *Segmented[K, V]) Compute(
	key K,
	valueFn func(oldValue V, loaded bool) (newValue V, op ComputeOp),
) (actual V, ok bool) {
	return m.Process(key, computeFn(valueFn))
}

// ComputeIfAbsent stores valueFn(key) when key is absent. valueFn runs at
// most once per call, under the segment lock.
func (m *Segmented[K, V]) ComputeIfAbsent(key K, valueFn func(key K) V) (actual V, loaded bool) {
	return m.Process(key, computeIfAbsentFn(key, valueFn))
}

// ComputeIfPresent recomputes the value of an existing key.
func (m *Segmented[K, V]) ComputeIfPresent(
	key K,
	valueFn func(key K, old V) (newValue V, op ComputeOp),
) (actual V, ok bool) {
	return m.Process(key, computeIfPresentFn(key, valueFn))
}

// Merge stores value when key is absent, and otherwise combines the old
// and given values with mergeFn.
func (m *Segmented[K, V]) Merge(
	key K,
	value V,
	mergeFn func(old, value V) (newValue V, op ComputeOp),
) (actual V, ok bool) {
	return m.Process(key, mergeFnOf(value, mergeFn))
}

// AddTo adds delta to the value of key, treating an absent key as zero,
// and returns the new value. The read-modify-write is atomic with respect
// to every other operation on the key's segment.
func AddTo[K comparable, V constraints.Integer | constraints.Float](m *Segmented[K, V], key K, delta V) V {
	v, _ := m.Process(key, func(old V, _ bool) (V, ComputeOp, V, bool) {
		sum := old + delta
		return sum, UpdateOp, sum, true
	})
	return v
}

// Size returns the number of entries, summed segment by segment.
func (m *Segmented[K, V]) Size() int {
	size := 0
	for i := range m.segments {
		s := &m.segments[i]
		s.mu.RLock()
		size += s.t.size
		s.mu.RUnlock()
	}
	return size
}

// IsEmpty reports whether every segment is empty.
func (m *Segmented[K, V]) IsEmpty() bool {
	for i := range m.segments {
		s := &m.segments[i]
		s.mu.RLock()
		size := s.t.size
		s.mu.RUnlock()
		if size > 0 {
			return false
		}
	}
	return true
}

// Capacity returns the total number of slots over all segments.
func (m *Segmented[K, V]) Capacity() int {
	n := 0
	for i := range m.segments {
		s := &m.segments[i]
		s.mu.RLock()
		n += s.t.n
		s.mu.RUnlock()
	}
	return n
}

// Clear empties the segments one after another. A concurrent writer may
// insert into a segment that was already cleared.
func (m *Segmented[K, V]) Clear() {
	for i := range m.segments {
		s := &m.segments[i]
		s.mu.Lock()
		s.t.clear()
		s.mu.Unlock()
	}
}

// Trim shrinks every segment to the smallest capacity holding its
// entries and reports whether any segment changed.
func (m *Segmented[K, V]) Trim() bool {
	changed := false
	for i := range m.segments {
		s := &m.segments[i]
		s.mu.Lock()
		if s.t.trim() {
			changed = true
		}
		s.mu.Unlock()
	}
	return changed
}

func (s *segment[K, V]) snapshot() []Entry[K, V] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.entries()
}

func (s *segment[K, V]) cloneTable() *table[K, V] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.clone()
}

// Clone returns an independent copy. Each segment is copied under its own
// read lock; many segments are copied in parallel on a worker pool.
func (m *Segmented[K, V]) Clone() *Segmented[K, V] {
	c := &Segmented[K, V]{
		segments: make([]segment[K, V], len(m.segments)),
		shift:    m.shift,
		hasher:   m.hasher,
		valEqual: m.valEqual,
		logger:   m.logger,
	}
	if len(m.segments) < parallelCloneSegments {
		for i := range m.segments {
			c.segments[i].t = m.segments[i].cloneTable()
		}
		return c
	}

	pool, err := ants.NewPool(runtime.GOMAXPROCS(0))
	if err != nil {
		m.logger.Warn("linkmap: clone pool unavailable, copying sequentially", zap.Error(err))
		for i := range m.segments {
			c.segments[i].t = m.segments[i].cloneTable()
		}
		return c
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range m.segments {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			c.segments[i].t = m.segments[i].cloneTable()
		}
		if err := pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()
	return c
}

// Range calls yield for each entry until yield returns false. Each
// segment is copied under its read lock and yielded after unlocking, so
// yield may modify the map.
func (m *Segmented[K, V]) Range(yield func(key K, value V) bool) {
	for i := range m.segments {
		for _, e := range m.segments[i].snapshot() {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// All compatible with `for k, v := range m.All()`
func (m *Segmented[K, V]) All() func(yield func(K, V) bool) {
	return m.Range
}

// Keys compatible with `for k := range m.Keys()`
func (m *Segmented[K, V]) Keys() func(yield func(K) bool) {
	return func(yield func(K) bool) {
		m.Range(func(k K, _ V) bool { return yield(k) })
	}
}

// Values compatible with `for v := range m.Values()`
func (m *Segmented[K, V]) Values() func(yield func(V) bool) {
	return func(yield func(V) bool) {
		m.Range(func(_ K, v V) bool { return yield(v) })
	}
}

// Entries returns copies of all entries, segment by segment.
func (m *Segmented[K, V]) Entries() []Entry[K, V] {
	var out []Entry[K, V]
	for i := range m.segments {
		out = append(out, m.segments[i].snapshot()...)
	}
	return out
}

// ToMap collects all entries into a Go map.
func (m *Segmented[K, V]) ToMap() map[K]V {
	out := make(map[K]V)
	m.Range(func(k K, v V) bool {
		out[k] = v
		return true
	})
	return out
}

// Cursor returns a weakly consistent cursor positioned before the first
// entry of the first segment.
func (m *Segmented[K, V]) Cursor() *SegmentedCursor[K, V] {
	return &SegmentedCursor[K, V]{m: m, seg: -1}
}

// Stats returns diagnostics summed over all segments. It is O(n).
func (m *Segmented[K, V]) Stats() *MapStats {
	s := &MapStats{Segments: len(m.segments)}
	for i := range m.segments {
		seg := &m.segments[i]
		seg.mu.RLock()
		seg.t.stats(s)
		seg.mu.RUnlock()
	}
	return s.finish()
}

// String implements fmt.Stringer, listing up to 1024 entries.
func (m *Segmented[K, V]) String() string {
	const limit = 1024
	var sb strings.Builder
	sb.WriteString("Segmented[")
	n := 0
	m.Range(func(k K, v V) bool {
		if n > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v:%v", k, v)
		n++
		return n < limit
	})
	sb.WriteByte(']')
	return sb.String()
}

// SegmentedCursor traverses a Segmented map segment by segment in both
// directions. It works on a copy of one segment at a time, so it never
// blocks writers between calls and reflects each segment as it was when
// the cursor entered it.
type SegmentedCursor[K comparable, V any] struct {
	m    *Segmented[K, V]
	seg  int
	snap []Entry[K, V]
	idx  int // next snapshot element returned by Next
	curr Entry[K, V]
	ok   bool
}

func (c *SegmentedCursor[K, V]) nonEmpty(i int) bool {
	s := &c.m.segments[i]
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.size > 0
}

// HasNext reports whether Next would return an element.
func (c *SegmentedCursor[K, V]) HasNext() bool {
	if c.idx < len(c.snap) {
		return true
	}
	for i := c.seg + 1; i < len(c.m.segments); i++ {
		if c.nonEmpty(i) {
			return true
		}
	}
	return false
}

// HasPrevious reports whether Previous would return an element.
func (c *SegmentedCursor[K, V]) HasPrevious() bool {
	if c.idx > 0 {
		return true
	}
	for i := c.seg - 1; i >= 0; i-- {
		if c.nonEmpty(i) {
			return true
		}
	}
	return false
}

// Next returns the following entry, or ErrExhausted.
func (c *SegmentedCursor[K, V]) Next() (key K, value V, err error) {
	for c.idx == len(c.snap) {
		if c.seg+1 >= len(c.m.segments) {
			return key, value, ErrExhausted
		}
		c.seg++
		c.snap = c.m.segments[c.seg].snapshot()
		c.idx = 0
	}
	c.curr, c.ok = c.snap[c.idx], true
	c.idx++
	return c.curr.Key, c.curr.Value, nil
}

// Previous returns the preceding entry, or ErrExhausted.
func (c *SegmentedCursor[K, V]) Previous() (key K, value V, err error) {
	for c.idx == 0 {
		if c.seg <= 0 {
			return key, value, ErrExhausted
		}
		c.seg--
		c.snap = c.m.segments[c.seg].snapshot()
		c.idx = len(c.snap)
	}
	c.idx--
	c.curr, c.ok = c.snap[c.idx], true
	return c.curr.Key, c.curr.Value, nil
}

// Entry returns the entry last returned by Next or Previous, as copied.
func (c *SegmentedCursor[K, V]) Entry() (Entry[K, V], bool) {
	return c.curr, c.ok
}

// Remove deletes the key last returned by Next or Previous from the map.
func (c *SegmentedCursor[K, V]) Remove() error {
	if !c.ok {
		return ErrIllegalState
	}
	c.ok = false
	c.m.Remove(c.curr.Key)
	return nil
}
