package linkmap

// all walks the order chain first to last. yield must not mutate t.
func (t *table[K, V]) all(yield func(K, V) bool) {
	for i := t.first; i != noLink; {
		next := t.links[i].next
		if !yield(t.keys[i], t.values[i]) {
			return
		}
		i = next
	}
}

func (t *table[K, V]) backward(yield func(K, V) bool) {
	for i := t.last; i != noLink; {
		prev := t.links[i].prev
		if !yield(t.keys[i], t.values[i]) {
			return
		}
		i = prev
	}
}

func (t *table[K, V]) entries() []Entry[K, V] {
	out := make([]Entry[K, V], 0, t.size)
	for i := t.first; i != noLink; i = t.links[i].next {
		out = append(out, Entry[K, V]{Key: t.keys[i], Value: t.values[i]})
	}
	return out
}

func (t *table[K, V]) keySlice() []K {
	out := make([]K, 0, t.size)
	for i := t.first; i != noLink; i = t.links[i].next {
		out = append(out, t.keys[i])
	}
	return out
}

func (t *table[K, V]) valueSlice() []V {
	out := make([]V, 0, t.size)
	for i := t.first; i != noLink; i = t.links[i].next {
		out = append(out, t.values[i])
	}
	return out
}

func (t *table[K, V]) toMap() map[K]V {
	out := make(map[K]V, t.size)
	for i := t.first; i != noLink; i = t.links[i].next {
		out[t.keys[i]] = t.values[i]
	}
	return out
}

// Range calls yield for each entry in insertion order until yield
// returns false. yield must not modify the map; use a Cursor to remove
// entries while traversing.
func (m *Map[K, V]) Range(yield func(key K, value V) bool) {
	m.t.all(yield)
}

// All compatible with `for k, v := range m.All()`
func (m *Map[K, V]) All() func(yield func(K, V) bool) {
	return m.t.all
}

// Backward iterates entries from newest to oldest.
func (m *Map[K, V]) Backward() func(yield func(K, V) bool) {
	return m.t.backward
}

// Keys compatible with `for k := range m.Keys()`
func (m *Map[K, V]) Keys() func(yield func(K) bool) {
	return func(yield func(K) bool) {
		m.t.all(func(k K, _ V) bool { return yield(k) })
	}
}

// Values compatible with `for v := range m.Values()`
func (m *Map[K, V]) Values() func(yield func(V) bool) {
	return func(yield func(V) bool) {
		m.t.all(func(_ K, v V) bool { return yield(v) })
	}
}

// KeySlice returns the keys in insertion order.
func (m *Map[K, V]) KeySlice() []K {
	return m.t.keySlice()
}

// ValueSlice returns the values in insertion order.
func (m *Map[K, V]) ValueSlice() []V {
	return m.t.valueSlice()
}

// Entries returns copies of all entries in insertion order.
func (m *Map[K, V]) Entries() []Entry[K, V] {
	return m.t.entries()
}

// ToMap collects all entries into a Go map.
func (m *Map[K, V]) ToMap() map[K]V {
	return m.t.toMap()
}

// Range calls yield for each entry in insertion order until yield
// returns false.
func (m *Immutable[K, V]) Range(yield func(key K, value V) bool) {
	m.t.all(yield)
}

// All compatible with `for k, v := range m.All()`
func (m *Immutable[K, V]) All() func(yield func(K, V) bool) {
	return m.t.all
}

// Backward iterates entries from newest to oldest.
func (m *Immutable[K, V]) Backward() func(yield func(K, V) bool) {
	return m.t.backward
}

// Keys compatible with `for k := range m.Keys()`
func (m *Immutable[K, V]) Keys() func(yield func(K) bool) {
	return func(yield func(K) bool) {
		m.t.all(func(k K, _ V) bool { return yield(k) })
	}
}

// Values compatible with `for v := range m.Values()`
func (m *Immutable[K, V]) Values() func(yield func(V) bool) {
	return func(yield func(V) bool) {
		m.t.all(func(_ K, v V) bool { return yield(v) })
	}
}

// KeySlice returns the keys in insertion order.
func (m *Immutable[K, V]) KeySlice() []K {
	return m.t.keySlice()
}

// ValueSlice returns the values in insertion order.
func (m *Immutable[K, V]) ValueSlice() []V {
	return m.t.valueSlice()
}

// Entries returns the entries in insertion order.
func (m *Immutable[K, V]) Entries() []Entry[K, V] {
	return m.t.entries()
}

// ToMap collects all entries into a Go map.
func (m *Immutable[K, V]) ToMap() map[K]V {
	return m.t.toMap()
}
