package linkmap

// cursor is a bidirectional position in a table's order chain.
//
// After Next, prev equals the element just returned; after Previous,
// next equals it. curr is the element a mutator applies to, or noLink.
type cursor[K comparable, V any] struct {
	t    *table[K, V]
	prev int32
	next int32
	curr int32
}

func newCursor[K comparable, V any](t *table[K, V]) cursor[K, V] {
	return cursor[K, V]{t: t, prev: noLink, next: t.first, curr: noLink}
}

// newCursorAfter positions a cursor between pos and its successor.
func newCursorAfter[K comparable, V any](t *table[K, V], pos int32) cursor[K, V] {
	return cursor[K, V]{t: t, prev: pos, next: t.links[pos].next, curr: noLink}
}

// HasNext reports whether Next would return an element.
func (c *cursor[K, V]) HasNext() bool {
	return c.next != noLink
}

// HasPrevious reports whether Previous would return an element.
func (c *cursor[K, V]) HasPrevious() bool {
	return c.prev != noLink
}

// Next advances the cursor and returns the entry it passed over.
// It returns ErrExhausted past the last entry.
func (c *cursor[K, V]) Next() (key K, value V, err error) {
	if c.next == noLink {
		return key, value, ErrExhausted
	}
	c.curr = c.next
	c.next = c.t.links[c.curr].next
	c.prev = c.curr
	return c.t.keys[c.curr], c.t.values[c.curr], nil
}

// Previous moves the cursor back and returns the entry it passed over.
// It returns ErrExhausted before the first entry.
func (c *cursor[K, V]) Previous() (key K, value V, err error) {
	if c.prev == noLink {
		return key, value, ErrExhausted
	}
	c.curr = c.prev
	c.prev = c.t.links[c.curr].prev
	c.next = c.curr
	return c.t.keys[c.curr], c.t.values[c.curr], nil
}

// Key returns the key of the current entry, or the zero key when there is
// none.
func (c *cursor[K, V]) Key() (key K) {
	if c.curr == noLink {
		return
	}
	return c.t.keys[c.curr]
}

// Value returns the live value of the current entry, or the zero value
// when there is none.
func (c *cursor[K, V]) Value() (value V) {
	if c.curr == noLink {
		return
	}
	return c.t.values[c.curr]
}

// Entry returns an independent copy of the current entry.
func (c *cursor[K, V]) Entry() (e Entry[K, V], ok bool) {
	if c.curr == noLink {
		return
	}
	return Entry[K, V]{Key: c.t.keys[c.curr], Value: c.t.values[c.curr]}, true
}

// Cursor traverses a Map in insertion order in both directions and can
// modify the entry it last returned.
//
// A Cursor is invalidated by any mutation of the map made other than
// through the cursor itself.
type Cursor[K comparable, V any] struct {
	cursor[K, V]
}

// SetValue replaces the value of the current entry in place.
func (c *Cursor[K, V]) SetValue(value V) (previous V, err error) {
	if c.curr == noLink {
		return previous, ErrIllegalState
	}
	previous = c.t.values[c.curr]
	c.t.values[c.curr] = value
	return previous, nil
}

// Remove deletes the entry last returned by Next or Previous. Subsequent
// traversal neither skips nor repeats entries. The table does not shrink
// while a cursor removes; the next structural operation on the map may.
func (c *Cursor[K, V]) Remove() error {
	pos := c.curr
	if pos == noLink {
		return ErrIllegalState
	}
	if pos == c.prev {
		c.prev = c.t.links[pos].prev
	} else {
		c.next = c.t.links[pos].next
	}
	c.curr = noLink
	c.t.removeSlot(int(pos), func(from, to int32) {
		if c.next == from {
			c.next = to
		}
		if c.prev == from {
			c.prev = to
		}
	}, false)
	return nil
}

// ReadOnlyCursor traverses an Immutable map in both directions.
type ReadOnlyCursor[K comparable, V any] struct {
	cursor[K, V]
}
