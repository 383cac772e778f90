package linkmap

// noLink marks the absence of a neighbour in the order chain.
const noLink int32 = -1

// link holds the order chain neighbours of one slot.
type link struct {
	prev, next int32
}

// linkLast appends the slot pos to the tail of the order chain.
func (t *table[K, V]) linkLast(pos int32) {
	if t.last == noLink {
		t.first, t.last = pos, pos
		t.links[pos] = link{prev: noLink, next: noLink}
		return
	}
	t.links[t.last].next = pos
	t.links[pos] = link{prev: t.last, next: noLink}
	t.last = pos
}

// linkFirst prepends the slot pos to the head of the order chain.
func (t *table[K, V]) linkFirst(pos int32) {
	if t.first == noLink {
		t.first, t.last = pos, pos
		t.links[pos] = link{prev: noLink, next: noLink}
		return
	}
	t.links[t.first].prev = pos
	t.links[pos] = link{prev: noLink, next: t.first}
	t.first = pos
}

// unlink splices the slot pos out of the order chain.
func (t *table[K, V]) unlink(pos int32) {
	l := t.links[pos]
	if l.prev == noLink {
		t.first = l.next
	} else {
		t.links[l.prev].next = l.next
	}
	if l.next == noLink {
		t.last = l.prev
	} else {
		t.links[l.next].prev = l.prev
	}
}

// onNodeMoved rewires the chain after the entry at from was relocated to
// to. The slot to must not be part of the chain.
func (t *table[K, V]) onNodeMoved(from, to int32) {
	l := t.links[from]
	t.links[to] = l
	if l.prev == noLink {
		t.first = to
	} else {
		t.links[l.prev].next = to
	}
	if l.next == noLink {
		t.last = to
	} else {
		t.links[l.next].prev = to
	}
}

// moveToFirst makes pos the head of the chain.
func (t *table[K, V]) moveToFirst(pos int32) {
	if t.first == pos {
		return
	}
	t.unlink(pos)
	t.linkFirst(pos)
}

// moveToLast makes pos the tail of the chain.
func (t *table[K, V]) moveToLast(pos int32) {
	if t.last == pos {
		return
	}
	t.unlink(pos)
	t.linkLast(pos)
}
