package linkmap

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/bits-and-blooms/bitset"
	"go.uber.org/zap"
)

type mapResizeHint int

const (
	mapGrowHint mapResizeHint = iota
	mapShrinkHint
	mapTrimHint
)

func (h mapResizeHint) String() string {
	switch h {
	case mapGrowHint:
		return "grow"
	case mapShrinkHint:
		return "shrink"
	default:
		return "trim"
	}
}

// nextPowOf2 calculates the smallest power of 2 that is greater than or equal to n.
func nextPowOf2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// arraySize returns the smallest power-of-two capacity able to hold
// expected entries at load factor f, bounded to [2, maxCapacity].
func arraySize(expected int, f float32) int {
	need := math.Ceil(float64(expected) / float64(f))
	if need > maxCapacity {
		return maxCapacity
	}
	return max(2, nextPowOf2(int(need)))
}

// checkCapacity reports ErrInvalidCapacity when expected entries at load
// factor f need more than maxCapacity slots.
func checkCapacity(expected int, f float32) error {
	if math.Ceil(float64(expected)/float64(f)) > maxCapacity {
		return fmt.Errorf("%w: %d entries exceed %d slots at load factor %v",
			ErrInvalidCapacity, expected, maxCapacity, f)
	}
	return nil
}

// maxFill is the number of entries that triggers growth of a table of
// capacity n. It is always below n so a probe run ends on a free slot.
func maxFill(n int, f float32) int {
	return min(int(math.Ceil(float64(n)*float64(f))), n-1)
}

// rehash moves every entry into fresh arrays of capacity newN. It walks
// the order chain rather than the slot array, so the relative order of
// entries is preserved exactly. Keys are known to be unique and are
// re-probed without an equality check.
func (t *table[K, V]) rehash(newN int, hint mapResizeHint) {
	var (
		mask   = newN - 1
		keys   = make([]K, newN)
		values = make([]V, newN)
		links  = make([]link, newN)
		used   = bitset.New(uint(newN))
		first  = noLink
		prev   = noLink
	)
	for i := t.first; i != noLink; i = t.links[i].next {
		k := t.keys[i]
		pos := int(t.hasher.sum(k)) & mask
		for used.Test(uint(pos)) {
			pos = (pos + 1) & mask
		}
		keys[pos] = k
		values[pos] = t.values[i]
		used.Set(uint(pos))
		p := int32(pos)
		if prev == noLink {
			first = p
		} else {
			links[prev].next = p
		}
		links[p] = link{prev: prev, next: noLink}
		prev = p
	}

	t.logger.Debug("linkmap: rehash",
		zap.Stringer("hint", hint),
		zap.Int("from", t.n),
		zap.Int("to", newN),
		zap.Int("size", t.size),
	)
	switch hint {
	case mapGrowHint:
		t.growths++
	case mapShrinkHint:
		t.shrinks++
	}

	t.keys, t.values, t.links, t.used = keys, values, links, used
	t.n, t.mask, t.maxFill = newN, mask, maxFill(newN, t.f)
	t.first, t.last = first, prev
}

// trim rehashes to the smallest capacity holding the current entries,
// never below the minimal capacity. It reports whether the table changed.
func (t *table[K, V]) trim() bool {
	n := max(arraySize(t.size+1, t.f), t.minN)
	if n >= t.n {
		return false
	}
	t.rehash(n, mapTrimHint)
	return true
}

// ensureCapacity grows the table so it holds expected entries without
// further growth.
func (t *table[K, V]) ensureCapacity(expected int) {
	if expected < t.maxFill {
		return
	}
	if n := arraySize(expected+1, t.f); n > t.n {
		t.rehash(n, mapGrowHint)
	}
}
