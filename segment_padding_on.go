//go:build !linkmap_opt_nopadding

package linkmap

import (
	"sync"
	"unsafe"
)

// enablePadding is true, each segment of a Segmented map is padded to a
// cache line so neighbouring locks do not share one. Build with
// linkmap_opt_nopadding to trade this for a smaller segment array.
const enablePadding = true

// segment is one independently locked table of a Segmented map.
type segment[K comparable, V any] struct {
	//lint:ignore U1000 prevents false sharing
	pad [(CacheLineSize - unsafe.Sizeof(struct {
		mu sync.RWMutex
		t  unsafe.Pointer
	}{})%CacheLineSize) % CacheLineSize]byte
	mu sync.RWMutex
	t  *table[K, V]
}
