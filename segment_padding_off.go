//go:build linkmap_opt_nopadding

package linkmap

import "sync"

const enablePadding = false

// segment is one independently locked table of a Segmented map.
type segment[K comparable, V any] struct {
	mu sync.RWMutex
	t  *table[K, V]
}
