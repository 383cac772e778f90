//go:build linkmap_opt_cachelinesize_128

package linkmap

// CacheLineSize is fixed to 128 bytes, as on Apple silicon and some
// POWER parts.
const CacheLineSize = 128
