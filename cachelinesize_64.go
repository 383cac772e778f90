//go:build linkmap_opt_cachelinesize_64

package linkmap

// CacheLineSize is fixed to 64 bytes.
const CacheLineSize = 64
