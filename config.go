package linkmap

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

const (
	// defaultLoadFactor is the occupancy ratio that triggers growth.
	defaultLoadFactor = 0.75
	// defaultExpectedSize is the number of entries a table holds before
	// its first growth when no capacity is configured.
	defaultExpectedSize = 16
	// maxCapacity bounds the slot array length so slot indexes fit the
	// int32 order links.
	maxCapacity = 1 << 30
	// maxSegments bounds the segment count of a Segmented map.
	maxSegments = 1 << 16
)

// MapConfig defines configurable options shared by Map, Segmented and
// Immutable. Use the With* functions to populate it.
type MapConfig struct {
	capacity       int
	loadFactor     float32
	concurrency    int
	concurrencySet bool
	keyHash        any // func(K, uint64) uint64
	keyEqual       any // func(K, K) bool
	valEqual       any // func(V, V) bool
	logger         *zap.Logger
	seed           uint64
	seedSet        bool
}

// WithCapacity configures the number of entries the map holds without
// growing. The resulting capacity is also the minimal capacity, meaning
// the table never shrinks below it. A negative value, or one needing more
// than 1<<30 slots per table, fails construction with ErrInvalidCapacity.
func WithCapacity(expected int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.capacity = expected
	}
}

// WithLoadFactor configures the occupancy ratio that triggers growth.
// It must lie in the open interval (0, 1).
func WithLoadFactor(f float32) func(*MapConfig) {
	return func(c *MapConfig) {
		c.loadFactor = f
	}
}

// WithConcurrencyLevel configures the expected number of concurrently
// writing goroutines of a Segmented map. The segment count is the next
// power of two. It must lie in the open interval (0, 65536).
// Map and Immutable ignore it.
func WithConcurrencyLevel(n int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.concurrency = n
		c.concurrencySet = true
	}
}

// WithKeyHasher configures a custom key hash function. The seed argument is
// the per-map seed (see WithSeed). The function type must match the map's
// key type, otherwise construction fails with ErrHasherType.
func WithKeyHasher[K comparable](fn func(key K, seed uint64) uint64) func(*MapConfig) {
	return func(c *MapConfig) {
		c.keyHash = fn
	}
}

// WithKeyEqual configures a custom key equality. It must be consistent with
// the key hasher: equal keys must hash equally.
func WithKeyEqual[K comparable](fn func(a, b K) bool) func(*MapConfig) {
	return func(c *MapConfig) {
		c.keyEqual = fn
	}
}

// WithValueEqual configures the value comparison used by ContainsValue,
// RemoveIf and ReplaceIf. Without it, values are compared as interfaces,
// which panics for non-comparable values.
func WithValueEqual[V any](fn func(a, b V) bool) func(*MapConfig) {
	return func(c *MapConfig) {
		c.valEqual = fn
	}
}

// WithLogger configures the logger receiving resize records at debug level.
func WithLogger(logger *zap.Logger) func(*MapConfig) {
	return func(c *MapConfig) {
		c.logger = logger
	}
}

// WithSeed fixes the seed handed to custom key hashers.
func WithSeed(seed uint64) func(*MapConfig) {
	return func(c *MapConfig) {
		c.seed = seed
		c.seedSet = true
	}
}

func parseConfig(options []func(*MapConfig)) (*MapConfig, error) {
	cfg := &MapConfig{
		capacity:   defaultExpectedSize,
		loadFactor: defaultLoadFactor,
	}
	for _, o := range options {
		o(cfg)
	}
	if cfg.capacity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, cfg.capacity)
	}
	if !(cfg.loadFactor > 0 && cfg.loadFactor < 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLoadFactor, cfg.loadFactor)
	}
	if !cfg.concurrencySet {
		cfg.concurrency = min(runtime.GOMAXPROCS(0)*4, maxSegments-1)
	} else if cfg.concurrency <= 0 || cfg.concurrency >= maxSegments {
		return nil, fmt.Errorf("%w: %d", ErrInvalidConcurrency, cfg.concurrency)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return cfg, nil
}
