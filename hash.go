package linkmap

import (
	"hash/maphash"
	"math/rand/v2"
)

// hashPrime is the 64-bit Golden Ratio mixing constant.
// 0x9E3779B97F4A7C15 = floor(2^64 / φ), where φ is the golden ratio.
const hashPrime uint64 = 0x9E3779B97F4A7C15

// mix spreads a raw key hash before it is masked to the table size.
// Multiplication by the golden ratio pushes entropy into the high bits,
// the two folds bring it back down to the low bits used for slot indexes.
// The high bits stay usable for segment selection.
//
//go:nosplit
func mix(h uint64) uint64 {
	h *= hashPrime
	return h ^ (h >> 32) ^ (h >> 16)
}

// keyHasher carries the hashing and equality capabilities of one map.
// All tables of a segmented map share a single keyHasher.
type keyHasher[K comparable] struct {
	seed  uint64 // passed to custom hash functions
	mseed maphash.Seed
	hash  func(key K, seed uint64) uint64 // nil uses maphash.Comparable
	equal func(a, b K) bool               // nil uses ==
}

func newKeyHasher[K comparable](cfg *MapConfig) (*keyHasher[K], error) {
	h := &keyHasher[K]{mseed: maphash.MakeSeed()}
	if cfg.seedSet {
		h.seed = cfg.seed
	} else {
		h.seed = rand.Uint64()
	}
	if cfg.keyHash != nil {
		fn, ok := cfg.keyHash.(func(K, uint64) uint64)
		if !ok {
			return nil, hasherTypeError("key hasher", cfg.keyHash)
		}
		h.hash = fn
	}
	if cfg.keyEqual != nil {
		fn, ok := cfg.keyEqual.(func(K, K) bool)
		if !ok {
			return nil, hasherTypeError("key equality", cfg.keyEqual)
		}
		h.equal = fn
	}
	return h, nil
}

// sum returns the mixed hash of key.
//
//go:nosplit
func (h *keyHasher[K]) sum(key K) uint64 {
	if h.hash != nil {
		return mix(h.hash(key, h.seed))
	}
	return mix(maphash.Comparable(h.mseed, key))
}

//go:nosplit
func (h *keyHasher[K]) eq(a, b K) bool {
	if h.equal != nil {
		return h.equal(a, b)
	}
	return a == b
}

// valueEqual builds the value comparison used by ContainsValue, RemoveIf
// and ReplaceIf. Without a configured function it falls back to interface
// comparison, which panics on non-comparable dynamic values.
func valueEqual[V any](cfg *MapConfig) (func(a, b V) bool, error) {
	if cfg.valEqual != nil {
		fn, ok := cfg.valEqual.(func(V, V) bool)
		if !ok {
			return nil, hasherTypeError("value equality", cfg.valEqual)
		}
		return fn, nil
	}
	return func(a, b V) bool {
		return any(a) == any(b)
	}, nil
}
