package linkmap

import (
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// XXHashString hashes string keys with xxHash64 seeded with seed. Use it
// with WithKeyHasher when keys are long strings:
//
//	m, err := linkmap.New[string, int](linkmap.WithKeyHasher(linkmap.XXHashString))
func XXHashString(key string, seed uint64) uint64 {
	if seed == 0 {
		return xxhash.Sum64String(key)
	}
	var d xxhash.Digest
	d.ResetWithSeed(seed)
	_, _ = d.WriteString(key)
	return d.Sum64()
}

// Murmur3String hashes string keys with the 64-bit MurmurHash3 variant,
// seeded with the low 32 bits of seed.
func Murmur3String(key string, seed uint64) uint64 {
	return murmur3.Sum64WithSeed(unsafe.Slice(unsafe.StringData(key), len(key)), uint32(seed))
}

// IdentityHash returns integer keys unchanged. The table mixes every hash
// before masking, so sequential integers still spread across slots.
func IdentityHash[K ~int | ~int64 | ~uint | ~uint64 | ~int32 | ~uint32](key K, _ uint64) uint64 {
	return uint64(key)
}
