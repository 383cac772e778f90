package linkmap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity is returned when the expected capacity is negative
	// or needs more slots than a table can address.
	ErrInvalidCapacity = errors.New("linkmap: invalid capacity")
	// ErrInvalidLoadFactor is returned when the load factor is outside (0, 1).
	ErrInvalidLoadFactor = errors.New("linkmap: invalid load factor")
	// ErrInvalidConcurrency is returned when the concurrency level is outside
	// (0, 65536).
	ErrInvalidConcurrency = errors.New("linkmap: invalid concurrency level")
	// ErrLengthMismatch is returned when key and value sources differ in length.
	ErrLengthMismatch = errors.New("linkmap: keys and values differ in length")
	// ErrHasherType is returned when a configured hash or equality function
	// does not match the map's key or value type.
	ErrHasherType = errors.New("linkmap: hash or equality function type mismatch")

	// ErrExhausted is returned by cursors moved past either end.
	ErrExhausted = errors.New("linkmap: no more elements")
	// ErrIllegalState is returned by cursor mutators without a current element.
	ErrIllegalState = errors.New("linkmap: no current element")
	// ErrNoSuchKey is returned when positioning a cursor at an absent key.
	ErrNoSuchKey = errors.New("linkmap: no such key")
)

func hasherTypeError(what string, fn any) error {
	return fmt.Errorf("%w: %s has type %T", ErrHasherType, what, fn)
}
