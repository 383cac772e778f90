package linkmap

// Reader is the read path shared by Map, Segmented and Immutable.
type Reader[K comparable, V any] interface {
	Get(key K) (value V, ok bool)
	GetOrDefault(key K, def V) V
	ContainsKey(key K) bool
	ContainsValue(value V) bool
	Size() int
	IsEmpty() bool
	Range(yield func(key K, value V) bool)
	All() func(yield func(K, V) bool)
	Keys() func(yield func(K) bool)
	Values() func(yield func(V) bool)
	Entries() []Entry[K, V]
	ToMap() map[K]V
	Capacity() int
	Stats() *MapStats
	String() string
}

// Writer is the mutation path shared by Map and Segmented.
type Writer[K comparable, V any] interface {
	Put(key K, value V) (previous V, loaded bool)
	PutIfAbsent(key K, value V) (actual V, loaded bool)
	Remove(key K) (previous V, loaded bool)
	RemoveIf(key K, value V) bool
	Replace(key K, value V) (previous V, replaced bool)
	ReplaceIf(key K, old, value V) bool
	Process(key K, fn func(old V, loaded bool) (newV V, op ComputeOp, ret V, status bool)) (V, bool)
	Compute(key K, valueFn func(oldValue V, loaded bool) (newValue V, op ComputeOp)) (actual V, ok bool)
	ComputeIfAbsent(key K, valueFn func(key K) V) (actual V, loaded bool)
	ComputeIfPresent(key K, valueFn func(key K, old V) (newValue V, op ComputeOp)) (actual V, ok bool)
	Merge(key K, value V, mergeFn func(old, value V) (newValue V, op ComputeOp)) (actual V, ok bool)
	Clear()
	Trim() bool
}

// Ordered is implemented by the single-table maps, whose iteration order
// is global.
type Ordered[K comparable, V any] interface {
	Reader[K, V]
	First() (key K, value V, ok bool)
	Last() (key K, value V, ok bool)
	Backward() func(yield func(K, V) bool)
	KeySlice() []K
	ValueSlice() []V
}

var (
	_ Ordered[string, int] = (*Map[string, int])(nil)
	_ Writer[string, int]  = (*Map[string, int])(nil)
	_ Ordered[string, int] = (*Immutable[string, int])(nil)
	_ Reader[string, int]  = (*Segmented[string, int])(nil)
	_ Writer[string, int]  = (*Segmented[string, int])(nil)
)
