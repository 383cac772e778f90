package linkmap

// The builders below turn the conditional mutators of Map and Segmented
// into processEntry functions, so both types share one set of semantics.
// Each returns (newV, op, ret, status) as processEntry expects.

func putIfAbsentFn[V any](value V) func(V, bool) (V, ComputeOp, V, bool) {
	return func(old V, loaded bool) (V, ComputeOp, V, bool) {
		if loaded {
			return old, CancelOp, old, true
		}
		return value, UpdateOp, value, false
	}
}

func removeIfFn[V any](value V, eq func(a, b V) bool) func(V, bool) (V, ComputeOp, V, bool) {
	return func(old V, loaded bool) (V, ComputeOp, V, bool) {
		if loaded && eq(old, value) {
			return old, DeleteOp, old, true
		}
		return old, CancelOp, old, false
	}
}

func replaceFn[V any](value V) func(V, bool) (V, ComputeOp, V, bool) {
	return func(old V, loaded bool) (V, ComputeOp, V, bool) {
		if loaded {
			return value, UpdateOp, old, true
		}
		return old, CancelOp, old, false
	}
}

func replaceIfFn[V any](expected, value V, eq func(a, b V) bool) func(V, bool) (V, ComputeOp, V, bool) {
	return func(old V, loaded bool) (V, ComputeOp, V, bool) {
		if loaded && eq(old, expected) {
			return value, UpdateOp, value, true
		}
		return old, CancelOp, old, false
	}
}

func computeFn[V any](
	valueFn func(oldValue V, loaded bool) (V, ComputeOp),
) func(V, bool) (V, ComputeOp, V, bool) {
	return func(old V, loaded bool) (V, ComputeOp, V, bool) {
		newV, op := valueFn(old, loaded)
		switch op {
		case UpdateOp:
			return newV, UpdateOp, newV, true
		case DeleteOp:
			return old, DeleteOp, old, false
		default:
			return old, CancelOp, old, loaded
		}
	}
}

func computeIfAbsentFn[K comparable, V any](key K, valueFn func(K) V) func(V, bool) (V, ComputeOp, V, bool) {
	return func(old V, loaded bool) (V, ComputeOp, V, bool) {
		if loaded {
			return old, CancelOp, old, true
		}
		v := valueFn(key)
		return v, UpdateOp, v, false
	}
}

func computeIfPresentFn[K comparable, V any](
	key K,
	valueFn func(K, V) (V, ComputeOp),
) func(V, bool) (V, ComputeOp, V, bool) {
	return func(old V, loaded bool) (V, ComputeOp, V, bool) {
		if !loaded {
			return old, CancelOp, old, false
		}
		newV, op := valueFn(key, old)
		switch op {
		case UpdateOp:
			return newV, UpdateOp, newV, true
		case DeleteOp:
			return old, DeleteOp, old, false
		default:
			return old, CancelOp, old, true
		}
	}
}

func mergeFnOf[V any](value V, mergeFn func(old, value V) (V, ComputeOp)) func(V, bool) (V, ComputeOp, V, bool) {
	return func(old V, loaded bool) (V, ComputeOp, V, bool) {
		if !loaded {
			return value, UpdateOp, value, true
		}
		newV, op := mergeFn(old, value)
		switch op {
		case UpdateOp:
			return newV, UpdateOp, newV, true
		case DeleteOp:
			return old, DeleteOp, old, false
		default:
			return old, CancelOp, old, true
		}
	}
}
