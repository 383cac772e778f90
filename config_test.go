package linkmap

import (
	"errors"
	"math"
	"testing"
)

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		opts []func(*MapConfig)
		want error
	}{
		{"negative capacity", []func(*MapConfig){WithCapacity(-1)}, ErrInvalidCapacity},
		{"zero load factor", []func(*MapConfig){WithLoadFactor(0)}, ErrInvalidLoadFactor},
		{"full load factor", []func(*MapConfig){WithLoadFactor(1)}, ErrInvalidLoadFactor},
		{"negative load factor", []func(*MapConfig){WithLoadFactor(-0.5)}, ErrInvalidLoadFactor},
		{"zero concurrency", []func(*MapConfig){WithConcurrencyLevel(0)}, ErrInvalidConcurrency},
		{"too much concurrency", []func(*MapConfig){WithConcurrencyLevel(65536)}, ErrInvalidConcurrency},
		{"key hasher type", []func(*MapConfig){WithKeyHasher(XXHashString)}, ErrHasherType},
		{"key equal type", []func(*MapConfig){WithKeyEqual(func(a, b string) bool { return a == b })}, ErrHasherType},
		{"value equal type", []func(*MapConfig){WithValueEqual(func(a, b int) bool { return a == b })}, ErrHasherType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if m, err := New[int, string](tt.opts...); !errors.Is(err, tt.want) || m != nil {
				t.Errorf("New() = %v, %v, want nil, %v", m, err, tt.want)
			}
			if m, err := NewSegmented[int, string](tt.opts...); !errors.Is(err, tt.want) || m != nil {
				t.Errorf("NewSegmented() = %v, %v, want nil, %v", m, err, tt.want)
			}
			if m, err := NewImmutable[int, string](nil, nil, tt.opts...); !errors.Is(err, tt.want) || m != nil {
				t.Errorf("NewImmutable() = %v, %v, want nil, %v", m, err, tt.want)
			}
		})
	}
}

func TestNew_CapacityTooLarge(t *testing.T) {
	for _, capacity := range []int{math.MaxInt, math.MaxInt - 1, 1 << 40, maxCapacity} {
		if m, err := New[int, int](WithCapacity(capacity)); !errors.Is(err, ErrInvalidCapacity) || m != nil {
			t.Errorf("New(WithCapacity(%d)) = %v, %v, want nil, ErrInvalidCapacity", capacity, m, err)
		}
	}
	// Capacity is split across segments, so the bound applies per segment.
	for _, capacity := range []int{math.MaxInt, math.MaxInt - 1, 1 << 40} {
		m, err := NewSegmented[int, int](WithCapacity(capacity), WithConcurrencyLevel(4))
		if !errors.Is(err, ErrInvalidCapacity) || m != nil {
			t.Errorf("NewSegmented(WithCapacity(%d)) = %v, %v, want nil, ErrInvalidCapacity", capacity, m, err)
		}
	}
}

func TestCheckCapacity(t *testing.T) {
	tests := []struct {
		expected int
		f        float32
		ok       bool
	}{
		{0, 0.75, true},
		{maxCapacity / 2, 0.5, true},
		{maxCapacity/2 + 1, 0.5, false},
		{maxCapacity / 4 * 3, 0.75, true},
		{maxCapacity/4*3 + 1, 0.75, false},
		{math.MaxInt, 0.99, false},
	}
	for _, tt := range tests {
		err := checkCapacity(tt.expected, tt.f)
		if tt.ok != (err == nil) {
			t.Errorf("checkCapacity(%d, %v) = %v, want ok %v", tt.expected, tt.f, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalidCapacity) {
			t.Errorf("checkCapacity(%d, %v) error = %v, want ErrInvalidCapacity", tt.expected, tt.f, err)
		}
	}
}

func TestArraySize_Saturates(t *testing.T) {
	for _, expected := range []int{math.MaxInt, 1 << 40, maxCapacity} {
		if got := arraySize(expected, 0.75); got != maxCapacity {
			t.Errorf("arraySize(%d, 0.75) = %d, want %d", expected, got, maxCapacity)
		}
	}
	if got := arraySize(0, 0.75); got != 2 {
		t.Errorf("arraySize(0, 0.75) = %d, want 2", got)
	}
}

func TestNew_CapacityFromConfig(t *testing.T) {
	tests := []struct {
		capacity int
		f        float32
		want     int
	}{
		{0, 0.75, 2},
		{1, 0.75, 2},
		{2, 0.75, 4},
		{12, 0.75, 16},
		{13, 0.75, 32},
		{16, 0.5, 32},
		{100, 0.9, 128},
	}
	for _, tt := range tests {
		m, err := New[int, int](WithCapacity(tt.capacity), WithLoadFactor(tt.f))
		if err != nil {
			t.Fatal(err)
		}
		if got := m.Capacity(); got != tt.want {
			t.Errorf("New(WithCapacity(%d), WithLoadFactor(%v)).Capacity() = %d, want %d",
				tt.capacity, tt.f, got, tt.want)
		}
	}
	m, err := New[int, int]()
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Capacity(); got != 32 {
		t.Errorf("default Capacity() = %d, want 32", got)
	}
}

func TestMaxFill(t *testing.T) {
	for n := 2; n <= maxCapacity; n <<= 1 {
		for _, f := range []float32{0.01, 0.5, 0.75, 0.99} {
			mf := maxFill(n, f)
			if mf >= n || mf < 1 {
				t.Fatalf("maxFill(%d, %v) = %d", n, f, mf)
			}
		}
	}
}

func TestNextPowOf2(t *testing.T) {
	for _, tt := range [][2]int{{0, 1}, {1, 1}, {2, 2}, {3, 4}, {1000, 1024}, {1 << 20, 1 << 20}} {
		if got := nextPowOf2(tt[0]); got != tt[1] {
			t.Errorf("nextPowOf2(%d) = %d, want %d", tt[0], got, tt[1])
		}
	}
}
