package linkmap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCursor_Bidirectional(t *testing.T) {
	m := newMap[int, string](t)
	for i, s := range []string{"a", "b", "c"} {
		m.Put(i, s)
	}
	c := m.Cursor()
	if c.HasPrevious() {
		t.Fatal("fresh cursor has a previous element")
	}
	var got []int
	for c.HasNext() {
		k, _, err := c.Next()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, k)
	}
	if _, _, err := c.Next(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("Next() past the end error = %v, want ErrExhausted", err)
	}
	for c.HasPrevious() {
		k, _, err := c.Previous()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, k)
	}
	if _, _, err := c.Previous(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("Previous() before the start error = %v, want ErrExhausted", err)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 2, 1, 0}, got); diff != "" {
		t.Fatalf("traversal mismatch (-want +got):\n%s", diff)
	}
}

func TestCursor_IllegalState(t *testing.T) {
	m := newMap[int, int](t)
	m.Put(1, 1)
	c := m.Cursor()
	if err := c.Remove(); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("Remove() before Next() error = %v, want ErrIllegalState", err)
	}
	if _, err := c.SetValue(2); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("SetValue() before Next() error = %v, want ErrIllegalState", err)
	}
	if _, ok := c.Entry(); ok {
		t.Fatal("Entry() before Next()")
	}
	if _, _, err := c.Next(); err != nil {
		t.Fatal(err)
	}
	if err := c.Remove(); err != nil {
		t.Fatal(err)
	}
	if err := c.Remove(); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("second Remove() error = %v, want ErrIllegalState", err)
	}
	if !m.IsEmpty() {
		t.Fatal("map not empty after cursor removal")
	}
}

func TestCursor_SetValue(t *testing.T) {
	m := newMap[string, int](t)
	m.Put("a", 1)
	m.Put("b", 2)
	c := m.Cursor()
	for c.HasNext() {
		_, v, _ := c.Next()
		if prev, err := c.SetValue(v * 10); err != nil || prev != v {
			t.Fatalf("SetValue() = %d, %v", prev, err)
		}
		if c.Value() != v*10 {
			t.Fatalf("Value() = %d, want %d", c.Value(), v*10)
		}
	}
	if diff := cmp.Diff([]int{10, 20}, m.ValueSlice()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

// TestCursor_RemoveDuringIteration removes entries whose backward shift
// relocates the entry the cursor visits next.
func TestCursor_RemoveDuringIteration(t *testing.T) {
	for _, tt := range []struct {
		name string
		opts []func(*MapConfig)
	}{
		{"default", nil},
		{"single cluster", []func(*MapConfig){WithCapacity(100), WithKeyHasher(constHash)}},
		{"three clusters", []func(*MapConfig){WithKeyHasher(clusterHash)}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			m := newMap[int, int](t, tt.opts...)
			var want []int
			for i := 0; i < 60; i++ {
				m.Put(i, i)
				if i%2 == 1 {
					want = append(want, i)
				}
			}
			c := m.Cursor()
			var visited []int
			for c.HasNext() {
				k, _, err := c.Next()
				if err != nil {
					t.Fatal(err)
				}
				visited = append(visited, k)
				if k%2 == 0 {
					if err := c.Remove(); err != nil {
						t.Fatal(err)
					}
				}
			}
			if len(visited) != 60 {
				t.Fatalf("visited %d entries, want 60: %v", len(visited), visited)
			}
			if diff := cmp.Diff(want, m.KeySlice()); diff != "" {
				t.Fatalf("remaining keys mismatch (-want +got):\n%s", diff)
			}
			checkTable(t, m.t)

			// Walk back over the survivors.
			var back []int
			for c.HasPrevious() {
				k, _, _ := c.Previous()
				back = append(back, k)
			}
			if len(back) != len(want) || back[0] != want[len(want)-1] {
				t.Fatalf("backward walk = %v", back)
			}
		})
	}
}

func TestCursor_RemoveAfterPrevious(t *testing.T) {
	m := newMap[int, int](t, WithKeyHasher(constHash))
	for i := 0; i < 10; i++ {
		m.Put(i, i)
	}
	c, err := m.CursorAt(9)
	if err != nil {
		t.Fatal(err)
	}
	if c.HasNext() {
		t.Fatal("cursor after the last key has a next element")
	}
	var visited []int
	for c.HasPrevious() {
		k, _, _ := c.Previous()
		visited = append(visited, k)
		if k%3 == 0 {
			if err := c.Remove(); err != nil {
				t.Fatal(err)
			}
		}
	}
	if diff := cmp.Diff([]int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, visited); diff != "" {
		t.Fatalf("visit mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 4, 5, 7, 8}, m.KeySlice()); diff != "" {
		t.Fatalf("remaining keys mismatch (-want +got):\n%s", diff)
	}
	checkTable(t, m.t)
}

func TestCursor_CursorAt(t *testing.T) {
	m := newMap[string, int](t)
	for i, k := range []string{"a", "b", "c", "d"} {
		m.Put(k, i)
	}
	c, err := m.CursorAt("b")
	if err != nil {
		t.Fatal(err)
	}
	if k, _, _ := c.Next(); k != "c" {
		t.Fatalf("Next() = %q, want c", k)
	}
	if k, _, _ := c.Previous(); k != "c" {
		t.Fatalf("Previous() = %q, want c", k)
	}
	if k, _, _ := c.Previous(); k != "b" {
		t.Fatalf("Previous() = %q, want b", k)
	}
	e, ok := c.Entry()
	if !ok || e != (Entry[string, int]{"b", 1}) {
		t.Fatalf("Entry() = %v, %v", e, ok)
	}
	if c.Key() != "b" {
		t.Fatalf("Key() = %q", c.Key())
	}
}
