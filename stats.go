package linkmap

import (
	"fmt"
	"strings"
)

// MapStats is Map, Segmented or Immutable statistics.
//
// Warning: map statistics are intented to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type MapStats struct {
	// Segments is the number of independently locked tables. It is 1
	// for Map and Immutable.
	Segments int
	// Capacity is the total number of slots over all tables.
	Capacity int
	// Size is the number of entries stored in the map. For Segmented
	// under concurrent modification it is a sum over segments taken at
	// different moments.
	Size int
	// MaxFill is the total number of entries the tables hold before
	// the next growth.
	MaxFill int
	// LoadFactor is Size divided by Capacity.
	LoadFactor float64
	// EmptySlots is the number of unoccupied slots.
	EmptySlots int
	// MaxProbe is the longest distance between an entry's ideal slot
	// and the slot it occupies.
	MaxProbe int
	// MeanProbe is the average such distance.
	MeanProbe float64
	// TotalGrowths is the number of times a table grew.
	TotalGrowths uint32
	// TotalShrinks is the number of times a table shrank.
	TotalShrinks uint32

	probeSum int
}

// stats accumulates the layout of t into s.
func (t *table[K, V]) stats(s *MapStats) {
	s.Capacity += t.n
	s.Size += t.size
	s.MaxFill += t.maxFill
	s.EmptySlots += t.n - t.size
	s.TotalGrowths += t.growths
	s.TotalShrinks += t.shrinks
	for i := t.first; i != noLink; i = t.links[i].next {
		ideal := int(t.hasher.sum(t.keys[i])) & t.mask
		d := (int(i) - ideal) & t.mask
		s.probeSum += d
		if d > s.MaxProbe {
			s.MaxProbe = d
		}
	}
}

// finish derives the ratios once every table was added.
func (s *MapStats) finish() *MapStats {
	if s.Capacity > 0 {
		s.LoadFactor = float64(s.Size) / float64(s.Capacity)
	}
	if s.Size > 0 {
		s.MeanProbe = float64(s.probeSum) / float64(s.Size)
	}
	return s
}

// ToString returns string representation of map stats.
func (s *MapStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("MapStats{\n")
	sb.WriteString(fmt.Sprintf("Segments:     %d\n", s.Segments))
	sb.WriteString(fmt.Sprintf("Capacity:     %d\n", s.Capacity))
	sb.WriteString(fmt.Sprintf("Size:         %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("MaxFill:      %d\n", s.MaxFill))
	sb.WriteString(fmt.Sprintf("LoadFactor:   %.4f\n", s.LoadFactor))
	sb.WriteString(fmt.Sprintf("EmptySlots:   %d\n", s.EmptySlots))
	sb.WriteString(fmt.Sprintf("MaxProbe:     %d\n", s.MaxProbe))
	sb.WriteString(fmt.Sprintf("MeanProbe:    %.4f\n", s.MeanProbe))
	sb.WriteString(fmt.Sprintf("TotalGrowths: %d\n", s.TotalGrowths))
	sb.WriteString(fmt.Sprintf("TotalShrinks: %d\n", s.TotalShrinks))
	sb.WriteString("}\n")
	return sb.String()
}
