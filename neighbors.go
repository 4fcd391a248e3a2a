package quadknn

import "math"

// Neighbor is a candidate result of a nearest-neighbor query.
type Neighbor struct {
	Point    LabeledPoint
	Distance float64
}

// closer orders neighbors by distance, breaking ties by point ID.
func (a Neighbor) closer(b Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Point.ID < b.Point.ID
}

// NeighborSet holds the k closest neighbors seen so far, sorted ascending.
//
// Once the set is full, a candidate displaces the current worst only when it
// is strictly closer; equal distances fall back to point ID, so a scan in ID
// order keeps the first point inserted.
type NeighborSet struct {
	items []Neighbor
	k     int
}

// NewNeighborSet creates an empty set with capacity k. k must be >= 1.
func NewNeighborSet(k int) *NeighborSet {
	if k < 1 {
		panic("quadknn: NeighborSet capacity must be >= 1")
	}
	return &NeighborSet{items: make([]Neighbor, 0, k), k: k}
}

// Insert offers a candidate to the set and reports whether the set changed.
// When the set is full, a candidate at the same distance as the worst entry
// replaces it only if its point ID is lower. Ties are settled by ID, not by
// the order candidates arrive in.
func (s *NeighborSet) Insert(c Neighbor) bool {
	if len(s.items) < s.k {
		s.items = append(s.items, c)
	} else if c.closer(s.items[len(s.items)-1]) {
		s.items[len(s.items)-1] = c
	} else {
		return false
	}

	// Only the tail element can be out of place.
	for i := len(s.items) - 1; i > 0 && s.items[i].closer(s.items[i-1]); i-- {
		s.items[i], s.items[i-1] = s.items[i-1], s.items[i]
	}
	return true
}

// Worst returns the largest distance held, or +Inf while the set is not full.
// Subtrees whose minimum distance exceeds it cannot improve the result.
func (s *NeighborSet) Worst() float64 {
	if len(s.items) < s.k {
		return math.Inf(1)
	}
	return s.items[len(s.items)-1].Distance
}

// Full reports whether the set holds k neighbors.
func (s *NeighborSet) Full() bool { return len(s.items) == s.k }

// Len returns the number of neighbors held.
func (s *NeighborSet) Len() int { return len(s.items) }

// Cap returns the capacity k.
func (s *NeighborSet) Cap() int { return s.k }

// Snapshot returns a copy of the held neighbors, closest first.
func (s *NeighborSet) Snapshot() []Neighbor {
	out := make([]Neighbor, len(s.items))
	copy(out, s.items)
	return out
}
