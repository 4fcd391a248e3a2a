package quadknn

import "fmt"

// tally counts label votes in arrival order. Arrival order is distance order
// when fed from a sorted neighbor sequence, which makes ties deterministic.
type tally struct {
	counts map[Label]int
	order  []Label // labels by first appearance
}

func newTally() *tally {
	return &tally{counts: make(map[Label]int)}
}

func (t *tally) add(l Label) {
	if _, ok := t.counts[l]; !ok {
		t.order = append(t.order, l)
	}
	t.counts[l]++
}

// leader returns the most frequent label; on a count tie the label seen
// first wins.
func (t *tally) leader() Label {
	best := t.order[0]
	for _, l := range t.order[1:] {
		if t.counts[l] > t.counts[best] {
			best = l
		}
	}
	return best
}

// MajorityLabel returns the most common label among neighbors, which must be
// sorted closest first. A count tie goes to the label of the closest point
// among the tied labels. It returns false when neighbors is empty.
func MajorityLabel(neighbors []Neighbor) (Label, bool) {
	if len(neighbors) == 0 {
		return 0, false
	}
	t := newTally()
	for _, nb := range neighbors {
		t.add(nb.Point.Label)
	}
	return t.leader(), true
}

// OddSchedule returns the prefix lengths 1, 3, ..., kMax voted on by
// ConfidenceProportion.
func OddSchedule(kMax int) ([]int, error) {
	if kMax < 1 || kMax%2 == 0 {
		return nil, fmt.Errorf("quadknn: k_max must be a positive odd number, got %d: %w", kMax, ErrInvalidSchedule)
	}
	ks := make([]int, 0, (kMax+1)/2)
	for k := 1; k <= kMax; k += 2 {
		ks = append(ks, k)
	}
	return ks, nil
}

// ConfidenceProportion re-runs the majority vote at every odd k up to kMax
// over the sorted neighbors and returns the fraction of votes won by label.
// Only the first kMax neighbors are used.
func ConfidenceProportion(neighbors []Neighbor, kMax int, label Label) (float64, error) {
	props, err := confidenceProportions(neighbors, kMax, []Label{label})
	if err != nil {
		return 0, err
	}
	return props[0], nil
}

// confidenceProportions computes ConfidenceProportion for several labels with
// one pass over the neighbors.
func confidenceProportions(neighbors []Neighbor, kMax int, labels []Label) ([]float64, error) {
	if kMax < 1 || kMax%2 == 0 {
		return nil, fmt.Errorf("quadknn: k_max must be a positive odd number, got %d: %w", kMax, ErrInvalidSchedule)
	}
	if kMax > len(neighbors) {
		return nil, fmt.Errorf("quadknn: k_max %d exceeds %d neighbors: %w", kMax, len(neighbors), ErrInvalidSchedule)
	}

	wins := make(map[Label]int)
	t := newTally()
	for i, nb := range neighbors[:kMax] {
		t.add(nb.Point.Label)
		if i%2 == 0 { // prefix length i+1 is odd
			wins[t.leader()]++
		}
	}

	rounds := float64((kMax + 1) / 2)
	props := make([]float64, len(labels))
	for i, l := range labels {
		props[i] = float64(wins[l]) / rounds
	}
	return props, nil
}
