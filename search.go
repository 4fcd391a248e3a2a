package quadknn

import (
	"fmt"
	"math"
)

// SearchStats counts the work done by one query.
type SearchStats struct {
	Mode          SearchMode
	NodesVisited  int
	NodesPruned   int
	PointsVisited int
}

// Query returns the k indexed points closest to q, closest first. Equal
// distances are ordered by point ID. ModeExhaustive and ModeIndexed return
// identical results; ModeAuto picks one based on the index size.
func (t *Index) Query(q Point, k int, mode SearchMode) ([]Neighbor, error) {
	res, _, err := t.QueryStats(q, k, mode)
	return res, err
}

// QueryStats is Query that also reports how much of the index was touched.
func (t *Index) QueryStats(q Point, k int, mode SearchMode) ([]Neighbor, SearchStats, error) {
	return t.query(q, k, mode, DefaultExhaustiveThreshold)
}

func (t *Index) query(q Point, k int, mode SearchMode, threshold int) ([]Neighbor, SearchStats, error) {
	if err := t.checkK(k); err != nil {
		return nil, SearchStats{}, err
	}
	if err := checkQuery(q); err != nil {
		return nil, SearchStats{}, err
	}
	mode, err := resolveMode(mode, len(t.points), threshold)
	if err != nil {
		return nil, SearchStats{}, err
	}

	set := NewNeighborSet(k)
	stats := SearchStats{Mode: mode}
	switch mode {
	case ModeExhaustive:
		t.scan(q, set, &stats)
	default:
		t.knnSearch(0, q, set, &stats)
	}
	return set.Snapshot(), stats, nil
}

// checkK validates k against the index size.
func (t *Index) checkK(k int) error {
	n := len(t.points)
	if n == 0 {
		return fmt.Errorf("quadknn: query against index with no points: %w", ErrEmptyIndex)
	}
	if k <= 0 || k > n {
		return fmt.Errorf("quadknn: k must be in [1, %d], got %d: %w", n, k, ErrInvalidK)
	}
	return nil
}

// checkQuery rejects NaN coordinates. Every distance to a NaN point is NaN,
// which leaves no order to search by. Infinite coordinates are allowed.
func checkQuery(q Point) error {
	if math.IsNaN(q.X) || math.IsNaN(q.Y) {
		return fmt.Errorf("quadknn: query point %v: %w", q, ErrInvalidQuery)
	}
	return nil
}

// scan offers every point to set in ID order.
func (t *Index) scan(q Point, set *NeighborSet, stats *SearchStats) {
	for _, p := range t.points {
		set.Insert(Neighbor{Point: p, Distance: Distance(q, p.Pos)})
	}
	stats.PointsVisited += len(t.points)
}

// knnSearch walks the subtree at nodeID depth-first, nearest child first.
//
// A node is skipped only when its box is strictly farther than the current
// k-th best; at equal distance a lower point ID could still displace it.
func (t *Index) knnSearch(nodeID int, q Point, set *NeighborSet, stats *SearchStats) {
	node := t.nodes[nodeID]
	if node.Count() == 0 {
		return
	}
	if set.Full() && node.Box.MinDistance(q) > set.Worst() {
		stats.NodesPruned++
		return
	}
	stats.NodesVisited++

	if node.IsLeaf {
		for _, id := range t.idxArray[node.IdxStart:node.IdxEnd] {
			p := t.points[id]
			set.Insert(Neighbor{Point: p, Distance: Distance(q, p.Pos)})
		}
		stats.PointsVisited += node.Count()
		return
	}

	type childDist struct {
		id   int
		dist float64
	}
	var order [4]childDist
	for i := range order {
		c := node.FirstChild + i
		order[i] = childDist{id: c, dist: t.nodes[c].Box.MinDistance(q)}
	}
	// Insertion sort keeps quadrant order among equal distances.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && order[j].dist < order[j-1].dist; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	for _, c := range order {
		t.knnSearch(c.id, q, set, stats)
	}
}
