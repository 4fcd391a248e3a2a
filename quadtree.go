package quadknn

import (
	"fmt"
	"sort"
)

// MaxDepth bounds quadtree recursion. Nodes at this depth become leaves
// regardless of how many points they hold, so coincident points cannot
// split forever.
const MaxDepth = 64

// QuadNode is a single node in the quadtree arena.
//
// Leaves own the points idxArray[IdxStart:IdxEnd]. Internal nodes have four
// children stored contiguously at FirstChild..FirstChild+3 in NW, NE, SW, SE
// order; their point range spans every point below them.
type QuadNode struct {
	Box              BoundingBox
	IdxStart, IdxEnd int
	FirstChild       int
	Depth            int
	IsLeaf           bool
}

// Count returns the number of points in the node's subtree.
func (n QuadNode) Count() int { return n.IdxEnd - n.IdxStart }

// Index is a static quadtree over a set of labeled points. It is immutable
// once Build returns and safe for concurrent queries.
type Index struct {
	points   []LabeledPoint
	region   BoundingBox
	idxArray []int // permutation: tree-order position → point ID
	nodes    []QuadNode
	labels   []Label
	depth    int
}

// Build indexes points within region. The index keeps its own copy of the
// points and assigns each one its position in points as ID.
//
// Every point must lie inside region; a point outside it is reported as
// ErrInvalidRegion rather than dropped.
func Build(points []LabeledPoint, region BoundingBox) (*Index, error) {
	if !region.Valid() {
		return nil, fmt.Errorf("quadknn: region %v-%v has min > max or NaN bounds: %w",
			region.Min, region.Max, ErrInvalidRegion)
	}

	pts := make([]LabeledPoint, len(points))
	for i, p := range points {
		if !region.Contains(p.Pos) {
			return nil, fmt.Errorf("quadknn: point %d at (%g, %g) lies outside region %v-%v: %w",
				i, p.Pos.X, p.Pos.Y, region.Min, region.Max, ErrInvalidRegion)
		}
		p.ID = i
		pts[i] = p
	}

	idxArray := make([]int, len(pts))
	for i := range idxArray {
		idxArray[i] = i
	}

	t := &Index{
		points:   pts,
		region:   region,
		idxArray: idxArray,
		nodes:    make([]QuadNode, 1, quadMaxNodes(len(pts))),
		labels:   distinctLabels(pts),
	}
	scratch := make([]int, len(pts))
	t.buildNode(0, region, 0, len(pts), 0, scratch)
	return t, nil
}

// quadMaxNodes estimates the arena size: each split adds four nodes and a
// tree with n single-point leaves needs roughly n splits when well spread.
func quadMaxNodes(n int) int {
	return 4*n + 1
}

// buildNode fills nodes[nodeID] for the points idxArray[start:end].
func (t *Index) buildNode(nodeID int, box BoundingBox, start, end, depth int, scratch []int) {
	if depth > t.depth {
		t.depth = depth
	}
	node := QuadNode{Box: box, IdxStart: start, IdxEnd: end, Depth: depth}

	count := end - start
	if count <= 1 || depth >= MaxDepth || !box.divisible() {
		node.IsLeaf = true
		t.nodes[nodeID] = node
		return
	}

	quads := box.Quadrants()
	bounds := t.partition(quads, start, end, scratch)

	node.FirstChild = len(t.nodes)
	t.nodes[nodeID] = node
	t.nodes = append(t.nodes, make([]QuadNode, 4)...)

	for q := range quads {
		t.buildNode(node.FirstChild+q, quads[q], bounds[q], bounds[q+1], depth+1, scratch)
	}
}

// partition stably reorders idxArray[start:end] so each point lands in the
// first quadrant whose closed box contains it. Quadrant q receives the range
// [bounds[q], bounds[q+1]).
func (t *Index) partition(quads [4]BoundingBox, start, end int, scratch []int) [5]int {
	sub := t.idxArray[start:end]
	assign := scratch[start:end]
	var counts [4]int
	for i, id := range sub {
		q := 0
		for q < 3 && !quads[q].Contains(t.points[id].Pos) {
			q++
		}
		assign[i] = q
		counts[q]++
	}

	var bounds [5]int
	bounds[0] = start
	for q := 0; q < 4; q++ {
		bounds[q+1] = bounds[q] + counts[q]
	}

	next := [4]int{bounds[0], bounds[1], bounds[2], bounds[3]}
	ordered := make([]int, len(sub))
	for i, id := range sub {
		q := assign[i]
		ordered[next[q]-start] = id
		next[q]++
	}
	copy(sub, ordered)
	return bounds
}

func distinctLabels(pts []LabeledPoint) []Label {
	seen := make(map[Label]bool)
	var labels []Label
	for _, p := range pts {
		if !seen[p.Label] {
			seen[p.Label] = true
			labels = append(labels, p.Label)
		}
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// Len returns the number of indexed points.
func (t *Index) Len() int { return len(t.points) }

// Points returns the indexed points in ID order. The slice must not be modified.
func (t *Index) Points() []LabeledPoint { return t.points }

// Region returns the box the index was built over.
func (t *Index) Region() BoundingBox { return t.region }

// Labels returns the distinct labels present at build time, ascending.
func (t *Index) Labels() []Label { return t.labels }

// Nodes returns the node arena; node 0 is the root. The slice must not be modified.
func (t *Index) Nodes() []QuadNode { return t.nodes }

// NumNodes returns the total number of nodes (internal + leaf) in the tree.
func (t *Index) NumNodes() int { return len(t.nodes) }

// Depth returns the depth of the deepest node; a lone root has depth 0.
func (t *Index) Depth() int { return t.depth }

// LeafPoints returns the points owned by the given node's subtree.
func (t *Index) LeafPoints(node int) []LabeledPoint {
	nd := t.nodes[node]
	out := make([]LabeledPoint, 0, nd.Count())
	for _, id := range t.idxArray[nd.IdxStart:nd.IdxEnd] {
		out = append(out, t.points[id])
	}
	return out
}
