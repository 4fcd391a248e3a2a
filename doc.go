// Package quadknn implements k-nearest-neighbor classification of points in
// the plane over a static quadtree index.
//
// The index is built once from a fixed set of labeled points and is read-only
// afterwards, so any number of goroutines may query it. Queries either scan
// every point or walk the quadtree, skipping subtrees whose bounding box is
// farther away than the current k-th best candidate; both return the same
// neighbors in the same order.
//
// Basic usage:
//
//	idx, err := quadknn.Build(points, quadknn.NewBoundingBox(0, 0, 100, 100))
//	neighbors, err := idx.Query(quadknn.Point{X: 40, Y: 60}, 5, quadknn.ModeIndexed)
//	label, _ := quadknn.MajorityLabel(neighbors)
//
// Confidence values smooth the decision boundary by re-running the majority
// vote at every odd k from 1 up to k_max and reporting the fraction won by a
// label:
//
//	cfg := quadknn.DefaultConfig()
//	cfg.K = 31
//	clf, err := quadknn.NewClassifier(idx, cfg)
//	conf, err := clf.Confidence(quadknn.Point{X: 40, Y: 60}, 0)
//
// Whole grids can be swept in parallel with [Classifier.ClassifyGrid] and
// [Classifier.ConfidenceGrid].
//
// # Ties
//
// Neighbors at equal distance are ordered by point ID, the position of the
// point in the slice passed to [Build]. Majority-vote count ties go to the
// label of the closest tied point.
package quadknn
