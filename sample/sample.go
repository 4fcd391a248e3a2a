// Package sample generates labeled point clouds for the quadknn index by
// drawing from bivariate Gaussian clusters.
package sample

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/TrevorS/quadknn"
)

// Cluster is a bivariate normal distribution whose draws carry Label.
type Cluster struct {
	Mean  r2.Vec
	Cov   mat.Symmetric
	Label quadknn.Label
}

// Axial returns a cluster with independent axes and the given per-axis
// standard deviations.
func Axial(mean, stddev r2.Vec, label quadknn.Label) Cluster {
	cov := mat.NewSymDense(2, []float64{
		stddev.X * stddev.X, 0,
		0, stddev.Y * stddev.Y,
	})
	return Cluster{Mean: mean, Cov: cov, Label: label}
}

// maxAttemptsFactor caps rejection sampling at this many draws per point
// requested, so a cluster centered far outside the region cannot spin forever.
const maxAttemptsFactor = 1000

// Generate draws perCluster points inside region from each cluster, in
// cluster order. Draws falling outside region are discarded and redrawn,
// so every returned point can be indexed over region.
func Generate(src rand.Source, region quadknn.BoundingBox, perCluster int, clusters ...Cluster) ([]quadknn.LabeledPoint, error) {
	if perCluster < 0 {
		return nil, fmt.Errorf("sample: perCluster must be >= 0, got %d", perCluster)
	}
	if !region.Valid() {
		return nil, fmt.Errorf("sample: region %v-%v: %w", region.Min, region.Max, quadknn.ErrInvalidRegion)
	}

	points := make([]quadknn.LabeledPoint, 0, perCluster*len(clusters))
	draw := make([]float64, 2)
	for ci, c := range clusters {
		dist, ok := distmv.NewNormal([]float64{c.Mean.X, c.Mean.Y}, c.Cov, src)
		if !ok {
			return nil, fmt.Errorf("sample: cluster %d covariance is not positive definite", ci)
		}

		kept := 0
		for attempts := 0; kept < perCluster; attempts++ {
			if attempts >= perCluster*maxAttemptsFactor {
				return nil, fmt.Errorf("sample: cluster %d: %w", ci, ErrRegionMissed)
			}
			dist.Rand(draw)
			p := r2.Vec{X: draw[0], Y: draw[1]}
			if !region.Contains(p) {
				continue
			}
			points = append(points, quadknn.LabeledPoint{ID: len(points), Pos: p, Label: c.Label})
			kept++
		}
	}
	return points, nil
}

// ErrRegionMissed means a cluster almost never produced a point inside the region.
var ErrRegionMissed = errors.New("cluster mass lies outside the region")

// TwoClusters returns the default two-class scene for region: label 0 centered
// at 40% and label 1 at 60% of the region, each with a broad spread of about a
// third of the region's width.
func TwoClusters(region quadknn.BoundingBox) []Cluster {
	size := region.Size()
	at := func(f float64) r2.Vec {
		return r2.Add(region.Min, r2.Scale(f, size))
	}
	spread := r2.Vec{X: size.X/3 + 1, Y: size.X/3 + 10}
	return []Cluster{
		Axial(at(0.4), spread, 0),
		Axial(at(0.6), spread, 1),
	}
}
