package quadknn

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a location in the plane.
type Point = r2.Vec

// Label identifies the class of a labeled point.
type Label int

// LabeledPoint is a point with its class label. ID is the position of the
// point in the slice passed to Build and breaks distance ties.
type LabeledPoint struct {
	ID    int
	Pos   Point
	Label Label
}

// Distance computes the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	d := r2.Sub(a, b)
	return math.Sqrt(d.X*d.X + d.Y*d.Y)
}

// BoundingBox is an axis-aligned rectangle with closed edges.
type BoundingBox struct {
	Min, Max Point
}

// NewBoundingBox returns the box spanning (x0, y0)-(x1, y1).
func NewBoundingBox(x0, y0, x1, y1 float64) BoundingBox {
	return BoundingBox{Min: Point{X: x0, Y: y0}, Max: Point{X: x1, Y: y1}}
}

// Valid reports whether the box has no NaN bounds and Min <= Max on both axes.
func (b BoundingBox) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y
}

// Contains reports whether p lies in the box, edges included.
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Size returns the width and height of the box.
func (b BoundingBox) Size() Point {
	return r2.Sub(b.Max, b.Min)
}

// Quadrant indexes the children of a split box. Y grows downward, as in
// raster coordinates, so north is the half with the smaller Y values.
type Quadrant int

const (
	NW Quadrant = iota
	NE
	SW
	SE
)

// Quadrants splits the box at its midpoint into NW, NE, SW and SE boxes.
// Adjacent quadrants share their edge.
func (b BoundingBox) Quadrants() [4]BoundingBox {
	mid := Point{X: b.Min.X + (b.Max.X-b.Min.X)/2, Y: b.Min.Y + (b.Max.Y-b.Min.Y)/2}
	return [4]BoundingBox{
		NW: {Min: b.Min, Max: mid},
		NE: {Min: Point{X: mid.X, Y: b.Min.Y}, Max: Point{X: b.Max.X, Y: mid.Y}},
		SW: {Min: Point{X: b.Min.X, Y: mid.Y}, Max: Point{X: mid.X, Y: b.Max.Y}},
		SE: {Min: mid, Max: b.Max},
	}
}

// divisible reports whether splitting the box still shrinks it on some axis.
func (b BoundingBox) divisible() bool {
	mid := Point{X: b.Min.X + (b.Max.X-b.Min.X)/2, Y: b.Min.Y + (b.Max.Y-b.Min.Y)/2}
	splitX := mid.X > b.Min.X && mid.X < b.Max.X
	splitY := mid.Y > b.Min.Y && mid.Y < b.Max.Y
	return splitX || splitY
}

// MinDistance returns a lower bound on the distance from q to any point in
// the box: zero inside it, otherwise the distance to the nearest edge.
func (b BoundingBox) MinDistance(q Point) float64 {
	var dx, dy float64
	if q.X < b.Min.X {
		dx = b.Min.X - q.X
	} else if q.X > b.Max.X {
		dx = q.X - b.Max.X
	}
	if q.Y < b.Min.Y {
		dy = b.Min.Y - q.Y
	} else if q.Y > b.Max.Y {
		dy = q.Y - b.Max.Y
	}
	return math.Sqrt(dx*dx + dy*dy)
}
