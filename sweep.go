package quadknn

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Grid samples a region at Cols×Rows evenly spaced coordinates.
type Grid struct {
	Region     BoundingBox
	Cols, Rows int
}

// At returns the coordinate sampled for the cell at (row, col). Cells are
// anchored at their minimum corner, so (0, 0) is Region.Min.
func (g Grid) At(row, col int) Point {
	size := g.Region.Size()
	return Point{
		X: g.Region.Min.X + float64(col)*size.X/float64(g.Cols),
		Y: g.Region.Min.Y + float64(row)*size.Y/float64(g.Rows),
	}
}

func (g Grid) validate() error {
	if g.Cols < 1 || g.Rows < 1 {
		return fmt.Errorf("quadknn: grid must be at least 1x1, got %dx%d", g.Cols, g.Rows)
	}
	if !g.Region.Valid() {
		return fmt.Errorf("quadknn: grid region %v-%v: %w", g.Region.Min, g.Region.Max, ErrInvalidRegion)
	}
	return nil
}

// ClassifyGrid classifies every grid coordinate. Results are row-major.
func (c *Classifier) ClassifyGrid(ctx context.Context, g Grid) ([]Label, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	out := make([]Label, g.Cols*g.Rows)
	err := c.sweep(ctx, g, func(i int, q Point) error {
		l, err := c.Classify(q)
		out[i] = l
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ConfidenceGrid computes the confidence for label at every grid coordinate.
// Results are row-major.
func (c *Classifier) ConfidenceGrid(ctx context.Context, g Grid, label Label) ([]float64, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	if _, err := OddSchedule(c.cfg.K); err != nil {
		return nil, err
	}
	out := make([]float64, g.Cols*g.Rows)
	err := c.sweep(ctx, g, func(i int, q Point) error {
		v, err := c.Confidence(q, label)
		out[i] = v
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// sweep calls fn for every cell of g. Rows are split into contiguous ranges,
// one per worker; each worker writes only the cells of its own rows, so no
// synchronization is needed beyond the final join. ctx is checked per row.
func (c *Classifier) sweep(ctx context.Context, g Grid, fn func(i int, q Point) error) error {
	numWorkers := min(c.cfg.Workers, g.Rows)
	numWorkers = max(numWorkers, 1)
	rowsPerWorker := (g.Rows + numWorkers - 1) / numWorkers

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, g.Rows)
		if startRow >= g.Rows {
			break
		}

		eg.Go(func() error {
			for r := startRow; r < endRow; r++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for col := 0; col < g.Cols; col++ {
					if err := fn(r*g.Cols+col, g.At(r, col)); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	return eg.Wait()
}
