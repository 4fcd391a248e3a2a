// Command knnmap samples two labeled Gaussian point clouds, indexes them in a
// quadtree and renders the k-nearest-neighbor confidence map as a PNG.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/TrevorS/quadknn"
	"github.com/TrevorS/quadknn/internal/logger"
	"github.com/TrevorS/quadknn/sample"
)

func main() {
	l := logger.Setup()

	opts := defaultOptions()
	if err := loadEnv(&opts, ".env"); err != nil {
		l.Error("config_env_error", "err", err)
		os.Exit(2)
	}
	if err := parseFlags(&opts, os.Args[1:]); err != nil {
		os.Exit(flagExitCode(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		l.Error("knnmap_failed", "err", err)
		os.Exit(1)
	}
}

// flagExitCode maps a flag parsing error to the process exit status. A help
// request is not a failure.
func flagExitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}

func run(ctx context.Context, opts options) error {
	l := logger.L()
	region := quadknn.NewBoundingBox(0, 0, opts.Width, opts.Height)

	points, err := loadPoints(opts, region)
	if err != nil {
		return err
	}
	l.Info("points_ready", "count", len(points), "source", sourceName(opts))

	start := time.Now()
	idx, err := quadknn.Build(points, region)
	if err != nil {
		return err
	}
	l.Info("index_built", "nodes", idx.NumNodes(), "depth", idx.Depth(),
		"labels", idx.Labels(), "elapsed", time.Since(start))

	cfg := quadknn.DefaultConfig()
	cfg.K = opts.K
	cfg.Mode = quadknn.SearchMode(opts.Mode)
	cfg.Workers = opts.Workers
	clf, err := quadknn.NewClassifier(idx, cfg)
	if err != nil {
		return err
	}

	center := quadknn.Point{X: opts.Width / 2, Y: opts.Height / 2}
	if _, stats, err := idx.QueryStats(center, opts.K, cfg.Mode); err == nil {
		l.Debug("probe_query", "mode", stats.Mode, "visited", stats.NodesVisited,
			"pruned", stats.NodesPruned, "points", stats.PointsVisited)
	}

	grid := quadknn.Grid{Region: region, Cols: opts.Cols, Rows: opts.Rows}
	start = time.Now()
	conf, err := clf.ConfidenceGrid(ctx, grid, quadknn.Label(opts.Label))
	if err != nil {
		return err
	}
	l.Info("grid_swept", "cells", len(conf), "workers", clf.Config().Workers,
		"mean", floats.Sum(conf)/float64(len(conf)),
		"min", floats.Min(conf), "max", floats.Max(conf),
		"elapsed", time.Since(start))

	if err := render(opts.Out, grid, conf, idx.Points(), quadknn.Label(opts.Label)); err != nil {
		return err
	}
	l.Info("map_written", "path", opts.Out)
	return nil
}

func loadPoints(opts options, region quadknn.BoundingBox) ([]quadknn.LabeledPoint, error) {
	if opts.Dataset != "" {
		f, err := os.Open(opts.Dataset)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()
		return sample.ReadCSV(f)
	}
	src := rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)
	return sample.Generate(src, region, opts.PerCluster, sample.TwoClusters(region)...)
}

func sourceName(opts options) string {
	if opts.Dataset != "" {
		return opts.Dataset
	}
	return "gaussian"
}

// confidenceGrid adapts a row-major sweep result to plotter.GridXYZ.
type confidenceGrid struct {
	grid quadknn.Grid
	z    []float64
}

func (g confidenceGrid) Dims() (c, r int)   { return g.grid.Cols, g.grid.Rows }
func (g confidenceGrid) Z(c, r int) float64 { return g.z[r*g.grid.Cols+c] }
func (g confidenceGrid) X(c int) float64    { return g.grid.At(0, c).X }
func (g confidenceGrid) Y(r int) float64    { return g.grid.At(r, 0).Y }

// render draws the confidence heatmap with the indexed points on top.
func render(path string, grid quadknn.Grid, conf []float64, points []quadknn.LabeledPoint, label quadknn.Label) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("kNN confidence for label %d", label)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	hm := plotter.NewHeatMap(confidenceGrid{grid: grid, z: conf}, palette.Heat(16, 1))
	hm.Min, hm.Max = 0, 1
	p.Add(hm)

	var in, out plotter.XYs
	for _, pt := range points {
		xy := plotter.XY{X: pt.Pos.X, Y: pt.Pos.Y}
		if pt.Label == label {
			in = append(in, xy)
		} else {
			out = append(out, xy)
		}
	}
	for _, set := range []struct {
		xys plotter.XYs
		col color.Color
	}{
		{in, color.RGBA{R: 200, G: 30, B: 30, A: 220}},
		{out, color.RGBA{R: 20, G: 80, B: 200, A: 220}},
	} {
		if len(set.xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(set.xys)
		if err != nil {
			return fmt.Errorf("scatter: %w", err)
		}
		sc.GlyphStyle.Color = set.col
		sc.GlyphStyle.Radius = vg.Points(1.8)
		p.Add(sc)
	}

	p.X.Min, p.X.Max = grid.Region.Min.X, grid.Region.Max.X
	p.Y.Min, p.Y.Max = grid.Region.Min.Y, grid.Region.Max.Y
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
