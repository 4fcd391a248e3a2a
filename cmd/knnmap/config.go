package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/TrevorS/quadknn"
)

// options holds everything knnmap needs for one run. Defaults come from the
// KNNMAP_* environment (optionally loaded from .env); flags override them.
type options struct {
	Width, Height float64
	Cols, Rows    int
	PerCluster    int
	K             int
	Mode          string
	Workers       int
	Seed          uint64
	Label         int
	Out           string
	Dataset       string
}

func defaultOptions() options {
	return options{
		Width:      216,
		Height:     216,
		Cols:       216,
		Rows:       216,
		PerCluster: 100,
		K:          31,
		Mode:       string(quadknn.ModeAuto),
		Seed:       1,
		Label:      0,
		Out:        "knnmap.png",
	}
}

// loadEnv applies KNNMAP_* variables on top of o. Files that do not exist
// are skipped.
func loadEnv(o *options, files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	floatVars := map[string]*float64{
		"KNNMAP_WIDTH":  &o.Width,
		"KNNMAP_HEIGHT": &o.Height,
	}
	for key, dst := range floatVars {
		if v, ok := os.LookupEnv(key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = f
		}
	}

	intVars := map[string]*int{
		"KNNMAP_COLS":        &o.Cols,
		"KNNMAP_ROWS":        &o.Rows,
		"KNNMAP_PER_CLUSTER": &o.PerCluster,
		"KNNMAP_K":           &o.K,
		"KNNMAP_WORKERS":     &o.Workers,
		"KNNMAP_LABEL":       &o.Label,
	}
	for key, dst := range intVars {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := os.LookupEnv("KNNMAP_SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("KNNMAP_SEED: %w", err)
		}
		o.Seed = n
	}
	if v, ok := os.LookupEnv("KNNMAP_MODE"); ok {
		o.Mode = v
	}
	if v, ok := os.LookupEnv("KNNMAP_OUT"); ok {
		o.Out = v
	}
	if v, ok := os.LookupEnv("KNNMAP_DATASET"); ok {
		o.Dataset = v
	}
	return nil
}

// parseFlags overrides o with any flags given in args.
func parseFlags(o *options, args []string) error {
	fs := flag.NewFlagSet("knnmap", flag.ContinueOnError)
	fs.Float64Var(&o.Width, "width", o.Width, "region width")
	fs.Float64Var(&o.Height, "height", o.Height, "region height")
	fs.IntVar(&o.Cols, "cols", o.Cols, "grid columns sampled across the region")
	fs.IntVar(&o.Rows, "rows", o.Rows, "grid rows sampled across the region")
	fs.IntVar(&o.PerCluster, "points", o.PerCluster, "points drawn per cluster")
	fs.IntVar(&o.K, "k", o.K, "k_max of the odd voting schedule (must be odd)")
	fs.StringVar(&o.Mode, "mode", o.Mode, "search mode: auto, exhaustive or indexed")
	fs.IntVar(&o.Workers, "workers", o.Workers, "sweep goroutines (0 = NumCPU)")
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "random seed for the point clouds")
	fs.IntVar(&o.Label, "label", o.Label, "label whose confidence is mapped")
	fs.StringVar(&o.Out, "out", o.Out, "output PNG path")
	fs.StringVar(&o.Dataset, "dataset", o.Dataset, "optional CSV of x,y,label rows used instead of sampling")
	return fs.Parse(args)
}
