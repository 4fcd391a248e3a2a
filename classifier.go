package quadknn

import (
	"fmt"
	"runtime"
)

// Config controls a Classifier.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// K is the number of neighbors consulted per query. For confidence
	// queries it is k_max of the odd schedule 1, 3, ..., K and must be odd.
	// Must be >= 1 and no larger than the index. Default: 31.
	K int

	// Mode selects exhaustive or quadtree search. "auto" scans linearly for
	// indexes of at most ExhaustiveThreshold points. Default: "auto".
	Mode SearchMode

	// ExhaustiveThreshold is the index size at or below which ModeAuto uses
	// a linear scan. Must be >= 0. Default: 32.
	ExhaustiveThreshold int

	// Workers controls the number of goroutines used by grid sweeps.
	// 0 means use runtime.NumCPU(). Default: 0 (auto).
	Workers int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		K:                   31,
		Mode:                ModeAuto,
		ExhaustiveThreshold: DefaultExhaustiveThreshold,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Mode == "" {
		cfg.Mode = ModeAuto
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// validateConfig checks cfg against the index it will query.
func validateConfig(cfg *Config, idx *Index) error {
	if err := idx.checkK(cfg.K); err != nil {
		return err
	}
	if _, err := resolveMode(cfg.Mode, idx.Len(), cfg.ExhaustiveThreshold); err != nil {
		return err
	}
	if cfg.ExhaustiveThreshold < 0 {
		return fmt.Errorf("quadknn: ExhaustiveThreshold must be >= 0, got %d", cfg.ExhaustiveThreshold)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("quadknn: Workers must be >= 0, got %d", cfg.Workers)
	}
	return nil
}

// Classifier labels query points by majority vote over an Index.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	idx *Index
	cfg Config
}

// NewClassifier binds idx and cfg. It fails with ErrEmptyIndex or
// ErrInvalidK when cfg.K cannot be served by idx.
func NewClassifier(idx *Index, cfg Config) (*Classifier, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg, idx); err != nil {
		return nil, err
	}
	return &Classifier{idx: idx, cfg: cfg}, nil
}

// Config returns the effective configuration.
func (c *Classifier) Config() Config { return c.cfg }

// Index returns the index the classifier queries.
func (c *Classifier) Index() *Index { return c.idx }

// Neighbors returns the cfg.K closest points to q.
func (c *Classifier) Neighbors(q Point) ([]Neighbor, error) {
	res, _, err := c.idx.query(q, c.cfg.K, c.cfg.Mode, c.cfg.ExhaustiveThreshold)
	return res, err
}

// Classify returns the majority label among the K nearest points to q.
func (c *Classifier) Classify(q Point) (Label, error) {
	nbs, err := c.Neighbors(q)
	if err != nil {
		return 0, err
	}
	l, _ := MajorityLabel(nbs)
	return l, nil
}

// Confidence returns the fraction of odd k in 1..K whose majority at q is label.
func (c *Classifier) Confidence(q Point, label Label) (float64, error) {
	nbs, err := c.Neighbors(q)
	if err != nil {
		return 0, err
	}
	return ConfidenceProportion(nbs, c.cfg.K, label)
}

// Confidences returns the confidence for each label in Index.Labels, in that
// order, from a single query.
func (c *Classifier) Confidences(q Point) ([]float64, error) {
	nbs, err := c.Neighbors(q)
	if err != nil {
		return nil, err
	}
	return confidenceProportions(nbs, c.cfg.K, c.idx.Labels())
}
