package quadknn

import (
	"errors"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.K != 31 {
		t.Errorf("K: got %d, want 31", cfg.K)
	}
	if cfg.Mode != ModeAuto {
		t.Errorf("Mode: got %q, want \"auto\"", cfg.Mode)
	}
	if cfg.ExhaustiveThreshold != DefaultExhaustiveThreshold {
		t.Errorf("ExhaustiveThreshold: got %d, want %d", cfg.ExhaustiveThreshold, DefaultExhaustiveThreshold)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers: got %d, want 0", cfg.Workers)
	}
}

func TestNewClassifier_AppliesDefaults(t *testing.T) {
	idx, err := Build(uniformPoints(50, 1), region100)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewClassifier(idx, Config{K: 5})
	if err != nil {
		t.Fatal(err)
	}
	got := c.Config()
	if got.Mode != ModeAuto {
		t.Errorf("Mode: got %q, want auto", got.Mode)
	}
	if got.Workers != runtime.NumCPU() {
		t.Errorf("Workers: got %d, want %d", got.Workers, runtime.NumCPU())
	}
	if c.Index() != idx {
		t.Error("Index() does not return the bound index")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"zero K", func(c *Config) { c.K = 0 }, ErrInvalidK},
		{"negative K", func(c *Config) { c.K = -3 }, ErrInvalidK},
		{"K above index size", func(c *Config) { c.K = 41 }, ErrInvalidK},
		{"unknown mode", func(c *Config) { c.Mode = "balltree" }, nil},
		{"negative threshold", func(c *Config) { c.ExhaustiveThreshold = -1 }, nil},
		{"negative workers", func(c *Config) { c.Workers = -2 }, nil},
	}

	idx, err := Build(uniformPoints(40, 2), region100)
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := NewClassifier(idx, cfg)
			if err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestNewClassifier_EmptyIndex(t *testing.T) {
	idx, err := Build(nil, region100)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewClassifier(idx, DefaultConfig()); !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("error = %v, want ErrEmptyIndex", err)
	}
}

func TestClassifier_ClassifySeparatedClusters(t *testing.T) {
	var pts []LabeledPoint
	for i := 0; i < 10; i++ {
		f := float64(i)
		pts = append(pts, lp(10+f, 10+f, labelA), lp(90-f, 90-f, labelB))
	}
	idx, err := Build(pts, region100)
	if err != nil {
		t.Fatal(err)
	}

	for _, mode := range []SearchMode{ModeExhaustive, ModeIndexed} {
		cfg := DefaultConfig()
		cfg.K = 5
		cfg.Mode = mode
		c, err := NewClassifier(idx, cfg)
		if err != nil {
			t.Fatal(err)
		}

		if l, err := c.Classify(Point{X: 5, Y: 5}); err != nil || l != labelA {
			t.Errorf("mode=%s: Classify near A = %d, %v", mode, l, err)
		}
		if l, err := c.Classify(Point{X: 95, Y: 95}); err != nil || l != labelB {
			t.Errorf("mode=%s: Classify near B = %d, %v", mode, l, err)
		}
		conf, err := c.Confidence(Point{X: 12, Y: 12}, labelA)
		if err != nil {
			t.Fatal(err)
		}
		if conf != 1 {
			t.Errorf("mode=%s: Confidence inside A = %v, want 1", mode, conf)
		}
	}
}

func TestClassifier_ConfidenceMatchesManualSchedule(t *testing.T) {
	idx, err := Build(uniformPoints(300, 5), region100)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.K = 15
	c, err := NewClassifier(idx, cfg)
	if err != nil {
		t.Fatal(err)
	}

	q := Point{X: 48, Y: 52}
	got, err := c.Confidence(q, labelA)
	if err != nil {
		t.Fatal(err)
	}

	// Re-run a separate k-NN vote at every odd k, as the schedule describes.
	wins := 0
	for k := 1; k <= 15; k += 2 {
		nbs, err := idx.Query(q, k, ModeExhaustive)
		if err != nil {
			t.Fatal(err)
		}
		if l, _ := MajorityLabel(nbs); l == labelA {
			wins++
		}
	}
	if want := float64(wins) / 8; !almostEqual(got, want, floatTol) {
		t.Errorf("Confidence = %v, independent votes give %v", got, want)
	}
}

func TestClassifier_Confidences(t *testing.T) {
	pts := []LabeledPoint{lp(1, 1, labelA), lp(2, 2, labelB), lp(3, 3, labelC), lp(4, 4, labelA), lp(5, 5, labelB)}
	idx, err := Build(pts, region100)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.K = 5
	c, err := NewClassifier(idx, cfg)
	if err != nil {
		t.Fatal(err)
	}

	props, err := c.Confidences(Point{X: 0, Y: 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(props) != len(idx.Labels()) {
		t.Fatalf("got %d proportions for %d labels", len(props), len(idx.Labels()))
	}
	// Prefixes: [A] → A, [A B C] → A, [A B C A B] → A.
	want := []float64{1, 0, 0}
	for i := range want {
		if !almostEqual(props[i], want[i], floatTol) {
			t.Errorf("proportion[%d] = %v, want %v", i, props[i], want[i])
		}
	}
}

func TestClassifier_EvenKConfidenceFails(t *testing.T) {
	idx, err := Build(uniformPoints(20, 4), region100)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.K = 4
	c, err := NewClassifier(idx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Classify(Point{X: 3, Y: 3}); err != nil {
		t.Errorf("Classify with even K: %v", err)
	}
	if _, err := c.Confidence(Point{X: 3, Y: 3}, labelA); !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("Confidence error = %v, want ErrInvalidSchedule", err)
	}
}
