package quadknn

import (
	"errors"
	"testing"
)

// labeled builds a sorted neighbor sequence carrying the given labels at
// distances 1, 2, 3, ...
func labeled(labels ...Label) []Neighbor {
	out := make([]Neighbor, len(labels))
	for i, l := range labels {
		out[i] = Neighbor{Point: LabeledPoint{ID: i, Label: l}, Distance: float64(i + 1)}
	}
	return out
}

const (
	labelA Label = iota
	labelB
	labelC
)

func TestMajorityLabel(t *testing.T) {
	tests := []struct {
		name   string
		labels []Label
		want   Label
	}{
		{"single", []Label{labelB}, labelB},
		{"unanimous", []Label{labelC, labelC, labelC, labelC}, labelC},
		{"clear majority", []Label{labelA, labelB, labelB}, labelB},
		{"tie goes to closest A", []Label{labelA, labelB, labelB, labelA}, labelA},
		{"tie goes to closest B", []Label{labelB, labelA, labelA, labelB}, labelB},
		{"three-way tie", []Label{labelC, labelA, labelB}, labelC},
		{"tie among non-closest", []Label{labelC, labelA, labelB, labelB, labelA}, labelA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MajorityLabel(labeled(tt.labels...))
			if !ok {
				t.Fatal("MajorityLabel reported no result")
			}
			if got != tt.want {
				t.Errorf("MajorityLabel(%v) = %d, want %d", tt.labels, got, tt.want)
			}
		})
	}
}

func TestMajorityLabel_Empty(t *testing.T) {
	if _, ok := MajorityLabel(nil); ok {
		t.Error("MajorityLabel(nil) reported a result")
	}
}

func TestOddSchedule(t *testing.T) {
	got, err := OddSchedule(7)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 3, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("OddSchedule(7) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OddSchedule(7) = %v, want %v", got, want)
		}
	}

	for _, k := range []int{0, -3, 4} {
		if _, err := OddSchedule(k); !errors.Is(err, ErrInvalidSchedule) {
			t.Errorf("OddSchedule(%d) error = %v, want ErrInvalidSchedule", k, err)
		}
	}
}

func TestConfidenceProportion(t *testing.T) {
	tests := []struct {
		name   string
		labels []Label
		kMax   int
		label  Label
		want   float64
	}{
		{"mixed prefix", []Label{labelA, labelB, labelA}, 3, labelA, 1.0},
		{"mixed prefix other label", []Label{labelA, labelB, labelA}, 3, labelB, 0.0},
		{"k=1 only", []Label{labelB, labelA, labelA}, 1, labelB, 1.0},
		{"split", []Label{labelA, labelB, labelB}, 3, labelA, 0.5},
		{"split other", []Label{labelA, labelB, labelB}, 3, labelB, 0.5},
		{"five", []Label{labelB, labelA, labelA, labelB, labelB}, 5, labelB, 2.0 / 3.0},
		{"five other", []Label{labelB, labelA, labelA, labelB, labelB}, 5, labelA, 1.0 / 3.0},
		{"prefix only", []Label{labelA, labelA, labelA, labelB, labelB}, 3, labelA, 1.0},
		{"absent label", []Label{labelA, labelB, labelA}, 3, labelC, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConfidenceProportion(labeled(tt.labels...), tt.kMax, tt.label)
			if err != nil {
				t.Fatal(err)
			}
			if !almostEqual(got, tt.want, floatTol) {
				t.Errorf("ConfidenceProportion = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfidenceProportion_Unanimous(t *testing.T) {
	for _, kMax := range []int{1, 3, 5, 7, 31} {
		labels := make([]Label, kMax)
		for i := range labels {
			labels[i] = labelB
		}
		nbs := labeled(labels...)

		got, err := ConfidenceProportion(nbs, kMax, labelB)
		if err != nil {
			t.Fatal(err)
		}
		if got != 1.0 {
			t.Errorf("kMax=%d: confidence for unanimous label = %v, want 1", kMax, got)
		}
		for _, other := range []Label{labelA, labelC} {
			got, err := ConfidenceProportion(nbs, kMax, other)
			if err != nil {
				t.Fatal(err)
			}
			if got != 0.0 {
				t.Errorf("kMax=%d: confidence for label %d = %v, want 0", kMax, other, got)
			}
		}
	}
}

func TestConfidenceProportion_InvalidSchedule(t *testing.T) {
	nbs := labeled(labelA, labelB, labelA, labelB)
	for _, kMax := range []int{0, -1, 2, 4, 5} {
		if _, err := ConfidenceProportion(nbs, kMax, labelA); !errors.Is(err, ErrInvalidSchedule) {
			t.Errorf("kMax=%d: error = %v, want ErrInvalidSchedule", kMax, err)
		}
	}
}

func TestConfidenceProportions_SumToOne(t *testing.T) {
	nbs := labeled(labelC, labelA, labelB, labelA, labelB, labelB, labelC)
	props, err := confidenceProportions(nbs, 7, []Label{labelA, labelB, labelC})
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for i, p := range props {
		if p < 0 || p > 1 {
			t.Errorf("proportion[%d] = %v out of [0, 1]", i, p)
		}
		sum += p
	}
	if !almostEqual(sum, 1, floatTol) {
		t.Errorf("proportions sum to %v, want 1", sum)
	}
}
