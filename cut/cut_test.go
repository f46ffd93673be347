package cut

import (
	"errors"
	"math"
	"testing"

	"github.com/slwatkins/rqgo"
)

func TestInRange(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name         string
		vals         []float64
		lower, upper float64
		want         []bool
	}{
		{"inclusive bounds", []float64{1, 2, 3}, 1, 3, []bool{true, true, true}},
		{"outside", []float64{0.5, 3.5}, 1, 3, []bool{false, false}},
		{"reversed bounds", []float64{1, 2, 3}, 3, 1, []bool{false, false, false}},
		{"nan never retained", []float64{nan, 2, nan}, 1, 3, []bool{false, true, false}},
		{"nan bounds", []float64{1, 2}, nan, nan, []bool{false, false}},
		{"empty", nil, 0, 1, []bool{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InRange(tt.vals, tt.lower, tt.upper)
			if len(got) != len(tt.want) {
				t.Fatalf("length = %d, want %d", len(got), len(tt.want))
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("mask[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSigmaClipSelector(t *testing.T) {
	vals := make([]float64, 21)
	vals[20] = 100 // lone outlier among zeros

	mask := SigmaClipSelector{}.Select(vals)
	if len(mask) != len(vals) {
		t.Fatalf("mask length = %d, want %d", len(mask), len(vals))
	}

	for i := 0; i < 20; i++ {
		if !mask[i] {
			t.Errorf("inlier %d dropped", i)
		}
	}

	if mask[20] {
		t.Error("outlier retained")
	}
}

func TestSigmaClipSelectorDeterministic(t *testing.T) {
	vals := []float64{0, 1, 2, 3, 50, -40, 2, 1}

	a := SigmaClipSelector{}.Select(vals)
	b := SigmaClipSelector{}.Select(vals)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("mask[%d] differs between identical runs", i)
		}
	}
}

func TestBaselineShift(t *testing.T) {
	vals := make([]float64, 21)
	vals[20] = 100 // outlier must not drag the robust mean

	// di = -(DR/(R0+DR+RLoad))*I0 = +0.5, so the cut sits at 0.5.
	cfg := BaselineShiftConfig{R0: 1, I0: -1, RLoad: 0, DR: 1}

	mask, err := BaselineShift(vals, cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 20; i++ {
		if !mask[i] {
			t.Errorf("baseline sample %d cut", i)
		}
	}

	if mask[20] {
		t.Error("outlier passed the cut")
	}
}

type fixedSelector struct{ keep int }

func (s fixedSelector) Select(vals []float64) []bool {
	mask := make([]bool, len(vals))
	for i := 0; i < s.keep && i < len(vals); i++ {
		mask[i] = true
	}

	return mask
}

func TestBaselineShiftSelectorSeam(t *testing.T) {
	vals := []float64{10, 999, 999, 999}
	cfg := BaselineShiftConfig{R0: 1, I0: -2, RLoad: 0, DR: 1}

	// Robust mean comes from the first element only: threshold 10+1=11.
	mask, err := BaselineShift(vals, cfg, nil, fixedSelector{keep: 1})
	if err != nil {
		t.Fatal(err)
	}

	want := []bool{true, false, false, false}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, mask[i], want[i])
		}
	}
}

func TestBaselineShiftErrors(t *testing.T) {
	vals := []float64{1, 2, 3}

	_, err := BaselineShift(vals, BaselineShiftConfig{R0: 1}, []bool{true}, nil)
	if !errors.Is(err, ErrLengthMismatch) || !errors.Is(err, rqgo.ErrData) {
		t.Errorf("prior length mismatch: got %v", err)
	}

	_, err = BaselineShift(vals, BaselineShiftConfig{R0: 1}, []bool{false, false, false}, nil)
	if !errors.Is(err, ErrEmptySelection) {
		t.Errorf("empty selection: got %v", err)
	}

	_, err = BaselineShift(vals, BaselineShiftConfig{R0: -2, DR: 0.5}, nil, nil)
	if !errors.Is(err, ErrLoopResistance) || !errors.Is(err, rqgo.ErrConfiguration) {
		t.Errorf("negative loop resistance: got %v", err)
	}
}
