package testutil

import (
	"math"
	"testing"
)

// RequireNear fails t if got differs from want by more than eps
// (absolute tolerance).
func RequireNear(t *testing.T, got, want, eps float64) {
	t.Helper()
	diff := math.Abs(got - want)
	if math.IsNaN(diff) || diff > eps {
		t.Fatalf("got %v, want %v (diff %v > eps %v)", got, want, diff, eps)
	}
}

// RequireNearRel fails t if got differs from want by more than rel
// relative to |want| (absolute comparison when want is zero).
func RequireNearRel(t *testing.T, got, want, rel float64) {
	t.Helper()
	eps := rel * math.Abs(want)
	if eps == 0 {
		eps = rel
	}
	diff := math.Abs(got - want)
	if math.IsNaN(diff) || diff > eps {
		t.Fatalf("got %v, want %v (diff %v > rel %v)", got, want, diff, rel)
	}
}

// RequireSliceNear fails t if got and want differ in length or if any
// element pair exceeds eps (absolute tolerance).
func RequireSliceNear(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if math.IsNaN(diff) || diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// Fraction returns the fraction of true elements in mask.
func Fraction(mask []bool) float64 {
	if len(mask) == 0 {
		return 0
	}

	n := 0
	for _, b := range mask {
		if b {
			n++
		}
	}

	return float64(n) / float64(len(mask))
}
