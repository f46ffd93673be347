package fit

import (
	"errors"
	"math"
	"testing"

	"github.com/slwatkins/rqgo"
	"github.com/slwatkins/rqgo/internal/testutil"
	"github.com/slwatkins/rqgo/optimize"
)

// flatBins builds values that histogram into known counts: count i+1
// in bin i over [0, 10) with ten unit bins.
func flatBins(counts []float64) []float64 {
	var vals []float64

	for i, c := range counts {
		center := float64(i) + 0.5
		for n := 0; n < int(c); n++ {
			vals = append(vals, center)
		}
	}

	return vals
}

func TestSingleGaussSeedDerivation(t *testing.T) {
	counts := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	solver := &fakeSolver{
		result: optimize.Result{
			Params:     []float64{5.5, 9.5, 3, 4.5},
			Covariance: diagSym([]float64{1, 1, 1, 1}),
		},
	}

	_, err := SingleGauss(flatBins(counts),
		WithRange(0, 10), WithBins(10),
		WithSidebands(Sidebands{Low: [2]float64{0, 3}, High: [2]float64{7, 10}}),
		WithSolver(solver))
	if err != nil {
		t.Fatal(err)
	}

	// Sideband background: mean of bins 0,1 (low) and 6,7 (high) =
	// mean(1, 2, 7, 8) = 4.5. Amplitude seed is the post-subtraction
	// peak, location its center, scale the half-maximum distance.
	testutil.RequireSliceNear(t, solver.gotP0, []float64{5.5, 9.5, 3, 4.5}, 1e-12)
}

func TestSingleGaussSidebandErrors(t *testing.T) {
	counts := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	// Both sidebands collapse to empty index ranges after clipping.
	_, err := SingleGauss(flatBins(counts),
		WithRange(0, 10), WithBins(10),
		WithSidebands(Sidebands{Low: [2]float64{0, 0}, High: [2]float64{10, 10}}))
	if !errors.Is(err, ErrSidebandRange) || !errors.Is(err, rqgo.ErrConfiguration) {
		t.Errorf("empty sidebands: got %v", err)
	}
}

func TestSingleGaussRecoversPeak(t *testing.T) {
	vals := testutil.Normals(10, 20000, 5, 1)

	res, err := SingleGauss(vals, WithRange(0, 10), WithBins(100))
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNear(t, res.Location, 5, 0.05)

	// Fitted scale near the generating sigma.
	testutil.RequireNear(t, math.Abs(res.Params[2]), 1, 0.05)

	// The composite location error is scale/sqrt(amplitude) by
	// construction.
	want := math.Abs(res.Params[2]) / math.Sqrt(res.Params[0])
	testutil.RequireNear(t, res.LocationErr, want, 1e-12)

	if res.LocationErr <= 0 || math.IsNaN(res.LocationErr) {
		t.Errorf("location error = %v, want positive", res.LocationErr)
	}
}

func TestSingleGaussEmptyInput(t *testing.T) {
	_, err := SingleGauss(nil)
	if !errors.Is(err, rqgo.ErrData) {
		t.Errorf("empty input: got %v", err)
	}
}
