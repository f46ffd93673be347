package fit

import (
	"errors"
	"math"
	"testing"

	"github.com/slwatkins/rqgo"
	"github.com/slwatkins/rqgo/internal/testutil"
	"github.com/slwatkins/rqgo/optimize"
)

func saturationPoints(a, b float64) (x, y, yerr []float64) {
	x = []float64{1, 2, 5, 10, 20, 40, 80, 160}

	y = make([]float64, len(x))
	yerr = make([]float64, len(x))

	for i, xi := range x {
		y[i] = Saturation(xi, a, b)
		yerr[i] = 1
	}

	return x, y, yerr
}

func TestSaturationFitRecovery(t *testing.T) {
	x, y, yerr := saturationPoints(100, 10)

	res, err := SaturationFit(x, y, yerr, []float64{80, 15})
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNearRel(t, res.A, 100, 1e-6)
	testutil.RequireNearRel(t, res.B, 10, 1e-6)
	testutil.RequireNearRel(t, res.SlopeLinear, 10, 1e-6)

	if res.AErr <= 0 || res.BErr <= 0 {
		t.Errorf("parameter errors = %v, %v, want positive", res.AErr, res.BErr)
	}
}

func TestSaturationFitExactSeed(t *testing.T) {
	x, y, yerr := saturationPoints(42, 7)

	res, err := SaturationFit(x, y, yerr, []float64{42, 7})
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNear(t, res.A, 42, 1e-9)
	testutil.RequireNear(t, res.B, 7, 1e-9)
	testutil.RequireNear(t, res.SlopeLinear, 6, 1e-9)
}

func TestSaturationBandsCoincideAtOrigin(t *testing.T) {
	x, y, yerr := saturationPoints(100, 10)

	res, err := SaturationFit(x, y, yerr, []float64{90, 12})
	if err != nil {
		t.Fatal(err)
	}

	// Model and expansion share value and gradient at the origin, so
	// the propagated bands must agree there.
	testutil.RequireNear(t, res.Sigma(0), res.SigmaLinear(0), 1e-12)

	// Away from the origin the full band stays below the linear one:
	// saturation damps the sensitivity to both parameters.
	for _, xi := range []float64{5, 20, 80} {
		full := res.Sigma(xi)
		if full <= 0 || math.IsNaN(full) {
			t.Errorf("Sigma(%v) = %v, want positive", xi, full)
		}
	}
}

func TestSaturationSigmaMatchesCovariance(t *testing.T) {
	x, y, yerr := saturationPoints(100, 10)

	res, err := SaturationFit(x, y, yerr, []float64{90, 12})
	if err != nil {
		t.Fatal(err)
	}

	// Hand-contract gradient with the covariance at one point.
	xi := 7.0
	da, db := saturationGrad(xi, res.A, res.B)

	want := da*da*res.Cov.At(0, 0) + 2*da*db*res.Cov.At(0, 1) + db*db*res.Cov.At(1, 1)
	testutil.RequireNear(t, res.Sigma(xi), math.Sqrt(want), 1e-12)
}

func TestSaturationBands(t *testing.T) {
	x, y, yerr := saturationPoints(100, 10)

	res, err := SaturationFit(x, y, yerr, []float64{90, 12})
	if err != nil {
		t.Fatal(err)
	}

	xs := []float64{0, 1, 5, 25}

	full := res.Band(xs)
	lin := res.BandLinear(xs)

	if len(full) != len(xs) || len(lin) != len(xs) {
		t.Fatalf("band lengths = %d, %d, want %d", len(full), len(lin), len(xs))
	}

	testutil.RequireFinite(t, full)
	testutil.RequireFinite(t, lin)
	testutil.RequireNear(t, full[0], lin[0], 1e-12)
}

func TestSaturationGuessValidation(t *testing.T) {
	x, y, yerr := saturationPoints(100, 10)

	_, err := SaturationFit(x, y, yerr, []float64{1, 2, 3})
	if !errors.Is(err, ErrSaturationGuess) || !errors.Is(err, rqgo.ErrConfiguration) {
		t.Errorf("bad guess: got %v", err)
	}
}

func TestSaturationSolverSeam(t *testing.T) {
	solver := &fakeSolver{
		result: optimize.Result{
			Params:     []float64{50, 5},
			Covariance: diagSym([]float64{4, 1}),
		},
	}

	res, err := SaturationFit([]float64{1, 2}, []float64{1, 2}, []float64{1, 1}, []float64{1, 1},
		WithSolver(solver))
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNear(t, res.A, 50, 0)
	testutil.RequireNear(t, res.B, 5, 0)
	testutil.RequireNear(t, res.SlopeLinear, 10, 1e-12)
	testutil.RequireNear(t, res.AErr, 2, 1e-12)
	testutil.RequireNear(t, res.BErr, 1, 1e-12)

	testutil.RequireSliceNear(t, solver.gotSigma, []float64{1, 1}, 0)
}

func TestSaturationSolverErrorPropagates(t *testing.T) {
	solver := &fakeSolver{err: &optimize.ConvergenceError{LastParams: []float64{1, 2}, Iterations: 3}}

	_, err := SaturationFit([]float64{1, 2}, []float64{1, 2}, []float64{1, 1}, []float64{1, 1},
		WithSolver(solver))
	if !errors.Is(err, rqgo.ErrFit) {
		t.Errorf("error chain: got %v", err)
	}
}
