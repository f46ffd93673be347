package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/slwatkins/rqgo"
	"github.com/slwatkins/rqgo/optimize"
)

// ErrSaturationGuess is returned when the saturation fit's initial
// guess is not the two parameters (a, b).
var ErrSaturationGuess = fmt.Errorf("fit: saturation guess must be the two parameters (a, b): %w", rqgo.ErrConfiguration)

// saturationMaxIter is the elevated iteration budget of the saturation
// fit. Calibration spectra routinely start the solver far from the
// asymptote, so this is the one engine given extra headroom for slow
// convergence.
const saturationMaxIter = 10000

// SaturationResult holds a fit of the saturating response
// a * (1 - exp(-x/b)) together with the derived small-signal slope and
// the machinery for first-order error propagation.
type SaturationResult struct {
	A float64 // asymptote
	B float64 // rate

	AErr float64
	BErr float64

	// SlopeLinear is the first-order Taylor coefficient of the model at
	// the origin, a/b: the slope of the unsaturated response.
	SlopeLinear float64

	// Cov is the 2x2 parameter covariance over (a, b).
	Cov *mat.SymDense
}

// SaturationFit fits y = a*(1 - exp(-x/b)) to the points (x, y) with
// per-point absolute uncertainties yerr, seeded at guess = (a, b).
// Unlike the histogram engines the uncertainties are the caller's, not
// Poisson-derived.
func SaturationFit(x, y, yerr, guess []float64, opts ...Option) (SaturationResult, error) {
	if len(guess) != 2 {
		return SaturationResult{}, fmt.Errorf("%w: got %d", ErrSaturationGuess, len(guess))
	}

	cfg := applyOptions(opts)

	solver := cfg.solver
	if solver == nil {
		solver = curveFitSolver{opts: optimize.Options{MaxIterations: saturationMaxIter}}
	}

	model := func(xi float64, p []float64) float64 {
		return Saturation(xi, p[0], p[1])
	}

	res, err := solver.Solve(model, x, y, yerr, guess)
	if err != nil {
		return SaturationResult{}, fmt.Errorf("fit: saturation solve: %w", err)
	}

	errs := covErrors(res.Covariance)

	a, b := res.Params[0], res.Params[1]

	return SaturationResult{
		A:           a,
		B:           b,
		AErr:        errs[0],
		BErr:        errs[1],
		SlopeLinear: a / b,
		Cov:         res.Covariance,
	}, nil
}

// Eval evaluates the fitted saturation curve at x.
func (r SaturationResult) Eval(x float64) float64 {
	return Saturation(x, r.A, r.B)
}

// EvalLinear evaluates the linear expansion of the fitted curve at x.
func (r SaturationResult) EvalLinear(x float64) float64 {
	return SaturationLinear(x, r.A, r.B)
}

// Sigma returns the pointwise 1-sigma uncertainty of the fitted curve
// at x by first-order propagation: the gradient of the model with
// respect to (a, b), contracted with the parameter covariance.
func (r SaturationResult) Sigma(x float64) float64 {
	da, db := saturationGrad(x, r.A, r.B)
	return r.propagate(da, db)
}

// SigmaLinear returns the pointwise 1-sigma uncertainty of the linear
// expansion at x. At x = 0 it coincides with [SaturationResult.Sigma]:
// both models and their gradients agree at the origin.
func (r SaturationResult) SigmaLinear(x float64) float64 {
	da, db := saturationLinearGrad(x, r.A, r.B)
	return r.propagate(da, db)
}

// Band evaluates [SaturationResult.Sigma] at every element of xs.
func (r SaturationResult) Band(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = r.Sigma(x)
	}

	return out
}

// BandLinear evaluates [SaturationResult.SigmaLinear] at every element
// of xs.
func (r SaturationResult) BandLinear(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = r.SigmaLinear(x)
	}

	return out
}

func (r SaturationResult) propagate(da, db float64) float64 {
	grad := mat.NewVecDense(2, []float64{da, db})
	return math.Sqrt(mat.Inner(grad, r.Cov, grad))
}
