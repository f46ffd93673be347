package fit

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/slwatkins/rqgo"
	"github.com/slwatkins/rqgo/hist"
)

var (
	ErrComponentCount = fmt.Errorf("fit: number of components must be at least 1: %w", rqgo.ErrConfiguration)
	ErrGuessLength    = fmt.Errorf("fit: initial guess length must equal 3*ncomponents+1: %w", rqgo.ErrConfiguration)
)

// Component is one Gaussian term of a spectral model with the 1-sigma
// uncertainties from the fit covariance diagonal.
type Component struct {
	Amplitude float64
	Location  float64
	Scale     float64

	AmplitudeErr float64
	LocationErr  float64
	ScaleErr     float64
}

// MultiGaussResult holds an N-component spectral fit.
type MultiGaussResult struct {
	// Components are the fitted peaks sorted by ascending location,
	// with each uncertainty relocated alongside its component.
	Components []Component

	// Background is the shared flat background level (not reordered)
	// with its 1-sigma uncertainty.
	Background    float64
	BackgroundErr float64

	// Params and Errs are the raw fit parameters and uncertainties in
	// initial-guess order, for callers that need to index the
	// covariance.
	Params []float64
	Errs   []float64

	// Cov is the full parameter covariance, in initial-guess order.
	Cov *mat.SymDense

	// Hist is the binned sample the fit ran on.
	Hist hist.Result
}

// MultiGauss bins vals and fits ngauss Gaussian peaks plus a flat
// background by weighted nonlinear least squares seeded at guess. The
// guess layout is the [NGauss] layout: [amp_1, loc_1, scale_1, ...,
// background], so len(guess) must be 3*ngauss+1; a mismatch is a
// construction-time contract failure reported before any histogramming.
//
// Depending on the spectrum the fit can be very sensitive to the
// initial guess. A failed solve surfaces as the solver's error (a fit
// category error for the default solver); it is never replaced with
// default parameters.
func MultiGauss(vals, guess []float64, ngauss int, opts ...Option) (MultiGaussResult, error) {
	if ngauss < 1 {
		return MultiGaussResult{}, fmt.Errorf("%w: got %d", ErrComponentCount, ngauss)
	}

	if len(guess) != 3*ngauss+1 {
		return MultiGaussResult{}, fmt.Errorf("%w: got %d parameters for %d components (need %d)",
			ErrGuessLength, len(guess), ngauss, 3*ngauss+1)
	}

	cfg := applyOptions(opts)

	h, err := hist.BinData(vals, cfg.histOpts...)
	if err != nil {
		return MultiGaussResult{}, err
	}

	solver := cfg.solver
	if solver == nil {
		solver = curveFitSolver{}
	}

	res, err := solver.Solve(NGauss(ngauss), h.Centers, h.Counts, poissonSigma(h.Counts), guess)
	if err != nil {
		return MultiGaussResult{}, fmt.Errorf("fit: multi-gauss solve: %w", err)
	}

	errs := covErrors(res.Covariance)

	components := make([]Component, ngauss)
	for k := 0; k < ngauss; k++ {
		components[k] = Component{
			Amplitude:    res.Params[3*k],
			Location:     res.Params[3*k+1],
			Scale:        res.Params[3*k+2],
			AmplitudeErr: errs[3*k],
			LocationErr:  errs[3*k+1],
			ScaleErr:     errs[3*k+2],
		}
	}

	// Canonical peak order: ascending location, uncertainties travel
	// with their component. Stable so degenerate overlapping peaks keep
	// their guess order.
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].Location < components[j].Location
	})

	return MultiGaussResult{
		Components:    components,
		Background:    res.Params[3*ngauss],
		BackgroundErr: errs[3*ngauss],
		Params:        res.Params,
		Errs:          errs,
		Cov:           res.Covariance,
		Hist:          h,
	}, nil
}

// poissonSigma returns the per-bin count uncertainty sqrt(count),
// substituting 1 wherever the count is zero. The substitution keeps the
// weighted loss finite for empty bins without giving them outsized
// pull; it is a pragmatic floor, not a statistically derived weight.
func poissonSigma(counts []float64) []float64 {
	sigma := make([]float64, len(counts))

	for i, c := range counts {
		if c == 0 {
			sigma[i] = 1
		} else {
			sigma[i] = math.Sqrt(c)
		}
	}

	return sigma
}

// covErrors returns the square roots of the covariance diagonal.
func covErrors(cov *mat.SymDense) []float64 {
	if cov == nil {
		return nil
	}

	n := cov.SymmetricDim()

	errs := make([]float64, n)
	for i := range errs {
		errs[i] = math.Sqrt(cov.At(i, i))
	}

	return errs
}
