package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/slwatkins/rqgo"
	"github.com/slwatkins/rqgo/hist"
)

// ErrSidebandRange is returned when the configured sidebands contain no
// histogram bins after clipping to the fit range.
var ErrSidebandRange = fmt.Errorf("fit: sidebands contain no bins: %w", rqgo.ErrConfiguration)

// GaussResult holds a one-peak spectral fit.
type GaussResult struct {
	// Location is the fitted peak position.
	Location float64

	// LocationErr is the composite peak-position uncertainty
	// scale/sqrt(amplitude). This is a shot-noise-style approximation,
	// not an exact statistical bound.
	LocationErr float64

	// Params and Errs are the fitted [amplitude, location, scale,
	// background] and their 1-sigma uncertainties.
	Params []float64
	Errs   []float64

	// Cov is the full parameter covariance.
	Cov *mat.SymDense

	// Background is the sideband background estimate subtracted when
	// deriving the initial guess (zero without sidebands). The fitted
	// background level is Params[3].
	Background float64

	// Hist is the binned sample the fit ran on.
	Hist hist.Result
}

// SingleGauss bins vals and fits a single Gaussian peak on a flat
// background, deriving the initial guess from the data: the
// post-subtraction peak count, its position, and the half-distance to
// the half-maximum crossing. With [WithSidebands] the background seed
// is the mean count over the two sideband ranges; otherwise it is zero.
// Count uncertainties are Poisson as in [MultiGauss].
func SingleGauss(vals []float64, opts ...Option) (GaussResult, error) {
	cfg := applyOptions(opts)

	h, err := hist.BinData(vals, cfg.histOpts...)
	if err != nil {
		return GaussResult{}, err
	}

	background := 0.0

	if cfg.sidebands != nil {
		background, err = sidebandBackground(h, *cfg.sidebands)
		if err != nil {
			return GaussResult{}, err
		}
	}

	guess := seedGauss(h, background)

	solver := cfg.solver
	if solver == nil {
		solver = curveFitSolver{}
	}

	res, err := solver.Solve(GaussBackground, h.Centers, h.Counts, poissonSigma(h.Counts), guess)
	if err != nil {
		return GaussResult{}, fmt.Errorf("fit: gauss solve: %w", err)
	}

	return GaussResult{
		Location:    res.Params[1],
		LocationErr: math.Abs(res.Params[2]) / math.Sqrt(res.Params[0]),
		Params:      res.Params,
		Errs:        covErrors(res.Covariance),
		Cov:         res.Covariance,
		Background:  background,
		Hist:        h,
	}, nil
}

// seedGauss derives the initial guess [amplitude, location, scale,
// background] from the background-subtracted histogram: amplitude and
// location from the peak bin, scale from the distance between the peak
// and the bin closest to half maximum (an FWHM-based seed).
func seedGauss(h hist.Result, background float64) []float64 {
	noBack := make([]float64, len(h.Counts))
	for i, c := range h.Counts {
		noBack[i] = c - background
	}

	peak := argmax(noBack)
	amp := noBack[peak]
	loc := h.Centers[peak]

	halfIdx := 0
	halfDiff := math.Inf(1)

	for i, v := range noBack {
		d := math.Abs(v - amp/2)
		if d < halfDiff {
			halfDiff = d
			halfIdx = i
		}
	}

	scale := math.Abs(loc - h.Centers[halfIdx])

	return []float64{amp, loc, scale, background}
}

// sidebandBackground estimates the flat background as the mean count
// over the two sideband ranges, each clipped to the histogram range.
// Edges are mapped to the nearest bin center; the upper edge of the
// high sideband is exclusive.
func sidebandBackground(h hist.Result, sb Sidebands) (float64, error) {
	lo := h.Edges[0]
	hi := h.Edges[len(h.Edges)-1]

	lowLo := math.Max(sb.Low[0], lo)
	highHi := math.Min(sb.High[1], hi)

	il0 := nearestIndex(h.Centers, lowLo)
	il1 := nearestIndex(h.Centers, sb.Low[1])
	ih0 := nearestIndex(h.Centers, sb.High[0])
	ih1 := nearestIndex(h.Centers, highHi) - 1

	sum := 0.0
	n := 0

	for i := il0; i < il1; i++ {
		sum += h.Counts[i]
		n++
	}

	for i := ih0; i < ih1; i++ {
		sum += h.Counts[i]
		n++
	}

	if n == 0 {
		return 0, fmt.Errorf("%w: low [%g, %g], high [%g, %g]", ErrSidebandRange,
			sb.Low[0], sb.Low[1], sb.High[0], sb.High[1])
	}

	return sum / float64(n), nil
}

func argmax(vals []float64) int {
	best := 0
	for i, v := range vals {
		if v > vals[best] {
			best = i
		}
	}

	return best
}

// nearestIndex returns the index of the center closest to x.
func nearestIndex(centers []float64, x float64) int {
	best := 0
	bestDiff := math.Inf(1)

	for i, c := range centers {
		d := math.Abs(c - x)
		if d < bestDiff {
			bestDiff = d
			best = i
		}
	}

	return best
}
