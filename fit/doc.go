// Package fit estimates spectral peak parameters and saturation
// corrections from raw samples.
//
// Three engines are provided:
//
//   - [MultiGauss] bins a sample and fits a sum of N Gaussian peaks on
//     a flat background by weighted nonlinear least squares, then
//     orders the peaks by ascending location.
//   - [SingleGauss] is the one-peak specialization with optional
//     sideband background subtraction and a data-driven initial guess.
//   - [SaturationFit] fits the saturating response a*(1 - exp(-x/b)),
//     derives the small-signal slope a/b, and propagates the parameter
//     covariance into pointwise 1-sigma bands for both the full curve
//     and its linear expansion.
//
// Histogram counts are weighted by their Poisson uncertainty
// sqrt(count); empty bins get unit weight (see [MultiGauss]). The
// least-squares collaborator is the [Solver] interface, defaulting to
// [optimize.CurveFit]; tests and callers can swap it with [WithSolver].
//
// All engines are pure functions over in-memory arrays: no state is
// kept between calls and independent calls are safe to run in parallel.
package fit
