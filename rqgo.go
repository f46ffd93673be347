// Package rqgo defines the error taxonomy shared by the cut-and-fit
// packages. Every sentinel error in the subpackages wraps exactly one of
// the three category errors below, so callers can branch on the failure
// class with errors.Is without matching individual sentinels:
//
//	_, err := fit.MultiGauss(vals, guess, 2)
//	if errors.Is(err, rqgo.ErrConfiguration) {
//	    // caller bug: fix the parameters, do not retry
//	}
package rqgo

import "errors"

var (
	// ErrConfiguration indicates malformed parameters: a guess-length
	// mismatch, an efficiency outside [0, 1], a bin width too wide for
	// the covered time span. These are caller bugs, not data problems.
	ErrConfiguration = errors.New("rqgo: invalid configuration")

	// ErrData indicates empty or degenerate input arrays.
	ErrData = errors.New("rqgo: bad input data")

	// ErrFit indicates a numerical failure of the least-squares solver:
	// non-convergence within the iteration budget or a singular
	// covariance. Retrying with a different seed is a caller concern.
	ErrFit = errors.New("rqgo: fit failed")
)
