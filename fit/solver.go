package fit

import "github.com/slwatkins/rqgo/optimize"

// Solver abstracts the weighted nonlinear least-squares collaborator so
// the fit engines stay independent of the concrete minimizer. Solve
// fits f to (x, y) with per-point absolute uncertainties sigma, seeded
// at p0, and must report non-convergence as an error distinct from a
// successful-but-poor fit.
type Solver interface {
	Solve(f optimize.Func, x, y, sigma, p0 []float64) (optimize.Result, error)
}

// curveFitSolver is the default Solver, delegating to
// [optimize.CurveFit] with fixed Options.
type curveFitSolver struct {
	opts optimize.Options
}

func (s curveFitSolver) Solve(f optimize.Func, x, y, sigma, p0 []float64) (optimize.Result, error) {
	return optimize.CurveFit(f, x, y, sigma, p0, s.opts)
}
