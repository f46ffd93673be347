// Package optimize provides weighted nonlinear least-squares curve
// fitting with the Levenberg-Marquardt method.
//
// [CurveFit] minimizes
//
//	chi2(p) = sum_i ((y_i - f(x_i, p)) / sigma_i)^2
//
// over the parameter vector p, seeded at an initial guess, and returns
// the best-fit parameters together with the covariance matrix taken as
// the inverse of the normal matrix JᵀJ at the optimum. The per-point
// sigmas are treated as absolute uncertainties: the covariance is not
// rescaled by the reduced chi-square.
//
// Non-convergence is reported distinctly from a successful-but-poor
// fit: the iteration budget running out yields a [*ConvergenceError]
// carrying the last iterate, and a singular normal matrix at the
// solution yields [ErrSingular]. Neither is ever converted to default
// parameters; retrying with a different seed is the caller's decision.
package optimize
