package optimize

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/slwatkins/rqgo"
)

var (
	ErrLengthMismatch = fmt.Errorf("optimize: x, y, and sigma must have equal length: %w", rqgo.ErrData)
	ErrNoData         = fmt.Errorf("optimize: no data points: %w", rqgo.ErrData)
	ErrNoParams       = fmt.Errorf("optimize: empty initial guess: %w", rqgo.ErrConfiguration)
	ErrNoConvergence  = fmt.Errorf("optimize: no convergence: %w", rqgo.ErrFit)
	ErrSingular       = fmt.Errorf("optimize: singular normal matrix: %w", rqgo.ErrFit)
)

// Func is a scalar model function evaluated at one abscissa with the
// full parameter vector.
type Func func(x float64, params []float64) float64

// Options bounds and tunes the solver. The zero value selects the
// documented defaults.
type Options struct {
	// MaxIterations caps the number of accepted or rejected damping
	// cycles. Zero selects 1000.
	MaxIterations int

	// StepTolerance stops the fit once the accepted step norm drops
	// below StepTolerance * (1 + parameter norm). Zero selects 1e-10.
	StepTolerance float64

	// Chi2Tolerance stops the fit once an accepted step improves chi2
	// by less than Chi2Tolerance * chi2. Zero selects 1e-10.
	Chi2Tolerance float64

	// InitialDamping is the starting Marquardt damping factor. Zero
	// selects 1e-3.
	InitialDamping float64
}

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = 1000
	}

	if o.StepTolerance <= 0 {
		o.StepTolerance = 1e-10
	}

	if o.Chi2Tolerance <= 0 {
		o.Chi2Tolerance = 1e-10
	}

	if o.InitialDamping <= 0 {
		o.InitialDamping = 1e-3
	}

	return o
}

// Result holds a converged fit.
type Result struct {
	// Params is the best-fit parameter vector, in the order of the
	// initial guess.
	Params []float64

	// Covariance is the inverse of JᵀJ at the optimum (absolute-sigma
	// convention). Its diagonal square roots are the 1-sigma parameter
	// uncertainties.
	Covariance *mat.SymDense

	// Iterations is the number of damping cycles used.
	Iterations int

	// Chi2 is the weighted sum of squared residuals at the optimum.
	Chi2 float64
}

// ConvergenceError reports that the solver ran out of iterations (or
// saturated its damping) before meeting the step and chi2 tolerances.
// It carries the last iterate so the caller can inspect it or reseed.
type ConvergenceError struct {
	LastParams []float64
	Iterations int
	Chi2       float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("optimize: no convergence after %d iterations (chi2 %.6g)", e.Iterations, e.Chi2)
}

func (e *ConvergenceError) Unwrap() error { return ErrNoConvergence }

// maxDamping is the damping factor beyond which no downhill step will
// ever be found in floating point; reaching it counts as
// non-convergence.
const maxDamping = 1e15

// CurveFit fits f to (x, y) with per-point absolute uncertainties sigma
// (nil means unit weights), seeded at p0. See the package documentation
// for the objective and error semantics.
func CurveFit(f Func, x, y, sigma, p0 []float64, opts Options) (Result, error) {
	if len(x) != len(y) || (sigma != nil && len(sigma) != len(x)) {
		return Result{}, fmt.Errorf("%w: x %d, y %d, sigma %d", ErrLengthMismatch, len(x), len(y), len(sigma))
	}

	if len(x) == 0 {
		return Result{}, ErrNoData
	}

	if len(p0) == 0 {
		return Result{}, ErrNoParams
	}

	opts = opts.withDefaults()

	n := len(x)
	m := len(p0)

	invSigma := make([]float64, n)

	for i := range invSigma {
		if sigma == nil || sigma[i] == 0 {
			invSigma[i] = 1
		} else {
			invSigma[i] = 1 / sigma[i]
		}
	}

	p := make([]float64, m)
	copy(p, p0)

	model := make([]float64, n)
	resid := make([]float64, n)

	evalResiduals(f, x, y, p, invSigma, model, resid)
	chi2 := floats.Dot(resid, resid)

	damping := opts.InitialDamping

	var (
		jac       = mat.NewDense(n, m, nil)
		col       = make([]float64, n)
		normal    = mat.NewSymDense(m, nil)
		damped    = mat.NewSymDense(m, nil)
		grad      mat.VecDense
		delta     mat.VecDense
		chol      mat.Cholesky
		converged bool
		iter      int
	)

	pTry := make([]float64, m)
	modelTry := make([]float64, n)
	residTry := make([]float64, n)

	for iter = 1; iter <= opts.MaxIterations && !converged; iter++ {
		jacobian(jac, col, f, x, p, model, invSigma)

		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		copySym(normal, &jtj)

		grad.MulVec(jac.T(), mat.NewVecDense(n, resid))

		accepted := false

		for !accepted {
			dampSym(damped, normal, damping)

			if !chol.Factorize(damped) {
				damping *= 10
				if damping > maxDamping {
					return Result{}, &ConvergenceError{LastParams: p, Iterations: iter, Chi2: chi2}
				}

				continue
			}

			if err := chol.SolveVecTo(&delta, &grad); err != nil {
				return Result{}, fmt.Errorf("%w: %v", ErrSingular, err)
			}

			for j := range pTry {
				pTry[j] = p[j] + delta.AtVec(j)
			}

			evalResiduals(f, x, y, pTry, invSigma, modelTry, residTry)
			chi2Try := floats.Dot(residTry, residTry)

			if chi2Try <= chi2 {
				improvement := chi2 - chi2Try

				copy(p, pTry)
				copy(model, modelTry)
				copy(resid, residTry)
				chi2 = chi2Try

				stepNorm := mat.Norm(&delta, 2)
				paramNorm := floats.Norm(p, 2)

				if stepNorm <= opts.StepTolerance*(1+paramNorm) || improvement <= opts.Chi2Tolerance*chi2Try {
					converged = true
				}

				damping /= 10
				if damping < 1e-12 {
					damping = 1e-12
				}

				accepted = true

				continue
			}

			damping *= 10
			if damping > maxDamping {
				return Result{}, &ConvergenceError{LastParams: p, Iterations: iter, Chi2: chi2}
			}
		}
	}

	if !converged {
		return Result{}, &ConvergenceError{LastParams: p, Iterations: iter - 1, Chi2: chi2}
	}

	// Covariance from the undamped normal matrix at the solution.
	jacobian(jac, col, f, x, p, model, invSigma)

	var jtj mat.Dense
	jtj.Mul(jac.T(), jac)
	copySym(normal, &jtj)

	if !chol.Factorize(normal) {
		return Result{}, fmt.Errorf("%w: normal matrix not positive definite at solution", ErrSingular)
	}

	cov := mat.NewSymDense(m, nil)
	if err := chol.InverseTo(cov); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	return Result{
		Params:     p,
		Covariance: cov,
		Iterations: iter - 1,
		Chi2:       chi2,
	}, nil
}

// evalResiduals fills model with f(x_i, p) and resid with the weighted
// residuals (y - model) * invSigma.
func evalResiduals(f Func, x, y, p, invSigma, model, resid []float64) {
	for i := range x {
		model[i] = f(x[i], p)
		resid[i] = y[i] - model[i]
	}

	vecmath.MulBlockInPlace(resid, invSigma)
}

// copySym copies the lower triangle of a square Dense into dst.
func copySym(dst *mat.SymDense, src *mat.Dense) {
	m, _ := src.Dims()
	for i := 0; i < m; i++ {
		for j := 0; j <= i; j++ {
			dst.SetSym(i, j, src.At(i, j))
		}
	}
}

// dampSym writes src with its diagonal scaled by (1 + damping) into
// dst (the Marquardt scaling of the normal equations).
func dampSym(dst, src *mat.SymDense, damping float64) {
	m := src.SymmetricDim()
	for i := 0; i < m; i++ {
		for j := 0; j <= i; j++ {
			v := src.At(i, j)
			if i == j {
				v *= 1 + damping
			}

			dst.SetSym(i, j, v)
		}
	}
}
