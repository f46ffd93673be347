package fit

import (
	"math"

	"github.com/slwatkins/rqgo/optimize"
)

// Gauss evaluates one Gaussian component amp * exp(-(x-mu)^2/(2 sigma^2)).
func Gauss(x, amp, mu, sigma float64) float64 {
	d := (x - mu) / sigma
	return amp * math.Exp(-0.5*d*d)
}

// GaussBackground is the one-peak spectral model: a Gaussian on a flat
// background. The parameter layout is [amplitude, location, scale,
// background].
func GaussBackground(x float64, p []float64) float64 {
	return Gauss(x, p[0], p[1], p[2]) + p[3]
}

// NGauss returns the n-component spectral model as an [optimize.Func].
// The parameter layout is [amp_1, loc_1, scale_1, ..., amp_n, loc_n,
// scale_n, background]: three shape parameters per component, one
// shared background last.
func NGauss(n int) optimize.Func {
	return func(x float64, p []float64) float64 {
		sum := p[3*n]
		for k := 0; k < n; k++ {
			sum += Gauss(x, p[3*k], p[3*k+1], p[3*k+2])
		}

		return sum
	}
}

// Saturation is the saturating response a * (1 - exp(-x/b)): linear in
// x near the origin, flattening toward the asymptote a at large x.
func Saturation(x, a, b float64) float64 {
	return a * (1 - math.Exp(-x/b))
}

// SaturationLinear is the first-order Taylor expansion of [Saturation]
// about x = 0: a*x/b.
func SaturationLinear(x, a, b float64) float64 {
	return a * x / b
}

// saturationGrad returns the partial derivatives of Saturation with
// respect to (a, b) at x.
func saturationGrad(x, a, b float64) (da, db float64) {
	e := math.Exp(-x / b)
	return 1 - e, -a * x / (b * b) * e
}

// saturationLinearGrad returns the partial derivatives of
// SaturationLinear with respect to (a, b) at x.
func saturationLinearGrad(x, a, b float64) (da, db float64) {
	return x / b, -a * x / (b * b)
}
