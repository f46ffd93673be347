package optimize

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"
)

// jacobian fills jac with the weighted forward-difference Jacobian of f
// at p: jac[i][j] = invSigma[i] * (f(x_i, p + h_j e_j) - model_i) / h_j,
// where model holds the unweighted f(x_i, p). col is an n-element
// scratch buffer.
func jacobian(jac *mat.Dense, col []float64, f Func, x, p, model, invSigma []float64) {
	sqrtEps := math.Sqrt(2.220446049250313e-16)

	perturbed := make([]float64, len(p))
	copy(perturbed, p)

	for j := range p {
		h := sqrtEps * math.Max(math.Abs(p[j]), 1)

		perturbed[j] = p[j] + h
		// Recompute the step from the rounded value so the divided
		// difference uses the spacing actually applied.
		h = perturbed[j] - p[j]

		for i := range x {
			col[i] = (f(x[i], perturbed) - model[i]) / h
		}

		vecmath.MulBlockInPlace(col, invSigma)
		jac.SetCol(j, col)

		perturbed[j] = p[j]
	}
}
