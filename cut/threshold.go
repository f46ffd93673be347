package cut

import "sort"

// ThresholdCurve is a next-value step function mapping time to a
// quantile threshold. Between knots the value held is that of the next
// knot at or after the query point; outside the covered range the curve
// clamps to the first/last value, so every sample receives a defined
// threshold no matter where it falls.
type ThresholdCurve struct {
	// Knots are the bin edges carrying a valid statistic, ascending.
	Knots []float64

	// Values are the per-bin order statistics, parallel to Knots.
	Values []float64
}

// newThresholdCurve partitions the covered time span of t into nbins
// equal-width bins and computes the order statistic at rank
// floor(count*eff) inside each bin. Empty bins contribute no knot, so
// their gap is filled by the next valid bin's statistic (or by the
// clamp, for trailing empties). t must be ascending and non-empty.
func newThresholdCurve(t, b []float64, nbins int, eff float64) ThresholdCurve {
	tmin := t[0]
	tmax := t[len(t)-1]
	width := (tmax - tmin) / float64(nbins)

	bins := make([][]float64, nbins)

	for i, ti := range t {
		idx := nbins - 1
		if width > 0 {
			idx = int((ti - tmin) / width)
			// The last bin is closed on the right; stragglers outside
			// the covered span land in the edge bins.
			if idx >= nbins {
				idx = nbins - 1
			}

			if idx < 0 {
				idx = 0
			}
		}

		bins[idx] = append(bins[idx], b[i])
	}

	curve := ThresholdCurve{
		Knots:  make([]float64, 0, nbins),
		Values: make([]float64, 0, nbins),
	}

	for i, bin := range bins {
		if len(bin) == 0 {
			continue
		}

		rank := int(float64(len(bin)) * eff)
		if rank >= len(bin) {
			rank = len(bin) - 1
		}

		curve.Knots = append(curve.Knots, tmin+float64(i)*width)
		curve.Values = append(curve.Values, quickSelect(bin, rank))
	}

	return curve
}

// Eval returns the threshold at time x. With no valid knots the result
// is NaN-free only because the constructor guarantees at least one bin
// has members; callers outside the package always receive curves built
// from a non-empty selection.
func (c ThresholdCurve) Eval(x float64) float64 {
	i := sort.SearchFloat64s(c.Knots, x)
	if i == len(c.Knots) {
		i = len(c.Knots) - 1
	}

	return c.Values[i]
}

// EvalAll evaluates the curve at every element of xs.
func (c ThresholdCurve) EvalAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = c.Eval(x)
	}

	return out
}
