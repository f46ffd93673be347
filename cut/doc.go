// Package cut builds boolean selection masks for time-series sensor
// readings.
//
// A mask has the same length as its source array; true means "retained
// by this cut". Masks from successive cuts compose with elementwise AND,
// so the order of application only affects per-stage bookkeeping, never
// final membership.
//
// The package provides three cuts:
//
//   - [InRange], a closed-interval membership test
//   - [Baseline], a time-dependent quantile cut that tracks a slowly
//     drifting baseline distribution with a per-bin order statistic
//   - [BaselineShift], a resistance-shift cut placed relative to a
//     robust mean obtained through an [OutlierSelector]
//
// # Time-dependent baseline cut
//
// Long acquisition runs drift. A single global threshold either cuts
// into the early data or leaks the late data, so [Baseline] bins the
// run into equal-width time bins, computes the order statistic at the
// configured efficiency inside each bin, and joins the per-bin
// thresholds into a step function ([ThresholdCurve]) that is evaluated
// at every sample's time stamp:
//
//	mask, err := cut.Baseline(t, b, nil, cut.BaselineConfig{
//	    BinWidth:       1000, // seconds per bin
//	    CutEfficiency:  0.9,
//	    PositivePulses: true,
//	})
//
// Time stamps are expected in ascending order; the covered span is
// taken from the first and last retained sample.
//
// NaN values are not sanitized: IEEE comparison semantics make them
// fail every cut, which is the intended way to surface upstream
// data-quality problems rather than mask them.
package cut
