package cut

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/slwatkins/rqgo"
)

var (
	ErrLengthMismatch  = fmt.Errorf("cut: arrays differ in length: %w", rqgo.ErrData)
	ErrEmptySelection  = fmt.Errorf("cut: no samples retained by the prior mask: %w", rqgo.ErrData)
	ErrEfficiencyRange = fmt.Errorf("cut: cut efficiency must be in [0, 1]: %w", rqgo.ErrConfiguration)
	ErrTimeSpan        = fmt.Errorf("cut: time span covers no complete bins: %w", rqgo.ErrConfiguration)
	ErrLoopResistance  = fmt.Errorf("cut: loop resistance must be positive: %w", rqgo.ErrConfiguration)
)

// InRange returns a mask that is true wherever lower <= vals[i] <= upper,
// inclusive of both bounds. NaN values compare false and are therefore
// never retained. For lower > upper the mask is all false.
func InRange(vals []float64, lower, upper float64) []bool {
	mask := make([]bool, len(vals))
	for i, v := range vals {
		mask[i] = v >= lower && v <= upper
	}

	return mask
}

// BaselineConfig holds the parameters of the time-dependent baseline cut.
type BaselineConfig struct {
	// BinWidth is the length in time of one quantile bin, in the same
	// units as the time array. Zero or negative selects the default of
	// 1000.
	BinWidth float64

	// CutEfficiency is the target fraction of samples each bin should
	// retain, in [0, 1]. The zero value selects the default of 0.9, so
	// an exact zero efficiency cannot be requested; pass a vanishingly
	// small value to cut nearly everything.
	CutEfficiency float64

	// PositivePulses gives the pulse polarity, which determines the
	// direction of the baseline distribution's tail and therefore which
	// side of the threshold is kept.
	PositivePulses bool
}

// DefaultBaselineConfig returns the standard cut parameters: 1000-unit
// bins, 90% efficiency, positive pulses.
func DefaultBaselineConfig() BaselineConfig {
	return BaselineConfig{
		BinWidth:       1000,
		CutEfficiency:  0.9,
		PositivePulses: true,
	}
}

func normalizeBaselineConfig(cfg BaselineConfig) BaselineConfig {
	def := DefaultBaselineConfig()

	if cfg.BinWidth <= 0 {
		cfg.BinWidth = def.BinWidth
	}

	if cfg.CutEfficiency == 0 {
		cfg.CutEfficiency = def.CutEfficiency
	}

	return cfg
}

// Baseline computes the time-dependent quantile baseline cut.
//
// The samples retained by prior (nil means all) are partitioned into
// equal-width time bins, the order statistic at the configured
// efficiency is computed inside each bin, and the resulting
// [ThresholdCurve] is evaluated at every original time value. Samples
// below the threshold are kept for positive pulses, samples above it
// for negative pulses. The returned mask is ANDed with prior.
//
// The time array must be in ascending order.
func Baseline(t, b []float64, prior []bool, cfg BaselineConfig) ([]bool, error) {
	curve, err := BaselineCurve(t, b, prior, cfg)
	if err != nil {
		return nil, err
	}

	cfg = normalizeBaselineConfig(cfg)

	mask := make([]bool, len(b))

	for i := range b {
		threshold := curve.Eval(t[i])

		var pass bool
		if cfg.PositivePulses {
			pass = b[i] < threshold
		} else {
			pass = b[i] > threshold
		}

		mask[i] = pass && (prior == nil || prior[i])
	}

	return mask, nil
}

// BaselineCurve computes the threshold curve used by [Baseline] without
// evaluating it, so callers can inspect the per-bin thresholds.
func BaselineCurve(t, b []float64, prior []bool, cfg BaselineConfig) (ThresholdCurve, error) {
	if len(t) != len(b) {
		return ThresholdCurve{}, fmt.Errorf("%w: time %d, values %d", ErrLengthMismatch, len(t), len(b))
	}

	if prior != nil && len(prior) != len(b) {
		return ThresholdCurve{}, fmt.Errorf("%w: prior mask %d, values %d", ErrLengthMismatch, len(prior), len(b))
	}

	cfg = normalizeBaselineConfig(cfg)

	if cfg.CutEfficiency < 0 || cfg.CutEfficiency > 1 {
		return ThresholdCurve{}, fmt.Errorf("%w: got %v", ErrEfficiencyRange, cfg.CutEfficiency)
	}

	tSel, bSel := restrict(t, b, prior)
	if len(tSel) == 0 {
		return ThresholdCurve{}, ErrEmptySelection
	}

	span := tSel[len(tSel)-1] - tSel[0]

	nbins := int(span / cfg.BinWidth)
	if nbins < 1 {
		return ThresholdCurve{}, fmt.Errorf("%w: span %g with bin width %g", ErrTimeSpan, span, cfg.BinWidth)
	}

	// The per-bin statistic is always computed for the upper-tail-kept
	// convention; negative polarity complements the efficiency instead
	// of changing the bin statistic, so only the final comparison in
	// Baseline flips.
	eff := cfg.CutEfficiency
	if !cfg.PositivePulses {
		eff = 1 - eff
	}

	return newThresholdCurve(tSel, bSel, nbins, eff), nil
}

// BaselineShiftConfig holds the circuit parameters of the
// resistance-shift baseline cut.
type BaselineShiftConfig struct {
	R0    float64 // operating resistance
	I0    float64 // quiescent operating current
	RLoad float64 // load resistance of the readout circuit
	DR    float64 // resistance shift at which to place the cut; zero selects 0.1e-3
}

// OutlierSelector picks a robust subset of a sample. Select returns a
// mask over vals that is true for the elements judged to be inliers.
// It is used as a black box to obtain a robust mean; implementations
// must be deterministic for reproducible cuts.
type OutlierSelector interface {
	Select(vals []float64) []bool
}

// SigmaClipSelector is the default [OutlierSelector]: iterative z-score
// clipping. Each pass drops elements farther than NSigma sample standard
// deviations from the mean of the surviving set, until a pass drops
// nothing or MaxIter passes have run.
type SigmaClipSelector struct {
	NSigma  float64 // zero selects 2.5
	MaxIter int     // zero selects 20
}

// Select implements [OutlierSelector].
func (s SigmaClipSelector) Select(vals []float64) []bool {
	nsigma := s.NSigma
	if nsigma <= 0 {
		nsigma = 2.5
	}

	maxIter := s.MaxIter
	if maxIter <= 0 {
		maxIter = 20
	}

	mask := make([]bool, len(vals))
	for i := range mask {
		mask[i] = true
	}

	kept := make([]float64, 0, len(vals))

	for iter := 0; iter < maxIter; iter++ {
		kept = kept[:0]

		for i, v := range vals {
			if mask[i] {
				kept = append(kept, v)
			}
		}

		if len(kept) < 2 {
			break
		}

		mean, std := stat.MeanStdDev(kept, nil)

		dropped := 0

		for i, v := range vals {
			if !mask[i] {
				continue
			}

			d := v - mean
			if d < -nsigma*std || d > nsigma*std {
				mask[i] = false
				dropped++
			}
		}

		if dropped == 0 {
			break
		}
	}

	return mask
}

// BaselineShift places a cut below the robust baseline mean, offset by
// the current shift corresponding to a resistance change of cfg.DR:
//
//	keep vals[i] < mean - DR/(R0+DR+RLoad) * I0
//
// The robust mean is taken over the inliers that sel picks from the
// samples retained by prior (nil prior means all samples, nil sel means
// a default [SigmaClipSelector]). The returned mask covers the full
// array and is not combined with prior.
func BaselineShift(vals []float64, cfg BaselineShiftConfig, prior []bool, sel OutlierSelector) ([]bool, error) {
	if prior != nil && len(prior) != len(vals) {
		return nil, fmt.Errorf("%w: prior mask %d, values %d", ErrLengthMismatch, len(prior), len(vals))
	}

	if cfg.DR == 0 {
		cfg.DR = 0.1e-3
	}

	if cfg.R0+cfg.DR+cfg.RLoad <= 0 {
		return nil, fmt.Errorf("%w: r0 %g, dr %g, rload %g", ErrLoopResistance, cfg.R0, cfg.DR, cfg.RLoad)
	}

	if sel == nil {
		sel = SigmaClipSelector{}
	}

	base := vals
	if prior != nil {
		base = make([]float64, 0, len(vals))
		for i, v := range vals {
			if prior[i] {
				base = append(base, v)
			}
		}
	}

	if len(base) == 0 {
		return nil, ErrEmptySelection
	}

	inliers := sel.Select(base)

	robust := make([]float64, 0, len(base))
	for i, v := range base {
		if inliers[i] {
			robust = append(robust, v)
		}
	}

	if len(robust) == 0 {
		return nil, ErrEmptySelection
	}

	mean := stat.Mean(robust, nil)
	di := -(cfg.DR / (cfg.R0 + cfg.DR + cfg.RLoad) * cfg.I0)
	threshold := mean + di

	mask := make([]bool, len(vals))
	for i, v := range vals {
		mask[i] = v < threshold
	}

	return mask, nil
}

// restrict returns the elements of t and b retained by prior, preserving
// order. A nil prior returns the inputs unchanged.
func restrict(t, b []float64, prior []bool) ([]float64, []float64) {
	if prior == nil {
		return t, b
	}

	tSel := make([]float64, 0, len(t))
	bSel := make([]float64, 0, len(b))

	for i := range prior {
		if prior[i] {
			tSel = append(tSel, t[i])
			bSel = append(bSel, b[i])
		}
	}

	return tSel, bSel
}
