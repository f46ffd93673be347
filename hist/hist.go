// Package hist bins raw samples into one-dimensional histograms with
// the bin-count heuristics familiar from plotting libraries. It is the
// shared front end of the spectral fit engines: fits consume the bin
// centers as abscissa and the counts as Poisson-distributed ordinates.
package hist

import (
	"fmt"
	"math"

	"github.com/slwatkins/rqgo"
)

// ErrEmptyInput is returned when there are no values to bin, either
// because the input is empty or because the requested range excludes
// everything.
var ErrEmptyInput = fmt.Errorf("hist: no values to bin: %w", rqgo.ErrData)

// Rule selects a bin-count heuristic applied to the number of in-range
// samples n.
type Rule int

const (
	// RuleSqrt uses ceil(sqrt(n)) bins. This is the default.
	RuleSqrt Rule = iota

	// RuleSturges uses ceil(log2(n)) + 1 bins.
	RuleSturges

	// RuleRice uses ceil(2 * cbrt(n)) bins.
	RuleRice
)

// Result holds a binned sample. Edges has one more element than
// Centers and Counts; Centers[i] is the midpoint of
// [Edges[i], Edges[i+1]]. Counts are float64 so they can feed a
// weighted fit directly.
type Result struct {
	Centers []float64
	Counts  []float64
	Edges   []float64
}

type config struct {
	lo, hi   float64
	hasRange bool
	bins     int
	rule     Rule
}

// Option customizes BinData.
type Option func(*config)

// WithRange restricts binning to values in [lo, hi]; values outside are
// ignored, not clamped.
func WithRange(lo, hi float64) Option {
	return func(cfg *config) {
		cfg.lo = lo
		cfg.hi = hi
		cfg.hasRange = true
	}
}

// WithBins fixes an explicit bin count, overriding the heuristic rule.
func WithBins(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.bins = n
		}
	}
}

// WithRule selects the bin-count heuristic. Ignored when WithBins is
// also given.
func WithRule(r Rule) Option {
	return func(cfg *config) {
		cfg.rule = r
	}
}

// BinData bins vals into equal-width bins over the data range (or the
// range given with [WithRange]). All bins are closed on the left and
// open on the right except the final bin, which includes the upper
// edge. Empty input fails fast with [ErrEmptyInput] instead of
// propagating NaNs downstream.
func BinData(vals []float64, opts ...Option) (Result, error) {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	lo, hi := cfg.lo, cfg.hi
	if !cfg.hasRange {
		lo, hi = dataRange(vals)
	}

	n := 0

	for _, v := range vals {
		if v >= lo && v <= hi {
			n++
		}
	}

	if n == 0 {
		return Result{}, ErrEmptyInput
	}

	// Degenerate all-equal data gets a unit-wide range around the value.
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	nbins := cfg.bins
	if nbins <= 0 {
		nbins = binCount(cfg.rule, n)
	}

	width := (hi - lo) / float64(nbins)

	res := Result{
		Centers: make([]float64, nbins),
		Counts:  make([]float64, nbins),
		Edges:   make([]float64, nbins+1),
	}

	for i := 0; i <= nbins; i++ {
		res.Edges[i] = lo + float64(i)*width
	}

	res.Edges[nbins] = hi

	for i := 0; i < nbins; i++ {
		res.Centers[i] = lo + (float64(i)+0.5)*width
	}

	for _, v := range vals {
		if v < lo || v > hi {
			continue
		}

		idx := int((v - lo) / width)
		if idx >= nbins {
			idx = nbins - 1
		}

		res.Counts[idx]++
	}

	return res, nil
}

func binCount(r Rule, n int) int {
	switch r {
	case RuleSturges:
		return int(math.Ceil(math.Log2(float64(n)))) + 1
	case RuleRice:
		return int(math.Ceil(2 * math.Cbrt(float64(n))))
	default:
		return int(math.Ceil(math.Sqrt(float64(n))))
	}
}

// dataRange returns the min and max of vals, skipping NaNs through the
// comparison semantics.
func dataRange(vals []float64) (lo, hi float64) {
	lo = math.Inf(1)
	hi = math.Inf(-1)

	for _, v := range vals {
		if v < lo {
			lo = v
		}

		if v > hi {
			hi = v
		}
	}

	return lo, hi
}
