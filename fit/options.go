package fit

import "github.com/slwatkins/rqgo/hist"

// Sidebands names two ranges of the fitted variable flanking a peak,
// used by [SingleGauss] to estimate the local background level. Each
// pair is (low edge, high edge); sidebands reaching beyond the fit
// range are clipped to it.
type Sidebands struct {
	Low  [2]float64
	High [2]float64
}

type config struct {
	histOpts  []hist.Option
	solver    Solver
	sidebands *Sidebands
}

// Option customizes a fit engine call.
type Option func(*config)

// WithRange restricts the histogram (and therefore the fit) to values
// in [lo, hi].
func WithRange(lo, hi float64) Option {
	return func(cfg *config) {
		cfg.histOpts = append(cfg.histOpts, hist.WithRange(lo, hi))
	}
}

// WithBins fixes an explicit histogram bin count.
func WithBins(n int) Option {
	return func(cfg *config) {
		cfg.histOpts = append(cfg.histOpts, hist.WithBins(n))
	}
}

// WithRule selects the histogram bin-count heuristic (default
// [hist.RuleSqrt]).
func WithRule(r hist.Rule) Option {
	return func(cfg *config) {
		cfg.histOpts = append(cfg.histOpts, hist.WithRule(r))
	}
}

// WithSolver replaces the default least-squares solver. Engines that
// tune the default solver (the elevated iteration budget of
// [SaturationFit]) leave a caller-supplied solver untouched.
func WithSolver(s Solver) Option {
	return func(cfg *config) {
		if s != nil {
			cfg.solver = s
		}
	}
}

// WithSidebands enables sideband background subtraction in
// [SingleGauss]. Other engines ignore it.
func WithSidebands(sb Sidebands) Option {
	return func(cfg *config) {
		cfg.sidebands = &sb
	}
}

func applyOptions(opts []Option) config {
	var cfg config

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
