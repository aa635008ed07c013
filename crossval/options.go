package crossval

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/crossval/pkg/errors"
	"github.com/YuminosukeSato/crossval/pkg/log"
)

// Option configures an evaluation run.
type Option func(*runConfig)

type runConfig struct {
	logger log.Logger
	rng    *rand.Rand
	onSkip func(*errors.UnknownLabelWarning)
	runID  string
}

func newRunConfig(opts []Option) *runConfig {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLogger()
	}
	return cfg
}

// WithLogger sets the logger of the run. The default is log.GetLogger().
func WithLogger(l log.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

// WithRand sets the generator used by randomized schemes such as k-fold.
func WithRand(r *rand.Rand) Option {
	return func(c *runConfig) {
		c.rng = r
	}
}

// WithSeed is WithRand with a PCG generator seeded by seed.
func WithSeed(seed uint64) Option {
	return func(c *runConfig) {
		c.rng = NewSeededRand(seed)
	}
}

// WithSkipHandler registers fn to observe every (actual, predicted) pair
// dropped because one of its labels is outside the label set.
func WithSkipHandler(fn func(*errors.UnknownLabelWarning)) Option {
	return func(c *runConfig) {
		c.onSkip = fn
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(c *runConfig) {
		c.runID = id
	}
}
