// Package config holds the tunable fitting parameters shared by the
// encoding steps, with defaults that match the reference behavior and
// optional loading from a YAML file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/juliasilge/embed/pkg/errors"
)

// Config collects the knobs of the three encoding strategies. A zero
// value is not usable; start from New and override.
type Config struct {
	// GLM fitting
	MaxIter      int     `yaml:"max_iter" json:"max_iter"`           // iteration budget for the binomial IRLS fit
	Tol          float64 `yaml:"tol" json:"tol"`                     // relative deviance-change convergence tolerance
	TrimFraction float64 `yaml:"trim_fraction" json:"trim_fraction"` // per-tail trim for the fallback trimmed mean

	// Bayesian encoding priors
	PriorSD     float64 `yaml:"prior_sd" json:"prior_sd"`         // normal prior sd for numeric outcomes
	PriorShape1 float64 `yaml:"prior_shape1" json:"prior_shape1"` // Beta prior alpha for two-level outcomes
	PriorShape2 float64 `yaml:"prior_shape2" json:"prior_shape2"` // Beta prior beta for two-level outcomes

	// Empirical-Bayes pooling
	PoolWeight float64 `yaml:"pool_weight" json:"pool_weight"` // pseudo-count weight toward the grand mean; 0 = estimate from data
}

// Default configuration values.
const (
	DefaultMaxIter      = 25
	DefaultTol          = 1e-8
	DefaultTrimFraction = 0.10
	DefaultPriorSD      = 1.0
	DefaultPriorShape1  = 1.0
	DefaultPriorShape2  = 1.0
)

// New returns a Config with the default values.
func New() Config {
	return Config{
		MaxIter:      DefaultMaxIter,
		Tol:          DefaultTol,
		TrimFraction: DefaultTrimFraction,
		PriorSD:      DefaultPriorSD,
		PriorShape1:  DefaultPriorShape1,
		PriorShape2:  DefaultPriorShape2,
		PoolWeight:   0,
	}
}

// LoadFile reads a YAML file over the defaults: fields absent from the
// file keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := New()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that every field is inside its legal range.
func (c Config) Validate() error {
	if c.MaxIter < 1 {
		return errors.NewConfigError("max_iter", "must be at least 1", c.MaxIter)
	}
	if c.Tol <= 0 {
		return errors.NewConfigError("tol", "must be positive", c.Tol)
	}
	if c.TrimFraction < 0 || c.TrimFraction >= 0.5 {
		return errors.NewConfigError("trim_fraction", "must be in [0, 0.5)", c.TrimFraction)
	}
	if c.PriorSD <= 0 {
		return errors.NewConfigError("prior_sd", "must be positive", c.PriorSD)
	}
	if c.PriorShape1 <= 0 || c.PriorShape2 <= 0 {
		return errors.NewConfigError("prior_shape", "Beta prior shapes must be positive", [2]float64{c.PriorShape1, c.PriorShape2})
	}
	if c.PoolWeight < 0 {
		return errors.NewConfigError("pool_weight", "must be non-negative", c.PoolWeight)
	}
	return nil
}
