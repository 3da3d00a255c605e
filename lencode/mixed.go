package lencode

import (
	"io"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/juliasilge/embed/glm"
	"github.com/juliasilge/embed/pkg/errors"
	"github.com/juliasilge/embed/pkg/log"
	"github.com/juliasilge/embed/recipe"
	"github.com/juliasilge/embed/table"
)

// full pooling weight used when the between-level variance estimate
// collapses to zero
const fullPoolWeight = 1e6

// MixedStep encodes categorical columns with empirical-Bayes pooled
// means: each level's estimate is shrunk toward the grand mean with
// weight n/(n+λ), so sparsely observed levels borrow strength from the
// whole column. λ comes from the configuration (PoolWeight) or, when
// zero, is estimated from the data by method of moments.
//
// For a two-level factor outcome the pooling happens on the rate of the
// first declared level and the result is reported as log-odds, so
// larger values mean the first level is more likely. The fallback for
// novel levels is the fully pooled (grand) value.
type MixedStep struct {
	stepCore
}

var _ recipe.Step = (*MixedStep)(nil)

// NewMixedStep creates an untrained pooled-means encoding step.
func NewMixedStep(outcome recipe.Selector, selectors []recipe.Selector, opts ...Option) (*MixedStep, error) {
	core, err := newStepCore("lencode_mixed", outcome, selectors, opts)
	if err != nil {
		return nil, err
	}
	return &MixedStep{stepCore: core}, nil
}

// Fit computes the shrunken per-level means for every selected column
// and returns a trained copy of the step.
func (s *MixedStep) Fit(t *table.Table) (recipe.Step, error) {
	cols, info, err := s.prepare(t)
	if err != nil {
		return nil, err
	}

	mappings := make(map[string]*LevelMapping, len(cols))
	for _, name := range cols {
		cd, err := collectColumn(t, name, info)
		if err != nil {
			return nil, err
		}
		if len(cd.y) == 0 {
			return nil, errors.NewFitError(s.kind+".Fit", name, "no usable rows after dropping missing values", errors.ErrEmptyData)
		}
		var m *LevelMapping
		if info.family == glm.Binomial {
			m = s.fitBinary(cd)
		} else {
			m = s.fitNumeric(cd)
		}
		mappings[name] = m
		s.logger.Debug("fit level encoding",
			log.StepIDKey, s.id,
			log.StepTypeKey, s.kind,
			log.OperationKey, "fit",
			log.ColumnKey, name,
			log.OutcomeKey, info.name,
			log.FamilyKey, info.family.String(),
			log.RowsKey, len(cd.y),
			log.LevelsKey, len(cd.levels),
		)
	}

	trained := &MixedStep{stepCore: s.stepCore.withTraining(cols, mappings)}
	return trained, nil
}

// fitNumeric shrinks level means toward the grand mean.
func (s *MixedStep) fitNumeric(cd *columnData) *LevelMapping {
	grand := stat.Mean(cd.y, nil)
	counts := cd.levelCount()
	sums := cd.levelSum()

	lambda := s.cfg.PoolWeight
	if lambda == 0 {
		lambda = estimatePoolWeight(cd, residualVariance(cd))
	}

	values := make([]float64, len(cd.levels))
	for j := range values {
		n := float64(counts[j])
		values[j] = (sums[j] + lambda*grand) / (n + lambda)
	}
	return newLevelMapping(cd.levels, values, grand)
}

// fitBinary shrinks per-level rates of the first outcome level toward
// the pooled rate and reports log-odds.
func (s *MixedStep) fitBinary(cd *columnData) *LevelMapping {
	counts := cd.levelCount()
	secondSums := cd.levelSum() // y is 1 for the second outcome level

	total := float64(len(cd.y))
	totalFirst := 0.0
	for j := range counts {
		totalFirst += float64(counts[j]) - secondSums[j]
	}
	pooled := clampRate(totalFirst / total)

	lambda := s.cfg.PoolWeight
	if lambda == 0 {
		lambda = estimatePoolWeight(cd, pooled*(1-pooled))
	}

	values := make([]float64, len(cd.levels))
	for j := range values {
		n := float64(counts[j])
		first := n - secondSums[j]
		rate := clampRate((first + lambda*pooled) / (n + lambda))
		values[j] = logit(rate)
	}
	return newLevelMapping(cd.levels, values, logit(pooled))
}

// Bake replaces each encoded column's values with their trained
// numeric encodings, substituting the fallback for novel levels.
func (s *MixedStep) Bake(t *table.Table) (*table.Table, error) {
	return s.bake(t)
}

// Tidy reports the trained (terms, level, value, id) rows.
func (s *MixedStep) Tidy() (*recipe.Tidy, error) {
	return s.tidy()
}

// Describe writes a one-line summary of the step.
func (s *MixedStep) Describe(w io.Writer) error {
	return s.describe(w, "Linear embedding for factors via mixed effects")
}

// estimatePoolWeight derives the shrinkage weight λ = σ²/τ² by method
// of moments: σ² is the within-level variance, τ² the between-level
// variance of the raw level means after removing the sampling noise.
// When the between-level variance collapses, full pooling is used.
func estimatePoolWeight(cd *columnData, sigma2 float64) float64 {
	counts := cd.levelCount()
	sums := cd.levelSum()
	if len(counts) < 2 {
		return fullPoolWeight
	}

	means := make([]float64, len(counts))
	invN := 0.0
	for j := range counts {
		means[j] = sums[j] / float64(counts[j])
		invN += 1 / float64(counts[j])
	}
	invN /= float64(len(counts))

	tau2 := stat.Variance(means, nil) - sigma2*invN
	if tau2 <= 0 || math.IsNaN(tau2) {
		return fullPoolWeight
	}
	return sigma2 / tau2
}

// clampRate keeps a pooled rate away from 0 and 1 so its log-odds stay
// finite.
func clampRate(p float64) float64 {
	const eps = 1e-6
	if p < eps {
		return eps
	}
	if p > 1-eps {
		return 1 - eps
	}
	return p
}
