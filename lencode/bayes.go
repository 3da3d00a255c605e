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

// BayesStep encodes categorical columns with per-level conjugate
// posterior means under a configurable prior.
//
// For a numeric outcome each level's value is the normal-normal
// posterior mean: the prior Normal(grand mean, PriorSD²) combined with
// the level's observations under the estimated residual variance. For
// a two-level factor outcome each level's rate of the first declared
// level gets a Beta(PriorShape1, PriorShape2) prior, and the posterior
// mean rate is reported on the log-odds scale, so larger values mean
// the first level is more likely.
//
// The fallback for novel levels is the population estimate: the prior
// mean for numeric outcomes, the pooled posterior log-odds for factor
// outcomes.
type BayesStep struct {
	stepCore
}

var _ recipe.Step = (*BayesStep)(nil)

// NewBayesStep creates an untrained Bayesian encoding step.
func NewBayesStep(outcome recipe.Selector, selectors []recipe.Selector, opts ...Option) (*BayesStep, error) {
	core, err := newStepCore("lencode_bayes", outcome, selectors, opts)
	if err != nil {
		return nil, err
	}
	return &BayesStep{stepCore: core}, nil
}

// Fit computes the per-level posterior means for every selected column
// and returns a trained copy of the step.
func (s *BayesStep) Fit(t *table.Table) (recipe.Step, error) {
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

	trained := &BayesStep{stepCore: s.stepCore.withTraining(cols, mappings)}
	return trained, nil
}

// fitNumeric computes normal-normal posterior means per level.
func (s *BayesStep) fitNumeric(cd *columnData) *LevelMapping {
	grand := stat.Mean(cd.y, nil)
	sigma2 := residualVariance(cd)
	tau2 := s.cfg.PriorSD * s.cfg.PriorSD

	counts := cd.levelCount()
	sums := cd.levelSum()
	values := make([]float64, len(cd.levels))
	for j := range values {
		n := float64(counts[j])
		// precision-weighted combination of prior and data
		post := (grand/tau2 + sums[j]/sigma2) / (1/tau2 + n/sigma2)
		values[j] = post
	}
	return newLevelMapping(cd.levels, values, grand)
}

// fitBinary computes Beta-Binomial posterior mean rates of the first
// outcome level and reports them as log-odds.
func (s *BayesStep) fitBinary(cd *columnData) *LevelMapping {
	a, b := s.cfg.PriorShape1, s.cfg.PriorShape2

	counts := cd.levelCount()
	secondSums := cd.levelSum() // y is 1 for the second outcome level
	values := make([]float64, len(cd.levels))
	totalFirst := 0.0
	for j := range values {
		n := float64(counts[j])
		first := n - secondSums[j]
		totalFirst += first
		values[j] = logit((a + first) / (a + b + n))
	}
	n := float64(len(cd.y))
	fallback := logit((a + totalFirst) / (a + b + n))
	return newLevelMapping(cd.levels, values, fallback)
}

// Bake replaces each encoded column's values with their trained
// numeric encodings, substituting the fallback for novel levels.
func (s *BayesStep) Bake(t *table.Table) (*table.Table, error) {
	return s.bake(t)
}

// Tidy reports the trained (terms, level, value, id) rows.
func (s *BayesStep) Tidy() (*recipe.Tidy, error) {
	return s.tidy()
}

// Describe writes a one-line summary of the step.
func (s *BayesStep) Describe(w io.Writer) error {
	return s.describe(w, "Linear embedding for factors via Bayesian GLM")
}

// residualVariance estimates the within-level outcome variance pooled
// across levels, falling back to the overall variance (or 1 when
// degenerate) so the posterior weights stay finite.
func residualVariance(cd *columnData) float64 {
	counts := cd.levelCount()
	sums := cd.levelSum()
	means := make([]float64, len(cd.levels))
	for j := range means {
		means[j] = sums[j] / float64(counts[j])
	}

	rss := 0.0
	for i, j := range cd.rowLevel {
		d := cd.y[i] - means[j]
		rss += d * d
	}
	dof := len(cd.y) - len(cd.levels)
	if dof > 0 && rss > 0 {
		return rss / float64(dof)
	}
	if v := stat.Variance(cd.y, nil); v > 0 && !math.IsNaN(v) {
		return v
	}
	return 1.0
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}
