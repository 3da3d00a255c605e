package lencode

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/juliasilge/embed/glm"
	"github.com/juliasilge/embed/pkg/errors"
	"github.com/juliasilge/embed/pkg/log"
	"github.com/juliasilge/embed/recipe"
	"github.com/juliasilge/embed/table"
)

// GLMStep encodes categorical columns with per-level coefficients from
// a no-intercept generalized linear model of the outcome on the column:
// a gaussian fit when the outcome is numeric, a binomial fit when it is
// a two-level factor. Every observed level gets its own coefficient on
// the linear-predictor scale; levels unseen during training fall back
// to the trimmed mean of the observed coefficients.
//
// For two-level outcomes the fit models the probability of the second
// declared level, and the stored coefficients are sign-flipped so that
// larger values mean the first level is more likely. Consumers of the
// encoding depend on that convention.
type GLMStep struct {
	stepCore
}

var _ recipe.Step = (*GLMStep)(nil)

// NewGLMStep creates an untrained GLM encoding step. The outcome
// selector must resolve to one numeric or two-level factor column at
// training time; the remaining selectors pick the categorical columns
// to encode.
func NewGLMStep(outcome recipe.Selector, selectors []recipe.Selector, opts ...Option) (*GLMStep, error) {
	core, err := newStepCore("lencode_glm", outcome, selectors, opts)
	if err != nil {
		return nil, err
	}
	return &GLMStep{stepCore: core}, nil
}

// Fit trains the step: one independent no-intercept GLM per selected
// column, producing a level-to-coefficient mapping plus a fallback for
// novel levels. The receiver is not modified; a trained copy is
// returned.
func (s *GLMStep) Fit(t *table.Table) (recipe.Step, error) {
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
		m, iters, err := s.fitColumn(name, cd, info.family)
		if err != nil {
			return nil, err
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
			log.IterationsKey, iters,
		)
	}

	trained := &GLMStep{stepCore: s.stepCore.withTraining(cols, mappings)}
	return trained, nil
}

// fitColumn runs the per-column regression and assembles the mapping.
func (s *GLMStep) fitColumn(name string, cd *columnData, family glm.Family) (*LevelMapping, int, error) {
	op := s.kind + ".Fit"
	if len(cd.y) == 0 {
		return nil, 0, errors.NewFitError(op, name, "no usable rows after dropping missing values", errors.ErrEmptyData)
	}

	// One indicator column per observed level, no baseline collapsed
	// away.
	X := mat.NewDense(len(cd.y), len(cd.levels), nil)
	for i, j := range cd.rowLevel {
		X.Set(i, j, 1)
	}

	res, err := glm.FitNoIntercept(X, cd.y, family, glm.Options{MaxIter: s.cfg.MaxIter, Tol: s.cfg.Tol})
	if err != nil {
		return nil, 0, errors.NewFitError(op, name, "regression failed", err)
	}

	coef := res.Coef
	if family == glm.Binomial {
		// The fit models P(second level); flip so larger means the
		// first level is more likely.
		for j := range coef {
			coef[j] = -coef[j]
		}
	}

	fallback := trimmedMean(coef, s.cfg.TrimFraction)
	return newLevelMapping(cd.levels, coef, fallback), res.Iterations, nil
}

// Bake replaces each encoded column's values with their trained
// numeric encodings, substituting the fallback for novel levels.
func (s *GLMStep) Bake(t *table.Table) (*table.Table, error) {
	return s.bake(t)
}

// Tidy reports the trained (terms, level, value, id) rows.
func (s *GLMStep) Tidy() (*recipe.Tidy, error) {
	return s.tidy()
}

// Describe writes a one-line summary of the step.
func (s *GLMStep) Describe(w io.Writer) error {
	return s.describe(w, "Linear embedding for factors via GLM")
}
