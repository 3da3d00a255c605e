// Package recipe provides the minimal two-phase pipeline contract the
// encoding steps plug into: column selectors resolved against a table
// at training time, a Step interface with a train-then-apply lifecycle,
// and an ordered Recipe that preps and bakes its steps in declaration
// order.
package recipe

import (
	"io"

	"github.com/juliasilge/embed/pkg/errors"
	"github.com/juliasilge/embed/table"
)

// Step is one preprocessing step of a recipe. Fit never mutates the
// receiver: it returns a new, trained Step value.
type Step interface {
	// ID is the step's stable identifier.
	ID() string

	// Trained reports whether Fit has produced this step.
	Trained() bool

	// Skip reports whether Bake should pass new data through untouched.
	Skip() bool

	// Fit trains the step on the given data and returns a trained copy.
	Fit(t *table.Table) (Step, error)

	// Bake applies the trained step to new data, returning a new table.
	Bake(t *table.Table) (*table.Table, error)

	// Describe writes a one-line human-readable summary of the step.
	Describe(w io.Writer) error

	// Tidy returns the step's parameters as a flat table.
	Tidy() (*Tidy, error)
}

// TidyRow is one row of a step's tidy report.
type TidyRow struct {
	Terms string  // encoded column name (or unresolved selector before training)
	Level string  // categorical level; empty before training
	Value float64 // encoded value; NaN before training
	ID    string  // step id
}

// Tidy is the flat-table report of a step's trained parameters.
type Tidy struct {
	Rows []TidyRow
}

// Recipe is an ordered list of steps trained and applied in sequence.
type Recipe struct {
	steps []Step
}

// NewRecipe creates an empty recipe.
func NewRecipe() *Recipe {
	return &Recipe{}
}

// Add appends a step specification and returns the recipe for chaining.
func (r *Recipe) Add(s Step) *Recipe {
	r.steps = append(r.steps, s)
	return r
}

// Steps returns the steps in declaration order.
func (r *Recipe) Steps() []Step {
	return r.steps
}

// Prep trains every step in order. Each step is fit on the training
// data as transformed by the steps before it, then applied so the next
// step sees its output. The receiver is untouched; a new recipe holding
// the trained steps is returned.
func (r *Recipe) Prep(train *table.Table) (*Recipe, error) {
	cur := train
	prepped := &Recipe{steps: make([]Step, 0, len(r.steps))}
	for _, s := range r.steps {
		trained, err := s.Fit(cur)
		if err != nil {
			return nil, err
		}
		cur, err = trained.Bake(cur)
		if err != nil {
			return nil, err
		}
		prepped.steps = append(prepped.steps, trained)
	}
	return prepped, nil
}

// Bake applies every trained step in order to new data. Steps marked
// Skip are passed over. An untrained step is an error.
func (r *Recipe) Bake(t *table.Table) (*table.Table, error) {
	cur := t
	for _, s := range r.steps {
		if !s.Trained() {
			return nil, errors.NewNotTrainedError(s.ID(), "Bake")
		}
		if s.Skip() {
			continue
		}
		var err error
		cur, err = s.Bake(cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// CheckNominal validates that every named column exists and holds
// categorical data.
func CheckNominal(op string, t *table.Table, cols []string) error {
	for _, name := range cols {
		col, err := t.Column(name)
		if err != nil {
			return err
		}
		if !table.Nominal(col) {
			return errors.NewTypeError(op, name, "nominal", col.Kind().String())
		}
	}
	return nil
}
