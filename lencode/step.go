package lencode

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/juliasilge/embed/config"
	"github.com/juliasilge/embed/glm"
	"github.com/juliasilge/embed/pkg/errors"
	"github.com/juliasilge/embed/pkg/log"
	"github.com/juliasilge/embed/recipe"
	"github.com/juliasilge/embed/table"
)

// stepCore carries the state shared by the three encoding strategies:
// identity, lifecycle flags, selectors, configuration, and the trained
// per-column mappings. The strategy types embed it by value, so a
// trained step is a fresh copy and the original spec stays untrained.
type stepCore struct {
	id      string
	kind    string
	skip    bool
	trained bool

	selectors []recipe.Selector
	outcome   recipe.Selector
	cfg       config.Config
	logger    log.Logger

	// populated by Fit
	columns  []string
	mappings map[string]*LevelMapping
}

// Option configures a step at construction time.
type Option func(*stepCore)

// WithID overrides the generated step identifier.
func WithID(id string) Option {
	return func(c *stepCore) { c.id = id }
}

// WithSkip marks the step to be passed over when baking new data.
func WithSkip(skip bool) Option {
	return func(c *stepCore) { c.skip = skip }
}

// WithConfig overrides the default fitting configuration.
func WithConfig(cfg config.Config) Option {
	return func(c *stepCore) { c.cfg = cfg }
}

// WithLogger sets the logger the step reports fit/bake events to.
func WithLogger(l log.Logger) Option {
	return func(c *stepCore) { c.logger = l }
}

// WithMappings supplies pretrained per-column mappings, producing a
// step that is already trained and encodes exactly those columns.
func WithMappings(mappings map[string]*LevelMapping) Option {
	return func(c *stepCore) {
		c.mappings = mappings
		c.columns = make([]string, 0, len(mappings))
		for name := range mappings {
			c.columns = append(c.columns, name)
		}
		sort.Strings(c.columns)
		c.trained = true
	}
}

func newStepCore(kind string, outcome recipe.Selector, selectors []recipe.Selector, opts []Option) (stepCore, error) {
	c := stepCore{
		kind:      kind,
		selectors: selectors,
		outcome:   outcome,
		cfg:       config.New(),
		logger:    log.GetLogger(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.outcome == nil {
		return c, errors.NewConfigError("outcome", "an outcome selector is required", nil)
	}
	if err := c.cfg.Validate(); err != nil {
		return c, err
	}
	if c.id == "" {
		c.id = recipe.RandID(kind)
	}
	return c, nil
}

// outcomeInfo describes the resolved outcome column.
type outcomeInfo struct {
	name   string
	family glm.Family
	// for two-level factor outcomes: the declared level order. The fit
	// models the probability of second; stored values follow the
	// convention that larger means first is more likely.
	first  string
	second string
}

// prepare resolves the outcome and predictor selectors against the
// training data and validates their types.
func (c *stepCore) prepare(t *table.Table) ([]string, outcomeInfo, error) {
	op := c.kind + ".Fit"
	var info outcomeInfo

	outCols, err := c.outcome.Resolve(t)
	if err != nil {
		return nil, info, err
	}
	if len(outCols) != 1 {
		return nil, info, errors.NewConfigError("outcome", "outcome selector must resolve to exactly one column", outCols)
	}
	info.name = outCols[0]

	outCol, err := t.Column(info.name)
	if err != nil {
		return nil, info, err
	}
	switch col := outCol.(type) {
	case *table.NumericColumn:
		info.family = glm.Gaussian
	case *table.FactorColumn:
		levels := col.Levels()
		if len(levels) != 2 {
			return nil, info, errors.NewTypeError(op, info.name, "numeric or two-level factor", fmt.Sprintf("factor with %d levels", len(levels)))
		}
		info.family = glm.Binomial
		info.first, info.second = levels[0], levels[1]
	default:
		return nil, info, errors.NewTypeError(op, info.name, "numeric or two-level factor", outCol.Kind().String())
	}

	cols, err := recipe.ResolveSelectors(t, c.selectors)
	if err != nil {
		return nil, info, err
	}
	// The outcome can be swept up by a broad selector; never encode it.
	filtered := cols[:0]
	for _, name := range cols {
		if name != info.name {
			filtered = append(filtered, name)
		}
	}
	cols = filtered

	if err := recipe.CheckNominal(op, t, cols); err != nil {
		return nil, info, err
	}
	return cols, info, nil
}

// columnData is one predictor column reduced to complete cases: rows
// with a missing outcome or predictor value are dropped from the fit.
type columnData struct {
	levels   []string // distinct observed levels, sorted
	rowLevel []int    // level index per usable row
	y        []float64
}

// levelCount returns per-level row counts.
func (cd *columnData) levelCount() []int {
	counts := make([]int, len(cd.levels))
	for _, j := range cd.rowLevel {
		counts[j]++
	}
	return counts
}

// levelSum returns per-level outcome sums.
func (cd *columnData) levelSum() []float64 {
	sums := make([]float64, len(cd.levels))
	for i, j := range cd.rowLevel {
		sums[j] += cd.y[i]
	}
	return sums
}

// collectColumn gathers the complete cases of one predictor column. For
// a two-level factor outcome, y is 1 when the outcome equals the second
// declared level, matching the probability the binomial fit models.
func collectColumn(t *table.Table, name string, info outcomeInfo) (*columnData, error) {
	pred, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	outCol, err := t.Column(info.name)
	if err != nil {
		return nil, err
	}

	rows := t.NumRows()
	rawLevels := make([]string, 0, rows)
	ys := make([]float64, 0, rows)
	for i := 0; i < rows; i++ {
		if pred.Missing(i) || outCol.Missing(i) {
			continue
		}
		rawLevels = append(rawLevels, table.NominalValue(pred, i))
		switch info.family {
		case glm.Binomial:
			fc := outCol.(*table.FactorColumn)
			if fc.Value(i) == info.second {
				ys = append(ys, 1)
			} else {
				ys = append(ys, 0)
			}
		default:
			ys = append(ys, outCol.(*table.NumericColumn).Value(i))
		}
	}

	seen := make(map[string]struct{}, 8)
	var levels []string
	for _, lv := range rawLevels {
		if _, ok := seen[lv]; !ok {
			seen[lv] = struct{}{}
			levels = append(levels, lv)
		}
	}
	sort.Strings(levels)

	index := make(map[string]int, len(levels))
	for j, lv := range levels {
		index[lv] = j
	}
	rowLevel := make([]int, len(rawLevels))
	for i, lv := range rawLevels {
		rowLevel[i] = index[lv]
	}

	return &columnData{levels: levels, rowLevel: rowLevel, y: ys}, nil
}

// ID returns the step identifier.
func (c *stepCore) ID() string { return c.id }

// Trained reports whether the step carries fitted mappings.
func (c *stepCore) Trained() bool { return c.trained }

// Skip reports whether the step is passed over on new data.
func (c *stepCore) Skip() bool { return c.skip }

// Columns returns the encoded column names of a trained step.
func (c *stepCore) Columns() []string {
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

// Mapping returns the trained mapping for one column, or nil.
func (c *stepCore) Mapping(column string) *LevelMapping {
	return c.mappings[column]
}

// bake substitutes each encoded column with its looked-up numeric
// values. Novel levels get the fallback; a missing predictor value
// stays missing (NaN). Row order is preserved and untouched columns are
// shared with the input table.
func (c *stepCore) bake(t *table.Table) (*table.Table, error) {
	op := c.kind + ".Bake"
	if !c.trained {
		return nil, errors.NewNotTrainedError(c.id, "Bake")
	}

	cur := t
	for _, name := range c.columns {
		col, err := cur.Column(name)
		if err != nil {
			return nil, errors.NewMissingColumnError(op, name)
		}
		if !table.Nominal(col) {
			return nil, errors.NewTypeError(op, name, "nominal", col.Kind().String())
		}
		m := c.mappings[name]
		values := make([]float64, cur.NumRows())
		novel := 0
		for i := range values {
			if col.Missing(i) {
				values[i] = math.NaN()
				continue
			}
			level := table.NominalValue(col, i)
			if !m.Has(level) {
				novel++
			}
			values[i] = m.Lookup(level)
		}
		cur, err = cur.WithColumn(table.NewNumericColumn(name, values))
		if err != nil {
			return nil, err
		}
		c.logger.Debug("baked encoded column",
			log.StepIDKey, c.id,
			log.StepTypeKey, c.kind,
			log.OperationKey, "bake",
			log.ColumnKey, name,
			"novel_levels", novel,
		)
	}
	return cur, nil
}

// tidy reports the trained mappings as a flat table, or selector
// placeholders with NaN values for an untrained step.
func (c *stepCore) tidy() (*recipe.Tidy, error) {
	out := &recipe.Tidy{}
	if !c.trained {
		for _, sel := range c.selectors {
			out.Rows = append(out.Rows, recipe.TidyRow{
				Terms: sel.String(),
				Level: "",
				Value: math.NaN(),
				ID:    c.id,
			})
		}
		return out, nil
	}
	for _, name := range c.columns {
		m := c.mappings[name]
		for i := 0; i < m.Len(); i++ {
			out.Rows = append(out.Rows, recipe.TidyRow{
				Terms: name,
				Level: m.Level(i),
				Value: m.Value(i),
				ID:    c.id,
			})
		}
	}
	return out, nil
}

// describe writes the one-line summary shared by the encoding steps.
func (c *stepCore) describe(w io.Writer, title string) error {
	var cols string
	if c.trained {
		cols = strings.Join(c.columns, ", ")
	} else {
		parts := make([]string, len(c.selectors))
		for i, sel := range c.selectors {
			parts[i] = sel.String()
		}
		cols = strings.Join(parts, ", ")
	}
	suffix := ""
	if c.trained {
		suffix = " [trained]"
	}
	_, err := fmt.Fprintf(w, "%s for %s%s\n", title, cols, suffix)
	return errors.WithStack(err)
}

// withTraining returns a copy of the core carrying fitted mappings.
func (c stepCore) withTraining(columns []string, mappings map[string]*LevelMapping) stepCore {
	c.columns = columns
	c.mappings = mappings
	c.trained = true
	return c
}
