// Package table provides a small schema-aware table: an ordered set of
// named, typed columns sharing one declared row count. It is the data
// container the encoding steps train on and transform.
//
// Missing values are represented in-band: the empty string for nominal
// columns, NaN for numeric columns.
package table

import (
	"math"

	"github.com/juliasilge/embed/pkg/errors"
)

// Kind identifies the type of a column.
type Kind int

const (
	// String is a nominal column without a declared level set.
	String Kind = iota
	// Numeric is a float64 column; NaN marks a missing value.
	Numeric
	// Factor is a nominal column with an explicit ordered level set.
	Factor
)

// String returns the kind name as used in error messages.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Numeric:
		return "numeric"
	case Factor:
		return "factor"
	default:
		return "unknown"
	}
}

// Column is one named, typed column of a table.
type Column interface {
	Name() string
	Len() int
	Kind() Kind
	// Missing reports whether the value at row i is missing.
	Missing(i int) bool
}

// StringColumn is a nominal column. The empty string marks a missing value.
type StringColumn struct {
	name   string
	values []string
}

// NewStringColumn creates a nominal column.
func NewStringColumn(name string, values []string) *StringColumn {
	return &StringColumn{name: name, values: values}
}

func (c *StringColumn) Name() string        { return c.name }
func (c *StringColumn) Len() int            { return len(c.values) }
func (c *StringColumn) Kind() Kind          { return String }
func (c *StringColumn) Missing(i int) bool  { return c.values[i] == "" }
func (c *StringColumn) Value(i int) string  { return c.values[i] }

// Values returns the backing slice. Callers must not mutate it.
func (c *StringColumn) Values() []string { return c.values }

// NumericColumn is a float64 column. NaN marks a missing value.
type NumericColumn struct {
	name   string
	values []float64
}

// NewNumericColumn creates a numeric column.
func NewNumericColumn(name string, values []float64) *NumericColumn {
	return &NumericColumn{name: name, values: values}
}

func (c *NumericColumn) Name() string        { return c.name }
func (c *NumericColumn) Len() int            { return len(c.values) }
func (c *NumericColumn) Kind() Kind          { return Numeric }
func (c *NumericColumn) Missing(i int) bool  { return math.IsNaN(c.values[i]) }
func (c *NumericColumn) Value(i int) float64 { return c.values[i] }

// Values returns the backing slice. Callers must not mutate it.
func (c *NumericColumn) Values() []float64 { return c.values }

// FactorColumn is a nominal column with an explicit ordered level set.
// The level order is significant: for a two-level outcome it determines
// which level a binomial fit models. The empty string marks a missing
// value and must not appear in the level set.
type FactorColumn struct {
	name   string
	values []string
	levels []string
}

// NewFactorColumn creates a factor column. Every non-missing value must
// be a member of levels.
func NewFactorColumn(name string, values, levels []string) (*FactorColumn, error) {
	set := make(map[string]struct{}, len(levels))
	for _, lv := range levels {
		if lv == "" {
			return nil, errors.NewValueError("table.NewFactorColumn", "empty string cannot be a factor level")
		}
		if _, dup := set[lv]; dup {
			return nil, errors.NewValueError("table.NewFactorColumn", "duplicate factor level "+lv)
		}
		set[lv] = struct{}{}
	}
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := set[v]; !ok {
			return nil, errors.NewValueError("table.NewFactorColumn", "value "+v+" is not a declared level of "+name)
		}
	}
	return &FactorColumn{name: name, values: values, levels: levels}, nil
}

func (c *FactorColumn) Name() string        { return c.name }
func (c *FactorColumn) Len() int            { return len(c.values) }
func (c *FactorColumn) Kind() Kind          { return Factor }
func (c *FactorColumn) Missing(i int) bool  { return c.values[i] == "" }
func (c *FactorColumn) Value(i int) string  { return c.values[i] }

// Values returns the backing slice. Callers must not mutate it.
func (c *FactorColumn) Values() []string { return c.values }

// Levels returns the declared level set in order.
func (c *FactorColumn) Levels() []string { return c.levels }

// Nominal reports whether the column holds categorical data.
func Nominal(c Column) bool {
	return c.Kind() == String || c.Kind() == Factor
}

// NominalValue returns the string representation of a nominal column's
// value at row i. It panics if the column is numeric.
func NominalValue(c Column, i int) string {
	switch col := c.(type) {
	case *StringColumn:
		return col.Value(i)
	case *FactorColumn:
		return col.Value(i)
	default:
		panic("table: NominalValue called on a numeric column")
	}
}

// Table is an ordered collection of equally long, uniquely named columns.
type Table struct {
	cols  []Column
	index map[string]int
	rows  int
}

// New creates a table from the given columns. All columns must have the
// same length and unique names.
func New(cols ...Column) (*Table, error) {
	t := &Table{
		cols:  make([]Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := t.index[c.Name()]; dup {
			return nil, errors.NewValueError("table.New", "duplicate column name "+c.Name())
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, errors.NewValueError("table.New", "column "+c.Name()+" length differs from the declared row count")
		}
		t.index[c.Name()] = len(t.cols)
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// NumRows returns the declared row count.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// Names returns the column names in declaration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name()
	}
	return names
}

// Has reports whether the table contains the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.NewMissingColumnError("table.Column", name)
	}
	return t.cols[i], nil
}

// WithColumn returns a new table where the column matching col's name
// is replaced by col; columns not named are shared with the receiver.
// The replacement must match the table's row count, and the name must
// already exist (the table's schema shape does not grow during bake).
func (t *Table) WithColumn(col Column) (*Table, error) {
	i, ok := t.index[col.Name()]
	if !ok {
		return nil, errors.NewMissingColumnError("table.WithColumn", col.Name())
	}
	if col.Len() != t.rows {
		return nil, errors.NewValueError("table.WithColumn", "replacement column "+col.Name()+" length differs from the declared row count")
	}
	cols := make([]Column, len(t.cols))
	copy(cols, t.cols)
	cols[i] = col

	index := make(map[string]int, len(t.index))
	for k, v := range t.index {
		index[k] = v
	}
	return &Table{cols: cols, index: index, rows: t.rows}, nil
}
