package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliasilge/embed/pkg/errors"
)

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New(
		NewStringColumn("city", []string{"A", "B"}),
		NewNumericColumn("city", []float64{1, 2}),
	)
	require.Error(t, err)

	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))
}

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := New(
		NewStringColumn("city", []string{"A", "B", "C"}),
		NewNumericColumn("price", []float64{1, 2}),
	)
	require.Error(t, err)
}

func TestColumnLookup(t *testing.T) {
	tbl, err := New(
		NewStringColumn("city", []string{"A", "B"}),
		NewNumericColumn("price", []float64{1.5, 2.5}),
	)
	require.NoError(t, err)

	col, err := tbl.Column("price")
	require.NoError(t, err)
	assert.Equal(t, Numeric, col.Kind())

	_, err = tbl.Column("state")
	require.Error(t, err)
	var missing *errors.MissingColumnError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, "state", missing.Column)
}

func TestMissingValues(t *testing.T) {
	s := NewStringColumn("city", []string{"A", ""})
	assert.False(t, s.Missing(0))
	assert.True(t, s.Missing(1))

	n := NewNumericColumn("price", []float64{1.0, math.NaN()})
	assert.False(t, n.Missing(0))
	assert.True(t, n.Missing(1))
}

func TestFactorColumnValidatesLevels(t *testing.T) {
	_, err := NewFactorColumn("class", []string{"yes", "maybe"}, []string{"yes", "no"})
	require.Error(t, err)

	col, err := NewFactorColumn("class", []string{"yes", "no", ""}, []string{"yes", "no"})
	require.NoError(t, err)
	assert.Equal(t, []string{"yes", "no"}, col.Levels())
	assert.True(t, col.Missing(2))

	_, err = NewFactorColumn("class", nil, []string{"yes", "yes"})
	require.Error(t, err)

	_, err = NewFactorColumn("class", nil, []string{""})
	require.Error(t, err)
}

func TestWithColumnReplaces(t *testing.T) {
	orig, err := New(
		NewStringColumn("city", []string{"A", "B"}),
		NewNumericColumn("price", []float64{1, 2}),
	)
	require.NoError(t, err)

	repl, err := orig.WithColumn(NewNumericColumn("city", []float64{0.1, 0.2}))
	require.NoError(t, err)

	// New table carries the replacement.
	col, err := repl.Column("city")
	require.NoError(t, err)
	assert.Equal(t, Numeric, col.Kind())

	// Original is untouched.
	col, err = orig.Column("city")
	require.NoError(t, err)
	assert.Equal(t, String, col.Kind())
}

func TestWithColumnEnforcesRowCount(t *testing.T) {
	orig, err := New(NewStringColumn("city", []string{"A", "B"}))
	require.NoError(t, err)

	_, err = orig.WithColumn(NewNumericColumn("city", []float64{1, 2, 3}))
	require.Error(t, err)

	_, err = orig.WithColumn(NewNumericColumn("state", []float64{1, 2}))
	require.Error(t, err)
}

func TestNominalValue(t *testing.T) {
	fac, err := NewFactorColumn("class", []string{"yes", "no"}, []string{"yes", "no"})
	require.NoError(t, err)
	assert.Equal(t, "yes", NominalValue(fac, 0))
	assert.Equal(t, "B", NominalValue(NewStringColumn("city", []string{"A", "B"}), 1))

	assert.Panics(t, func() {
		NominalValue(NewNumericColumn("price", []float64{1}), 0)
	})
}
