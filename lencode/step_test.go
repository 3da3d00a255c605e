package lencode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliasilge/embed/lencode"
	"github.com/juliasilge/embed/pkg/log"
	"github.com/juliasilge/embed/recipe"
	"github.com/juliasilge/embed/table"
)

func TestRecipeWithEncodingSteps(t *testing.T) {
	train, err := table.New(
		table.NewStringColumn("city", []string{"A", "A", "B", "B", "C", "C"}),
		table.NewStringColumn("channel", []string{"web", "web", "store", "store", "web", "store"}),
		table.NewNumericColumn("sales", []float64{0, 2, 3, 5, 6, 8}),
	)
	require.NoError(t, err)

	glmStep, err := lencode.NewGLMStep(recipe.Vars("sales"), []recipe.Selector{recipe.Vars("city")})
	require.NoError(t, err)
	mixedStep, err := lencode.NewMixedStep(recipe.Vars("sales"), []recipe.Selector{recipe.Vars("channel")})
	require.NoError(t, err)

	prepped, err := recipe.NewRecipe().Add(glmStep).Add(mixedStep).Prep(train)
	require.NoError(t, err)

	newData, err := table.New(
		table.NewStringColumn("city", []string{"B", "D"}),
		table.NewStringColumn("channel", []string{"store", "phone"}),
		table.NewNumericColumn("sales", []float64{0, 0}),
	)
	require.NoError(t, err)

	baked, err := prepped.Bake(newData)
	require.NoError(t, err)

	// Both categorical columns are now numeric; sales is untouched.
	city, err := baked.Column("city")
	require.NoError(t, err)
	assert.Equal(t, table.Numeric, city.Kind())
	channel, err := baked.Column("channel")
	require.NoError(t, err)
	assert.Equal(t, table.Numeric, channel.Kind())
	sales, err := baked.Column("sales")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, sales.(*table.NumericColumn).Values())

	// Novel levels in both columns got each step's fallback.
	trainedGLM := prepped.Steps()[0].(*lencode.GLMStep)
	assert.Equal(t, trainedGLM.Mapping("city").Fallback(), city.(*table.NumericColumn).Value(1))
	trainedMixed := prepped.Steps()[1].(*lencode.MixedStep)
	assert.Equal(t, trainedMixed.Mapping("channel").Fallback(), channel.(*table.NumericColumn).Value(1))
}

func TestStepLogsFitEvents(t *testing.T) {
	tl := log.NewTestLogger()

	train, err := table.New(
		table.NewStringColumn("city", []string{"A", "A", "B", "B"}),
		table.NewNumericColumn("sales", []float64{1, 3, 5, 7}),
	)
	require.NoError(t, err)

	step, err := lencode.NewGLMStep(recipe.Vars("sales"), []recipe.Selector{recipe.Vars("city")},
		lencode.WithLogger(tl))
	require.NoError(t, err)
	_, err = step.Fit(train)
	require.NoError(t, err)

	recs := tl.Records()
	require.NotEmpty(t, recs)
	assert.Equal(t, "fit level encoding", recs[0].Msg)
	assert.Equal(t, "city", recs[0].Fields[log.ColumnKey])
	assert.Equal(t, "gaussian", recs[0].Fields[log.FamilyKey])
	assert.Equal(t, 2, recs[0].Fields[log.LevelsKey])
}

func TestSkipStepPassesDataThrough(t *testing.T) {
	train, err := table.New(
		table.NewStringColumn("city", []string{"A", "A", "B", "B"}),
		table.NewNumericColumn("sales", []float64{1, 3, 5, 7}),
	)
	require.NoError(t, err)

	step, err := lencode.NewGLMStep(recipe.Vars("sales"), []recipe.Selector{recipe.Vars("city")},
		lencode.WithSkip(true))
	require.NoError(t, err)

	prepped, err := recipe.NewRecipe().Add(step).Prep(train)
	require.NoError(t, err)

	baked, err := prepped.Bake(train)
	require.NoError(t, err)

	// Skip leaves new data untouched: the column is still nominal.
	city, err := baked.Column("city")
	require.NoError(t, err)
	assert.Equal(t, table.String, city.Kind())
}

func TestDefaultIDsArePrefixedAndUnique(t *testing.T) {
	a, err := lencode.NewGLMStep(recipe.Vars("y"), []recipe.Selector{recipe.Vars("x")})
	require.NoError(t, err)
	b, err := lencode.NewGLMStep(recipe.Vars("y"), []recipe.Selector{recipe.Vars("x")})
	require.NoError(t, err)

	assert.Contains(t, a.ID(), "lencode_glm_")
	assert.NotEqual(t, a.ID(), b.ID())
}
