package glm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/juliasilge/embed/pkg/errors"
)

// indicator builds a one-hot design from level indices.
func indicator(levels int, idx []int) *mat.Dense {
	X := mat.NewDense(len(idx), levels, nil)
	for i, j := range idx {
		X.Set(i, j, 1)
	}
	return X
}

func TestGaussianIndicatorFitRecoversLevelMeans(t *testing.T) {
	// Two rows per level; no-intercept indicator fit gives the level means.
	X := indicator(3, []int{0, 0, 1, 1, 2, 2})
	y := []float64{1, 3, 10, 14, -2, -4}

	res, err := FitNoIntercept(X, y, Gaussian, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Coef, 3)

	assert.InDelta(t, 2.0, res.Coef[0], 1e-10)
	assert.InDelta(t, 12.0, res.Coef[1], 1e-10)
	assert.InDelta(t, -3.0, res.Coef[2], 1e-10)
	assert.Zero(t, res.Iterations)
}

func TestGaussianGeneralDesign(t *testing.T) {
	// y = 2*x1 - x2 exactly.
	X := mat.NewDense(4, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
		2, 1,
	})
	y := []float64{2, -1, 1, 3}

	res, err := FitNoIntercept(X, y, Gaussian, DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.Coef[0], 1e-10)
	assert.InDelta(t, -1.0, res.Coef[1], 1e-10)
}

func TestBinomialIndicatorFitRecoversLogOdds(t *testing.T) {
	// Level 0: 3 of 4 successes -> logit(0.75). Level 1: 1 of 4 -> logit(0.25).
	X := indicator(2, []int{0, 0, 0, 0, 1, 1, 1, 1})
	y := []float64{1, 1, 1, 0, 1, 0, 0, 0}

	res, err := FitNoIntercept(X, y, Binomial, DefaultOptions())
	require.NoError(t, err)

	logit := func(p float64) float64 { return math.Log(p / (1 - p)) }
	assert.InDelta(t, logit(0.75), res.Coef[0], 1e-6)
	assert.InDelta(t, logit(0.25), res.Coef[1], 1e-6)
	assert.Greater(t, res.Iterations, 0)
}

func TestBinomialPerfectSeparationStaysFinite(t *testing.T) {
	// Level 0 is all successes, level 1 all failures. The deviance
	// flattens so the fit converges; coefficients saturate large but
	// finite with the expected signs.
	X := indicator(2, []int{0, 0, 0, 1, 1, 1})
	y := []float64{1, 1, 1, 0, 0, 0}

	res, err := FitNoIntercept(X, y, Binomial, DefaultOptions())
	require.NoError(t, err)

	assert.False(t, math.IsNaN(res.Coef[0]))
	assert.False(t, math.IsNaN(res.Coef[1]))
	assert.Greater(t, res.Coef[0], 5.0)
	assert.Less(t, res.Coef[1], -5.0)
}

func TestUnsupportedColumnGetsNaN(t *testing.T) {
	// Middle column never occurs in the data.
	X := indicator(3, []int{0, 0, 2, 2})
	y := []float64{1, 2, 3, 4}

	res, err := FitNoIntercept(X, y, Gaussian, DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, 1.5, res.Coef[0], 1e-10)
	assert.True(t, math.IsNaN(res.Coef[1]))
	assert.InDelta(t, 3.5, res.Coef[2], 1e-10)
}

func TestEmptyDataFails(t *testing.T) {
	X := mat.NewDense(1, 1, []float64{1})
	_, err := FitNoIntercept(X, []float64{}, Gaussian, DefaultOptions())
	require.Error(t, err)

	zero := mat.NewDense(2, 1, nil)
	_, err = FitNoIntercept(zero, []float64{1, 2}, Gaussian, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSingularFit))
}

func TestDeterministicRefit(t *testing.T) {
	X := indicator(2, []int{0, 1, 0, 1, 0, 1})
	y := []float64{1, 0, 1, 1, 0, 0}

	first, err := FitNoIntercept(X, y, Binomial, DefaultOptions())
	require.NoError(t, err)
	second, err := FitNoIntercept(X, y, Binomial, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, first.Coef, second.Coef)
}

func TestFamilyString(t *testing.T) {
	assert.Equal(t, "gaussian", Gaussian.String())
	assert.Equal(t, "binomial", Binomial.String())
}
