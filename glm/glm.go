// Package glm fits no-intercept generalized linear models: ordinary
// least squares for gaussian outcomes and iteratively reweighted least
// squares for binomial outcomes. The no-intercept design matters for
// likelihood encoding: with indicator predictors every level gets its
// own directly comparable coefficient on the linear-predictor scale
// instead of a contrast against a reference level.
package glm

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/juliasilge/embed/pkg/errors"
)

// Family selects the outcome distribution and link.
type Family int

const (
	// Gaussian uses the identity link; coefficients are on the outcome scale.
	Gaussian Family = iota
	// Binomial uses the logit link; coefficients are log-odds.
	Binomial
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case Gaussian:
		return "gaussian"
	case Binomial:
		return "binomial"
	default:
		return "unknown"
	}
}

// Options controls the iterative binomial fit.
type Options struct {
	// MaxIter is the IRLS iteration budget.
	MaxIter int
	// Tol is the relative deviance-change convergence tolerance.
	Tol float64
}

// DefaultOptions mirrors the usual GLM fitting defaults.
func DefaultOptions() Options {
	return Options{MaxIter: 25, Tol: 1e-8}
}

// Result holds the outcome of a fit.
type Result struct {
	// Coef has one entry per design column. Columns with no support in
	// the data (all zeros) get NaN.
	Coef []float64
	// Iterations is the number of IRLS iterations run (0 for gaussian).
	Iterations int
}

// probability clamp for the binomial mean, keeps the working weights
// finite under perfect separation
const muEps = 1e-10

// FitNoIntercept fits y ~ X with no intercept term. For Binomial, y
// must contain only 0 and 1. Design columns that are identically zero
// are excluded from the solve and reported as NaN coefficients; it is
// the caller's job to substitute something sensible for them.
func FitNoIntercept(X *mat.Dense, y []float64, family Family, opts Options) (*Result, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "glm.FitNoIntercept")
	}
	if len(y) != rows {
		return nil, errors.NewValueError("glm.FitNoIntercept", "response length does not match design rows")
	}
	if opts.MaxIter < 1 || opts.Tol <= 0 {
		return nil, errors.NewConfigError("glm.Options", "max iterations must be >= 1 and tolerance positive", opts)
	}

	// Drop unsupported columns so the reduced design has full column rank
	// whenever the supported columns are linearly independent.
	supported := make([]int, 0, cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			if X.At(i, j) != 0 {
				supported = append(supported, j)
				break
			}
		}
	}

	coef := make([]float64, cols)
	for j := range coef {
		coef[j] = math.NaN()
	}
	if len(supported) == 0 {
		return nil, errors.Wrap(errors.ErrSingularFit, "glm.FitNoIntercept: design is identically zero")
	}

	reduced := mat.NewDense(rows, len(supported), nil)
	for k, j := range supported {
		for i := 0; i < rows; i++ {
			reduced.Set(i, k, X.At(i, j))
		}
	}

	var (
		beta       []float64
		iterations int
		err        error
	)
	switch family {
	case Gaussian:
		beta, err = leastSquares(reduced, y, nil)
	case Binomial:
		beta, iterations, err = irls(reduced, y, opts)
	default:
		return nil, errors.NewValueError("glm.FitNoIntercept", "unknown family")
	}
	if err != nil {
		return nil, err
	}

	for k, j := range supported {
		coef[j] = beta[k]
	}
	return &Result{Coef: coef, Iterations: iterations}, nil
}

// leastSquares solves min ||sqrt(w)(Xb - y)|| via QR. A nil weight
// slice means unweighted.
func leastSquares(X *mat.Dense, y, w []float64) ([]float64, error) {
	rows, cols := X.Dims()

	A := X
	b := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		b.SetVec(i, y[i])
	}
	if w != nil {
		A = mat.NewDense(rows, cols, nil)
		for i := 0; i < rows; i++ {
			s := math.Sqrt(w[i])
			b.SetVec(i, s*y[i])
			for j := 0; j < cols; j++ {
				A.Set(i, j, s*X.At(i, j))
			}
		}
	}

	var qr mat.QR
	qr.Factorize(A)
	sol := mat.NewVecDense(cols, nil)
	if err := qr.SolveVecTo(sol, false, b); err != nil {
		return nil, errors.Wrap(errors.ErrSingularFit, "glm.leastSquares")
	}
	out := make([]float64, cols)
	for j := 0; j < cols; j++ {
		out[j] = sol.AtVec(j)
	}
	return out, nil
}

// irls runs iteratively reweighted least squares for the binomial
// family. Convergence is judged on the relative change in deviance, so
// a perfectly separating predictor still converges: its deviance
// contribution flattens at zero while the coefficient saturates at a
// large finite value.
func irls(X *mat.Dense, y []float64, opts Options) ([]float64, int, error) {
	rows, cols := X.Dims()

	beta := make([]float64, cols)
	eta := make([]float64, rows)
	mu := make([]float64, rows)
	weights := make([]float64, rows)
	z := make([]float64, rows)

	updateMeans := func() {
		for i := 0; i < rows; i++ {
			e := 0.0
			for j := 0; j < cols; j++ {
				e += X.At(i, j) * beta[j]
			}
			eta[i] = e
			m := 1.0 / (1.0 + math.Exp(-e))
			if m < muEps {
				m = muEps
			} else if m > 1-muEps {
				m = 1 - muEps
			}
			mu[i] = m
		}
	}

	deviance := func() float64 {
		dev := 0.0
		for i := 0; i < rows; i++ {
			if y[i] > 0.5 {
				dev -= 2 * math.Log(mu[i])
			} else {
				dev -= 2 * math.Log(1-mu[i])
			}
		}
		return dev
	}

	updateMeans()
	dev := deviance()

	for iter := 1; iter <= opts.MaxIter; iter++ {
		for i := 0; i < rows; i++ {
			w := mu[i] * (1 - mu[i])
			weights[i] = w
			z[i] = eta[i] + (y[i]-mu[i])/w
		}
		next, err := leastSquares(X, z, weights)
		if err != nil {
			return nil, iter, err
		}
		beta = next

		updateMeans()
		devNew := deviance()
		if math.IsNaN(devNew) {
			return nil, iter, errors.Wrap(errors.ErrSingularFit, "glm.irls: deviance is NaN")
		}
		if math.Abs(devNew-dev)/(math.Abs(devNew)+0.1) < opts.Tol {
			return beta, iter, nil
		}
		dev = devNew
	}

	return nil, opts.MaxIter, errors.Wrapf(errors.ErrNoConvergence, "glm.irls: %d iterations", opts.MaxIter)
}
