package logistic

import (
	"math"

	"github.com/kiteco/holdout/kite-golib/errors"
	"gonum.org/v1/gonum/mat"
)

// Options controls the iteratively reweighted least squares fit
type Options struct {
	// Ridge is the L2 penalty on the non-intercept coefficients. A small positive value keeps
	// the fit finite on separable data.
	Ridge float64
	// MaxIter bounds the number of Newton steps
	MaxIter int
	// Tol is the largest coefficient change at which the fit is considered converged
	Tol float64
}

// DefaultOptions are used by the feature-subset fitter
var DefaultOptions = Options{
	Ridge:   1e-3,
	MaxIter: 50,
	Tol:     1e-8,
}

// minWeight keeps the IRLS weights away from zero when probabilities saturate
const minWeight = 1e-9

// maxStep bounds the largest coefficient change of a single Newton step
const maxStep = 4.0

// Model is a fitted logistic regression
type Model struct {
	// Intercept is the bias term
	Intercept float64
	// Coef holds one coefficient per feature column
	Coef []float64
}

// Fit estimates a logistic regression of the binary labels y on the columns of x.
func Fit(x mat.Matrix, y []bool, opts Options) (*Model, error) {
	n, p := x.Dims()
	if n != len(y) {
		return nil, errors.Errorf("got %d rows but %d labels", n, len(y))
	}
	if n == 0 || p == 0 {
		return nil, errors.Errorf("cannot fit on a %dx%d design", n, p)
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultOptions.MaxIter
	}

	// design with a leading intercept column
	d := p + 1
	design := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			design.Set(i, j+1, x.At(i, j))
		}
	}

	beta := mat.NewVecDense(d, nil)
	eta := mat.NewVecDense(n, nil)
	for iter := 0; iter < opts.MaxIter; iter++ {
		eta.MulVec(design, beta)

		// normal equations (X'WX + ridge) beta' = X'Wz
		hess := mat.NewSymDense(d, nil)
		rhs := mat.NewVecDense(d, nil)
		for i := 0; i < n; i++ {
			prob := sigmoid(eta.AtVec(i))
			w := math.Max(prob*(1-prob), minWeight)
			z := eta.AtVec(i) + (label(y[i])-prob)/w
			row := design.RawRowView(i)
			for a := 0; a < d; a++ {
				rhs.SetVec(a, rhs.AtVec(a)+w*row[a]*z)
				for b := a; b < d; b++ {
					hess.SetSym(a, b, hess.At(a, b)+w*row[a]*row[b])
				}
			}
		}
		for a := 1; a < d; a++ {
			hess.SetSym(a, a, hess.At(a, a)+opts.Ridge)
		}

		var chol mat.Cholesky
		if ok := chol.Factorize(hess); !ok {
			return nil, errors.Errorf("design is singular at iteration %d", iter)
		}
		next := mat.NewVecDense(d, nil)
		if err := chol.SolveVecTo(next, rhs); err != nil {
			return nil, errors.Wrapf(err, "solving normal equations at iteration %d", iter)
		}

		var delta float64
		for a := 0; a < d; a++ {
			delta = math.Max(delta, math.Abs(next.AtVec(a)-beta.AtVec(a)))
		}
		if delta > maxStep {
			// damp the Newton step, undamped steps overshoot on (nearly) separable data
			scale := maxStep / delta
			for a := 0; a < d; a++ {
				next.SetVec(a, beta.AtVec(a)+scale*(next.AtVec(a)-beta.AtVec(a)))
			}
		}
		beta = next
		if delta < opts.Tol {
			break
		}
	}

	m := &Model{
		Intercept: beta.AtVec(0),
		Coef:      make([]float64, p),
	}
	for j := 0; j < p; j++ {
		m.Coef[j] = beta.AtVec(j + 1)
	}
	for _, c := range m.Coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, errors.Errorf("fit diverged")
		}
	}
	return m, nil
}

// Predict returns the positive-class probability of each row of x
func (m *Model) Predict(x mat.Matrix) []float64 {
	n, p := x.Dims()
	if p != len(m.Coef) {
		panic("feature matrix had incorrect width")
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		s := m.Intercept
		for j := 0; j < p; j++ {
			s += m.Coef[j] * x.At(i, j)
		}
		out[i] = sigmoid(s)
	}
	return out
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

func label(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
