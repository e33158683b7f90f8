package gmix

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ============ DENSITIES ============

// UnweightedLikelihood evaluates the Gaussian density of every component at
// every row of x, ignoring the mixing weights. The result has one row per
// sample and one column per component.
func (m *Model) UnweightedLikelihood(x mat.Matrix) (*mat.Dense, error) {
	n, err := m.checkData(x)
	if err != nil {
		return nil, err
	}
	like := mat.NewDense(n, m.K, nil)
	row := make([]float64, m.Dim)
	diff := make([]float64, m.Dim)
	dv := mat.NewVecDense(m.Dim, diff)
	for i := range m.K {
		mean := m.Means.RawRowView(i)

		// Data independent part: -dim·ln(2π) + ln det(precision).
		w0 := -math.Log(2*math.Pi) * float64(m.Dim)
		if m.Kind == PrecFull {
			w0 += logDetSym(m.Precisions.Full[i])
		} else {
			for j := range m.Dim {
				w0 += math.Log(m.Precisions.Diag.At(i, j))
			}
		}

		for s := range n {
			mat.Row(row, s, x)
			for j, v := range row {
				diff[j] = v - mean[j]
			}
			var q float64
			if m.Kind == PrecFull {
				q = mat.Inner(dv, m.Precisions.Full[i], dv)
			} else {
				for j, d := range diff {
					q += m.Precisions.Diag.At(i, j) * d * d
				}
			}
			like.Set(s, i, math.Exp(0.5*(w0-q)))
		}
	}
	return like, nil
}

// Likelihood evaluates the weighted Gaussian density of every component at
// every row of x: column i of the result is the unweighted density of
// component i scaled by Weights[i].
func (m *Model) Likelihood(x mat.Matrix) (*mat.Dense, error) {
	like, err := m.UnweightedLikelihood(x)
	if err != nil {
		return nil, err
	}
	n, _ := like.Dims()
	for s := range n {
		row := like.RawRowView(s)
		for i, w := range m.Weights {
			row[i] *= w
		}
	}
	return like, nil
}

// MixtureLikelihood returns the total mixture density at every row of x,
// the row sums of Likelihood.
func (m *Model) MixtureLikelihood(x mat.Matrix) ([]float64, error) {
	like, err := m.Likelihood(x)
	if err != nil {
		return nil, err
	}
	n, _ := like.Dims()
	sl := make([]float64, n)
	for s := range n {
		sl[s] = floats.Sum(like.RawRowView(s))
	}
	return sl, nil
}

// ============ SCORING ============

// AverageLogLikelihood returns the mean log mixture density over the rows of
// x, with each density floored at tiny.
func (m *Model) AverageLogLikelihood(x mat.Matrix) (float64, error) {
	like, err := m.Likelihood(x)
	if err != nil {
		return 0, err
	}
	n, _ := like.Dims()
	return sumLogRowSums(like) / float64(n), nil
}

// LogLikelihoods returns the log mixture density at every row of x, floored
// at ln(tiny). This is the score to report on held-out data.
func (m *Model) LogLikelihoods(x mat.Matrix) ([]float64, error) {
	sl, err := m.MixtureLikelihood(x)
	if err != nil {
		return nil, err
	}
	for i, v := range sl {
		sl[i] = math.Log(max(v, tiny))
	}
	return sl, nil
}

// MapLabel assigns every row of x to its maximum a posteriori component.
func (m *Model) MapLabel(x mat.Matrix) ([]int, error) {
	like, err := m.Likelihood(x)
	if err != nil {
		return nil, err
	}
	n, _ := like.Dims()
	z := make([]int, n)
	for s := range n {
		z[s] = floats.MaxIdx(like.RawRowView(s))
	}
	return z, nil
}

// Evidence returns the Bayesian information criterion approximation of the
// model evidence for x: the data log-likelihood penalized by ln(n) per free
// parameter. Higher is better.
func (m *Model) Evidence(x mat.Matrix) (float64, error) {
	like, err := m.Likelihood(x)
	if err != nil {
		return 0, err
	}
	return m.bic(like), nil
}

// bic scores a weighted likelihood matrix as returned by Likelihood.
func (m *Model) bic(like *mat.Dense) float64 {
	n, _ := like.Dims()
	return sumLogRowSums(like) - math.Log(float64(n))*float64(m.freeParams())
}

// freeParams counts the independently estimable parameters of the mixture:
// k-1 free weights, k·dim means, and k·dim(dim+1)/2 (full) or k·dim (diag)
// precision entries.
func (m *Model) freeParams() int {
	if m.Kind == PrecFull {
		return m.K*(1+m.Dim+m.Dim*(m.Dim+1)/2) - 1
	}
	return m.K*(1+2*m.Dim) - 1
}

// sumLogRowSums accumulates log(max(rowSum, tiny)) over the rows of like.
func sumLogRowSums(like *mat.Dense) float64 {
	n, _ := like.Dims()
	var sum float64
	for s := range n {
		sum += math.Log(max(floats.Sum(like.RawRowView(s)), tiny))
	}
	return sum
}
