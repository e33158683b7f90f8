package gmix

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// priorShrinkageWeight is the confidence placed on the prior mean, measured
// in observed samples (Fraley and Raftery 2007).
const priorShrinkageWeight = 0.01

// setPrior installs the weakly informative conjugate prior derived from the
// dataset. Every component prior centers on the empirical mean; the prior
// scale is the inverse per-dimension empirical variance inflated by
// k^(2/dim), so that prior covariances shrink as components multiply; prior
// weights are uniform; shrinkage is priorShrinkageWeight and the degrees of
// freedom are dim+2. The mixing weights reset to uniform as well.
func (m *Model) setPrior(x mat.Matrix) error {
	n, err := m.checkData(x)
	if err != nil {
		return err
	}

	col := make([]float64, n)
	mean := make([]float64, m.Dim)
	invVar := make([]float64, m.Dim)
	inflate := math.Exp(2 / float64(m.Dim) * math.Log(float64(m.K)))
	for j := range m.Dim {
		mat.Col(col, j, x)
		mean[j] = stat.Mean(col, nil)
		invVar[j] = inflate / stat.MomentAbout(2, col, mean[j], nil)
	}

	m.priorMeans = mat.NewDense(m.K, m.Dim, nil)
	for i := range m.K {
		m.priorMeans.SetRow(i, mean)
	}
	m.priorWeights = uniformWeights(m.K)
	m.priorShrinkage = priorShrinkageWeight
	m.priorDOF = float64(m.Dim) + 2

	if m.Kind == PrecFull {
		scale := make([]*mat.SymDense, m.K)
		for i := range scale {
			s := mat.NewSymDense(m.Dim, nil)
			for j, v := range invVar {
				s.SetSym(j, j, v)
			}
			scale[i] = s
		}
		m.priorScale = Precisions{Full: scale}
	} else {
		diag := mat.NewDense(m.K, m.Dim, nil)
		for i := range m.K {
			diag.SetRow(i, invVar)
		}
		m.priorScale = Precisions{Diag: diag}
	}

	m.Weights = uniformWeights(m.K)
	return m.Check()
}
