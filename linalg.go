package gmix

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// machEps is the double precision machine epsilon.
const machEps = 2.220446049250313e-16

// logDetSym returns the log-determinant of the symmetric positive definite
// matrix a as the sum of the logs of its eigenvalues, which stays finite
// where a determinant product would overflow or underflow.
func logDetSym(a *mat.SymDense) float64 {
	var es mat.EigenSym
	if !es.Factorize(a, false) {
		return math.Inf(-1)
	}
	var sum float64
	for _, v := range es.Values(nil) {
		sum += math.Log(v)
	}
	return sum
}

// pinvSym writes the Moore-Penrose pseudo-inverse of the symmetric matrix a
// into dst. Eigenvalues of magnitude below dim·|λ|max·machEps count as zero,
// so rank-deficient scatter matrices invert to finite results instead of
// blowing up. dst must not alias a.
func pinvSym(dst, a *mat.SymDense) {
	n := a.SymmetricDim()
	dst.Zero()
	var es mat.EigenSym
	if !es.Factorize(a, true) {
		return
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	maxAbs := 0.0
	for _, v := range vals {
		maxAbs = max(maxAbs, math.Abs(v))
	}
	tol := float64(n) * maxAbs * machEps

	col := make([]float64, n)
	vec := mat.NewVecDense(n, col)
	for j, v := range vals {
		if math.Abs(v) <= tol {
			continue
		}
		mat.Col(col, j, &vecs)
		dst.SymRankOne(dst, 1/v, vec)
	}
}
