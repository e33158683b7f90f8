package gmix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// tiny floors likelihood row sums and log arguments so that empty components
// and vanishing densities never divide by zero or take log(0).
const tiny = 1e-15

// PrecKind selects how component precisions are parameterized.
type PrecKind int

const (
	// PrecFull stores one dim×dim symmetric precision matrix per component.
	PrecFull PrecKind = iota
	// PrecDiag stores one precision value per component and dimension.
	PrecDiag
)

func (k PrecKind) String() string {
	switch k {
	case PrecFull:
		return "full"
	case PrecDiag:
		return "diag"
	}
	return fmt.Sprintf("PrecKind(%d)", int(k))
}

func (k PrecKind) valid() bool { return k == PrecFull || k == PrecDiag }

// Precisions holds per-component precision (inverse covariance) parameters.
// Exactly one field is populated, according to the owning model's Kind:
// Full carries k matrices of size dim×dim, Diag carries a k×dim matrix whose
// rows are per-dimension precisions.
type Precisions struct {
	Full []*mat.SymDense
	Diag *mat.Dense
}

func (p Precisions) clone() Precisions {
	var c Precisions
	if p.Full != nil {
		c.Full = make([]*mat.SymDense, len(p.Full))
		for i, s := range p.Full {
			c.Full[i] = mat.NewSymDense(s.SymmetricDim(), nil)
			c.Full[i].CopySym(s)
		}
	}
	if p.Diag != nil {
		c.Diag = mat.DenseCopyOf(p.Diag)
	}
	return c
}

// unitPrecisions returns identity matrices (full) or all-ones rows (diag).
func unitPrecisions(kind PrecKind, k, dim int) Precisions {
	if kind == PrecFull {
		full := make([]*mat.SymDense, k)
		for i := range full {
			s := mat.NewSymDense(dim, nil)
			for j := range dim {
				s.SetSym(j, j, 1)
			}
			full[i] = s
		}
		return Precisions{Full: full}
	}
	diag := mat.NewDense(k, dim, nil)
	for i := range k {
		for j := range dim {
			diag.Set(i, j, 1)
		}
	}
	return Precisions{Diag: diag}
}

func uniformWeights(k int) []float64 {
	w := make([]float64, k)
	for i := range w {
		w[i] = 1 / float64(k)
	}
	return w
}

// Model is a mixture of K Gaussian components over Dim-dimensional data.
// Component spreads are stored as precisions, not covariances.
//
// The zero value is not usable. Construct with NewModel, then either Plugin
// parameters directly or fit them with Initialize and Estimate. Fitting never
// mutates the dataset.
type Model struct {
	// K is the number of mixture components.
	K int
	// Dim is the data dimension.
	Dim int
	// Kind fixes the precision parameterization for the model's lifetime.
	Kind PrecKind

	// Means holds one component mean per row, K×Dim.
	Means *mat.Dense
	// Precisions holds the component precisions, shaped according to Kind.
	Precisions Precisions
	// Weights holds the K mixing proportions, non-negative and summing to one.
	Weights []float64

	// Regularizing prior, installed by Initialize and read by mStep.
	priorMeans     *mat.Dense
	priorScale     Precisions
	priorWeights   []float64
	priorShrinkage float64
	priorDOF       float64
}

// NewModel returns a model with placeholder parameters: zero means, unit
// precisions and uniform weights. The result passes Check.
func NewModel(k, dim int, kind PrecKind) (*Model, error) {
	if k < 1 || dim < 1 {
		return nil, fmt.Errorf("%w: k=%d dim=%d", ErrModelSize, k, dim)
	}
	if !kind.valid() {
		return nil, fmt.Errorf("%w: %v", ErrKind, kind)
	}
	return &Model{
		K:          k,
		Dim:        dim,
		Kind:       kind,
		Means:      mat.NewDense(k, dim, nil),
		Precisions: unitPrecisions(kind, k, dim),
		Weights:    uniformWeights(k),
	}, nil
}

// Plugin replaces the model parameters with deep copies of the given ones.
// The candidates are validated first; on error the model is unchanged.
func (m *Model) Plugin(means *mat.Dense, precisions Precisions, weights []float64) error {
	if err := checkParams(m.K, m.Dim, m.Kind, means, precisions, weights); err != nil {
		return err
	}
	m.Means = mat.DenseCopyOf(means)
	m.Precisions = precisions.clone()
	m.Weights = append([]float64(nil), weights...)
	return nil
}

// Check validates the shapes of the model parameters against K, Dim and Kind.
func (m *Model) Check() error {
	return checkParams(m.K, m.Dim, m.Kind, m.Means, m.Precisions, m.Weights)
}

func checkParams(k, dim int, kind PrecKind, means *mat.Dense, prec Precisions, weights []float64) error {
	if !kind.valid() {
		return fmt.Errorf("%w: %v", ErrKind, kind)
	}
	if means == nil {
		return fmt.Errorf("%w: means are nil", ErrShape)
	}
	if r, c := means.Dims(); r != k || c != dim {
		return fmt.Errorf("%w: means are %dx%d, want %dx%d", ErrShape, r, c, k, dim)
	}
	if len(weights) != k {
		return fmt.Errorf("%w: %d weights for %d components", ErrShape, len(weights), k)
	}
	switch kind {
	case PrecFull:
		if len(prec.Full) != k {
			return fmt.Errorf("%w: %d precision matrices for %d components", ErrShape, len(prec.Full), k)
		}
		for i, s := range prec.Full {
			if s == nil || s.SymmetricDim() != dim {
				return fmt.Errorf("%w: precision %d is not %dx%d", ErrShape, i, dim, dim)
			}
		}
	case PrecDiag:
		if prec.Diag == nil {
			return fmt.Errorf("%w: diagonal precisions are nil", ErrShape)
		}
		if r, c := prec.Diag.Dims(); r != k || c != dim {
			return fmt.Errorf("%w: diagonal precisions are %dx%d, want %dx%d", ErrShape, r, c, k, dim)
		}
	}
	return nil
}

// checkData verifies that x has one column per model dimension and returns
// the number of samples.
func (m *Model) checkData(x mat.Matrix) (int, error) {
	n, c := x.Dims()
	if c != m.Dim {
		return 0, fmt.Errorf("%w: data has %d columns, model dimension is %d", ErrDataDim, c, m.Dim)
	}
	return n, nil
}

// ColumnDataset adapts scalar samples to the n×1 dataset shape expected by
// one-dimensional models. The slice must not be empty.
func ColumnDataset(xs []float64) *mat.Dense {
	return mat.NewDense(len(xs), 1, append([]float64(nil), xs...))
}

// params is a deep snapshot of fitted parameters together with the evidence
// the fit achieved, used to keep the best of several initialization cycles.
type params struct {
	means   *mat.Dense
	prec    Precisions
	weights []float64
	score   float64
}

func (m *Model) snapshot(score float64) params {
	return params{
		means:   mat.DenseCopyOf(m.Means),
		prec:    m.Precisions.clone(),
		weights: append([]float64(nil), m.Weights...),
		score:   score,
	}
}

// restore adopts a snapshot. The snapshot owns its memory, so the model must
// be the only holder.
func (m *Model) restore(p params) {
	m.Means = p.means
	m.Precisions = p.prec
	m.Weights = p.weights
}
