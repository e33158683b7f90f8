package gmix

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ============ OPTIONS ============

// Options control EM estimation. The zero value of any field selects the
// corresponding default, so Options{} behaves like DefaultOptions().
type Options struct {
	// MaxIter caps the number of E/M iterations per fit.
	MaxIter int
	// Tol declares convergence when an iteration improves the average data
	// log-likelihood by less than this.
	Tol float64
	// NumInit is the number of independent initialization and estimation
	// cycles run by InitializeAndEstimate and BestFit.
	NumInit int
	// Seeder produces initial hard labelings. Nil selects NewKMeansSeeder().
	Seeder Seeder
	// Logger, when non-nil, receives one line per EM iteration and per
	// candidate model.
	Logger *log.Logger
}

// DefaultOptions returns the estimation defaults: at most 100 iterations,
// convergence at a 1e-4 average log-likelihood increment, one initialization
// cycle, k-means seeding.
func DefaultOptions() Options {
	return Options{
		MaxIter: 100,
		Tol:     1e-4,
		NumInit: 1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxIter <= 0 {
		o.MaxIter = d.MaxIter
	}
	if o.Tol <= 0 {
		o.Tol = d.Tol
	}
	if o.NumInit <= 0 {
		o.NumInit = d.NumInit
	}
	if o.Seeder == nil {
		o.Seeder = NewKMeansSeeder()
	}
	return o
}

// ============ E AND M STEPS ============

// eStep returns the weighted likelihood of every sample under every
// component. Rows are deliberately unnormalized: the same matrix feeds the
// convergence test through its row sums, the evidence, and the M-step, which
// derives normalized responsibilities itself.
func (m *Model) eStep(x mat.Matrix) (*mat.Dense, error) {
	return m.Likelihood(x)
}

// population returns the soft sample count of each component: the column
// sums of the row-normalized likelihood matrix.
func population(like *mat.Dense) []float64 {
	n, k := like.Dims()
	pop := make([]float64, k)
	for s := range n {
		row := like.RawRowView(s)
		sl := max(floats.Sum(row), tiny)
		for i, v := range row {
			pop[i] += v / sl
		}
	}
	return pop
}

// mStep applies the regularized maximum a posteriori parameter update of
// Fraley and Raftery 2007: posterior weights, shrunk means, and inverse
// Wishart (full) or inverse gamma (diag) posterior mean precisions.
func (m *Model) mStep(x mat.Matrix, like *mat.Dense) {
	n, _ := like.Dims()
	pop := population(like)

	// Normalized responsibilities; like stays untouched for the caller.
	resp := mat.NewDense(n, m.K, nil)
	for s := range n {
		lrow := like.RawRowView(s)
		sl := max(floats.Sum(lrow), tiny)
		rrow := resp.RawRowView(s)
		for i, v := range lrow {
			rrow[i] = v / sl
		}
	}

	// Weights: prior counts plus soft populations, normalized.
	wsum := 0.0
	for i := range m.K {
		m.Weights[i] = m.priorWeights[i] + pop[i]
		wsum += m.Weights[i]
	}
	floats.Scale(1/wsum, m.Weights)

	// respᵀ·x serves both the shrunk means and the empirical means.
	var wx mat.Dense
	wx.Mul(resp.T(), x)

	shrink := make([]float64, m.K)
	for i := range m.K {
		shrink[i] = pop[i] + m.priorShrinkage
	}
	for i := range m.K {
		for j := range m.Dim {
			v := (wx.At(i, j) + m.priorMeans.At(i, j)*m.priorShrinkage) / shrink[i]
			m.Means.Set(i, j, v)
		}
	}

	empMeans := mat.NewDense(m.K, m.Dim, nil)
	for i := range m.K {
		for j := range m.Dim {
			empMeans.Set(i, j, wx.At(i, j)/max(pop[i], tiny))
		}
	}

	if m.Kind == PrecFull {
		m.mStepFull(x, resp, pop, shrink, empMeans)
	} else {
		m.mStepDiag(x, resp, pop, shrink, empMeans)
	}
}

// mStepFull updates full precisions. The posterior mean covariance of
// component i is
//
//	(prior scale⁻¹ + scatter about the empirical mean
//	  + shrinkage drift from the prior mean) / dof
//
// with dof = priorDOF + pop + dim + 2, and the precision is its
// pseudo-inverse.
func (m *Model) mStepFull(x mat.Matrix, resp *mat.Dense, pop, shrink []float64, empMeans *mat.Dense) {
	n, _ := resp.Dims()
	row := make([]float64, m.Dim)
	diff := make([]float64, m.Dim)
	dv := mat.NewVecDense(m.Dim, diff)
	cov := mat.NewSymDense(m.Dim, nil)
	for i := range m.K {
		pinvSym(cov, m.priorScale.Full[i])
		em := empMeans.RawRowView(i)
		for s := range n {
			w := resp.At(s, i)
			if w == 0 {
				continue
			}
			mat.Row(row, s, x)
			for j, v := range row {
				diff[j] = v - em[j]
			}
			cov.SymRankOne(cov, w, dv)
		}
		for j := range diff {
			diff[j] = em[j] - m.priorMeans.At(i, j)
		}
		cov.SymRankOne(cov, m.priorShrinkage*pop[i]/shrink[i], dv)

		dof := m.priorDOF + pop[i] + float64(m.Dim) + 2
		cov.ScaleSym(1/dof, cov)
		pinvSym(m.Precisions.Full[i], cov)
	}
}

// mStepDiag is the diagonal counterpart of mStepFull; covariances reduce to
// per-dimension variances and the pseudo-inverses to scalar reciprocals.
func (m *Model) mStepDiag(x mat.Matrix, resp *mat.Dense, pop, shrink []float64, empMeans *mat.Dense) {
	n, _ := resp.Dims()
	row := make([]float64, m.Dim)
	cov := make([]float64, m.Dim)
	for i := range m.K {
		em := empMeans.RawRowView(i)
		for j := range cov {
			cov[j] = 1 / m.priorScale.Diag.At(i, j)
		}
		for s := range n {
			w := resp.At(s, i)
			if w == 0 {
				continue
			}
			mat.Row(row, s, x)
			for j, v := range row {
				d := v - em[j]
				cov[j] += w * d * d
			}
		}
		drift := m.priorShrinkage * pop[i] / shrink[i]
		dof := m.priorDOF + pop[i] + float64(m.Dim) + 2
		for j := range cov {
			d := em[j] - m.priorMeans.At(i, j)
			cov[j] += drift * d * d
			m.Precisions.Diag.Set(i, j, dof/cov[j])
		}
	}
}

// ============ FITTING ============

// Initialize prepares the model for estimation on x. It installs the
// regularizing prior, obtains a hard labeling (the caller's labels when
// non-nil, the Seeder's for k > 1, a single cluster otherwise) and runs one
// M-step on the implied one-hot responsibilities.
func (m *Model) Initialize(x mat.Matrix, labels []int, opts Options) error {
	n, err := m.checkData(x)
	if err != nil {
		return err
	}
	if labels != nil {
		if len(labels) != n {
			return fmt.Errorf("%w: %d labels for %d samples", ErrShape, len(labels), n)
		}
		for s, c := range labels {
			if c < 0 || c >= m.K {
				return fmt.Errorf("%w: label %d of sample %d outside [0,%d)", ErrShape, c, s, m.K)
			}
		}
	}
	opts = opts.withDefaults()
	if err := m.setPrior(x); err != nil {
		return err
	}

	z := labels
	if z == nil {
		if m.K > 1 {
			_, z, _, err = opts.Seeder.Seed(x, m.K)
			if err != nil {
				return fmt.Errorf("gmix: seeding failed: %w", err)
			}
		} else {
			z = make([]int, n)
		}
	}

	like := mat.NewDense(n, m.K, nil)
	for s, c := range z {
		like.Set(s, c, 1)
	}
	m.mStep(x, like)
	return nil
}

// Estimate alternates E and M steps until one iteration improves the average
// data log-likelihood by less than Tol, or MaxIter is reached. It returns
// the evidence of the stopping iteration. The model must carry a prior, from
// Initialize or from a previous fit on compatible data.
func (m *Model) Estimate(x mat.Matrix, opts Options) (float64, error) {
	n, err := m.checkData(x)
	if err != nil {
		return 0, err
	}
	if m.priorMeans == nil {
		return 0, ErrNotInitialized
	}
	opts = opts.withDefaults()

	prev := math.Inf(-1)
	var like *mat.Dense
	for it := range opts.MaxIter {
		like, err = m.eStep(x)
		if err != nil {
			return 0, err
		}
		ll := sumLogRowSums(like) / float64(n)
		if opts.Logger != nil {
			opts.Logger.Printf("iteration %d: average log-likelihood %g", it, ll)
		}
		if ll < prev+opts.Tol {
			break
		}
		prev = ll
		m.mStep(x, like)
	}
	return m.bic(like), nil
}

// InitializeAndEstimate runs NumInit independent initialization and
// estimation cycles on a copy of the model's configuration and returns a
// fresh model carrying the parameters of the highest evidence cycle. Only
// the first cycle honors a non-nil labels argument; later cycles reseed
// through the Seeder. Ties keep the earliest cycle.
func (m *Model) InitializeAndEstimate(x mat.Matrix, labels []int, opts Options) (*Model, error) {
	opts = opts.withDefaults()
	best := params{score: math.Inf(-1)}
	for cycle := range opts.NumInit {
		z := labels
		if cycle > 0 {
			z = nil
		}
		if err := m.Initialize(x, z, opts); err != nil {
			return nil, err
		}
		score, err := m.Estimate(x, opts)
		if err != nil {
			return nil, err
		}
		if opts.Logger != nil {
			opts.Logger.Printf("cycle %d/%d: evidence %g", cycle+1, opts.NumInit, score)
		}
		if score > best.score {
			best = m.snapshot(score)
		}
	}
	if best.means == nil {
		return nil, ErrNoFit
	}
	out, err := NewModel(m.K, m.Dim, m.Kind)
	if err != nil {
		return nil, err
	}
	out.restore(best)
	// The prior depends only on the data and the model configuration, so the
	// winner can keep estimating without a fresh Initialize.
	out.priorMeans = m.priorMeans
	out.priorScale = m.priorScale
	out.priorWeights = m.priorWeights
	out.priorShrinkage = m.priorShrinkage
	out.priorDOF = m.priorDOF
	return out, nil
}

// Train is an alias for InitializeAndEstimate.
func (m *Model) Train(x mat.Matrix, labels []int, opts Options) (*Model, error) {
	return m.InitializeAndEstimate(x, labels, opts)
}
