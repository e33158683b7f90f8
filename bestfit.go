package gmix

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// BestFit fits one model per candidate component count in krange, each
// through NumInit initialization and estimation cycles, and returns the
// model with the highest evidence on x. Candidates are fitted concurrently
// on isolated models; the selection is reduced after all fits finish, in
// krange order with strict improvement, so the winner matches a serial
// sweep. A tie keeps the earliest candidate.
func BestFit(x mat.Matrix, krange []int, kind PrecKind, opts Options) (*Model, error) {
	if len(krange) == 0 {
		return nil, ErrKRange
	}
	for _, k := range krange {
		if k < 1 {
			return nil, fmt.Errorf("%w: k=%d", ErrModelSize, k)
		}
	}
	if !kind.valid() {
		return nil, fmt.Errorf("%w: %v", ErrKind, kind)
	}
	_, dim := x.Dims()
	opts = opts.withDefaults()

	type fit struct {
		model *Model
		score float64
		err   error
	}
	fits := make([]fit, len(krange))
	quiet := opts
	quiet.Logger = nil

	var wg sync.WaitGroup
	for i, k := range krange {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := NewModel(k, dim, kind)
			if err != nil {
				fits[i] = fit{err: err}
				return
			}
			fitted, err := m.InitializeAndEstimate(x, nil, quiet)
			if err != nil {
				fits[i] = fit{err: err}
				return
			}
			score, err := fitted.Evidence(x)
			if err != nil {
				fits[i] = fit{err: err}
				return
			}
			fits[i] = fit{model: fitted, score: score}
		}()
	}
	wg.Wait()

	best := -1
	bestScore := math.Inf(-1)
	for i, f := range fits {
		if f.err != nil {
			return nil, f.err
		}
		if opts.Logger != nil {
			opts.Logger.Printf("k=%d: evidence %g", krange[i], f.score)
		}
		if f.score > bestScore {
			bestScore = f.score
			best = i
		}
	}
	if best < 0 {
		return nil, ErrNoFit
	}
	return fits[best].model, nil
}
