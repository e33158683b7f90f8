package utils

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// SampleNormal draws n scalar samples from N(mu, sigma²) as an n×1 dataset.
func SampleNormal(src rand.Source, n int, mu, sigma float64) *mat.Dense {
	dist := distuv.Normal{Mu: mu, Sigma: sigma, Src: src}
	x := mat.NewDense(n, 1, nil)
	for i := range n {
		x.Set(i, 0, dist.Rand())
	}
	return x
}

// SampleMixture draws n samples from the Gaussian mixture given by the
// component weights, means and covariances. It returns the samples, one per
// row, and the index of the component that generated each.
func SampleMixture(src rand.Source, n int, weights []float64, means [][]float64, covs []*mat.SymDense) (*mat.Dense, []int, error) {
	if len(weights) == 0 || len(means) != len(weights) || len(covs) != len(weights) {
		return nil, nil, fmt.Errorf("utils: %d weights, %d means, %d covariances", len(weights), len(means), len(covs))
	}
	comps := make([]*distmv.Normal, len(weights))
	for i := range comps {
		nrm, ok := distmv.NewNormal(means[i], covs[i], src)
		if !ok {
			return nil, nil, fmt.Errorf("utils: covariance %d is not positive definite", i)
		}
		comps[i] = nrm
	}
	cat := distuv.NewCategorical(weights, src)

	x := mat.NewDense(n, len(means[0]), nil)
	labels := make([]int, n)
	for i := range n {
		c := int(cat.Rand())
		labels[i] = c
		comps[c].Rand(x.RawRowView(i))
	}
	return x, labels, nil
}
