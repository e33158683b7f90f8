package gmix

import (
	"gonum.org/v1/gonum/mat"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Seeder produces an initial hard clustering of a dataset: one center per
// cluster, a cluster index per sample, and the inertia (total squared
// distance of samples to their assigned centers).
type Seeder interface {
	Seed(x mat.Matrix, k int) (centers *mat.Dense, labels []int, inertia float64, err error)
}

// KMeansSeeder seeds mixture fits with Lloyd's algorithm. Every Seed call
// starts from fresh random centers, which is what lets repeated
// initialization cycles reach different local optima.
type KMeansSeeder struct {
	km kmeans.Kmeans
}

// NewKMeansSeeder returns a seeder with the kmeans library defaults:
// convergence when under 1% of points change cluster, bounded iterations.
func NewKMeansSeeder() *KMeansSeeder {
	return &KMeansSeeder{km: kmeans.New()}
}

// Seed partitions the rows of x into k clusters.
func (ks *KMeansSeeder) Seed(x mat.Matrix, k int) (*mat.Dense, []int, float64, error) {
	n, dim := x.Dims()
	dataset := make(clusters.Observations, n)
	for s := range n {
		c := make(clusters.Coordinates, dim)
		for j := range dim {
			c[j] = x.At(s, j)
		}
		dataset[s] = c
	}
	cc, err := ks.km.Partition(dataset, k)
	if err != nil {
		return nil, nil, 0, err
	}

	centers := mat.NewDense(len(cc), dim, nil)
	for i, cl := range cc {
		centers.SetRow(i, cl.Center)
	}
	labels := make([]int, n)
	var inertia float64
	for s, obs := range dataset {
		i := cc.Nearest(obs)
		labels[s] = i
		inertia += obs.Distance(cc[i].Center)
	}
	return centers, labels, inertia, nil
}
