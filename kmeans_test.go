package gmix_test

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Garyfallidis/gmix"
	"github.com/Garyfallidis/gmix/utils"
)

// TestKMeansSeederPartitionsBlobs verifies that k-means seeding splits two
// tight, well separated blobs and reports consistent labels and inertia.
func TestKMeansSeederPartitionsBlobs(t *testing.T) {
	var (
		sigma = 0.5
		srcA  = rand.NewPCG(41, 42)
		srcB  = rand.NewPCG(43, 44)
	)
	x := mat.NewDense(200, 1, nil)
	a := utils.SampleNormal(srcA, 100, -4, sigma)
	b := utils.SampleNormal(srcB, 100, 4, sigma)
	for i := range 100 {
		x.Set(i, 0, a.At(i, 0))
		x.Set(100+i, 0, b.At(i, 0))
	}

	centers, labels, inertia, err := gmix.NewKMeansSeeder().Seed(x, 2)
	require.NoError(t, err)
	require.Len(t, labels, 200)

	counts := map[int]int{}
	for _, c := range labels {
		require.GreaterOrEqual(t, c, 0)
		require.Less(t, c, 2)
		counts[c]++
	}
	require.Len(t, counts, 2, "both clusters should be populated")

	r, c := centers.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 1, c)
	got := []float64{centers.At(0, 0), centers.At(1, 0)}
	sort.Float64s(got)
	require.InDelta(t, -4.0, got[0], 0.5)
	require.InDelta(t, 4.0, got[1], 0.5)

	// Squared distances within blobs of spread sigma stay well under the
	// all-in-one-cluster alternative.
	require.Greater(t, inertia, 0.0)
	require.Less(t, inertia, 200*4*sigma*sigma)
}

// TestKMeansSeederTooFewSamples verifies that asking for more clusters than
// samples surfaces the library error.
func TestKMeansSeederTooFewSamples(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{0, 1})
	_, _, _, err := gmix.NewKMeansSeeder().Seed(x, 3)
	require.Error(t, err)
}
