package gmix_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Garyfallidis/gmix"
)

// TestNewGridErrors verifies grid validation: axis count, limit pairing,
// bin minimums and bound ordering.
func TestNewGridErrors(t *testing.T) {
	cases := []struct {
		name string
		lims []float64
		bins []int
		err  error
	}{
		{"NoAxes", nil, nil, gmix.ErrGridBounds},
		{"FourAxes", []float64{0, 1, 0, 1, 0, 1, 0, 1}, []int{2, 2, 2, 2}, gmix.ErrGridDim},
		{"LimsMismatch", []float64{0, 1, 0}, []int{2, 2}, gmix.ErrGridBounds},
		{"SingleBin", []float64{0, 1}, []int{1}, gmix.ErrGridBounds},
		{"ReversedBounds", []float64{1, 0}, []int{4}, gmix.ErrGridBounds},
		{"EmptyRange", []float64{2, 2}, []int{4}, gmix.ErrGridBounds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gmix.NewGrid(tc.lims, tc.bins)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

// TestGridPoints1D verifies spacing and endpoint inclusion on a single axis.
func TestGridPoints1D(t *testing.T) {
	g, err := gmix.NewGrid([]float64{0, 1}, []int{5})
	require.NoError(t, err)
	require.Equal(t, 1, g.Dim())

	pts := g.Points()
	r, c := pts.Dims()
	require.Equal(t, 5, r)
	require.Equal(t, 1, c)
	require.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, mat.Col(nil, 0, pts), 1e-15)
	require.InDelta(t, 0.25, g.CellVolume(), 1e-15)
}

// TestGridPoints2D verifies that the last axis varies fastest.
func TestGridPoints2D(t *testing.T) {
	g, err := gmix.NewGrid([]float64{0, 1, 10, 13}, []int{2, 4})
	require.NoError(t, err)
	require.Equal(t, 2, g.Dim())

	want := mat.NewDense(8, 2, []float64{
		0, 10,
		0, 11,
		0, 12,
		0, 13,
		1, 10,
		1, 11,
		1, 12,
		1, 13,
	})
	require.True(t, mat.Equal(want, g.Points()))
	require.InDelta(t, 1.0, g.CellVolume(), 1e-15)
}

// TestGridPoints3D verifies the point count and corner nodes of a 3-axis
// lattice.
func TestGridPoints3D(t *testing.T) {
	g, err := gmix.NewGrid([]float64{0, 1, 0, 2, 0, 3}, []int{2, 3, 4})
	require.NoError(t, err)

	pts := g.Points()
	r, c := pts.Dims()
	require.Equal(t, 24, r)
	require.Equal(t, 3, c)
	require.InDeltaSlice(t, []float64{0, 0, 0}, mat.Row(nil, 0, pts), 0)
	require.InDeltaSlice(t, []float64{1, 2, 3}, mat.Row(nil, 23, pts), 0)
	// One step of the fastest axis between consecutive rows.
	require.InDeltaSlice(t, []float64{0, 0, 1}, mat.Row(nil, 1, pts), 1e-15)
}
