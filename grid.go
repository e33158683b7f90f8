package gmix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Grid describes a Cartesian lattice over up to three dimensions, used to
// evaluate mixture densities on regularly spaced points.
type Grid struct {
	// Lims holds the inclusive axis bounds as (min0, max0, min1, max1, ...).
	Lims []float64
	// Bins holds the number of lattice points per axis, each at least 2.
	Bins []int
}

// NewGrid validates bounds and bin counts. The dimension is len(bins), and
// lims must hold a (min, max) pair per axis.
func NewGrid(lims []float64, bins []int) (*Grid, error) {
	dim := len(bins)
	if dim == 0 || len(lims) != 2*dim {
		return nil, fmt.Errorf("%w: %d limits for %d axes", ErrGridBounds, len(lims), dim)
	}
	if dim > 3 {
		return nil, fmt.Errorf("%w: %d axes", ErrGridDim, dim)
	}
	for j, b := range bins {
		if b < 2 {
			return nil, fmt.Errorf("%w: axis %d has %d bins", ErrGridBounds, j, b)
		}
		if lims[2*j] >= lims[2*j+1] {
			return nil, fmt.Errorf("%w: axis %d bounds [%g, %g]", ErrGridBounds, j, lims[2*j], lims[2*j+1])
		}
	}
	return &Grid{
		Lims: append([]float64(nil), lims...),
		Bins: append([]int(nil), bins...),
	}, nil
}

// Dim returns the number of lattice axes.
func (g *Grid) Dim() int { return len(g.Bins) }

// Points returns the prod(bins)×dim matrix of lattice nodes. Both endpoints
// of every axis are included, and the last axis varies fastest.
func (g *Grid) Points() *mat.Dense {
	dim := g.Dim()
	size := 1
	axes := make([][]float64, dim)
	for j := range axes {
		lo, hi := g.Lims[2*j], g.Lims[2*j+1]
		step := (hi - lo) / float64(g.Bins[j]-1)
		ax := make([]float64, g.Bins[j])
		for i := range ax {
			ax[i] = lo + step*float64(i)
		}
		axes[j] = ax
		size *= g.Bins[j]
	}
	pts := mat.NewDense(size, dim, nil)
	for idx := range size {
		rem := idx
		for j := dim - 1; j >= 0; j-- {
			pts.Set(idx, j, axes[j][rem%g.Bins[j]])
			rem /= g.Bins[j]
		}
	}
	return pts
}

// CellVolume returns the volume of one lattice cell, the quadrature weight
// for integrating a density sampled at the nodes.
func (g *Grid) CellVolume() float64 {
	v := 1.0
	for j := range g.Bins {
		v *= (g.Lims[2*j+1] - g.Lims[2*j]) / float64(g.Bins[j]-1)
	}
	return v
}
