package gmix

import "errors"

var (
	// ErrShape reports model parameters whose shapes are inconsistent with
	// the model's component count and dimension.
	ErrShape = errors.New("gmix: parameter shape inconsistent with model")

	// ErrDataDim reports a dataset whose column count differs from the
	// model dimension.
	ErrDataDim = errors.New("gmix: data dimension does not match model")

	// ErrKind reports a precision parameterization other than PrecFull or
	// PrecDiag.
	ErrKind = errors.New("gmix: unknown precision parameterization")

	// ErrModelSize reports a non-positive component count or dimension.
	ErrModelSize = errors.New("gmix: component count and dimension must be positive")

	// ErrNotInitialized reports an Estimate call on a model that has no
	// regularizing prior yet.
	ErrNotInitialized = errors.New("gmix: model carries no prior, call Initialize first")

	// ErrKRange reports an empty candidate component range.
	ErrKRange = errors.New("gmix: candidate component range is empty")

	// ErrNoFit reports that no initialization cycle produced a comparable
	// evidence, which happens only when the data contain NaNs.
	ErrNoFit = errors.New("gmix: no initialization cycle produced comparable evidence")

	// ErrGridDim reports a grid of more than three axes.
	ErrGridDim = errors.New("gmix: grids above three dimensions are not supported")

	// ErrGridBounds reports inconsistent grid limits or bin counts.
	ErrGridBounds = errors.New("gmix: grid limits and bin counts are inconsistent")
)
