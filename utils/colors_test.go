package utils_test

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Garyfallidis/gmix/utils"
)

// halfAndHalf paints the left half of a w×h image red and the right half
// blue.
func halfAndHalf(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			c := color.RGBA{R: 255, A: 255}
			if x >= w/2 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// TestPixelDatasetShapeAndStep verifies row counts for full and strided
// scans and that the Lab lightness stays in range.
func TestPixelDatasetShapeAndStep(t *testing.T) {
	img := halfAndHalf(8, 6)

	full := utils.PixelDataset(img, 1)
	r, c := full.Dims()
	require.Equal(t, 48, r)
	require.Equal(t, 3, c)
	for i := range r {
		l := full.At(i, 0)
		require.GreaterOrEqual(t, l, 0.0)
		require.LessOrEqual(t, l, 1.0)
	}

	// Step 2 keeps x in {0,2,4,6} and y in {0,2,4}.
	strided := utils.PixelDataset(img, 2)
	r, c = strided.Dims()
	require.Equal(t, 12, r)
	require.Equal(t, 3, c)
}

// TestMeansPaletteRoundTrip verifies that Lab rows convert back to the
// colors they came from.
func TestMeansPaletteRoundTrip(t *testing.T) {
	red := colorful.Color{R: 1, G: 0, B: 0}
	l, a, b := red.Lab()
	palette := utils.MeansPalette(mat.NewDense(1, 3, []float64{l, a, b}))
	require.Len(t, palette, 1)
	require.InDelta(t, 1.0, palette[0].R, 1e-6)
	require.InDelta(t, 0.0, palette[0].G, 1e-6)
	require.InDelta(t, 0.0, palette[0].B, 1e-6)
}

// TestRenderLabels verifies per-pixel palette lookup in row-major order.
func TestRenderLabels(t *testing.T) {
	palette := []colorful.Color{{R: 0, G: 0, B: 0}, {R: 1, G: 1, B: 1}}
	img := utils.RenderLabels(2, 1, []int{0, 1}, palette)

	require.Equal(t, color.RGBA{A: 255}, img.RGBAAt(0, 0))
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(1, 0))
}

// TestSortPaletteByBrightness verifies the darkest-first ordering.
func TestSortPaletteByBrightness(t *testing.T) {
	palette := []colorful.Color{
		{R: 1, G: 1, B: 1},
		{R: 0, G: 0, B: 0},
		{R: 0.5, G: 0.5, B: 0.5},
	}
	utils.SortPaletteByBrightness(palette)
	require.Equal(t, 0.0, palette[0].R)
	require.Equal(t, 0.5, palette[1].R)
	require.Equal(t, 1.0, palette[2].R)
}

// TestSavePaletteAndReadImage round-trips a palette strip through a PNG
// file.
func TestSavePaletteAndReadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.png")
	palette := []colorful.Color{{R: 1, G: 0, B: 0}, {R: 0, G: 0, B: 1}}
	require.NoError(t, utils.SavePalette(palette, 8, path))

	img, err := utils.ReadImage(path)
	require.NoError(t, err)
	require.Equal(t, 16, img.Bounds().Dx())
	require.Equal(t, 8, img.Bounds().Dy())
}

// TestSavePaletteRejectsEmpty verifies the empty palette error.
func TestSavePaletteRejectsEmpty(t *testing.T) {
	err := utils.SavePalette(nil, 8, filepath.Join(t.TempDir(), "empty.png"))
	require.Error(t, err)
}

// TestDominantPalette runs the dominant color extractor over a two color
// image.
func TestDominantPalette(t *testing.T) {
	img := halfAndHalf(64, 64)
	palette := utils.DominantPalette(img, 2)
	require.NotEmpty(t, palette)
	require.LessOrEqual(t, len(palette), 2)
}
