package utils

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"
)

// maxFitSamples is the pixel count PixelDataset aims for when it chooses a
// subsampling step itself.
const maxFitSamples = 12000

// PixelDataset converts the pixels of img to rows of CIE-Lab coordinates,
// one sample per pixel, scanning rows top to bottom. step samples every
// step-th pixel along both axes; step 1 keeps every pixel, step <= 0 picks a
// step that keeps roughly maxFitSamples pixels. Fully transparent pixels map
// to black.
func PixelDataset(img image.Image, step int) *mat.Dense {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	if step <= 0 {
		step = 1
		if w*h > maxFitSamples {
			step = int(math.Sqrt(float64(w*h)/float64(maxFitSamples))) + 1
		}
	}

	rows := make([]float64, 0, 3*min(w*h, maxFitSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			col, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				col = colorful.Color{}
			}
			l, a, bb := col.Lab()
			rows = append(rows, l, a, bb)
		}
	}
	return mat.NewDense(len(rows)/3, 3, rows)
}

// MeansPalette interprets the rows of means as CIE-Lab coordinates and
// returns them as clamped colors. Component means of a mixture fitted on a
// PixelDataset become the palette of the image.
func MeansPalette(means *mat.Dense) []colorful.Color {
	k, _ := means.Dims()
	palette := make([]colorful.Color, k)
	for i := range palette {
		row := means.RawRowView(i)
		palette[i] = colorful.Lab(row[0], row[1], row[2]).Clamped()
	}
	return palette
}

// RenderLabels paints a w×h image whose pixel (x, y) takes the palette color
// of labels[y*w+x]. Labels must follow PixelDataset row order with step 1.
func RenderLabels(w, h int, labels []int, palette []colorful.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			c := palette[labels[y*w+x]]
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(max(0, min(255, c.R*255))),
				G: uint8(max(0, min(255, c.G*255))),
				B: uint8(max(0, min(255, c.B*255))),
				A: 255,
			})
		}
	}
	return img
}

// DominantPalette returns the k heaviest dominant colors of img, a reference
// point for palettes obtained by clustering.
func DominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	candidates := dominantcolor.FindWeight(img, max(24, k*8))
	slices.SortFunc(candidates, func(a, b dominantcolor.Color) int {
		if a.Weight > b.Weight {
			return -1
		}
		if a.Weight < b.Weight {
			return 1
		}
		return 0
	})
	palette := make([]colorful.Color, 0, k)
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		palette = append(palette, col.Clamped())
		if len(palette) == k {
			break
		}
	}
	return palette
}

// SortPaletteByBrightness orders colors from darkest to brightest.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ri, gi, bi := a.LinearRgb()
		rj, gj, bj := b.LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})
}

// ReadImage decodes the PNG or other registered image format at path.
func ReadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// SaveImage writes img to filename as PNG.
func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// SavePalette renders palette as a strip of square tiles and writes it to
// filename as PNG.
func SavePalette(palette []colorful.Color, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}

	img := image.NewRGBA(image.Rect(0, 0, tileSize*len(palette), tileSize))
	for i, c := range palette {
		r := uint8(max(0, min(255, c.R*255)))
		g := uint8(max(0, min(255, c.G*255)))
		b := uint8(max(0, min(255, c.B*255)))
		x0 := i * tileSize
		for y := range tileSize {
			for x := x0; x < x0+tileSize; x++ {
				img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
			}
		}
	}
	return SaveImage(img, filename)
}
