package phash

import (
	"github.com/pkg/errors"
)

// PixelGrid is the square luma plane produced by Normalize. Values are in
// [0,255] and stored row-major.
type PixelGrid struct {
	Size   int
	Values []float64
}

// NewPixelGrid allocates a zeroed size x size grid.
func NewPixelGrid(size int) *PixelGrid {
	return &PixelGrid{Size: size, Values: make([]float64, size*size)}
}

// At returns the sample in column x of row y.
func (g *PixelGrid) At(x, y int) float64 {
	return g.Values[y*g.Size+x]
}

// Set stores v in column x of row y.
func (g *PixelGrid) Set(x, y int, v float64) {
	g.Values[y*g.Size+x] = v
}

// CoefficientMatrix holds the 2-D DCT of a PixelGrid. Entry (0,0) is the DC
// term; the row index is the vertical frequency.
type CoefficientMatrix struct {
	Size   int
	Values []float64
}

func newCoefficientMatrix(size int) *CoefficientMatrix {
	return &CoefficientMatrix{Size: size, Values: make([]float64, size*size)}
}

// At returns the coefficient for horizontal frequency u and vertical frequency v.
func (m *CoefficientMatrix) At(u, v int) float64 {
	return m.Values[v*m.Size+u]
}

// checkSquare rejects buffers that are not exactly want x want.
func checkSquare(stage string, size int, values []float64, want int) error {
	if size != want {
		return errors.Wrapf(ErrConfiguration, "%s: grid is %dx%d, want %dx%d", stage, size, size, want, want)
	}
	if len(values) != size*size {
		return errors.Wrapf(ErrConfiguration, "%s: %d values for a %dx%d grid", stage, len(values), size, size)
	}
	return nil
}
