package phash

import (
	"math"

	"github.com/pkg/errors"
)

// Transformer turns a luma grid into its orthonormal 2-D DCT-II:
//
//	X[k] = c(k) * sum_{n=0}^{N-1} x[n] * cos(pi * (n + 0.5) * k / N)
//	c(0) = sqrt(1/N), c(k>0) = sqrt(2/N)
//
// applied to every row and then to every column.
type Transformer interface {
	Transform(g *PixelGrid) (*CoefficientMatrix, error)
}

// NewTransformer returns the implementation named by t.
func NewTransformer(t Transform) (Transformer, error) {
	switch t {
	case TransformFast:
		return FastDCT{}, nil
	case TransformDirect:
		return DirectDCT{}, nil
	}
	return nil, errors.Wrapf(ErrConfiguration, "transform: unknown implementation %q", t)
}

// DirectDCT evaluates the double sum for every coefficient. It is O(N^4) and
// serves as the reference the fast path is checked against.
type DirectDCT struct{}

// Transform implements Transformer.
func (DirectDCT) Transform(g *PixelGrid) (*CoefficientMatrix, error) {
	if err := validateGrid(g); err != nil {
		return nil, err
	}
	n := g.Size
	table := cosineTable(n)
	out := newCoefficientMatrix(n)
	for v := 0; v < n; v++ {
		for u := 0; u < n; u++ {
			var sum float64
			for y := 0; y < n; y++ {
				cy := table[v*n+y]
				row := g.Values[y*n : (y+1)*n]
				for x, s := range row {
					sum += float64(s * table[u*n+x] * cy)
				}
			}
			out.Values[v*n+u] = sum * dctScale(u, n) * dctScale(v, n)
		}
	}
	return out, nil
}

// FastDCT runs Lee's recursive DCT-II on rows and columns, O(N^2 log N).
// N must be a power of two.
type FastDCT struct{}

// Transform implements Transformer.
func (FastDCT) Transform(g *PixelGrid) (*CoefficientMatrix, error) {
	if err := validateGrid(g); err != nil {
		return nil, err
	}
	n := g.Size
	if !isPowerOfTwo(n) {
		return nil, errors.Wrapf(ErrConfiguration, "transform: fast DCT needs a power of two size, got %d", n)
	}

	out := newCoefficientMatrix(n)
	copy(out.Values, g.Values)
	vec := make([]float64, n)
	tmp := make([]float64, n)

	// Rows.
	for y := 0; y < n; y++ {
		row := out.Values[y*n : (y+1)*n]
		copy(vec, row)
		lee(vec, tmp)
		for k := range row {
			row[k] = vec[k] * dctScale(k, n)
		}
	}

	// Columns.
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			vec[y] = out.Values[y*n+x]
		}
		lee(vec, tmp)
		for k := 0; k < n; k++ {
			out.Values[k*n+x] = vec[k] * dctScale(k, n)
		}
	}
	return out, nil
}

// lee computes the unscaled DCT-II of v in place, using tmp (same length) as
// scratch. len(v) must be a power of two.
func lee(v, tmp []float64) {
	n := len(v)
	if n == 1 {
		return
	}
	half := n / 2
	for i := 0; i < half; i++ {
		x, y := v[i], v[n-1-i]
		tmp[i] = x + y
		tmp[i+half] = (x - y) / (math.Cos((float64(i)+0.5)*math.Pi/float64(n)) * 2)
	}
	lee(tmp[:half], v[:half])
	lee(tmp[half:], v[half:])
	for i := 0; i < half-1; i++ {
		v[2*i] = tmp[i]
		v[2*i+1] = tmp[i+half] + tmp[i+half+1]
	}
	v[n-2] = tmp[half-1]
	v[n-1] = tmp[n-1]
}

// cosineTable holds cos(pi*(i+0.5)*k/n) at index k*n+i.
func cosineTable(n int) []float64 {
	t := make([]float64, n*n)
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			t[k*n+i] = math.Cos(math.Pi * (float64(i) + 0.5) * float64(k) / float64(n))
		}
	}
	return t
}

func dctScale(k, n int) float64 {
	if k == 0 {
		return math.Sqrt(1 / float64(n))
	}
	return math.Sqrt(2 / float64(n))
}

func validateGrid(g *PixelGrid) error {
	if g == nil || g.Size < 1 {
		return errors.Wrap(ErrConfiguration, "transform: empty grid")
	}
	return checkSquare("transform", g.Size, g.Values, g.Size)
}
