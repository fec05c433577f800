package phash

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// decisionEpsilon is the relative tolerance of the bit decision. Coefficients
// closer than this to the median are ties and encode as 0, which absorbs
// rounding differences between transforms and makes flat images hash to zero.
const decisionEpsilon = 1e-9

// SelectLowFrequency returns the top-left k x k block of m in row-major order
// with the DC term at (0,0) left out, k*k-1 values in total.
func SelectLowFrequency(m *CoefficientMatrix, k int) ([]float64, error) {
	if m == nil {
		return nil, errors.Wrap(ErrConfiguration, "select: nil coefficient matrix")
	}
	if k < 2 {
		return nil, errors.Wrapf(ErrConfiguration, "select: block size %d leaves no AC coefficients", k)
	}
	if k > m.Size {
		return nil, errors.Wrapf(ErrConfiguration, "select: block size %d exceeds grid size %d", k, m.Size)
	}

	out := make([]float64, 0, k*k-1)
	for v := 0; v < k; v++ {
		for u := 0; u < k; u++ {
			if u == 0 && v == 0 {
				continue
			}
			out = append(out, m.At(u, v))
		}
	}
	return out, nil
}

// Median returns the middle value of values, or the mean of the two middle
// values for an even count. values is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// EncodeBits thresholds coeffs against their median into a width-bit vector.
// Bit i (MSB first) is set iff coeffs[i] is above the median; trailing
// padding bits stay 0.
func EncodeBits(coeffs []float64, width int) ([]byte, error) {
	if len(coeffs) == 0 {
		return nil, errors.Wrap(ErrConfiguration, "encode: no coefficients")
	}
	if width%8 != 0 || width < len(coeffs) {
		return nil, errors.Wrapf(ErrConfiguration, "encode: width %d cannot hold %d coefficients", width, len(coeffs))
	}

	median := Median(coeffs)
	var scale float64
	for _, c := range coeffs {
		scale = math.Max(scale, math.Abs(c))
	}
	eps := decisionEpsilon * math.Max(1, scale)

	out := make([]byte, width/8)
	for i, c := range coeffs {
		if c-median > eps {
			out[i/8] |= 0x80 >> uint(i%8)
		}
	}
	return out, nil
}
