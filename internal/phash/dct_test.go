package phash

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dctEpsilon = 1e-9

func randomGrid(size int, rng *rand.Rand) *PixelGrid {
	g := NewPixelGrid(size)
	for i := range g.Values {
		g.Values[i] = rng.Float64() * 255
	}
	return g
}

func transformers() map[string]Transformer {
	return map[string]Transformer{"direct": DirectDCT{}, "fast": FastDCT{}}
}

func TestTransformConstant(t *testing.T) {
	const c, n = 10.0, 8
	g := NewPixelGrid(n)
	for i := range g.Values {
		g.Values[i] = c
	}
	for name, tr := range transformers() {
		t.Run(name, func(t *testing.T) {
			m, err := tr.Transform(g)
			require.NoError(t, err)
			// Each orthonormal pass turns a constant c into c*sqrt(N) at DC.
			assert.InDelta(t, c*n, m.At(0, 0), dctEpsilon)
			for i, v := range m.Values[1:] {
				assert.InDelta(t, 0, v, dctEpsilon, "coefficient %d", i+1)
			}
		})
	}
}

func TestTransformSingleCosine(t *testing.T) {
	const n, freq = 8, 3
	g := NewPixelGrid(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			g.Set(x, y, math.Cos(math.Pi*(float64(x)+0.5)*freq/n))
		}
	}
	for name, tr := range transformers() {
		t.Run(name, func(t *testing.T) {
			m, err := tr.Transform(g)
			require.NoError(t, err)
			for v := 0; v < n; v++ {
				for u := 0; u < n; u++ {
					want := 0.0
					if u == freq && v == 0 {
						want = n / math.Sqrt2
					}
					assert.InDelta(t, want, m.At(u, v), dctEpsilon, "(%d,%d)", u, v)
				}
			}
		})
	}
}

func TestTransformPreservesEnergy(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := randomGrid(16, rng)
	var in float64
	for _, v := range g.Values {
		in += v * v
	}
	for name, tr := range transformers() {
		t.Run(name, func(t *testing.T) {
			m, err := tr.Transform(g)
			require.NoError(t, err)
			var out float64
			for _, v := range m.Values {
				out += v * v
			}
			assert.InDelta(t, 1, out/in, 1e-12)
		})
	}
}

func TestFastMatchesDirect(t *testing.T) {
	rng := rand.New(rand.NewSource(1337))
	for _, size := range []int{2, 4, 8, 32, 64} {
		g := randomGrid(size, rng)
		direct, err := DirectDCT{}.Transform(g)
		require.NoError(t, err)
		fast, err := FastDCT{}.Transform(g)
		require.NoError(t, err)

		scale := 255.0 * float64(size)
		for i := range direct.Values {
			if d := math.Abs(direct.Values[i] - fast.Values[i]); d > dctEpsilon*scale {
				t.Fatalf("size %d coefficient %d: direct %v fast %v", size, i, direct.Values[i], fast.Values[i])
			}
		}
	}
}

func TestTransformRejectsBadGrids(t *testing.T) {
	_, err := FastDCT{}.Transform(NewPixelGrid(12))
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = DirectDCT{}.Transform(NewPixelGrid(12))
	assert.NoError(t, err)

	bad := &PixelGrid{Size: 4, Values: make([]float64, 15)}
	for name, tr := range transformers() {
		_, err := tr.Transform(bad)
		assert.ErrorIs(t, err, ErrConfiguration, name)

		_, err = tr.Transform(nil)
		assert.ErrorIs(t, err, ErrConfiguration, name)
	}
}

func TestNewTransformer(t *testing.T) {
	tr, err := NewTransformer(TransformFast)
	require.NoError(t, err)
	assert.IsType(t, FastDCT{}, tr)

	tr, err = NewTransformer(TransformDirect)
	require.NoError(t, err)
	assert.IsType(t, DirectDCT{}, tr)

	_, err = NewTransformer("fft")
	assert.ErrorIs(t, err, ErrConfiguration)
}
