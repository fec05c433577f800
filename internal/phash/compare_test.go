package phash

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceMetricLaws(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	cfg := DefaultConfig()
	hashes := make([]Hash, 24)
	for i := range hashes {
		hashes[i] = randomHash(t, cfg, rng)
	}

	dist := func(a, b Hash) int {
		d, err := Distance(a, b)
		require.NoError(t, err)
		return d
	}
	for _, a := range hashes {
		assert.Equal(t, 0, dist(a, a))
		for _, b := range hashes {
			assert.Equal(t, dist(a, b), dist(b, a))
			for _, c := range hashes {
				assert.LessOrEqual(t, dist(a, c), dist(a, b)+dist(b, c))
			}
		}
	}
}

func TestDistanceCountsDifferingBits(t *testing.T) {
	cfg := DefaultConfig()
	a, err := ParseHex("0000000000000000", cfg)
	require.NoError(t, err)
	b, err := ParseHex("f00000000000000e", cfg)
	require.NoError(t, err)

	d, err := Distance(a, b)
	require.NoError(t, err)
	assert.Equal(t, 7, d)

	ok, err := Similar(a, b, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Similar(a, b, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Similar(a, b, -1)
	assert.ErrorIs(t, err, ErrConfiguration)

	s, err := Similarity(a, a)
	require.NoError(t, err)
	assert.Equal(t, 100.0, s)
}

func TestDistanceRejectsMismatchedConfigs(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	base := DefaultConfig()
	others := map[string]Config{
		"block size": {GridSize: 32, BlockSize: 6, Resample: ResampleArea, Transform: TransformFast},
		"grid size":  {GridSize: 64, BlockSize: 8, Resample: ResampleArea, Transform: TransformFast},
		"filter":     {GridSize: 32, BlockSize: 8, Resample: ResampleBilinear, Transform: TransformFast},
	}
	a := randomHash(t, base, rng)
	for name, cfg := range others {
		t.Run(name, func(t *testing.T) {
			b := randomHash(t, cfg, rng)
			_, err := Distance(a, b)
			assert.ErrorIs(t, err, ErrConfigurationMismatch)
			_, err = Similar(a, b, 64)
			assert.ErrorIs(t, err, ErrConfigurationMismatch)
		})
	}

	// The transform implementation is not part of a hash's identity.
	direct := base
	direct.Transform = TransformDirect
	_, err := Distance(a, Hash{bits: a.Bytes(), cfg: direct})
	assert.NoError(t, err)

	_, err = Distance(a, Hash{})
	assert.ErrorIs(t, err, ErrMalformedHash)
}

func TestComparatorStrings(t *testing.T) {
	c, err := NewComparator(DefaultConfig())
	require.NoError(t, err)

	d, err := c.Distance("0000000000000000", "ff00000000000000")
	require.NoError(t, err)
	assert.Equal(t, 8, d)

	d, err = c.Distance("phash-s32-k8-area:0000000000000000", "0000000000000002")
	require.NoError(t, err)
	assert.Equal(t, 1, d)

	ok, err := c.Similar("0000000000000000", "ff00000000000000", 5)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Distance("0000000000000000", "0000000000")
	assert.ErrorIs(t, err, ErrConfigurationMismatch)

	_, err = c.Distance("0000000000000000", "phash-s32-k6-area:0000000000")
	assert.ErrorIs(t, err, ErrConfigurationMismatch)

	_, err = c.Distance("000000000000000x", "0000000000000000")
	assert.ErrorIs(t, err, ErrMalformedHash)

	_, err = c.Similar("0000000000000000", "0000000000000000", -2)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewComparator(Config{GridSize: 4, BlockSize: 8, Resample: ResampleArea, Transform: TransformFast})
	assert.ErrorIs(t, err, ErrConfiguration)
}
