package database

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"photohash/internal/phash"
)

func newTestCache(t *testing.T) *HashCache {
	t.Helper()
	hasher, err := phash.New(phash.DefaultConfig())
	require.NoError(t, err)
	return NewHashCache(hasher, time.Minute, time.Minute, zaptest.NewLogger(t))
}

func testImage(seed int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8((x*seed + y) % 256),
				G: uint8((x * y * seed) % 256),
				B: uint8((x - y*seed) % 256),
				A: 255,
			})
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestHashBytesCaches(t *testing.T) {
	db := newTestCache(t)
	data := pngBytes(t, testImage(3))

	first, cached, err := db.HashBytes(data)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 1, db.Len())

	second, cached, err := db.HashBytes(data)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.True(t, first.Equal(second))

	want, err := db.Hasher().HashImage(testImage(3))
	require.NoError(t, err)
	assert.Equal(t, want.Hex(), first.Hex())
}

func TestHashBytesRejectsGarbage(t *testing.T) {
	db := newTestCache(t)

	_, _, err := db.HashBytes(nil)
	assert.ErrorIs(t, err, phash.ErrInvalidImage)

	_, _, err = db.HashBytes([]byte("GIF89a but not really"))
	assert.ErrorIs(t, err, phash.ErrInvalidImage)
	assert.Zero(t, db.Len())
}

func TestHashDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	write("a.png", pngBytes(t, testImage(1)))
	write("b.png", pngBytes(t, testImage(2)))
	write("broken.png", []byte("nope"))
	write("notes.txt", []byte("skip me"))

	db := newTestCache(t)
	results, err := db.HashDir(context.Background(), dir, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byName := map[string]FileHash{}
	for _, r := range results {
		byName[filepath.Base(r.Filename)] = r
	}
	require.NoError(t, byName["a.png"].Err)
	require.NoError(t, byName["b.png"].Err)
	assert.Equal(t, 64, byName["a.png"].Hash.Bits())
	assert.False(t, byName["a.png"].HashedAt.IsZero())
	assert.ErrorIs(t, byName["broken.png"].Err, phash.ErrInvalidImage)

	_, err = db.HashDir(context.Background(), filepath.Join(dir, "missing"), 2)
	assert.Error(t, err)
}

func TestHashFilesCancelled(t *testing.T) {
	db := newTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := db.HashFiles(ctx, []string{"x.png", "y.png"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}
