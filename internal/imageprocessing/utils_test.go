package imageprocessing

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photohash/internal/phash"
)

func createTestImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 100, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x + y) % 256),
				G: uint8((x * y) % 256),
				B: uint8((x - y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestIsImageFile(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "dir/c.png", "d.webp", "e.Tif"} {
		assert.True(t, IsImageFile(name), name)
	}
	for _, name := range []string{"notes.txt", "archive.tar.gz", "png", ""} {
		assert.False(t, IsImageFile(name), name)
	}
}

func TestDecodeBytes(t *testing.T) {
	img, err := DecodeBytes(encodePNG(t, createTestImage()))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 80), img.Bounds())

	_, err = DecodeBytes([]byte("definitely not an image"))
	assert.ErrorIs(t, err, phash.ErrInvalidImage)

	_, err = DecodeBytes(nil)
	assert.ErrorIs(t, err, phash.ErrInvalidImage)
}

func TestLoadPixels(t *testing.T) {
	buf, err := LoadPixels(bytes.NewReader(encodePNG(t, createTestImage())))
	require.NoError(t, err)
	assert.Equal(t, 100, buf.Width)
	assert.Equal(t, 80, buf.Height)
	assert.Equal(t, 4, buf.Channels)
	assert.Len(t, buf.Pix, 100*80*4)
}

func TestOpenAndListImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.png"), encodePNG(t, createTestImage()), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))

	paths, err := ListImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "one.png")}, paths)

	_, err = Open(paths[0])
	assert.NoError(t, err)

	_, err = Open(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ListImages(filepath.Join(dir, "nope"))
	assert.Error(t, err)
}
