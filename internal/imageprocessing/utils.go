// Package imageprocessing decodes image files and uploads for the hashing
// pipeline. Container parsing stays here so the phash package only ever sees
// decoded pixels.
package imageprocessing

import (
	"bytes"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp" // registers the webp decoder with image.Decode

	"photohash/internal/phash"
)

// SupportedImageFormats is a map of supported image file extensions
var SupportedImageFormats = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

// IsImageFile checks if the file extension is a supported image format
func IsImageFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedImageFormats[ext]
}

// Decode reads an image in any supported format, applying the EXIF
// orientation so rotated photos hash like their upright copies. Undecodable
// data is reported as phash.ErrInvalidImage.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(phash.ErrInvalidImage, "decode: %v", err)
	}
	return img, nil
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(phash.ErrInvalidImage, "decode: empty image data")
	}
	return Decode(bytes.NewReader(data))
}

// Open decodes the image file at path.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return img, nil
}

// LoadPixels decodes r and converts the result into a phash.PixelBuffer.
func LoadPixels(r io.Reader) (phash.PixelBuffer, error) {
	img, err := Decode(r)
	if err != nil {
		return phash.PixelBuffer{}, err
	}
	return phash.FromImage(img)
}

// ListImages returns the supported image files directly inside dir, sorted
// by name.
func ListImages(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, errors.Errorf("images directory does not exist: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "could not read directory")
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
