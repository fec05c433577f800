package phash

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ITU-R BT.601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// PixelBuffer is decoded, uncompressed image data as handed over by a decoder.
// Samples are interleaved row-major; 16-bit samples are big-endian.
type PixelBuffer struct {
	Width    int
	Height   int
	Channels int // 1 (luma), 3 (RGB) or 4 (RGBA, alpha ignored)
	Depth    int // bits per sample, 8 or 16
	Pix      []byte
}

func (b PixelBuffer) validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return errors.Wrapf(ErrInvalidImage, "normalize: zero area image %dx%d", b.Width, b.Height)
	}
	switch b.Channels {
	case 1, 3, 4:
	default:
		return errors.Wrapf(ErrConfiguration, "normalize: unsupported channel count %d", b.Channels)
	}
	if b.Depth != 8 && b.Depth != 16 {
		return errors.Wrapf(ErrConfiguration, "normalize: unsupported sample depth %d", b.Depth)
	}
	// Bound each factor by the buffer before multiplying so huge dimensions
	// cannot wrap the product.
	pixel := b.Channels * (b.Depth / 8)
	if b.Height > len(b.Pix)/pixel || b.Width > len(b.Pix)/pixel/b.Height {
		return errors.Wrapf(ErrInvalidImage, "normalize: pixel buffer holds %d bytes, too few for %dx%dx%d at %d bits",
			len(b.Pix), b.Width, b.Height, b.Channels, b.Depth)
	}
	want := b.Width * b.Height * pixel
	if len(b.Pix) != want {
		return errors.Wrapf(ErrInvalidImage, "normalize: pixel buffer holds %d bytes, %dx%dx%d at %d bits needs %d",
			len(b.Pix), b.Width, b.Height, b.Channels, b.Depth, want)
	}
	return nil
}

// sample returns sample i scaled to [0,255].
func (b PixelBuffer) sample(i int) float64 {
	if b.Depth == 16 {
		v := uint16(b.Pix[2*i])<<8 | uint16(b.Pix[2*i+1])
		return float64(v) / 257
	}
	return float64(b.Pix[i])
}

// luma collapses the buffer to one float per pixel.
func (b PixelBuffer) luma() []float64 {
	n := b.Width * b.Height
	out := make([]float64, n)
	if b.Channels == 1 {
		for i := range out {
			out[i] = b.sample(i)
		}
		return out
	}
	for i := range out {
		s := i * b.Channels
		// Conversions keep each product rounded so no platform fuses them.
		out[i] = float64(lumaR*b.sample(s)) + float64(lumaG*b.sample(s+1)) + float64(lumaB*b.sample(s+2))
	}
	return out
}

// FromImage converts a decoded image into a PixelBuffer. Gray images keep a
// single channel; everything else is converted to non-premultiplied RGBA so
// that alpha is carried but never composited into the colour samples.
func FromImage(img image.Image) (PixelBuffer, error) {
	if img == nil {
		return PixelBuffer{}, errors.Wrap(ErrInvalidImage, "normalize: nil image")
	}
	r := img.Bounds()
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return PixelBuffer{}, errors.Wrapf(ErrInvalidImage, "normalize: zero area image %dx%d", w, h)
	}

	switch src := img.(type) {
	case *image.Gray:
		pix := make([]byte, w*h)
		for y := 0; y < h; y++ {
			off := src.PixOffset(r.Min.X, r.Min.Y+y)
			copy(pix[y*w:(y+1)*w], src.Pix[off:off+w])
		}
		return PixelBuffer{Width: w, Height: h, Channels: 1, Depth: 8, Pix: pix}, nil
	case *image.Gray16:
		pix := make([]byte, 2*w*h)
		for y := 0; y < h; y++ {
			off := src.PixOffset(r.Min.X, r.Min.Y+y)
			copy(pix[2*y*w:2*(y+1)*w], src.Pix[off:off+2*w])
		}
		return PixelBuffer{Width: w, Height: h, Channels: 1, Depth: 16, Pix: pix}, nil
	}

	nrgba := imaging.Clone(img)
	return PixelBuffer{Width: w, Height: h, Channels: 4, Depth: 8, Pix: nrgba.Pix}, nil
}

// Normalize produces the size x size luma grid for buf. Luma is computed at
// source resolution and then resampled with the given filter.
func Normalize(buf PixelBuffer, size int, filter Resample) (*PixelGrid, error) {
	if err := buf.validate(); err != nil {
		return nil, err
	}
	if size < 1 {
		return nil, errors.Wrapf(ErrConfiguration, "normalize: grid size %d", size)
	}

	var xTaps, yTaps [][]tap
	switch filter {
	case ResampleArea:
		xTaps, yTaps = areaTaps(buf.Width, size), areaTaps(buf.Height, size)
	case ResampleBilinear:
		xTaps, yTaps = bilinearTaps(buf.Width, size), bilinearTaps(buf.Height, size)
	default:
		return nil, errors.Wrapf(ErrConfiguration, "normalize: unknown resample filter %q", filter)
	}

	grid := NewPixelGrid(size)
	resample(buf.luma(), buf.Width, buf.Height, size, xTaps, yTaps, grid.Values)
	return grid, nil
}

// tap is one source sample contributing to a destination sample.
type tap struct {
	index  int
	weight float64
}

// areaTaps maps n source samples onto m destination samples, weighting each
// source sample by the fraction of the destination span it covers.
func areaTaps(n, m int) [][]tap {
	taps := make([][]tap, m)
	span := float64(n) / float64(m)
	for i := range taps {
		lo := float64(i*n) / float64(m)
		hi := float64((i+1)*n) / float64(m)
		for j := int(lo); j < n && float64(j) < hi; j++ {
			overlap := math.Min(hi, float64(j+1)) - math.Max(lo, float64(j))
			if overlap <= 0 {
				continue
			}
			taps[i] = append(taps[i], tap{index: j, weight: overlap / span})
		}
	}
	return taps
}

// bilinearTaps samples the two source pixels around each destination centre.
func bilinearTaps(n, m int) [][]tap {
	taps := make([][]tap, m)
	for i := range taps {
		c := (float64(i)+0.5)*float64(n)/float64(m) - 0.5
		c = math.Max(0, math.Min(c, float64(n-1)))
		j0 := int(math.Floor(c))
		f := c - float64(j0)
		j1 := j0 + 1
		if j1 >= n || f == 0 {
			taps[i] = []tap{{index: j0, weight: 1}}
			continue
		}
		taps[i] = []tap{{index: j0, weight: 1 - f}, {index: j1, weight: f}}
	}
	return taps
}

// resample runs the horizontal pass into an h x size buffer, then the
// vertical pass into dst.
func resample(src []float64, w, h, size int, xTaps, yTaps [][]tap, dst []float64) {
	tmp := make([]float64, h*size)
	for y := 0; y < h; y++ {
		row := src[y*w : (y+1)*w]
		for x, taps := range xTaps {
			var sum float64
			for _, t := range taps {
				sum += float64(row[t.index] * t.weight)
			}
			tmp[y*size+x] = sum
		}
	}
	for y, taps := range yTaps {
		for x := 0; x < size; x++ {
			var sum float64
			for _, t := range taps {
				sum += float64(tmp[t.index*size+x] * t.weight)
			}
			dst[y*size+x] = sum
		}
	}
}
