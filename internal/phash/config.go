// Package phash computes DCT based perceptual hashes of raster images and
// compares them by Hamming distance.
//
// The pipeline is luma normalization to an S x S grid, a 2-D DCT-II, selection
// of the K x K low frequency block without its DC term, and thresholding of
// those coefficients against their median. Hashes carry the Config that
// produced them and only hashes with equal Configs can be compared.
package phash

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Resample names the filter used to shrink the luma plane to the analysis grid.
type Resample string

const (
	// ResampleArea averages every source pixel weighted by the fraction of it
	// that falls inside the destination pixel.
	ResampleArea Resample = "area"
	// ResampleBilinear interpolates the four source pixels around each
	// destination pixel centre.
	ResampleBilinear Resample = "bilinear"
)

// Transform selects the DCT implementation. Both produce identical hashes, so
// the choice is not part of a hash's identity.
type Transform string

const (
	TransformFast   Transform = "fast"
	TransformDirect Transform = "direct"
)

const (
	DefaultGridSize  = 32
	DefaultBlockSize = 8

	// MaxGridSize bounds the analysis grid; the direct transform is O(S^4).
	MaxGridSize = 256

	tagPrefix = "phash"
)

// Config fixes every parameter that influences hash bits.
type Config struct {
	GridSize  int       `json:"grid_size"`
	BlockSize int       `json:"block_size"`
	Resample  Resample  `json:"resample"`
	Transform Transform `json:"transform"`
}

// DefaultConfig is the reference configuration: 32x32 grid, 8x8 block, area
// resampling. It yields 64-bit hashes.
func DefaultConfig() Config {
	return Config{
		GridSize:  DefaultGridSize,
		BlockSize: DefaultBlockSize,
		Resample:  ResampleArea,
		Transform: TransformFast,
	}
}

// Validate reports whether the configuration can be used to build a Hasher.
func (c Config) Validate() error {
	if c.GridSize < 2 || c.GridSize > MaxGridSize {
		return errors.Wrapf(ErrConfiguration, "grid size %d outside [2, %d]", c.GridSize, MaxGridSize)
	}
	if c.BlockSize < 2 {
		return errors.Wrapf(ErrConfiguration, "block size %d leaves no AC coefficients", c.BlockSize)
	}
	if c.BlockSize > c.GridSize {
		return errors.Wrapf(ErrConfiguration, "block size %d exceeds grid size %d", c.BlockSize, c.GridSize)
	}
	switch c.Resample {
	case ResampleArea, ResampleBilinear:
	default:
		return errors.Wrapf(ErrConfiguration, "unknown resample filter %q", c.Resample)
	}
	switch c.Transform {
	case TransformDirect:
	case TransformFast:
		if !isPowerOfTwo(c.GridSize) {
			return errors.Wrapf(ErrConfiguration, "fast transform needs a power of two grid size, got %d", c.GridSize)
		}
	default:
		return errors.Wrapf(ErrConfiguration, "unknown transform %q", c.Transform)
	}
	return nil
}

// Coefficients is the number of AC coefficients that become hash bits.
func (c Config) Coefficients() int {
	return c.BlockSize*c.BlockSize - 1
}

// Bits is the hash width: the coefficient count rounded up to whole bytes.
func (c Config) Bits() int {
	return (c.Coefficients() + 7) / 8 * 8
}

// Tag identifies the configuration in textual hashes, e.g. "phash-s32-k8-area".
func (c Config) Tag() string {
	return fmt.Sprintf("%s-s%d-k%d-%s", tagPrefix, c.GridSize, c.BlockSize, c.Resample)
}

// identity strips fields that do not affect hash bits.
func (c Config) identity() Config {
	c.Transform = ""
	return c
}

// Compatible reports whether hashes produced under c and o may be compared.
func (c Config) Compatible(o Config) bool {
	return c.identity() == o.identity()
}

// ParseTag is the inverse of Config.Tag. The returned Config uses the fast
// transform when the grid size allows it.
func ParseTag(tag string) (Config, error) {
	parts := strings.Split(tag, "-")
	if len(parts) != 4 || parts[0] != tagPrefix ||
		!strings.HasPrefix(parts[1], "s") || !strings.HasPrefix(parts[2], "k") {
		return Config{}, errors.Wrapf(ErrMalformedHash, "unrecognized configuration tag %q", tag)
	}
	s, err := strconv.Atoi(parts[1][1:])
	if err != nil {
		return Config{}, errors.Wrapf(ErrMalformedHash, "grid size in tag %q", tag)
	}
	k, err := strconv.Atoi(parts[2][1:])
	if err != nil {
		return Config{}, errors.Wrapf(ErrMalformedHash, "block size in tag %q", tag)
	}
	if strconv.Itoa(s) != parts[1][1:] || strconv.Itoa(k) != parts[2][1:] {
		return Config{}, errors.Wrapf(ErrMalformedHash, "non-canonical numbers in tag %q", tag)
	}
	cfg := Config{GridSize: s, BlockSize: k, Resample: Resample(parts[3]), Transform: TransformFast}
	if !isPowerOfTwo(s) {
		cfg.Transform = TransformDirect
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(ErrMalformedHash, "tag %q: %v", tag, err)
	}
	return cfg, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
