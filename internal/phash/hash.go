package phash

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// Hash is an immutable perceptual hash together with the configuration that
// produced it. The zero value is not a valid hash.
type Hash struct {
	bits []byte
	cfg  Config
}

// Config returns the configuration the hash was produced with.
func (h Hash) Config() Config { return h.cfg }

// Bits is the hash width in bits.
func (h Hash) Bits() int { return len(h.bits) * 8 }

// IsZero reports whether h is the zero value.
func (h Hash) IsZero() bool { return h.bits == nil }

// Bit reports bit i, counting from the most significant bit of the first byte.
// Indexes outside [0, Bits()) report false.
func (h Hash) Bit(i int) bool {
	if i < 0 || i >= h.Bits() {
		return false
	}
	return h.bits[i/8]&(0x80>>uint(i%8)) != 0
}

// Bytes returns a copy of the bit vector.
func (h Hash) Bytes() []byte {
	return bytes.Clone(h.bits)
}

// Uint64 returns a 64-bit hash as an integer, first bit most significant.
func (h Hash) Uint64() (uint64, error) {
	if len(h.bits) != 8 {
		return 0, errors.Wrapf(ErrConfiguration, "hash is %d bits wide, not 64", h.Bits())
	}
	return binary.BigEndian.Uint64(h.bits), nil
}

// Equal reports whether both hashes have compatible configurations and the
// same bits.
func (h Hash) Equal(o Hash) bool {
	return h.cfg.Compatible(o.cfg) && bytes.Equal(h.bits, o.bits)
}
