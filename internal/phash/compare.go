package phash

import (
	"math/bits"

	"github.com/pkg/errors"
)

// Distance is the Hamming distance between a and b. It is a metric over
// hashes of one configuration; hashes of different configurations are
// rejected with ErrConfigurationMismatch.
func Distance(a, b Hash) (int, error) {
	if a.IsZero() || b.IsZero() {
		return 0, errors.Wrap(ErrMalformedHash, "compare: zero hash")
	}
	if !a.cfg.Compatible(b.cfg) || len(a.bits) != len(b.bits) {
		return 0, errors.Wrapf(ErrConfigurationMismatch, "compare: %s (%d bits) against %s (%d bits)",
			a.cfg.Tag(), a.Bits(), b.cfg.Tag(), b.Bits())
	}
	d := 0
	for i := range a.bits {
		d += bits.OnesCount8(a.bits[i] ^ b.bits[i])
	}
	return d, nil
}

// Similar reports whether a and b are at most maxDistance bits apart.
func Similar(a, b Hash, maxDistance int) (bool, error) {
	if maxDistance < 0 {
		return false, errors.Wrapf(ErrConfiguration, "compare: negative max distance %d", maxDistance)
	}
	d, err := Distance(a, b)
	if err != nil {
		return false, err
	}
	return d <= maxDistance, nil
}

// Similarity expresses the distance as a percentage of matching bits.
func Similarity(a, b Hash) (float64, error) {
	d, err := Distance(a, b)
	if err != nil {
		return 0, err
	}
	return 100.0 - float64(d)/float64(a.Bits())*100.0, nil
}

// Comparator compares textual hashes. Bare hex strings are read under its
// configuration; tagged strings carry their own.
type Comparator struct {
	cfg Config
}

// NewComparator validates cfg and returns a Comparator for it.
func NewComparator(cfg Config) (*Comparator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Comparator{cfg: cfg}, nil
}

// Parse decodes s in either textual form.
func (c *Comparator) Parse(s string) (Hash, error) {
	return Parse(s, c.cfg)
}

// Distance parses both strings and returns their Hamming distance.
func (c *Comparator) Distance(hashA, hashB string) (int, error) {
	if !isTagged(hashA) && !isTagged(hashB) && len(hashA) != len(hashB) {
		return 0, errors.Wrapf(ErrConfigurationMismatch, "compare: hashes of %d and %d hex digits", len(hashA), len(hashB))
	}
	a, err := c.Parse(hashA)
	if err != nil {
		return 0, err
	}
	b, err := c.Parse(hashB)
	if err != nil {
		return 0, err
	}
	return Distance(a, b)
}

// Similar reports whether the two textual hashes are within threshold bits.
func (c *Comparator) Similar(hashA, hashB string, threshold int) (bool, error) {
	if threshold < 0 {
		return false, errors.Wrapf(ErrConfiguration, "compare: negative threshold %d", threshold)
	}
	d, err := c.Distance(hashA, hashB)
	if err != nil {
		return false, err
	}
	return d <= threshold, nil
}
