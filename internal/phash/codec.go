package phash

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

const tagSeparator = ":"

// Hex renders the bits as lowercase hexadecimal, most significant bit first.
func (h Hash) Hex() string {
	return hex.EncodeToString(h.bits)
}

// String renders the tagged form "<config tag>:<hex>".
func (h Hash) String() string {
	if h.IsZero() {
		return ""
	}
	return h.cfg.Tag() + tagSeparator + h.Hex()
}

// MarshalText implements encoding.TextMarshaler using the tagged form.
func (h Hash) MarshalText() ([]byte, error) {
	if h.IsZero() {
		return nil, errors.Wrap(ErrMalformedHash, "marshal: zero hash")
	}
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Only the tagged form is
// accepted since bare hex does not say which configuration produced it.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseTagged(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHex decodes a bare hex hash produced under cfg.
func ParseHex(s string, cfg Config) (Hash, error) {
	if err := cfg.Validate(); err != nil {
		return Hash{}, err
	}
	if want := cfg.Bits() / 4; len(s) != want {
		return Hash{}, errors.Wrapf(ErrMalformedHash, "decode: %d hex digits, %s needs %d", len(s), cfg.Tag(), want)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, errors.Wrapf(ErrMalformedHash, "decode: %v", err)
	}
	if pad := cfg.Bits() - cfg.Coefficients(); pad > 0 {
		if mask := byte(1<<uint(pad) - 1); b[len(b)-1]&mask != 0 {
			return Hash{}, errors.Wrapf(ErrMalformedHash, "decode: padding bits set in %q", s)
		}
	}
	return Hash{bits: b, cfg: cfg}, nil
}

// ParseTagged decodes the "<config tag>:<hex>" form written by Hash.String.
func ParseTagged(s string) (Hash, error) {
	i := strings.LastIndex(s, tagSeparator)
	if i < 0 {
		return Hash{}, errors.Wrapf(ErrMalformedHash, "decode: %q has no configuration tag", s)
	}
	cfg, err := ParseTag(s[:i])
	if err != nil {
		return Hash{}, err
	}
	return ParseHex(s[i+1:], cfg)
}

// Parse accepts either form; bare hex is read under cfg.
func Parse(s string, cfg Config) (Hash, error) {
	if isTagged(s) {
		return ParseTagged(s)
	}
	return ParseHex(s, cfg)
}

func isTagged(s string) bool {
	return strings.Contains(s, tagSeparator)
}
