package phash

import (
	"github.com/pkg/errors"
)

// Error definitions. Stage context is attached with errors.Wrapf, so callers
// should match with errors.Is.
var (
	ErrInvalidImage          = errors.New("invalid image")
	ErrConfiguration         = errors.New("configuration error")
	ErrMalformedHash         = errors.New("malformed hash")
	ErrConfigurationMismatch = errors.New("configuration mismatch")
)
