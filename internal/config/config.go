// Package config loads service configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"

	"photohash/internal/phash"
)

// Config is the service configuration read from environment variables.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	GinMode  string `env:"GIN_MODE" envDefault:"release"`

	GridSize    int    `env:"PHASH_GRID_SIZE" envDefault:"32"`
	BlockSize   int    `env:"PHASH_BLOCK_SIZE" envDefault:"8"`
	Resample    string `env:"PHASH_RESAMPLE" envDefault:"area"`
	Transform   string `env:"PHASH_TRANSFORM" envDefault:"fast"`
	MaxDistance int    `env:"PHASH_MAX_DISTANCE" envDefault:"10"`

	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"` // 10MB
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	CacheCleanup   time.Duration `env:"CACHE_CLEANUP" envDefault:"10m"`
	Workers        int           `env:"WORKERS" envDefault:"4"`
	CORSOrigins    []string      `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads the process environment.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom reads the given variables instead of the process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	return load(env.Options{Environment: environment})
}

func load(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the service settings and the hashing configuration.
func (c *Config) Validate() error {
	if c.MaxDistance < 0 {
		return errors.Wrapf(phash.ErrConfiguration, "PHASH_MAX_DISTANCE must not be negative, got %d", c.MaxDistance)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.Wrapf(phash.ErrConfiguration, "MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.Workers < 1 {
		return errors.Wrapf(phash.ErrConfiguration, "WORKERS must be at least 1, got %d", c.Workers)
	}
	if len(c.CORSOrigins) == 0 {
		return errors.Wrap(phash.ErrConfiguration, "CORS_ORIGINS is empty")
	}
	_, err := c.Hashing()
	return err
}

// Hashing returns the validated pipeline configuration.
func (c *Config) Hashing() (phash.Config, error) {
	hc := phash.Config{
		GridSize:  c.GridSize,
		BlockSize: c.BlockSize,
		Resample:  phash.Resample(c.Resample),
		Transform: phash.Transform(c.Transform),
	}
	if err := hc.Validate(); err != nil {
		return phash.Config{}, err
	}
	return hc, nil
}
