package phash

import (
	"context"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Hasher runs the hashing pipeline for one configuration. It holds no mutable
// state and is safe for concurrent use.
type Hasher struct {
	cfg       Config
	transform Transformer
}

// New validates cfg and returns a Hasher for it.
func New(cfg Config) (*Hasher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t, err := NewTransformer(cfg.Transform)
	if err != nil {
		return nil, err
	}
	return &Hasher{cfg: cfg, transform: t}, nil
}

// Config returns the hasher's configuration.
func (h *Hasher) Config() Config { return h.cfg }

// Hash computes the perceptual hash of buf.
func (h *Hasher) Hash(buf PixelBuffer) (Hash, error) {
	grid, err := Normalize(buf, h.cfg.GridSize, h.cfg.Resample)
	if err != nil {
		return Hash{}, err
	}
	return h.HashGrid(grid)
}

// HashImage converts img with FromImage and hashes it.
func (h *Hasher) HashImage(img image.Image) (Hash, error) {
	buf, err := FromImage(img)
	if err != nil {
		return Hash{}, err
	}
	return h.Hash(buf)
}

// HashGrid hashes an already normalized grid. The grid must match the
// configured size exactly.
func (h *Hasher) HashGrid(grid *PixelGrid) (Hash, error) {
	if grid == nil {
		return Hash{}, checkSquare("hash", 0, nil, h.cfg.GridSize)
	}
	if err := checkSquare("hash", grid.Size, grid.Values, h.cfg.GridSize); err != nil {
		return Hash{}, err
	}
	coeffs, err := h.transform.Transform(grid)
	if err != nil {
		return Hash{}, err
	}
	block, err := SelectLowFrequency(coeffs, h.cfg.BlockSize)
	if err != nil {
		return Hash{}, err
	}
	b, err := EncodeBits(block, h.cfg.Bits())
	if err != nil {
		return Hash{}, err
	}
	return Hash{bits: b, cfg: h.cfg}, nil
}

// Result is the outcome of one item of a batch.
type Result struct {
	Hash Hash
	Err  error
}

// HashBatch hashes bufs on up to workers goroutines (GOMAXPROCS when
// workers < 1). Results are index-aligned with bufs and item failures are
// reported per item. Once ctx is done no further items are started; those
// items carry ctx.Err(), which is also returned.
func (h *Hasher) HashBatch(ctx context.Context, bufs []PixelBuffer, workers int) ([]Result, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(bufs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range bufs {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(bufs); j++ {
				results[j].Err = err
			}
			break
		}
		g.Go(func() error {
			results[i].Hash, results[i].Err = h.Hash(bufs[i])
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}
