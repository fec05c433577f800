// Package database memoizes perceptual hashes of recently seen images and
// hashes whole directories in parallel. Hashes are not indexed or persisted;
// the cache only saves recomputation when the same bytes arrive again.
package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"photohash/internal/imageprocessing"
	"photohash/internal/phash"
)

// FileHash is the outcome of hashing one file.
type FileHash struct {
	Filename string     `json:"filename"`
	Hash     phash.Hash `json:"hash"`
	HashedAt time.Time  `json:"hashed_at"`
	Err      error      `json:"-"`
}

// HashCache wraps a Hasher with a digest keyed memo cache.
type HashCache struct {
	hasher *phash.Hasher
	cache  *cache.Cache
	log    *zap.Logger
}

// NewHashCache creates a cache whose entries expire after ttl.
func NewHashCache(hasher *phash.Hasher, ttl, cleanup time.Duration, log *zap.Logger) *HashCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &HashCache{
		hasher: hasher,
		cache:  cache.New(ttl, cleanup),
		log:    log,
	}
}

// Hasher returns the underlying hasher.
func (db *HashCache) Hasher() *phash.Hasher {
	return db.hasher
}

// Len is the number of live cache entries.
func (db *HashCache) Len() int {
	return db.cache.ItemCount()
}

func (db *HashCache) key(data []byte) string {
	sum := sha256.Sum256(data)
	return db.hasher.Config().Tag() + "/" + hex.EncodeToString(sum[:])
}

// HashBytes decodes and hashes an encoded image. The second result reports
// whether the hash came from the cache.
func (db *HashCache) HashBytes(data []byte) (phash.Hash, bool, error) {
	if len(data) == 0 {
		return phash.Hash{}, false, errors.Wrap(phash.ErrInvalidImage, "empty image data")
	}

	key := db.key(data)
	if v, ok := db.cache.Get(key); ok {
		return v.(phash.Hash), true, nil
	}

	img, err := imageprocessing.DecodeBytes(data)
	if err != nil {
		return phash.Hash{}, false, err
	}
	hash, err := db.hasher.HashImage(img)
	if err != nil {
		return phash.Hash{}, false, err
	}

	db.cache.SetDefault(key, hash)
	return hash, false, nil
}

// HashFile reads and hashes the image at path.
func (db *HashCache) HashFile(path string) (phash.Hash, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return phash.Hash{}, errors.Wrapf(err, "read %s", path)
	}
	hash, _, err := db.HashBytes(data)
	if err != nil {
		return phash.Hash{}, errors.Wrap(err, path)
	}
	return hash, nil
}

// HashFiles hashes paths on up to workers goroutines (GOMAXPROCS when
// workers < 1). Results keep the order of paths; a file that fails carries
// its error in FileHash.Err. Files not started before ctx is done carry
// ctx.Err(), which is also returned.
func (db *HashCache) HashFiles(ctx context.Context, paths []string, workers int) ([]FileHash, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]FileHash, len(paths))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		results[i].Filename = path
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			hash, err := db.HashFile(path)
			if err != nil {
				db.log.Warn("could not hash file", zap.String("path", path), zap.Error(err))
				results[i].Err = err
				return nil
			}
			results[i].Hash = hash
			results[i].HashedAt = time.Now()
			db.log.Debug("hashed file", zap.String("path", path), zap.Stringer("hash", hash))
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}

// HashDir hashes every supported image directly inside dir.
func (db *HashCache) HashDir(ctx context.Context, dir string, workers int) ([]FileHash, error) {
	paths, err := imageprocessing.ListImages(dir)
	if err != nil {
		return nil, err
	}
	results, err := db.HashFiles(ctx, paths, workers)
	db.log.Info("hashed directory", zap.String("dir", dir), zap.Int("files", len(results)))
	return results, err
}
