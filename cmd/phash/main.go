// Command phash hashes image files and compares perceptual hashes.
//
//	phash hash [-w workers] FILE|DIR...
//	phash compare [-t threshold] A B
//
// Compare arguments are image files or hashes in bare hex or tagged form.
// The exit status is 1 on error and 2 when compare finds the inputs not
// similar.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"photohash/internal/database"
	"photohash/internal/imageprocessing"
	"photohash/internal/logging"
	"photohash/internal/phash"
)

const (
	exitOK = iota
	exitError
	exitNotSimilar
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options are the flags shared by every subcommand.
type options struct {
	grid      int
	block     int
	resample  string
	transform string
	logLevel  string
}

func (o *options) register(fs *pflag.FlagSet) {
	fs.IntVarP(&o.grid, "grid", "s", phash.DefaultGridSize, "analysis grid size S")
	fs.IntVarP(&o.block, "block", "k", phash.DefaultBlockSize, "low frequency block size K")
	fs.StringVarP(&o.resample, "resample", "r", string(phash.ResampleArea), "resampling filter (area, bilinear)")
	fs.StringVar(&o.transform, "transform", string(phash.TransformFast), "DCT implementation (fast, direct)")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level")
}

func (o *options) config() phash.Config {
	return phash.Config{
		GridSize:  o.grid,
		BlockSize: o.block,
		Resample:  phash.Resample(o.resample),
		Transform: phash.Transform(o.transform),
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: phash hash [-w workers] FILE|DIR...")
	fmt.Fprintln(w, "       phash compare [-t threshold] A B")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitError
	}

	var opts options
	fs := pflag.NewFlagSet("phash "+args[0], pflag.ContinueOnError)
	fs.SetOutput(stderr)
	opts.register(fs)

	var cmd func(context.Context, *zap.Logger, *database.HashCache) (int, error)
	switch args[0] {
	case "hash":
		workers := fs.IntP("workers", "w", 0, "parallel workers (0 uses every CPU)")
		cmd = func(ctx context.Context, log *zap.Logger, db *database.HashCache) (int, error) {
			return hashFiles(ctx, log, db, fs.Args(), *workers, stdout)
		}
	case "compare":
		threshold := fs.IntP("threshold", "t", 10, "maximum distance still considered similar")
		cmd = func(_ context.Context, _ *zap.Logger, db *database.HashCache) (int, error) {
			return compare(db, fs.Args(), *threshold, stdout)
		}
	case "-h", "--help", "help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "phash: unknown command %q\n", args[0])
		usage(stderr)
		return exitError
	}
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	log, err := logging.NewConsole(opts.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "phash: %v\n", err)
		return exitError
	}
	defer log.Sync()

	hasher, err := phash.New(opts.config())
	if err != nil {
		fmt.Fprintf(stderr, "phash: %v\n", err)
		return exitError
	}
	db := database.NewHashCache(hasher, time.Hour, time.Hour, log)

	code, err := cmd(ctx, log, db)
	if err != nil {
		fmt.Fprintf(stderr, "phash: %v\n", err)
	}
	return code
}

// expand replaces every directory argument by the images directly inside it.
func expand(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", arg)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		images, err := imageprocessing.ListImages(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, images...)
	}
	return paths, nil
}

func hashFiles(ctx context.Context, log *zap.Logger, db *database.HashCache, args []string, workers int, stdout io.Writer) (int, error) {
	if len(args) == 0 {
		return exitError, errors.New("hash: no files given")
	}
	paths, err := expand(args)
	if err != nil {
		return exitError, err
	}

	results, err := db.HashFiles(ctx, paths, workers)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Error("could not hash", zap.String("path", r.Filename), zap.Error(r.Err))
			continue
		}
		fmt.Fprintf(stdout, "%s  %s\n", r.Hash, r.Filename)
	}
	if err != nil {
		return exitError, err
	}
	if failed > 0 {
		return exitError, errors.Errorf("hash: %d of %d files failed", failed, len(results))
	}
	return exitOK, nil
}

// resolve hashes arg when it names a file and parses it as a hash otherwise.
func resolve(db *database.HashCache, comparator *phash.Comparator, arg string) (phash.Hash, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return db.HashFile(arg)
	}
	return comparator.Parse(arg)
}

func compare(db *database.HashCache, args []string, threshold int, stdout io.Writer) (int, error) {
	if len(args) != 2 {
		return exitError, errors.Errorf("compare: want 2 arguments, got %d", len(args))
	}
	if threshold < 0 {
		return exitError, errors.Wrapf(phash.ErrConfiguration, "compare: negative threshold %d", threshold)
	}
	comparator, err := phash.NewComparator(db.Hasher().Config())
	if err != nil {
		return exitError, err
	}

	a, err := resolve(db, comparator, args[0])
	if err != nil {
		return exitError, err
	}
	b, err := resolve(db, comparator, args[1])
	if err != nil {
		return exitError, err
	}
	distance, err := phash.Distance(a, b)
	if err != nil {
		return exitError, err
	}

	similar := distance <= threshold
	fmt.Fprintf(stdout, "%s  %s\n%s  %s\n", a, args[0], b, args[1])
	fmt.Fprintf(stdout, "distance: %d\nsimilar: %t\n", distance, similar)
	if !similar {
		return exitNotSimilar, nil
	}
	return exitOK, nil
}
