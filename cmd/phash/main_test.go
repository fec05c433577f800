package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, dir, name string, shift int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			v := uint8((x*4 + y*shift) % 256)
			img.Set(x, y, color.NRGBA{R: v, G: 255 - v, B: uint8(x * y % 256), A: 255})
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(img, path))
	return path
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestHashCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeImage(t, dir, "a.png", 1)
	b := writeImage(t, dir, "b.png", 7)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	code, out, _ := runCLI("hash", "-w", "2", dir)
	require.Equal(t, exitOK, code)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "phash-s32-k8-area:"))
	assert.True(t, strings.HasSuffix(lines[0], "  "+a))
	assert.True(t, strings.HasSuffix(lines[1], "  "+b))

	code, out, _ = runCLI("hash", "--grid", "16", "-k", "4", "--resample", "bilinear", a)
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "phash-s16-k4-bilinear:"))
}

func TestHashCommandErrors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(broken, []byte("not a png"), 0o644))

	code, _, stderr := runCLI("hash", broken)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "1 of 1 files failed")

	code, _, _ = runCLI("hash", filepath.Join(dir, "missing.png"))
	assert.Equal(t, exitError, code)

	code, _, _ = runCLI("hash")
	assert.Equal(t, exitError, code)

	code, _, _ = runCLI("hash", "--grid", "24", broken)
	assert.Equal(t, exitError, code)
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeImage(t, dir, "a.png", 1)
	copyA := writeImage(t, dir, "copy.png", 1)

	code, out, _ := runCLI("compare", a, copyA)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "distance: 0\n")
	assert.Contains(t, out, "similar: true\n")

	first := strings.Fields(out)[0]
	code, out, _ = runCLI("compare", a, first)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "distance: 0\n")

	code, out, _ = runCLI("compare", "-t", "3", "0000000000000000", "f00000000000000e")
	assert.Equal(t, exitNotSimilar, code)
	assert.Contains(t, out, "distance: 7\n")
	assert.Contains(t, out, "similar: false\n")
}

func TestCompareCommandErrors(t *testing.T) {
	cases := map[string][]string{
		"one argument":       {"compare", "0000000000000000"},
		"malformed":          {"compare", "0000000000000000", "xyz"},
		"config mismatch":    {"compare", "0000000000000000", "phash-s32-k4-area:0000"},
		"negative threshold": {"compare", "-t", "-1", "0000000000000000", "0000000000000000"},
		"unknown command":    {"frobnicate"},
		"no command":         {},
		"unknown flag":       {"compare", "--nope", "a", "b"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			code, _, _ := runCLI(args...)
			assert.Equal(t, exitError, code)
		})
	}
}
