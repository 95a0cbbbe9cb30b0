package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestLoadImageScales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	red := color.RGBA{R: 255, A: 255}
	require.NoError(t, png.Encode(f, solid(10, 6, red)))
	require.NoError(t, f.Close())

	img, err := loadImage(path, 4)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
	assert.Equal(t, red, img.RGBAAt(2, 2))
}

func TestLoadImageErrors(t *testing.T) {
	_, err := loadImage(filepath.Join(t.TempDir(), "missing.png"), 4)
	assert.ErrorContains(t, err, "failed to open")

	path := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	_, err = loadImage(path, 4)
	assert.ErrorContains(t, err, "failed to decode")
}

func TestScaleImageSameSizeCopies(t *testing.T) {
	src := solid(4, 4, color.RGBA{G: 255, A: 255})
	dst := scaleImage(src, 4)
	assert.Equal(t, src.Pix, dst.Pix)
	assert.NotSame(t, src, dst)
}
