package gputest

import (
	"image"
	"image/color"
	"testing"

	"github.com/richinsley/goshaderfluff/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateIsSnapshot(t *testing.T) {
	dev := NewDevice()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = byte(i * 7)
	}
	src, err := dev.CreateTextureFromImage("src", img)
	require.NoError(t, err)

	dup, err := dev.DuplicateTexture(src)
	require.NoError(t, err)
	assert.Equal(t, src.Descriptor().Width, dup.Descriptor().Width)
	assert.Equal(t, src.Descriptor().Format, dup.Descriptor().Format)

	want, err := dev.ReadTexture(src)
	require.NoError(t, err)
	got, err := dev.ReadTexture(dup)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// later writes to the source leave the duplicate alone
	src.(*Texture).Pixels[0] = 255
	got, err = dev.ReadTexture(dup)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBindGroupValidation(t *testing.T) {
	dev := NewDevice()
	layout, err := dev.CreateBindGroupLayout(gpu.BindGroupLayoutDescriptor{
		Entries: []gpu.BindGroupLayoutEntry{{Binding: 0, Type: gpu.BindingUniformBuffer, Name: "Block"}},
	})
	require.NoError(t, err)
	tex, err := dev.CreateTexture(gpu.TextureDescriptor{Width: 1, Height: 1})
	require.NoError(t, err)

	_, err = dev.CreateBindGroup(gpu.BindGroupDescriptor{
		Layout:  layout,
		Entries: []gpu.BindGroupEntry{{Binding: 0, Texture: tex}},
	})
	assert.Error(t, err)
}

func TestClearPassZeroesTarget(t *testing.T) {
	dev := NewDevice()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 9, A: 255})
	tex, err := dev.CreateTextureFromImage("t", img)
	require.NoError(t, err)

	_, err = dev.BeginRenderPass(gpu.RenderPassDescriptor{Target: tex, LoadOp: gpu.LoadOpLoad})
	require.NoError(t, err)
	assert.Equal(t, byte(9), tex.(*Texture).Pixels[0])

	_, err = dev.BeginRenderPass(gpu.RenderPassDescriptor{Target: tex, LoadOp: gpu.LoadOpClear})
	require.NoError(t, err)
	assert.Equal(t, byte(0), tex.(*Texture).Pixels[0])
}
