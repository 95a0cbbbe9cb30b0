package glgpu

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderfluff/gpu"
	"github.com/stretchr/testify/assert"
)

func TestVFlip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	for y := 0; y < 3; y++ {
		img.Set(0, y, color.RGBA{R: uint8(y), A: 255})
	}
	flipped := vflip(img)
	for y := 0; y < 3; y++ {
		r, _, _, _ := flipped.At(0, y).RGBA()
		assert.Equal(t, uint32(2-y), r>>8)
	}
}

func TestGLFormat(t *testing.T) {
	internal, format, xtype := glFormat(gpu.FormatRGBA8)
	assert.Equal(t, int32(gl.RGBA8), internal)
	assert.Equal(t, uint32(gl.RGBA), format)
	assert.Equal(t, uint32(gl.UNSIGNED_BYTE), xtype)

	internal, _, xtype = glFormat(gpu.FormatRGBA16F)
	assert.Equal(t, int32(gl.RGBA16F), internal)
	assert.Equal(t, uint32(gl.HALF_FLOAT), xtype)

	internal, _, xtype = glFormat(gpu.FormatRGBA32F)
	assert.Equal(t, int32(gl.RGBA32F), internal)
	assert.Equal(t, uint32(gl.FLOAT), xtype)
}

func TestSamplerFilters(t *testing.T) {
	assert.Equal(t, int32(gl.NEAREST_MIPMAP_NEAREST), minFilter(gpu.FilterNearest, gpu.FilterNearest))
	assert.Equal(t, int32(gl.LINEAR_MIPMAP_LINEAR), minFilter(gpu.FilterLinear, gpu.FilterLinear))
	assert.Equal(t, int32(gl.LINEAR), magFilter(gpu.FilterLinear))
	assert.Equal(t, int32(gl.CLAMP_TO_EDGE), wrapMode(gpu.AddressClampToEdge))
}

func TestProjection(t *testing.T) {
	p := Projection(200, 100)
	corner := p.Mul4x1(mgl32.Vec4{100, 50, 0, 1})
	assert.InDelta(t, 1, corner.X(), 1e-6)
	assert.InDelta(t, 1, corner.Y(), 1e-6)

	centre := p.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, centre.X(), 1e-6)
	assert.InDelta(t, 0, centre.Y(), 1e-6)
}
