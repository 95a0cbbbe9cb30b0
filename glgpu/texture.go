package glgpu

import (
	"fmt"
	"image"
	"image/draw"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderfluff/gpu"
)

type Texture struct {
	desc gpu.TextureDescriptor
	id   uint32
	// fbo is created the first time the texture is a render target
	fbo uint32
}

func (t *Texture) Descriptor() gpu.TextureDescriptor { return t.desc }

// ID returns the GL texture name.
func (t *Texture) ID() uint32 { return t.id }

func (t *Texture) Release() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// framebuffer returns the FBO rendering into t, creating it on first use.
func (t *Texture) framebuffer() (uint32, error) {
	if t.fbo != 0 {
		return t.fbo, nil
	}
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.id, 0)
	if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.DeleteFramebuffers(1, &fbo)
		return 0, fmt.Errorf("framebuffer for texture %q is not complete", t.desc.Label)
	}
	t.fbo = fbo
	return fbo, nil
}

// glFormat returns the internal format, pixel format and pixel type of f.
func glFormat(f gpu.TextureFormat) (int32, uint32, uint32) {
	switch f {
	case gpu.FormatRGBA16F:
		return gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT
	case gpu.FormatRGBA32F:
		return gl.RGBA32F, gl.RGBA, gl.FLOAT
	default:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	}
}

func (d *Device) newTexture(desc gpu.TextureDescriptor, xtype uint32, pixels unsafe.Pointer) (*Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("texture %q: invalid size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	internalFormat, format, _ := glFormat(desc.Format)

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	// single level, so sampler objects with mip filters still see a complete texture
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, int32(desc.Width), int32(desc.Height), 0, format, xtype, pixels)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Texture{desc: desc, id: id}, nil
}

// CreateTexture allocates a texture cleared to transparent black.
func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	_, _, xtype := glFormat(desc.Format)
	t, err := d.newTexture(desc, xtype, nil)
	if err != nil {
		return nil, err
	}
	fbo, err := t.framebuffer()
	if err != nil {
		t.Release()
		return nil, err
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return t, nil
}

// vflip vertically flips the provided RGBA image so that row 0 of the upload
// is the bottom of the picture, which is where GL expects it.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

// CreateTextureFromImage uploads img as an RGBA8 texture.
func (d *Device) CreateTextureFromImage(label string, img image.Image) (gpu.Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("texture %q: nil image", label)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	rgba = vflip(rgba)

	size := rgba.Rect.Size()
	desc := gpu.TextureDescriptor{
		Label:  label,
		Width:  size.X,
		Height: size.Y,
		Format: gpu.FormatRGBA8,
		Usage:  gpu.TextureUsageAll,
	}
	if size.X == 0 || size.Y == 0 {
		return nil, fmt.Errorf("texture %q: empty image", label)
	}
	return d.newTexture(desc, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
}

// DuplicateTexture blits src into a new texture of the same descriptor. GL
// executes commands in order, so later draws sampling the copy see it whole.
func (d *Device) DuplicateTexture(src gpu.Texture) (gpu.Texture, error) {
	s, ok := src.(*Texture)
	if !ok {
		return nil, fmt.Errorf("foreign texture %T", src)
	}
	desc := s.desc
	desc.Label = "duplicate texture"
	_, _, xtype := glFormat(desc.Format)
	dst, err := d.newTexture(desc, xtype, nil)
	if err != nil {
		return nil, err
	}

	w, h := int32(desc.Width), int32(desc.Height)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, d.readFBO)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, s.id, 0)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, d.drawFBO)
	gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, dst.id, 0)
	if gl.CheckFramebufferStatus(gl.DRAW_FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		dst.Release()
		return nil, fmt.Errorf("duplicate of texture %q: framebuffer is not complete", s.desc.Label)
	}
	gl.BlitFramebuffer(0, 0, w, h, 0, 0, w, h, gl.COLOR_BUFFER_BIT, gl.NEAREST)

	// detach so the blit framebuffers never keep a released texture alive
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, 0, 0)
	gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, 0, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return dst, nil
}

// ReadTexture returns the texels of t, bottom row first.
func (d *Device) ReadTexture(t gpu.Texture) ([]byte, error) {
	tex, ok := t.(*Texture)
	if !ok {
		return nil, fmt.Errorf("foreign texture %T", t)
	}
	_, format, xtype := glFormat(tex.desc.Format)
	buf := make([]byte, tex.desc.Size())
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.GetTexImage(gl.TEXTURE_2D, 0, format, xtype, gl.Ptr(buf))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return buf, nil
}
