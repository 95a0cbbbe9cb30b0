package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderfluff/gpu"
	"github.com/richinsley/goshaderfluff/shader"
	"github.com/richinsley/goshaderfluff/shapes"
)

// Canvas composites textures onto the default framebuffer. Positions are in
// pixels with the origin at the centre of the window and y pointing up.
type Canvas struct {
	program      uint32
	transformLoc int32
	textureLoc   int32
	vao          uint32
	vbo          uint32
	ebo          uint32
	numIndices   int32

	width      int
	height     int
	projection mgl32.Mat4
}

func NewCanvas() (*Canvas, error) {
	program, err := newProgram(shader.BlitVertexShader(), shader.BlitFragmentShader())
	if err != nil {
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}
	c := &Canvas{
		program:      program,
		transformLoc: gl.GetUniformLocation(program, gl.Str("transform\x00")),
		textureLoc:   gl.GetUniformLocation(program, gl.Str("u_texture\x00")),
	}

	// unit quad, scaled to the destination rect per draw
	quad := shapes.Rectangle(mgl32.Vec2{0, 0}, mgl32.Vec2{0.5, 0.5})
	vertices := quad.VertexBytes()
	indices := quad.IndexBytes()
	c.numIndices = int32(len(quad.Indices))

	gl.GenVertexArrays(1, &c.vao)
	gl.GenBuffers(1, &c.vbo)
	gl.GenBuffers(1, &c.ebo)
	gl.BindVertexArray(c.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices), gl.Ptr(vertices), gl.STATIC_DRAW)
	layout := shapes.VertexLayout()
	for _, a := range layout.Attributes {
		loc := uint32(a.ShaderLocation)
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, int32(a.Format.Components()), gl.FLOAT, false, int32(layout.ArrayStride), gl.PtrOffset(a.Offset))
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, c.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices), gl.Ptr(indices), gl.STATIC_DRAW)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return c, nil
}

// Projection maps centred, y-up pixel coordinates of a width x height
// framebuffer to clip space.
func Projection(width, height int) mgl32.Mat4 {
	w, h := float32(width)/2, float32(height)/2
	return mgl32.Ortho2D(-w, w, -h, h)
}

// Begin targets the default framebuffer and clears it.
func (c *Canvas) Begin(width, height int) {
	c.width, c.height = width, height
	c.projection = Projection(width, height)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// DrawTexture draws t into the rect of the given centre and full size.
func (c *Canvas) DrawTexture(t gpu.Texture, center, size mgl32.Vec2) {
	tex, ok := t.(*Texture)
	if !ok {
		return
	}
	model := mgl32.Translate3D(center.X(), center.Y(), 0).Mul4(mgl32.Scale3D(size.X(), size.Y(), 1))
	transform := c.projection.Mul4(model)

	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)
	gl.UseProgram(c.program)
	gl.UniformMatrix4fv(c.transformLoc, 1, false, &transform[0])
	gl.Uniform1i(c.textureLoc, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindSampler(0, 0)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.BindVertexArray(c.vao)
	gl.DrawElements(gl.TRIANGLES, c.numIndices, gl.UNSIGNED_SHORT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

func (c *Canvas) Size() (int, int) { return c.width, c.height }

// ReadPixels returns the RGBA8 contents of the default framebuffer, bottom
// row first.
func (c *Canvas) ReadPixels() []byte {
	buf := make([]byte, c.width*c.height*4)
	if len(buf) == 0 {
		return buf
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(c.width), int32(c.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(buf))
	return buf
}

func (c *Canvas) Destroy() {
	gl.DeleteProgram(c.program)
	gl.DeleteBuffers(1, &c.vbo)
	gl.DeleteBuffers(1, &c.ebo)
	gl.DeleteVertexArrays(1, &c.vao)
}
