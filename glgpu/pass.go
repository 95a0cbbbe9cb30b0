package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderfluff/gpu"
)

type RenderPass struct {
	desc     gpu.RenderPassDescriptor
	target   *Texture
	pipeline *RenderPipeline
	vertex   *Buffer
	index    *Buffer
	units    []uint32
	err      error
}

func (p *RenderPass) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// BeginRenderPass binds the target's framebuffer and applies the load op.
func (d *Device) BeginRenderPass(desc gpu.RenderPassDescriptor) (gpu.RenderPass, error) {
	target, ok := desc.Target.(*Texture)
	if !ok {
		return nil, fmt.Errorf("render pass %q: foreign target %T", desc.Label, desc.Target)
	}
	fbo, err := target.framebuffer()
	if err != nil {
		return nil, fmt.Errorf("render pass %q: %w", desc.Label, err)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.Viewport(0, 0, int32(target.desc.Width), int32(target.desc.Height))
	if desc.LoadOp == gpu.LoadOpClear {
		c := desc.ClearColor
		gl.ClearColor(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
		gl.Clear(gl.COLOR_BUFFER_BIT)
	}
	return &RenderPass{desc: desc, target: target}, nil
}

func (p *RenderPass) SetPipeline(rp gpu.RenderPipeline) {
	pipe, ok := rp.(*RenderPipeline)
	if !ok {
		p.fail(fmt.Errorf("foreign pipeline %T", rp))
		return
	}
	if err := gpu.CheckTarget(pipe.desc, p.target); err != nil {
		p.fail(err)
		return
	}
	p.pipeline = pipe
	gl.UseProgram(pipe.program)
	gl.Disable(gl.BLEND)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
}

func (p *RenderPass) SetBindGroup(index int, group gpu.BindGroup) {
	if p.pipeline == nil {
		p.fail(fmt.Errorf("bind group %d set before pipeline", index))
		return
	}
	if err := gpu.CheckGroup(p.pipeline.desc, index, group); err != nil {
		p.fail(err)
		return
	}
	unit := uint32(index)
	for _, e := range group.Entries() {
		switch {
		case e.Texture != nil:
			tex, ok := e.Texture.(*Texture)
			if !ok {
				p.fail(fmt.Errorf("group %d: foreign texture %T", index, e.Texture))
				return
			}
			gl.ActiveTexture(gl.TEXTURE0 + unit)
			gl.BindTexture(gl.TEXTURE_2D, tex.id)
		case e.Sampler != nil:
			s, ok := e.Sampler.(*Sampler)
			if !ok {
				p.fail(fmt.Errorf("group %d: foreign sampler %T", index, e.Sampler))
				return
			}
			gl.BindSampler(unit, s.id)
			p.units = append(p.units, unit)
		case e.Buffer != nil:
			b, ok := e.Buffer.(*Buffer)
			if !ok {
				p.fail(fmt.Errorf("group %d: foreign buffer %T", index, e.Buffer))
				return
			}
			gl.BindBufferBase(gl.UNIFORM_BUFFER, unit, b.id)
		}
	}
}

func (p *RenderPass) SetVertexBuffer(b gpu.Buffer) {
	buf, ok := b.(*Buffer)
	if !ok {
		p.fail(fmt.Errorf("foreign vertex buffer %T", b))
		return
	}
	p.vertex = buf
}

func (p *RenderPass) SetIndexBuffer(b gpu.Buffer, format gpu.IndexFormat) {
	buf, ok := b.(*Buffer)
	if !ok {
		p.fail(fmt.Errorf("foreign index buffer %T", b))
		return
	}
	p.index = buf
}

func (p *RenderPass) DrawIndexed(count int) {
	if p.pipeline == nil || p.vertex == nil || p.index == nil {
		p.fail(fmt.Errorf("draw without pipeline or geometry"))
		return
	}
	layout := p.pipeline.desc.Vertex
	gl.BindVertexArray(p.pipeline.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vertex.id)
	for _, a := range layout.Attributes {
		loc := uint32(a.ShaderLocation)
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, int32(a.Format.Components()), gl.FLOAT, false, int32(layout.ArrayStride), gl.PtrOffset(a.Offset))
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, p.index.id)
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_SHORT, gl.PtrOffset(0))
}

// End restores the default bindings and reports the first recording error.
func (p *RenderPass) End() error {
	for _, unit := range p.units {
		gl.BindSampler(unit, 0)
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.UseProgram(0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if p.err != nil {
		return fmt.Errorf("render pass %q: %w", p.desc.Label, p.err)
	}
	return nil
}
