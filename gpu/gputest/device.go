// Package gputest provides an in-memory gpu.Device that records the work it
// is given. Texture pixels live on the CPU so copies and readbacks can be
// checked byte for byte.
package gputest

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/richinsley/goshaderfluff/gpu"
)

type Texture struct {
	desc     gpu.TextureDescriptor
	Pixels   []byte
	Released bool
}

func (t *Texture) Descriptor() gpu.TextureDescriptor { return t.desc }
func (t *Texture) Release()                          { t.Released = true }

type Sampler struct {
	desc     gpu.SamplerDescriptor
	Released bool
}

func (s *Sampler) Descriptor() gpu.SamplerDescriptor { return s.desc }
func (s *Sampler) Release()                          { s.Released = true }

type Buffer struct {
	desc     gpu.BufferDescriptor
	Data     []byte
	Released bool
}

func (b *Buffer) Descriptor() gpu.BufferDescriptor { return b.desc }
func (b *Buffer) Release()                         { b.Released = true }

type BindGroupLayout struct {
	desc gpu.BindGroupLayoutDescriptor
}

func (l *BindGroupLayout) Descriptor() gpu.BindGroupLayoutDescriptor { return l.desc }

type BindGroup struct {
	desc     gpu.BindGroupDescriptor
	Released bool
}

func (g *BindGroup) Layout() gpu.BindGroupLayout    { return g.desc.Layout }
func (g *BindGroup) Entries() []gpu.BindGroupEntry { return g.desc.Entries }
func (g *BindGroup) Label() string                 { return g.desc.Label }
func (g *BindGroup) Release() {
	g.Released = true
	for _, e := range g.desc.Entries {
		if e.Sampler != nil {
			e.Sampler.Release()
		}
		if e.Buffer != nil {
			e.Buffer.Release()
		}
	}
}

type ShaderModule struct {
	Desc     gpu.ShaderModuleDescriptor
	Released bool
}

func (m *ShaderModule) Label() string { return m.Desc.Label }
func (m *ShaderModule) Release()      { m.Released = true }

type RenderPipeline struct {
	desc     gpu.RenderPipelineDescriptor
	Released bool
}

func (p *RenderPipeline) Descriptor() gpu.RenderPipelineDescriptor { return p.desc }
func (p *RenderPipeline) Release()                                 { p.Released = true }

// BoundGroup is one SetBindGroup call.
type BoundGroup struct {
	Index int
	Group gpu.BindGroup
}

type RenderPass struct {
	Desc         gpu.RenderPassDescriptor
	Pipeline     *RenderPipeline
	Groups       []BoundGroup
	VertexBuffer gpu.Buffer
	IndexBuffer  gpu.Buffer
	Draws        []int
	Ended        bool
	err          error
}

func (p *RenderPass) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *RenderPass) SetPipeline(rp gpu.RenderPipeline) {
	pipe, ok := rp.(*RenderPipeline)
	if !ok {
		p.fail(fmt.Errorf("foreign pipeline %T", rp))
		return
	}
	if err := gpu.CheckTarget(pipe.desc, p.Desc.Target); err != nil {
		p.fail(err)
		return
	}
	p.Pipeline = pipe
}

func (p *RenderPass) SetBindGroup(index int, group gpu.BindGroup) {
	if p.Pipeline == nil {
		p.fail(fmt.Errorf("bind group %d set before pipeline", index))
		return
	}
	if err := gpu.CheckGroup(p.Pipeline.desc, index, group); err != nil {
		p.fail(err)
		return
	}
	p.Groups = append(p.Groups, BoundGroup{Index: index, Group: group})
}

func (p *RenderPass) SetVertexBuffer(b gpu.Buffer) { p.VertexBuffer = b }

func (p *RenderPass) SetIndexBuffer(b gpu.Buffer, format gpu.IndexFormat) { p.IndexBuffer = b }

func (p *RenderPass) DrawIndexed(count int) {
	if p.Pipeline == nil || p.VertexBuffer == nil || p.IndexBuffer == nil {
		p.fail(fmt.Errorf("draw without pipeline or geometry"))
		return
	}
	p.Draws = append(p.Draws, count)
}

func (p *RenderPass) End() error {
	p.Ended = true
	return p.err
}

// Device records everything created through it, in creation order.
type Device struct {
	Textures  []*Texture
	Samplers  []*Sampler
	Buffers   []*Buffer
	Groups    []*BindGroup
	Modules   []*ShaderModule
	Pipelines []*RenderPipeline
	Passes    []*RenderPass
	Copies    int
	Submits   int

	// CompileHook, when set, decides whether a shader module compiles.
	CompileHook func(desc gpu.ShaderModuleDescriptor) error
}

func NewDevice() *Device {
	return &Device{}
}

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("texture %q: invalid size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	t := &Texture{desc: desc, Pixels: make([]byte, desc.Size())}
	d.Textures = append(d.Textures, t)
	return t, nil
}

func (d *Device) CreateTextureFromImage(label string, img image.Image) (gpu.Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("texture %q: nil image", label)
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	size := rgba.Rect.Size()
	t := &Texture{
		desc: gpu.TextureDescriptor{
			Label:  label,
			Width:  size.X,
			Height: size.Y,
			Format: gpu.FormatRGBA8,
			Usage:  gpu.TextureUsageAll,
		},
		Pixels: append([]byte(nil), rgba.Pix...),
	}
	d.Textures = append(d.Textures, t)
	return t, nil
}

func (d *Device) DuplicateTexture(src gpu.Texture) (gpu.Texture, error) {
	s, ok := src.(*Texture)
	if !ok {
		return nil, fmt.Errorf("foreign texture %T", src)
	}
	if s.Released {
		return nil, fmt.Errorf("texture %q: duplicate of released texture", s.desc.Label)
	}
	desc := s.desc
	desc.Label = "duplicate texture"
	t := &Texture{desc: desc, Pixels: append([]byte(nil), s.Pixels...)}
	d.Textures = append(d.Textures, t)
	d.Copies++
	return t, nil
}

func (d *Device) ReadTexture(t gpu.Texture) ([]byte, error) {
	tex, ok := t.(*Texture)
	if !ok {
		return nil, fmt.Errorf("foreign texture %T", t)
	}
	return append([]byte(nil), tex.Pixels...), nil
}

func (d *Device) CreateSampler(desc gpu.SamplerDescriptor) (gpu.Sampler, error) {
	s := &Sampler{desc: desc}
	d.Samplers = append(d.Samplers, s)
	return s, nil
}

func (d *Device) CreateBuffer(desc gpu.BufferDescriptor, contents []byte) (gpu.Buffer, error) {
	if len(contents) > desc.Size {
		return nil, fmt.Errorf("buffer %q: %d bytes of contents for size %d", desc.Label, len(contents), desc.Size)
	}
	b := &Buffer{desc: desc, Data: make([]byte, desc.Size)}
	copy(b.Data, contents)
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) WriteBuffer(b gpu.Buffer, offset int, data []byte) error {
	buf, ok := b.(*Buffer)
	if !ok {
		return fmt.Errorf("foreign buffer %T", b)
	}
	if offset < 0 || offset+len(data) > len(buf.Data) {
		return fmt.Errorf("buffer %q: write of %d bytes at %d out of range", buf.desc.Label, len(data), offset)
	}
	copy(buf.Data[offset:], data)
	return nil
}

func (d *Device) CreateBindGroupLayout(desc gpu.BindGroupLayoutDescriptor) (gpu.BindGroupLayout, error) {
	return &BindGroupLayout{desc: desc}, nil
}

func (d *Device) CreateBindGroup(desc gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	if err := gpu.ValidateBindGroup(desc); err != nil {
		return nil, err
	}
	g := &BindGroup{desc: desc}
	d.Groups = append(d.Groups, g)
	return g, nil
}

func (d *Device) CreateShaderModule(desc gpu.ShaderModuleDescriptor) (gpu.ShaderModule, error) {
	if d.CompileHook != nil {
		if err := d.CompileHook(desc); err != nil {
			return nil, fmt.Errorf("failed to compile shader %q: %w", desc.Label, err)
		}
	}
	m := &ShaderModule{Desc: desc}
	d.Modules = append(d.Modules, m)
	return m, nil
}

func (d *Device) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	if desc.Module == nil {
		return nil, fmt.Errorf("pipeline %q: nil shader module", desc.Label)
	}
	p := &RenderPipeline{desc: desc}
	d.Pipelines = append(d.Pipelines, p)
	return p, nil
}

func (d *Device) BeginRenderPass(desc gpu.RenderPassDescriptor) (gpu.RenderPass, error) {
	if desc.Target == nil {
		return nil, fmt.Errorf("render pass %q: nil target", desc.Label)
	}
	t, ok := desc.Target.(*Texture)
	if !ok {
		return nil, fmt.Errorf("foreign texture %T", desc.Target)
	}
	if desc.LoadOp == gpu.LoadOpClear {
		for i := range t.Pixels {
			t.Pixels[i] = 0
		}
	}
	p := &RenderPass{Desc: desc}
	d.Passes = append(d.Passes, p)
	return p, nil
}

func (d *Device) Submit() { d.Submits++ }

// LastModule returns the most recently compiled shader module, or nil.
func (d *Device) LastModule() *ShaderModule {
	if len(d.Modules) == 0 {
		return nil
	}
	return d.Modules[len(d.Modules)-1]
}

// PassesFor returns the passes that targeted t, oldest first.
func (d *Device) PassesFor(t gpu.Texture) []*RenderPass {
	var out []*RenderPass
	for _, p := range d.Passes {
		if p.Desc.Target == t {
			out = append(out, p)
		}
	}
	return out
}
