package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderfluff/gpu"
)

type Sampler struct {
	desc gpu.SamplerDescriptor
	id   uint32
}

func (s *Sampler) Descriptor() gpu.SamplerDescriptor { return s.desc }

func (s *Sampler) Release() {
	if s.id != 0 {
		gl.DeleteSamplers(1, &s.id)
		s.id = 0
	}
}

func wrapMode(m gpu.AddressMode) int32 {
	if m == gpu.AddressRepeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

func magFilter(f gpu.FilterMode) int32 {
	if f == gpu.FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func minFilter(min, mip gpu.FilterMode) int32 {
	switch {
	case min == gpu.FilterLinear && mip == gpu.FilterLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	case min == gpu.FilterLinear:
		return gl.LINEAR_MIPMAP_NEAREST
	case mip == gpu.FilterLinear:
		return gl.NEAREST_MIPMAP_LINEAR
	default:
		return gl.NEAREST_MIPMAP_NEAREST
	}
}

func (d *Device) CreateSampler(desc gpu.SamplerDescriptor) (gpu.Sampler, error) {
	var id uint32
	gl.GenSamplers(1, &id)
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_S, wrapMode(desc.AddressModeU))
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_T, wrapMode(desc.AddressModeV))
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_R, wrapMode(desc.AddressModeW))
	gl.SamplerParameteri(id, gl.TEXTURE_MAG_FILTER, magFilter(desc.MagFilter))
	gl.SamplerParameteri(id, gl.TEXTURE_MIN_FILTER, minFilter(desc.MinFilter, desc.MipmapFilter))
	return &Sampler{desc: desc, id: id}, nil
}

type Buffer struct {
	desc gpu.BufferDescriptor
	id   uint32
}

func (b *Buffer) Descriptor() gpu.BufferDescriptor { return b.desc }

func (b *Buffer) Release() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

// CreateBuffer allocates the buffer through the copy-write target, which is
// legal regardless of the vertex array currently bound.
func (d *Device) CreateBuffer(desc gpu.BufferDescriptor, contents []byte) (gpu.Buffer, error) {
	if len(contents) > desc.Size {
		return nil, fmt.Errorf("buffer %q: %d bytes of contents for size %d", desc.Label, len(contents), desc.Size)
	}
	usage := uint32(gl.STATIC_DRAW)
	if desc.Usage&gpu.BufferUsageCopyDst != 0 {
		usage = gl.DYNAMIC_DRAW
	}

	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, id)
	gl.BufferData(gl.COPY_WRITE_BUFFER, desc.Size, nil, usage)
	if len(contents) > 0 {
		gl.BufferSubData(gl.COPY_WRITE_BUFFER, 0, len(contents), gl.Ptr(contents))
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	return &Buffer{desc: desc, id: id}, nil
}

func (d *Device) WriteBuffer(b gpu.Buffer, offset int, data []byte) error {
	buf, ok := b.(*Buffer)
	if !ok {
		return fmt.Errorf("foreign buffer %T", b)
	}
	if offset < 0 || offset+len(data) > buf.desc.Size {
		return fmt.Errorf("buffer %q: write of %d bytes at %d out of range", buf.desc.Label, len(data), offset)
	}
	if len(data) == 0 {
		return nil
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, buf.id)
	gl.BufferSubData(gl.COPY_WRITE_BUFFER, offset, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	return nil
}

type BindGroupLayout struct {
	desc gpu.BindGroupLayoutDescriptor
}

func (l *BindGroupLayout) Descriptor() gpu.BindGroupLayoutDescriptor { return l.desc }

func (d *Device) CreateBindGroupLayout(desc gpu.BindGroupLayoutDescriptor) (gpu.BindGroupLayout, error) {
	for _, e := range desc.Entries {
		if e.Name == "" {
			return nil, fmt.Errorf("bind group layout %q: binding %d has no shader name", desc.Label, e.Binding)
		}
	}
	return &BindGroupLayout{desc: desc}, nil
}

type BindGroup struct {
	desc gpu.BindGroupDescriptor
}

func (g *BindGroup) Layout() gpu.BindGroupLayout    { return g.desc.Layout }
func (g *BindGroup) Entries() []gpu.BindGroupEntry { return g.desc.Entries }

func (g *BindGroup) Release() {
	for _, e := range g.desc.Entries {
		if e.Sampler != nil {
			e.Sampler.Release()
		}
		if e.Buffer != nil {
			e.Buffer.Release()
		}
	}
}

func (d *Device) CreateBindGroup(desc gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	if err := gpu.ValidateBindGroup(desc); err != nil {
		return nil, err
	}
	return &BindGroup{desc: desc}, nil
}
