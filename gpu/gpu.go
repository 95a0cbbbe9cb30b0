// Package gpu defines the device abstraction the renderer draws through.
//
// The shape follows WebGPU: resources are grouped into bind groups that sit at
// positional group indices of a render pipeline. Backends map those groups onto
// whatever the underlying API offers (texture units and uniform-buffer binding
// points for OpenGL).
package gpu

import (
	"fmt"
	"image"
)

// TextureFormat is the pixel format of a texture.
type TextureFormat int

const (
	FormatRGBA8 TextureFormat = iota
	FormatRGBA16F
	FormatRGBA32F
)

func (f TextureFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "rgba8unorm"
	case FormatRGBA16F:
		return "rgba16float"
	case FormatRGBA32F:
		return "rgba32float"
	default:
		return fmt.Sprintf("TextureFormat(%d)", int(f))
	}
}

// BytesPerPixel returns the size of one texel in bytes.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA16F:
		return 8
	case FormatRGBA32F:
		return 16
	default:
		return 4
	}
}

// TextureUsage is a bit set of the ways a texture may be used.
type TextureUsage uint32

const (
	TextureUsageCopySrc TextureUsage = 1 << iota
	TextureUsageCopyDst
	TextureUsageTextureBinding
	TextureUsageRenderAttachment
)

// TextureUsageAll is the usage set given to render targets and their duplicates.
const TextureUsageAll = TextureUsageCopySrc | TextureUsageCopyDst | TextureUsageTextureBinding | TextureUsageRenderAttachment

type TextureDescriptor struct {
	Label  string
	Width  int
	Height int
	Format TextureFormat
	Usage  TextureUsage
}

// Size returns the number of bytes a tightly packed readback of the texture occupies.
func (d TextureDescriptor) Size() int {
	return d.Width * d.Height * d.Format.BytesPerPixel()
}

type Texture interface {
	Descriptor() TextureDescriptor
	Release()
}

type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

type AddressMode int

const (
	AddressClampToEdge AddressMode = iota
	AddressRepeat
)

type SamplerDescriptor struct {
	Label        string
	AddressModeU AddressMode
	AddressModeV AddressMode
	AddressModeW AddressMode
	MagFilter    FilterMode
	MinFilter    FilterMode
	MipmapFilter FilterMode
}

type Sampler interface {
	Descriptor() SamplerDescriptor
	Release()
}

type BufferUsage uint32

const (
	BufferUsageUniform BufferUsage = 1 << iota
	BufferUsageVertex
	BufferUsageIndex
	BufferUsageCopyDst
)

type BufferDescriptor struct {
	Label string
	Size  int
	Usage BufferUsage
}

type Buffer interface {
	Descriptor() BufferDescriptor
	Release()
}

// BindingType is the kind of resource a bind group layout entry accepts.
type BindingType int

const (
	BindingTexture BindingType = iota
	BindingSampler
	BindingUniformBuffer
)

func (t BindingType) String() string {
	switch t {
	case BindingTexture:
		return "texture"
	case BindingSampler:
		return "sampler"
	case BindingUniformBuffer:
		return "uniform-buffer"
	default:
		return fmt.Sprintf("BindingType(%d)", int(t))
	}
}

// BindGroupLayoutEntry describes one binding inside a group.
//
// Name is the identifier the shader declares for the resource. Backends
// without explicit binding qualifiers in their shading language use it to
// attach the resource to the group's slot.
type BindGroupLayoutEntry struct {
	Binding int
	Type    BindingType
	Name    string
}

type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

// Compatible reports whether two layouts describe the same bindings.
func (d BindGroupLayoutDescriptor) Compatible(o BindGroupLayoutDescriptor) bool {
	if len(d.Entries) != len(o.Entries) {
		return false
	}
	for i := range d.Entries {
		if d.Entries[i] != o.Entries[i] {
			return false
		}
	}
	return true
}

type BindGroupLayout interface {
	Descriptor() BindGroupLayoutDescriptor
}

// BindGroupEntry holds the resource for one binding. Exactly one of Texture,
// Sampler or Buffer is set, matching the layout entry type.
type BindGroupEntry struct {
	Binding int
	Texture Texture
	Sampler Sampler
	Buffer  Buffer
}

type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayout
	Entries []BindGroupEntry
}

// BindGroup is a concrete set of resources matching a layout. Release frees
// the samplers and buffers the group holds; textures are never released
// through a bind group.
type BindGroup interface {
	Layout() BindGroupLayout
	Entries() []BindGroupEntry
	Release()
}

type ShaderModuleDescriptor struct {
	Label          string
	VertexSource   string
	FragmentSource string
}

type ShaderModule interface {
	Label() string
	Release()
}

type VertexFormat int

const (
	VertexFloat32x2 VertexFormat = iota
	VertexFloat32x3
)

// Components returns the number of float components of the format.
func (f VertexFormat) Components() int {
	if f == VertexFloat32x3 {
		return 3
	}
	return 2
}

type VertexAttribute struct {
	Format         VertexFormat
	Offset         int
	ShaderLocation int
}

type VertexBufferLayout struct {
	ArrayStride int
	Attributes  []VertexAttribute
}

type RenderPipelineDescriptor struct {
	Label            string
	Module           ShaderModule
	Vertex           VertexBufferLayout
	BindGroupLayouts []BindGroupLayout
	TargetFormat     TextureFormat
}

type RenderPipeline interface {
	Descriptor() RenderPipelineDescriptor
	Release()
}

type LoadOp int

const (
	// LoadOpLoad keeps the attachment's existing content.
	LoadOpLoad LoadOp = iota
	LoadOpClear
)

type Color struct {
	R, G, B, A float64
}

type RenderPassDescriptor struct {
	Label      string
	Target     Texture
	LoadOp     LoadOp
	ClearColor Color
}

type IndexFormat int

const (
	IndexUint16 IndexFormat = iota
)

// RenderPass records draw state for one color attachment. Errors raised while
// recording are returned by End.
type RenderPass interface {
	SetPipeline(p RenderPipeline)
	SetBindGroup(index int, group BindGroup)
	SetVertexBuffer(b Buffer)
	SetIndexBuffer(b Buffer, format IndexFormat)
	DrawIndexed(count int)
	End() error
}

// Device creates resources and records work.
type Device interface {
	CreateTexture(desc TextureDescriptor) (Texture, error)
	CreateTextureFromImage(label string, img image.Image) (Texture, error)
	// DuplicateTexture allocates a texture with src's descriptor and copies
	// src into it. The copy is ordered before any work recorded afterwards.
	DuplicateTexture(src Texture) (Texture, error)
	ReadTexture(t Texture) ([]byte, error)

	CreateSampler(desc SamplerDescriptor) (Sampler, error)
	CreateBuffer(desc BufferDescriptor, contents []byte) (Buffer, error)
	WriteBuffer(b Buffer, offset int, data []byte) error

	CreateBindGroupLayout(desc BindGroupLayoutDescriptor) (BindGroupLayout, error)
	CreateBindGroup(desc BindGroupDescriptor) (BindGroup, error)

	CreateShaderModule(desc ShaderModuleDescriptor) (ShaderModule, error)
	CreateRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error)

	BeginRenderPass(desc RenderPassDescriptor) (RenderPass, error)
	Submit()
}
