package binding

import (
	"fmt"
	"strings"

	"github.com/richinsley/goshaderfluff/gpu"
)

// TextureSample binds a 2D texture and its sampler.
type TextureSample struct {
	texture gpu.Texture
}

func NewTextureSample(t gpu.Texture) *TextureSample {
	return &TextureSample{texture: t}
}

func (s *TextureSample) Texture() gpu.Texture { return s.texture }

func (s *TextureSample) bindable() {}

// TextureName returns the shader identifier of the texture at group.
func TextureName(group int) string {
	return fmt.Sprintf("tex%d", group)
}

// SamplerDescriptor is the sampler every texture sample uses.
func SamplerDescriptor() gpu.SamplerDescriptor {
	return gpu.SamplerDescriptor{
		Label:        "texture sampler",
		AddressModeU: gpu.AddressClampToEdge,
		AddressModeV: gpu.AddressClampToEdge,
		AddressModeW: gpu.AddressClampToEdge,
		MagFilter:    gpu.FilterLinear,
		MinFilter:    gpu.FilterNearest,
		MipmapFilter: gpu.FilterNearest,
	}
}

// Build lays the group out as the texture at binding 0 and the sampler at
// binding 1.
func (s *TextureSample) Build(dev gpu.Device, group int) (gpu.BindGroupLayout, gpu.BindGroup, error) {
	name := TextureName(group)
	layout, err := dev.CreateBindGroupLayout(gpu.BindGroupLayoutDescriptor{
		Label: "texture_bind_group_layout",
		Entries: []gpu.BindGroupLayoutEntry{
			{Binding: 0, Type: gpu.BindingTexture, Name: name},
			{Binding: 1, Type: gpu.BindingSampler, Name: name},
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create texture layout: %w", err)
	}

	sampler, err := dev.CreateSampler(SamplerDescriptor())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sampler: %w", err)
	}

	bg, err := dev.CreateBindGroup(gpu.BindGroupDescriptor{
		Label:  "diffuse_bind_group",
		Layout: layout,
		Entries: []gpu.BindGroupEntry{
			{Binding: 0, Texture: s.texture},
			{Binding: 1, Sampler: sampler},
		},
	})
	if err != nil {
		sampler.Release()
		return nil, nil, fmt.Errorf("failed to create texture bind group: %w", err)
	}
	return layout, bg, nil
}

// Declare emits a combined sampler; the separate sampler object at binding 1
// is attached to the same texture unit by the backend.
func (s *TextureSample) Declare(group int) string {
	var sb strings.Builder
	sb.WriteString(groupComment(group, 0))
	sb.WriteString(groupComment(group, 1))
	fmt.Fprintf(&sb, "uniform sampler2D %s;\n", TextureName(group))
	return sb.String()
}
