package binding

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/richinsley/goshaderfluff/gpu"
)

// Field is one member of a uniform block, e.g. {"vec4", "values", 2}.
// Count of zero declares a scalar member.
type Field struct {
	Type  string
	Name  string
	Count int
}

func (f Field) String() string {
	if f.Count > 0 {
		return fmt.Sprintf("%s %s[%d];", f.Type, f.Name, f.Count)
	}
	return fmt.Sprintf("%s %s;", f.Type, f.Name)
}

// Record is a small fixed-size value copied into a uniform buffer. Bytes
// must match the std140 layout of Fields.
type Record interface {
	StructName() string
	Fields() []Field
	Bytes() []byte
}

// UniformBlock binds a Record as a single uniform buffer at binding 0.
type UniformBlock struct {
	record Record
}

func NewUniformBlock(r Record) *UniformBlock {
	return &UniformBlock{record: r}
}

func (u *UniformBlock) bindable() {}

func (u *UniformBlock) Record() Record { return u.record }

// InstanceName is the shader variable the block is read through.
func (u *UniformBlock) InstanceName() string {
	return strings.ToLower(u.record.StructName())
}

// uniformBufferSize rounds n up to the 16 byte granularity of std140 blocks.
func uniformBufferSize(n int) int {
	return (n + 15) &^ 15
}

func (u *UniformBlock) Build(dev gpu.Device, group int) (gpu.BindGroupLayout, gpu.BindGroup, error) {
	name := u.record.StructName()
	layout, err := dev.CreateBindGroupLayout(gpu.BindGroupLayoutDescriptor{
		Label: strings.ToLower(name) + "_bind_group_layout",
		Entries: []gpu.BindGroupLayoutEntry{
			{Binding: 0, Type: gpu.BindingUniformBuffer, Name: name},
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s layout: %w", name, err)
	}

	contents := u.record.Bytes()
	buffer, err := dev.CreateBuffer(gpu.BufferDescriptor{
		Label: "Buffer",
		Size:  uniformBufferSize(len(contents)),
		Usage: gpu.BufferUsageUniform | gpu.BufferUsageCopyDst,
	}, contents)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s buffer: %w", name, err)
	}

	bg, err := dev.CreateBindGroup(gpu.BindGroupDescriptor{
		Label:   strings.ToLower(name) + "_bind_group",
		Layout:  layout,
		Entries: []gpu.BindGroupEntry{{Binding: 0, Buffer: buffer}},
	})
	if err != nil {
		buffer.Release()
		return nil, nil, fmt.Errorf("failed to create %s bind group: %w", name, err)
	}
	return layout, bg, nil
}

func (u *UniformBlock) Declare(group int) string {
	var sb strings.Builder
	sb.WriteString(groupComment(group, 0))
	fmt.Fprintf(&sb, "layout(std140) uniform %s {\n", u.record.StructName())
	for _, f := range u.record.Fields() {
		fmt.Fprintf(&sb, "    %s\n", f)
	}
	fmt.Fprintf(&sb, "} %s;\n", u.InstanceName())
	return sb.String()
}

// Float32Bytes packs values little-endian, four bytes each.
func Float32Bytes(values ...float32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}
