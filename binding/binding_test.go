package binding

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/richinsley/goshaderfluff/gpu"
	"github.com/richinsley/goshaderfluff/gpu/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var groupRe = regexp.MustCompile(`// @group\((\d+)\) @binding\(0\)`)

func declaredGroups(t *testing.T, src string) []int {
	t.Helper()
	var out []int
	for _, m := range groupRe.FindAllStringSubmatch(src, -1) {
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		out = append(out, n)
	}
	return out
}

func newTexture(t *testing.T, dev *gputest.Device) gpu.Texture {
	t.Helper()
	tex, err := dev.CreateTexture(gpu.TextureDescriptor{Width: 2, Height: 2, Format: gpu.FormatRGBA8})
	require.NoError(t, err)
	return tex
}

func TestTextureSample(t *testing.T) {
	dev := gputest.NewDevice()
	tex := newTexture(t, dev)
	s := NewTextureSample(tex)

	layout, group, err := s.Build(dev, 3)
	require.NoError(t, err)
	entries := layout.Descriptor().Entries
	require.Len(t, entries, 2)
	assert.Equal(t, gpu.BindingTexture, entries[0].Type)
	assert.Equal(t, 0, entries[0].Binding)
	assert.Equal(t, gpu.BindingSampler, entries[1].Type)
	assert.Equal(t, 1, entries[1].Binding)
	assert.Equal(t, "tex3", entries[0].Name)

	assert.Same(t, tex, group.Entries()[0].Texture)
	sampler := group.Entries()[1].Sampler.Descriptor()
	assert.Equal(t, gpu.AddressClampToEdge, sampler.AddressModeU)
	assert.Equal(t, gpu.FilterLinear, sampler.MagFilter)
	assert.Equal(t, gpu.FilterNearest, sampler.MinFilter)

	decl := s.Declare(3)
	assert.Contains(t, decl, "uniform sampler2D tex3;")
	assert.Contains(t, decl, "// @group(3) @binding(0)")
	assert.Contains(t, decl, "// @group(3) @binding(1)")
}

func TestUniformBlock(t *testing.T) {
	dev := gputest.NewDevice()
	p := NewPointerUniform()
	p.Update(200, 100, 800, 400)

	x, y := p.Position()
	assert.InDelta(t, 0.25, x, 1e-6)
	assert.InDelta(t, -0.25, y, 1e-6)

	layout, group, err := p.Build(dev, 5)
	require.NoError(t, err)
	entries := layout.Descriptor().Entries
	require.Len(t, entries, 1)
	assert.Equal(t, gpu.BindingUniformBuffer, entries[0].Type)
	assert.Equal(t, "MouseUniform", entries[0].Name)

	buf := group.Entries()[0].Buffer.(*gputest.Buffer)
	assert.Equal(t, Float32Bytes(0.25, -0.25), buf.Data[:8])
	assert.Equal(t, gpu.BufferUsageUniform|gpu.BufferUsageCopyDst, buf.Descriptor().Usage)
	assert.Zero(t, buf.Descriptor().Size%16)

	decl := p.Declare(5)
	assert.Contains(t, decl, "// @group(5) @binding(0)")
	assert.Contains(t, decl, "layout(std140) uniform MouseUniform {")
	assert.Contains(t, decl, "float x;")
	assert.Contains(t, decl, "float y;")
	assert.Contains(t, decl, "} mouseuniform;")
}

func TestNormalizePointerZeroSize(t *testing.T) {
	x, y := NormalizePointer(10, 10, 0, 0)
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestBuildAndDeclareShareOrder(t *testing.T) {
	dev := gputest.NewDevice()
	list := []Bindable{
		NewTextureSample(newTexture(t, dev)),
		NewTextureSample(newTexture(t, dev)),
		NewTextureSample(newTexture(t, dev)),
		NewPointerUniform(),
	}

	built, err := Build(dev, list)
	require.NoError(t, err)
	require.Len(t, built.Layouts, len(list))
	require.Len(t, built.Groups, len(list))

	src := Declarations(list)
	assert.Equal(t, []int{0, 1, 2, 3}, declaredGroups(t, src))
	for i := 0; i < 3; i++ {
		assert.Equal(t, TextureName(i), built.Layouts[i].Descriptor().Entries[0].Name)
		assert.Same(t, list[i].(*TextureSample).Texture(), built.Groups[i].Entries()[0].Texture)
	}
	assert.Equal(t, "MouseUniform", built.Layouts[3].Descriptor().Entries[0].Name)

	built.Release()
	for _, g := range dev.Groups {
		assert.True(t, g.Released)
	}
	for _, s := range dev.Samplers {
		assert.True(t, s.Released)
	}
	for _, tex := range dev.Textures {
		assert.False(t, tex.Released)
	}
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "vec4 values[2];", Field{Type: "vec4", Name: "values", Count: 2}.String())
	assert.Equal(t, "float x;", Field{Type: "float", Name: "x"}.String())
}
