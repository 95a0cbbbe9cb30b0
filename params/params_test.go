package params

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/richinsley/goshaderfluff/binding"
	"github.com/richinsley/goshaderfluff/gpu/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		names []string
		index []int
	}{
		{
			name:  "none",
			code:  "void main() { frag_color = vec4(1.0); }",
			names: nil,
		},
		{
			name:  "single",
			code:  "vec4 foo = PARAMETER0(tex_coords);\nvoid main() {}\n",
			names: []string{"foo"},
			index: []int{0},
		},
		{
			name:  "first qualifying line wins",
			code:  "vec4 a = PARAMETER2(uv);\nvec4 b = PARAMETER2(uv);\n",
			names: []string{"a"},
			index: []int{2},
		},
		{
			name:  "no assignment",
			code:  "frag_color = vec4(0.0);\nPARAMETER1(tex_coords);\n",
			names: nil,
		},
		{
			name:  "parenthesised second token skipped",
			code:  "if (PARAMETER0(uv).x == 0.0) discard;\nvec4 good = PARAMETER0(uv);\n",
			names: []string{"good"},
			index: []int{0},
		},
		{
			name:  "ascending index order",
			code:  "vec4 c = PARAMETER5(uv);\nvec4 a = PARAMETER0(uv);\nvec4 b = PARAMETER3(uv);\n",
			names: []string{"a", "b", "c"},
			index: []int{0, 3, 5},
		},
		{
			name:  "comments count",
			code:  "// see PARAMETER4 = weights\n",
			names: []string{"see"},
			index: []int{4},
		},
		{
			name:  "out of range ignored",
			code:  "vec4 x = PARAMETER9(uv);\n",
			names: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := Discover(tt.code)
			require.Len(t, found, len(tt.names))
			for i, p := range found {
				assert.Equal(t, tt.names[i], p.Name())
				assert.Equal(t, tt.index[i], p.Index())
			}
		})
	}
}

func TestDiscoverScalarDeclaration(t *testing.T) {
	found := Discover("var PARAMETER0 = foo;\n")
	require.Len(t, found, 1)
	assert.Equal(t, "PARAMETER0", found[0].Name())
	assert.Equal(t, 0, found[0].Index())
}

func TestNewSeedsDefaults(t *testing.T) {
	p := New("foo", 3)
	for _, v := range p.Values() {
		assert.Equal(t, DefaultValue, v)
	}

	p.MutableValues()[3] = 0.75
	assert.Equal(t, float32(0.75), p.Values()[3])

	v := p.Values()
	v[0] = 9
	assert.Equal(t, DefaultValue, p.Values()[0])
}

func TestRandomize(t *testing.T) {
	p := New("foo", 0)
	p.Randomize(rand.New(rand.NewPCG(1, 2)))
	for _, v := range p.Values() {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Less(t, v, float32(1))
	}
	assert.NotEqual(t, New("foo", 0).Values(), p.Values())

	p.Randomize(nil)
	for _, v := range p.Values() {
		assert.Less(t, v, float32(1))
	}
}

func TestDeclare(t *testing.T) {
	p := New("foo", 2)
	src := p.Declare(6)

	assert.Contains(t, src, "// @group(6) @binding(0)")
	assert.Contains(t, src, "layout(std140) uniform ParameterSet2 {")
	assert.Contains(t, src, "vec4 values[2];")
	assert.Contains(t, src, "} parameterset2;")
	assert.Contains(t, src, "vec4 PARAMETER2(vec2 location) {")
	for j := 0; j < SampleCount; j++ {
		assert.Contains(t, src, "texture("+binding.TextureName(j)+", location)")
	}
	assert.Contains(t, src, "sample3 = sample3 * parameterset2.values[0][3];")
	assert.NotContains(t, src, "tex4")
	assert.True(t, strings.HasSuffix(src, "return param;\n}\n"))
}

func TestSamplingClampsCount(t *testing.T) {
	p := New("foo", 0)

	src := p.Sampling(2).Declare(2)
	assert.Contains(t, src, "texture(tex1, location)")
	assert.NotContains(t, src, "tex2")

	assert.Equal(t, p.Declare(5), p.Sampling(10).Declare(5))
}

func TestBuildBytes(t *testing.T) {
	dev := gputest.NewDevice()
	p := New("foo", 1)
	p.MutableValues()[7] = 0.5

	layout, group, err := p.Sampling(1).Build(dev, 4)
	require.NoError(t, err)
	assert.Equal(t, "ParameterSet1", layout.Descriptor().Entries[0].Name)

	buf := group.Entries()[0].Buffer.(*gputest.Buffer)
	require.Len(t, buf.Data, 32)
	want := binding.Float32Bytes(0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.5)
	assert.Equal(t, want, buf.Data)
}
