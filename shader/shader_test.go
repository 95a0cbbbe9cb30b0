package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const utility = "float util(float x) { return x; }\n"

func TestSubstituteImports(t *testing.T) {
	code := "line a\n#import utility\nline b\n"
	got := SubstituteImports(code, utility)
	assert.Equal(t, "line a\n"+utility+"line b\n", got)
}

func TestSubstituteImportsKeepsOrder(t *testing.T) {
	code := "one\n#import a\ntwo\n#import b\nthree"
	got := SubstituteImports(code, "U")
	assert.Equal(t, "one\nU\ntwo\nU\nthree\n", got)
}

func TestSubstituteImportsIdempotent(t *testing.T) {
	code := "a\n#import x\nb\n"
	once := SubstituteImports(code, utility)
	assert.Equal(t, once, SubstituteImports(once, utility))
}

func TestSubstituteImportsSingleLevel(t *testing.T) {
	nested := "#import again\n"
	got := SubstituteImports("#import x\n", nested)
	assert.Equal(t, nested, got)
}

func TestSubstituteImportsOnlyLineStart(t *testing.T) {
	code := "  #import indented\n// #import comment\n"
	assert.Equal(t, code, SubstituteImports(code, utility))
}

func TestNoImports(t *testing.T) {
	code := "void main() {}\n"
	assert.Equal(t, code, SubstituteImports(code, utility))
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("WebGL2")
	require.NoError(t, err)
	assert.Equal(t, WebGL2, d)
	assert.True(t, d.Translated())

	d, err = ParseDialect("glsl410")
	require.NoError(t, err)
	assert.False(t, d.Translated())

	_, err = ParseDialect("wgsl")
	assert.Error(t, err)
}

func TestPrologueAndVertexInterface(t *testing.T) {
	for _, d := range []Dialect{GLSL410, WebGL2} {
		p := FragmentPrologue(d)
		assert.Contains(t, p, "in vec2 tex_coords;")
		assert.Contains(t, p, "out vec4 frag_color;")

		v := VertexShader(d)
		assert.Contains(t, v, "layout (location = 0) in vec3 position;")
		assert.Contains(t, v, "layout (location = 1) in vec2 tex_coords_in;")
		assert.Contains(t, v, "out vec2 tex_coords;")
	}
	assert.True(t, strings.HasPrefix(FragmentPrologue(WebGL2), "#version 300 es"))
	assert.True(t, strings.HasPrefix(FragmentPrologue(GLSL410), "#version 410 core"))
}

func TestAssemble(t *testing.T) {
	src := Assemble("P\n", "D\n", "B\n")
	assert.Equal(t, "P\n\nD\n\nB\n", src)
	assert.Less(t, strings.Index(src, "P"), strings.Index(src, "D"))
	assert.Less(t, strings.Index(src, "D"), strings.Index(src, "B"))
}
