package shader

import (
	"fmt"
	"strings"
)

// Dialect selects the GLSL flavour fragment bodies are written in.
type Dialect string

const (
	// GLSL410 bodies are desktop GLSL and compile directly.
	GLSL410 Dialect = "glsl410"
	// WebGL2 bodies are GLSL ES 3.00 and go through the translator.
	WebGL2 Dialect = "webgl2"
)

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(s)) {
	case GLSL410:
		return GLSL410, nil
	case WebGL2:
		return WebGL2, nil
	}
	return "", fmt.Errorf("unknown shader dialect %q", s)
}

// Translated reports whether sources in d need the translator.
func (d Dialect) Translated() bool { return d == WebGL2 }

// ────────────────────────────────── Desktop GL ──────────────────────────────────

// The vertex stage every fragment shares. v is flipped so that tex_coords
// runs bottom-up like GL texture rows.
const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec3 position;
layout (location = 1) in vec2 tex_coords_in;
out vec2 tex_coords;
void main() {
    tex_coords = vec2(tex_coords_in.x, 1.0 - tex_coords_in.y);
    gl_Position = vec4(position, 1.0);
}
`

const fragmentPrologueGL = `#version 410 core
in vec2 tex_coords;
out vec4 frag_color;
`

const blitVertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec3 position;
layout (location = 1) in vec2 tex_coords_in;
uniform mat4 transform;
out vec2 frag_uv;
void main() {
    frag_uv = vec2(tex_coords_in.x, 1.0 - tex_coords_in.y);
    gl_Position = transform * vec4(position, 1.0);
}
`

const blitFragmentShaderSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec3 position;
layout (location = 1) in vec2 tex_coords_in;
out vec2 tex_coords;
void main() {
    tex_coords = vec2(tex_coords_in.x, 1.0 - tex_coords_in.y);
    gl_Position = vec4(position, 1.0);
}
`

const fragmentPrologueGLES = `#version 300 es
precision highp float;
precision highp int;

in vec2 tex_coords;
out vec4 frag_color;
`

// ────────────────────────────────── Public API ─────────────────────────────────

func VertexShader(d Dialect) string {
	if d.Translated() {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

// FragmentPrologue is the version line and the stage interface a fragment
// body is written against: tex_coords in, frag_color out.
func FragmentPrologue(d Dialect) string {
	if d.Translated() {
		return fragmentPrologueGLES
	}
	return fragmentPrologueGL
}

// The canvas compositor runs on the host GL context and is never translated.
func BlitVertexShader() string   { return blitVertexShaderSourceGL }
func BlitFragmentShader() string { return blitFragmentShaderSourceGL }

// ────────────────────── Imports / user code glue ──────────────────────

// ImportDirective starts a line that is replaced by the utility source.
const ImportDirective = "#import"

// SubstituteImports replaces every line starting with #import by utility.
// The utility text is inserted as is, so imports inside it are not expanded.
func SubstituteImports(code, utility string) string {
	if utility != "" && !strings.HasSuffix(utility, "\n") {
		utility += "\n"
	}
	var sb strings.Builder
	for _, line := range strings.SplitAfter(code, "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ImportDirective) {
			sb.WriteString(utility)
			continue
		}
		sb.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Assemble joins prologue + declarations + body into one fragment source.
func Assemble(prologue, declarations, body string) string {
	var sb strings.Builder
	sb.WriteString(prologue)
	sb.WriteString("\n")
	sb.WriteString(declarations)
	sb.WriteString("\n")
	sb.WriteString(body)
	return sb.String()
}
