package glgpu

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderfluff/gpu"
	"github.com/richinsley/goshaderfluff/translator"
)

// ShaderModule holds both compiled stages of one program.
type ShaderModule struct {
	label          string
	vertexShader   uint32
	fragmentShader uint32
	// names maps source identifiers to the identifiers of the compiled code
	names map[string]string
}

func (m *ShaderModule) Label() string { return m.label }

func (m *ShaderModule) Release() {
	if m.vertexShader != 0 {
		gl.DeleteShader(m.vertexShader)
		m.vertexShader = 0
	}
	if m.fragmentShader != 0 {
		gl.DeleteShader(m.fragmentShader)
		m.fragmentShader = 0
	}
}

func (d *Device) CreateShaderModule(desc gpu.ShaderModuleDescriptor) (gpu.ShaderModule, error) {
	vertexSource, fragmentSource := desc.VertexSource, desc.FragmentSource
	names := map[string]string{}
	if d.translator != nil {
		var vsNames, fsNames map[string]string
		var err error
		vertexSource, vsNames, err = d.translator.Translate(vertexSource, translator.StageVertex)
		if err != nil {
			return nil, fmt.Errorf("shader %q: %w", desc.Label, err)
		}
		fragmentSource, fsNames, err = d.translator.Translate(fragmentSource, translator.StageFragment)
		if err != nil {
			return nil, fmt.Errorf("shader %q: %w", desc.Label, err)
		}
		for k, v := range vsNames {
			names[k] = v
		}
		for k, v := range fsNames {
			names[k] = v
		}
	}

	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", desc.Label, err)
	}
	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return nil, fmt.Errorf("shader %q: %w", desc.Label, err)
	}
	return &ShaderModule{
		label:          desc.Label,
		vertexShader:   vertexShader,
		fragmentShader: fragmentShader,
		names:          names,
	}, nil
}

type RenderPipeline struct {
	desc    gpu.RenderPipelineDescriptor
	program uint32
	vao     uint32
}

func (p *RenderPipeline) Descriptor() gpu.RenderPipelineDescriptor { return p.desc }

func (p *RenderPipeline) Release() {
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}

// CreateRenderPipeline links the module and attaches group i of the layout to
// texture unit i or uniform buffer binding point i. Resources the compiler
// optimised away are skipped.
func (d *Device) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	module, ok := desc.Module.(*ShaderModule)
	if !ok {
		return nil, fmt.Errorf("pipeline %q: foreign shader module %T", desc.Label, desc.Module)
	}
	program, err := linkProgram(module.vertexShader, module.fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("pipeline %q: %w", desc.Label, err)
	}

	gl.UseProgram(program)
	for group, layout := range desc.BindGroupLayouts {
		for _, e := range layout.Descriptor().Entries {
			name := translator.MappedName(module.names, e.Name)
			switch e.Type {
			case gpu.BindingTexture:
				loc := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
				if loc >= 0 {
					gl.Uniform1i(loc, int32(group))
				}
			case gpu.BindingUniformBuffer:
				index := gl.GetUniformBlockIndex(program, gl.Str(name+"\x00"))
				if index != gl.INVALID_INDEX {
					gl.UniformBlockBinding(program, index, uint32(group))
				}
			}
		}
	}
	gl.UseProgram(0)

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return &RenderPipeline{desc: desc, program: program, vao: vao}, nil
}

func linkProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	return program, nil
}

// newProgram compiles and links a program whose shaders are not kept.
func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}
	program, err := linkProgram(vertexShader, fragmentShader)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)
	return program, err
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile %s shader: %v", stageName(shaderType), strings.TrimRight(logText, "\x00"))
	}
	return shader, nil
}

func stageName(shaderType uint32) string {
	if shaderType == gl.VERTEX_SHADER {
		return "vertex"
	}
	return "fragment"
}
