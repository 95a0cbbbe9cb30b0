package renderer

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderfluff/binding"
	"github.com/richinsley/goshaderfluff/gpu"
	"github.com/richinsley/goshaderfluff/params"
	"github.com/richinsley/goshaderfluff/shader"
	"github.com/richinsley/goshaderfluff/shapes"
)

// Canvas is where fragments present their output.
type Canvas interface {
	DrawTexture(t gpu.Texture, center, size mgl32.Vec2)
}

type FragmentConfig struct {
	Path string
	// Utility is the source every #import line is replaced with.
	Utility string
	// Default is sampled until the first real frame exists.
	Default gpu.Texture
	Size    image.Point
	Rect    Rect
	Format  gpu.TextureFormat
	Dialect shader.Dialect
}

type cachedPipeline struct {
	source   string
	module   gpu.ShaderModule
	pipeline gpu.RenderPipeline
}

func (c *cachedPipeline) release() {
	c.pipeline.Release()
	c.module.Release()
}

// Fragment is one shader program and the resources it renders with.
type Fragment struct {
	name         string
	source       string
	dialect      shader.Dialect
	params       []*params.Parameter
	quad         *shapes.QuadBuffer
	output       gpu.Texture
	rect         Rect
	placeholders [2]gpu.Texture

	cache *cachedPipeline
	// groups built for the frame in flight, released after submission
	frame []*binding.Built
}

// FragmentName is the display name of the shader at path.
func FragmentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func NewFragment(dev gpu.Device, cfg FragmentConfig) (*Fragment, error) {
	raw, err := os.ReadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader %s: %w", cfg.Path, err)
	}
	name := FragmentName(cfg.Path)
	code := string(raw)

	// parameters are discovered before the utility source is spliced in
	found := params.Discover(code)
	source := shader.SubstituteImports(code, cfg.Utility)

	size := cfg.Size
	if size.X <= 0 || size.Y <= 0 {
		size = image.Pt(DefaultTextureSize, DefaultTextureSize)
	}
	output, err := dev.CreateTexture(gpu.TextureDescriptor{
		Label:  name,
		Width:  size.X,
		Height: size.Y,
		Format: cfg.Format,
		Usage:  gpu.TextureUsageAll,
	})
	if err != nil {
		return nil, fmt.Errorf("fragment %q: failed to create output texture: %w", name, err)
	}

	quad, err := shapes.NewQuadBuffer(dev, shapes.FullScreen())
	if err != nil {
		output.Release()
		return nil, fmt.Errorf("fragment %q: %w", name, err)
	}

	dialect := cfg.Dialect
	if dialect == "" {
		dialect = shader.GLSL410
	}

	return &Fragment{
		name:         name,
		source:       source,
		dialect:      dialect,
		params:       found,
		quad:         quad,
		output:       output,
		rect:         cfg.Rect,
		placeholders: [2]gpu.Texture{cfg.Default, cfg.Default},
	}, nil
}

func (f *Fragment) Name() string                 { return f.name }
func (f *Fragment) Output() gpu.Texture          { return f.output }
func (f *Fragment) Params() []*params.Parameter  { return f.params }
func (f *Fragment) Rect() Rect                   { return f.rect }
func (f *Fragment) Placeholders() [2]gpu.Texture { return f.placeholders }

// Body is the preprocessed shader text, without the generated declarations.
func (f *Fragment) Body() string { return f.source }

// Assemble returns the bindables of one pass: the pool as texture samples,
// then the fragment's parameters, then the pointer. Parameter functions
// blend as many pool textures as are bound, up to params.SampleCount.
func (f *Fragment) Assemble(pool []gpu.Texture, pointer *binding.PointerUniform) []binding.Bindable {
	list := make([]binding.Bindable, 0, len(pool)+len(f.params)+1)
	for _, t := range pool {
		list = append(list, binding.NewTextureSample(t))
	}
	samples := min(len(pool), params.SampleCount)
	for _, p := range f.params {
		list = append(list, p.Sampling(samples))
	}
	return append(list, pointer)
}

// Source generates the full fragment shader for list.
func (f *Fragment) Source(list []binding.Bindable) string {
	return shader.Assemble(shader.FragmentPrologue(f.dialect), binding.Declarations(list), f.source)
}

// pipeline returns the pipeline for source, compiling it when the source
// changed since the last call.
func (f *Fragment) pipeline(dev gpu.Device, source string, layouts []gpu.BindGroupLayout) (gpu.RenderPipeline, error) {
	if f.cache != nil && f.cache.source == source {
		return f.cache.pipeline, nil
	}

	module, err := dev.CreateShaderModule(gpu.ShaderModuleDescriptor{
		Label:          f.name,
		VertexSource:   shader.VertexShader(f.dialect),
		FragmentSource: source,
	})
	if err != nil {
		return nil, err
	}
	pipeline, err := dev.CreateRenderPipeline(gpu.RenderPipelineDescriptor{
		Label:            f.name,
		Module:           module,
		Vertex:           shapes.VertexLayout(),
		BindGroupLayouts: layouts,
		TargetFormat:     f.output.Descriptor().Format,
	})
	if err != nil {
		module.Release()
		return nil, err
	}

	if f.cache != nil {
		f.cache.release()
	}
	f.cache = &cachedPipeline{source: source, module: module, pipeline: pipeline}
	return pipeline, nil
}

// Render draws one frame into the fragment's output, sampling pool. The
// output keeps its previous content, so the draw lands on top of last frame.
func (f *Fragment) Render(dev gpu.Device, pointer *binding.PointerUniform, pool []gpu.Texture) error {
	list := f.Assemble(pool, pointer)
	built, err := binding.Build(dev, list)
	if err != nil {
		return fmt.Errorf("fragment %q: %w", f.name, err)
	}
	f.frame = append(f.frame, built)

	pipeline, err := f.pipeline(dev, f.Source(list), built.Layouts)
	if err != nil {
		return fmt.Errorf("fragment %q: %w", f.name, err)
	}
	if err := gpu.CheckTarget(pipeline.Descriptor(), f.output); err != nil {
		return fmt.Errorf("fragment %q: %w", f.name, err)
	}

	pass, err := dev.BeginRenderPass(gpu.RenderPassDescriptor{
		Label:  f.name,
		Target: f.output,
		LoadOp: gpu.LoadOpLoad,
	})
	if err != nil {
		return fmt.Errorf("fragment %q: %w", f.name, err)
	}
	pass.SetPipeline(pipeline)
	built.Bind(pass)
	f.quad.Draw(pass)
	if err := pass.End(); err != nil {
		return fmt.Errorf("fragment %q: %w", f.name, err)
	}
	return nil
}

// Prepare compiles the pipeline for a pool of poolSize textures, using the
// placeholders as stand-ins, so a broken shader fails before the first frame.
func (f *Fragment) Prepare(dev gpu.Device, pointer *binding.PointerUniform, poolSize int) error {
	pool := make([]gpu.Texture, poolSize)
	for i := range pool {
		pool[i] = f.placeholders[i%len(f.placeholders)]
	}
	list := f.Assemble(pool, pointer)
	built, err := binding.Build(dev, list)
	if err != nil {
		return fmt.Errorf("fragment %q: %w", f.name, err)
	}
	defer built.Release()

	if _, err := f.pipeline(dev, f.Source(list), built.Layouts); err != nil {
		return fmt.Errorf("fragment %q: %w", f.name, err)
	}
	return nil
}

// releaseFrame frees the bind groups of the submitted frame.
func (f *Fragment) releaseFrame() {
	for _, b := range f.frame {
		b.Release()
	}
	f.frame = f.frame[:0]
}

// Draw presents the output at the placement rect.
func (f *Fragment) Draw(c Canvas) {
	c.DrawTexture(f.output, f.rect.XY, f.rect.WH)
}

func (f *Fragment) Release() {
	f.releaseFrame()
	if f.cache != nil {
		f.cache.release()
		f.cache = nil
	}
	f.quad.Release()
	f.output.Release()
}
