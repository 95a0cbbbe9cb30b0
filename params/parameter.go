package params

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/richinsley/goshaderfluff/binding"
)

const (
	// DefaultValue seeds every slot of a new parameter.
	DefaultValue float32 = 0.1
	// SampleCount is the most textures a parameter function blends.
	SampleCount = 4
)

// ParameterSet is the eight weights of one parameter, laid out in the shader
// as two vec4.
type ParameterSet [8]float32

type setRecord struct {
	index int
	set   *ParameterSet
}

func (r setRecord) StructName() string { return fmt.Sprintf("ParameterSet%d", r.index) }

func (r setRecord) Fields() []binding.Field {
	return []binding.Field{{Type: "vec4", Name: "values", Count: 2}}
}

func (r setRecord) Bytes() []byte { return binding.Float32Bytes(r.set[:]...) }

// Parameter is one discovered parameter. It binds as a uniform block and
// declares the PARAMETER<i> function alongside it.
type Parameter struct {
	*binding.UniformBlock
	set   *ParameterSet
	name  string
	index int
}

func New(name string, index int) *Parameter {
	set := &ParameterSet{}
	for i := range set {
		set[i] = DefaultValue
	}
	return &Parameter{
		UniformBlock: binding.NewUniformBlock(setRecord{index: index, set: set}),
		set:          set,
		name:         name,
		index:        index,
	}
}

func (p *Parameter) Name() string { return p.name }
func (p *Parameter) Index() int   { return p.index }

// Values returns a copy of the weights.
func (p *Parameter) Values() [8]float32 { return *p.set }

// MutableValues exposes the weights to controllers. Writes take effect on the
// next render.
func (p *Parameter) MutableValues() *[8]float32 { return (*[8]float32)(p.set) }

// Randomize sets every weight to a uniform value in [0, 1). A nil rng uses
// the global source.
func (p *Parameter) Randomize(rng *rand.Rand) {
	for i := range p.set {
		if rng != nil {
			p.set[i] = rng.Float32()
		} else {
			p.set[i] = rand.Float32()
		}
	}
}

func (p *Parameter) Declare(group int) string {
	return p.declare(group, SampleCount)
}

// Sampling returns p as a Bindable whose function blends only the first n
// textures, for passes that bind fewer than SampleCount of them.
func (p *Parameter) Sampling(n int) binding.Bindable {
	if n > SampleCount {
		n = SampleCount
	}
	if n < 0 {
		n = 0
	}
	return &sampling{Parameter: p, n: n}
}

type sampling struct {
	*Parameter
	n int
}

func (s *sampling) Declare(group int) string {
	return s.declare(group, s.n)
}

func (p *Parameter) declare(group, samples int) string {
	var sb strings.Builder
	sb.WriteString(p.UniformBlock.Declare(group))
	sb.WriteString(p.function(samples))
	return sb.String()
}

// function generates the sampler for this parameter: texture j is sampled at
// location, scaled by weight j, and summed.
func (p *Parameter) function(samples int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "vec4 %s(vec2 location) {\n", Marker(p.index))
	sb.WriteString("    vec4 param = vec4(0.0, 0.0, 0.0, 0.0);\n")
	inst := p.InstanceName()
	for j := 0; j < samples; j++ {
		fmt.Fprintf(&sb, "    vec4 sample%d = texture(%s, location);\n", j, binding.TextureName(j))
		fmt.Fprintf(&sb, "    sample%d = sample%d * %s.values[%d][%d];\n", j, j, inst, j/4, j%4)
		fmt.Fprintf(&sb, "    param = param + sample%d;\n", j)
	}
	sb.WriteString("    return param;\n}\n")
	return sb.String()
}
