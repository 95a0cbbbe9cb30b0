// Package binding holds the resources a fragment's render pass binds.
//
// Every resource produces two things for the same group index: the GPU
// layout and bind group, and the shader declaration that reads it. A list of
// Bindables is always built and declared from the same slice, so the Nth
// entry lands at group N on both sides.
package binding

import (
	"fmt"
	"strings"

	"github.com/richinsley/goshaderfluff/gpu"
)

// Bindable is implemented by TextureSample and UniformBlock, and by types
// that embed a UniformBlock.
type Bindable interface {
	// Build allocates the layout and bind group for the resource at group.
	Build(dev gpu.Device, group int) (gpu.BindGroupLayout, gpu.BindGroup, error)
	// Declare emits the shader declaration for the resource at group.
	Declare(group int) string
	bindable()
}

// Built is the result of building a list of Bindables.
type Built struct {
	Layouts []gpu.BindGroupLayout
	Groups  []gpu.BindGroup
}

// Release frees the per-frame resources held by the groups.
func (b *Built) Release() {
	for _, g := range b.Groups {
		g.Release()
	}
	b.Groups = nil
}

// Build builds every Bindable in order. Group i of the result belongs to list[i].
func Build(dev gpu.Device, list []Bindable) (*Built, error) {
	built := &Built{
		Layouts: make([]gpu.BindGroupLayout, 0, len(list)),
		Groups:  make([]gpu.BindGroup, 0, len(list)),
	}
	for i, b := range list {
		layout, group, err := b.Build(dev, i)
		if err != nil {
			built.Release()
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		built.Layouts = append(built.Layouts, layout)
		built.Groups = append(built.Groups, group)
	}
	return built, nil
}

// Declarations concatenates the declaration of every Bindable, list[i] at group i.
func Declarations(list []Bindable) string {
	var sb strings.Builder
	for i, b := range list {
		sb.WriteString(b.Declare(i))
	}
	return sb.String()
}

// Bind attaches every group of built at its positional index.
func (b *Built) Bind(pass gpu.RenderPass) {
	for i, g := range b.Groups {
		pass.SetBindGroup(i, g)
	}
}

// groupComment marks the group and binding a declaration belongs to.
func groupComment(group, binding int) string {
	return fmt.Sprintf("// @group(%d) @binding(%d)\n", group, binding)
}
