package gpu

import (
	"errors"
	"fmt"
)

var (
	ErrFormatMismatch = errors.New("pipeline target format does not match attachment format")
	ErrLayoutMismatch = errors.New("bind group does not match pipeline layout")
)

// ValidateBindGroup checks that every layout entry has a resource of the
// right kind and nothing else is supplied.
func ValidateBindGroup(desc BindGroupDescriptor) error {
	if desc.Layout == nil {
		return fmt.Errorf("bind group %q: nil layout", desc.Label)
	}
	layout := desc.Layout.Descriptor()
	if len(layout.Entries) != len(desc.Entries) {
		return fmt.Errorf("bind group %q: %d entries for a layout of %d", desc.Label, len(desc.Entries), len(layout.Entries))
	}
	for i, le := range layout.Entries {
		e := desc.Entries[i]
		if e.Binding != le.Binding {
			return fmt.Errorf("bind group %q: entry %d has binding %d, layout expects %d", desc.Label, i, e.Binding, le.Binding)
		}
		var ok bool
		switch le.Type {
		case BindingTexture:
			ok = e.Texture != nil && e.Sampler == nil && e.Buffer == nil
		case BindingSampler:
			ok = e.Sampler != nil && e.Texture == nil && e.Buffer == nil
		case BindingUniformBuffer:
			ok = e.Buffer != nil && e.Texture == nil && e.Sampler == nil
		}
		if !ok {
			return fmt.Errorf("bind group %q: binding %d does not hold a %s", desc.Label, le.Binding, le.Type)
		}
	}
	return nil
}

// CheckTarget reports whether a pipeline can draw into target.
func CheckTarget(p RenderPipelineDescriptor, target Texture) error {
	got := target.Descriptor().Format
	if p.TargetFormat != got {
		return fmt.Errorf("%w: pipeline %q renders %s, target %q is %s", ErrFormatMismatch, p.Label, p.TargetFormat, target.Descriptor().Label, got)
	}
	return nil
}

// CheckGroup reports whether group may be bound at index of pipeline p.
func CheckGroup(p RenderPipelineDescriptor, index int, group BindGroup) error {
	if index < 0 || index >= len(p.BindGroupLayouts) {
		return fmt.Errorf("%w: pipeline %q has %d groups, got index %d", ErrLayoutMismatch, p.Label, len(p.BindGroupLayouts), index)
	}
	if !p.BindGroupLayouts[index].Descriptor().Compatible(group.Layout().Descriptor()) {
		return fmt.Errorf("%w: pipeline %q group %d", ErrLayoutMismatch, p.Label, index)
	}
	return nil
}
