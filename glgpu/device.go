// Package glgpu implements gpu.Device on an OpenGL 4.1 core context.
//
// Bind group N maps to texture unit N and uniform buffer binding point N.
// GLSL 4.10 has no binding qualifiers, so pipelines attach each group by
// looking up the names carried in the layout entries. Every call must be
// made on the thread that owns the current context.
package glgpu

import (
	"fmt"
	"log"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderfluff/gpu"
	"github.com/richinsley/goshaderfluff/translator"
)

var glInitOnce sync.Once

type Option func(*Device)

// WithTranslator runs every shader module source through t before compiling.
func WithTranslator(t *translator.Translator) Option {
	return func(d *Device) { d.translator = t }
}

type Device struct {
	translator *translator.Translator

	// framebuffers used as blit endpoints by DuplicateTexture
	readFBO uint32
	drawFBO uint32
}

var _ gpu.Device = (*Device)(nil)

// NewDevice loads the GL entry points for the current context.
func NewDevice(opts ...Option) (*Device, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	log.Printf("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))

	d := &Device{}
	for _, o := range opts {
		o(d)
	}
	gl.GenFramebuffers(1, &d.readFBO)
	gl.GenFramebuffers(1, &d.drawFBO)
	return d, nil
}

func (d *Device) Destroy() {
	gl.DeleteFramebuffers(1, &d.readFBO)
	gl.DeleteFramebuffers(1, &d.drawFBO)
}

// Submit flushes the recorded commands to the driver.
func (d *Device) Submit() {
	gl.Flush()
}
