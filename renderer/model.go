// Package renderer composes a directory of fragment shaders into a feedback
// loop: each frame, every fragment samples the previous output of all
// fragments and draws over its own.
package renderer

import (
	"fmt"
	"image"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/richinsley/goshaderfluff/binding"
	"github.com/richinsley/goshaderfluff/gpu"
	"github.com/richinsley/goshaderfluff/shader"
)

// DefaultTextureSize is the side of a fragment output when none is given.
const DefaultTextureSize = 512

// ShaderExtensions are the file extensions loaded from a shader directory.
var ShaderExtensions = []string{".glsl", ".frag"}

type State int

const (
	// Unrendered means no frame has been produced yet.
	Unrendered State = iota
	Rendering
)

func (s State) String() string {
	if s == Rendering {
		return "rendering"
	}
	return "unrendered"
}

type ModelConfig struct {
	Dir         string
	UtilityPath string
	Default     gpu.Texture
	Size        image.Point
	// Bounds is the canvas area the initial placements are laid out in.
	Bounds  Rect
	Format  gpu.TextureFormat
	Dialect shader.Dialect
}

// PointerPosition is a cursor position in centred, y-up pixels of a window
// of Width x Height.
type PointerPosition struct {
	X, Y          float32
	Width, Height float32
}

// Output is a fragment's render target, for presentation.
type Output struct {
	Name    string
	Texture gpu.Texture
}

// Model owns every fragment and the pointer uniform they share.
type Model struct {
	fragments []*Fragment
	pointer   *binding.PointerUniform
	state     State
}

// ShaderPaths lists the shader files of dir in name order.
func ShaderPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range ShaderExtensions {
			if ext == want {
				paths = append(paths, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	return paths, nil
}

func NewModel(dev gpu.Device, cfg ModelConfig) (*Model, error) {
	paths, err := ShaderPaths(cfg.Dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no shaders found in %s", cfg.Dir)
	}

	var utility string
	if cfg.UtilityPath != "" {
		raw, err := os.ReadFile(cfg.UtilityPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read utility shader %s: %w", cfg.UtilityPath, err)
		}
		utility = string(raw)
	}

	rects := Grid(cfg.Bounds, len(paths))
	m := &Model{pointer: binding.NewPointerUniform()}
	for i, path := range paths {
		f, err := NewFragment(dev, FragmentConfig{
			Path:    path,
			Utility: utility,
			Default: cfg.Default,
			Size:    cfg.Size,
			Rect:    rects[i],
			Format:  cfg.Format,
			Dialect: cfg.Dialect,
		})
		if err != nil {
			m.Release()
			return nil, err
		}
		log.Printf("Loaded fragment %s with %d parameters", f.Name(), len(f.Params()))
		m.fragments = append(m.fragments, f)
	}
	return m, nil
}

// Prepare compiles every fragment's pipeline ahead of the first frame.
func (m *Model) Prepare(dev gpu.Device) error {
	for _, f := range m.fragments {
		if err := f.Prepare(dev, m.pointer, len(m.fragments)); err != nil {
			return err
		}
	}
	return nil
}

// Update runs one frame: it snapshots every output, then renders every
// fragment against the snapshots. The snapshots are released once the frame
// is submitted.
func (m *Model) Update(dev gpu.Device, p PointerPosition) error {
	pool := make([]gpu.Texture, 0, len(m.fragments))
	defer func() {
		for _, t := range pool {
			t.Release()
		}
	}()
	for _, f := range m.fragments {
		dup, err := dev.DuplicateTexture(f.Output())
		if err != nil {
			return fmt.Errorf("fragment %q: failed to duplicate output: %w", f.Name(), err)
		}
		pool = append(pool, dup)
	}

	m.pointer.Update(p.X, p.Y, p.Width, p.Height)

	for _, f := range m.fragments {
		if err := f.Render(dev, m.pointer, pool); err != nil {
			m.releaseFrame()
			return err
		}
	}
	dev.Submit()
	m.releaseFrame()
	m.state = Rendering
	return nil
}

func (m *Model) releaseFrame() {
	for _, f := range m.fragments {
		f.releaseFrame()
	}
}

// Draw presents every fragment. Nothing is drawn before the first Update.
func (m *Model) Draw(c Canvas) {
	if m.state == Unrendered {
		return
	}
	for _, f := range m.fragments {
		f.Draw(c)
	}
}

func (m *Model) State() State                     { return m.state }
func (m *Model) Fragments() []*Fragment           { return m.fragments }
func (m *Model) Pointer() *binding.PointerUniform { return m.pointer }

func (m *Model) Outputs() []Output {
	out := make([]Output, len(m.fragments))
	for i, f := range m.fragments {
		out[i] = Output{Name: f.Name(), Texture: f.Output()}
	}
	return out
}

// MutableParameterValues returns, per fragment and per parameter, the
// weights a controller writes to between frames.
func (m *Model) MutableParameterValues() [][]*[8]float32 {
	out := make([][]*[8]float32, len(m.fragments))
	for i, f := range m.fragments {
		vals := make([]*[8]float32, len(f.params))
		for j, p := range f.params {
			vals[j] = p.MutableValues()
		}
		out[i] = vals
	}
	return out
}

// MutablePlacementRects returns each fragment's placement for a layout
// controller to move.
func (m *Model) MutablePlacementRects() []*Rect {
	out := make([]*Rect, len(m.fragments))
	for i, f := range m.fragments {
		out[i] = &f.rect
	}
	return out
}

// RandomizeParameters sets every parameter weight of every fragment to a
// random value.
func (m *Model) RandomizeParameters(rng *rand.Rand) {
	for _, f := range m.fragments {
		for _, p := range f.params {
			p.Randomize(rng)
		}
	}
}

func (m *Model) Release() {
	for _, f := range m.fragments {
		f.Release()
	}
	m.fragments = nil
}
