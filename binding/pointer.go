package binding

// MouseUniform is the pointer position shared by every fragment.
type MouseUniform struct {
	X float32
	Y float32
}

func (m *MouseUniform) StructName() string { return "MouseUniform" }

func (m *MouseUniform) Fields() []Field {
	return []Field{
		{Type: "float", Name: "x"},
		{Type: "float", Name: "y"},
	}
}

func (m *MouseUniform) Bytes() []byte { return Float32Bytes(m.X, m.Y) }

// PointerUniform is the shared global uniform. It is always the last group
// of a fragment's pipeline.
type PointerUniform struct {
	*UniformBlock
	mouse *MouseUniform
}

func NewPointerUniform() *PointerUniform {
	m := &MouseUniform{}
	return &PointerUniform{UniformBlock: NewUniformBlock(m), mouse: m}
}

// Update sets the position from a window-centred, y-up pixel position.
func (p *PointerUniform) Update(x, y, width, height float32) {
	p.mouse.X, p.mouse.Y = NormalizePointer(x, y, width, height)
}

func (p *PointerUniform) Position() (x, y float32) {
	return p.mouse.X, p.mouse.Y
}

// NormalizePointer divides a window-centred, y-up position by the window
// size and inverts y.
func NormalizePointer(x, y, width, height float32) (float32, float32) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return x / width, -(y / height)
}
