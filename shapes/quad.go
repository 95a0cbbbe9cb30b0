// Package shapes builds the geometry fragments are drawn with.
package shapes

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderfluff/gpu"
)

// Vertex is a position plus a texture coordinate.
type Vertex struct {
	Position  [3]float32
	TexCoords [2]float32
}

// VertexSize is the stride of a packed Vertex in bytes.
const VertexSize = 5 * 4

// VertexLayout describes how Vertex is laid out in a vertex buffer.
func VertexLayout() gpu.VertexBufferLayout {
	return gpu.VertexBufferLayout{
		ArrayStride: VertexSize,
		Attributes: []gpu.VertexAttribute{
			{Format: gpu.VertexFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gpu.VertexFloat32x2, Offset: 3 * 4, ShaderLocation: 1},
		},
	}
}

type ShapePoints struct {
	Vertices []Vertex
	Indices  []uint16
}

// Rectangle returns the quad centred on xy extending wh in each direction.
// Both triangles wind counter-clockwise.
func Rectangle(xy, wh mgl32.Vec2) ShapePoints {
	left := xy.X() - wh.X()
	right := xy.X() + wh.X()
	bottom := xy.Y() - wh.Y()
	top := xy.Y() + wh.Y()

	return ShapePoints{
		Vertices: []Vertex{
			{Position: [3]float32{left, bottom, 0}, TexCoords: [2]float32{0, 1}},
			{Position: [3]float32{right, bottom, 0}, TexCoords: [2]float32{1, 1}},
			{Position: [3]float32{right, top, 0}, TexCoords: [2]float32{1, 0}},
			{Position: [3]float32{left, top, 0}, TexCoords: [2]float32{0, 0}},
		},
		Indices: []uint16{
			0, 1, 3,
			1, 2, 3,
		},
	}
}

// FullScreen is the quad covering the whole render target in clip space.
func FullScreen() ShapePoints {
	return Rectangle(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1})
}

func (p ShapePoints) VertexBytes() []byte {
	out := make([]byte, 0, len(p.Vertices)*VertexSize)
	for _, v := range p.Vertices {
		for _, f := range v.Position {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
		}
		for _, f := range v.TexCoords {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
		}
	}
	return out
}

func (p ShapePoints) IndexBytes() []byte {
	out := make([]byte, 0, len(p.Indices)*2)
	for _, i := range p.Indices {
		out = binary.LittleEndian.AppendUint16(out, i)
	}
	return out
}

// QuadBuffer is ShapePoints uploaded to the GPU.
type QuadBuffer struct {
	VertexBuffer gpu.Buffer
	IndexBuffer  gpu.Buffer
	NumVertices  int
	NumIndices   int
}

func NewQuadBuffer(dev gpu.Device, points ShapePoints) (*QuadBuffer, error) {
	vb := points.VertexBytes()
	vertexBuffer, err := dev.CreateBuffer(gpu.BufferDescriptor{
		Label: "Vertex Buffer",
		Size:  len(vb),
		Usage: gpu.BufferUsageVertex,
	}, vb)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex buffer: %w", err)
	}

	ib := points.IndexBytes()
	indexBuffer, err := dev.CreateBuffer(gpu.BufferDescriptor{
		Label: "Index Buffer",
		Size:  len(ib),
		Usage: gpu.BufferUsageIndex,
	}, ib)
	if err != nil {
		vertexBuffer.Release()
		return nil, fmt.Errorf("failed to create index buffer: %w", err)
	}

	return &QuadBuffer{
		VertexBuffer: vertexBuffer,
		IndexBuffer:  indexBuffer,
		NumVertices:  len(points.Vertices),
		NumIndices:   len(points.Indices),
	}, nil
}

// Draw binds the quad and issues one indexed draw over all of its indices.
func (q *QuadBuffer) Draw(pass gpu.RenderPass) {
	pass.SetVertexBuffer(q.VertexBuffer)
	pass.SetIndexBuffer(q.IndexBuffer, gpu.IndexUint16)
	pass.DrawIndexed(q.NumIndices)
}

func (q *QuadBuffer) Release() {
	q.VertexBuffer.Release()
	q.IndexBuffer.Release()
}
