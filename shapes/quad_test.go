package shapes

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderfluff/gpu/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedArea(a, b, c Vertex) float32 {
	return (b.Position[0]-a.Position[0])*(c.Position[1]-a.Position[1]) -
		(c.Position[0]-a.Position[0])*(b.Position[1]-a.Position[1])
}

func TestFullScreenQuad(t *testing.T) {
	q := FullScreen()
	require.Len(t, q.Vertices, 4)
	require.Len(t, q.Indices, 6)

	for i := 0; i < len(q.Indices); i += 3 {
		a, b, c := q.Vertices[q.Indices[i]], q.Vertices[q.Indices[i+1]], q.Vertices[q.Indices[i+2]]
		assert.Greater(t, signedArea(a, b, c), float32(0), "triangle %d is not counter-clockwise", i/3)
	}

	for _, v := range q.Vertices {
		assert.InDelta(t, 1, abs(v.Position[0]), 1e-6)
		assert.InDelta(t, 1, abs(v.Position[1]), 1e-6)
		assert.Contains(t, []float32{0, 1}, v.TexCoords[0])
		assert.Contains(t, []float32{0, 1}, v.TexCoords[1])
	}
}

func TestRectangleWinding(t *testing.T) {
	for _, r := range []struct{ xy, wh mgl32.Vec2 }{
		{mgl32.Vec2{3, -2}, mgl32.Vec2{0.5, 4}},
		{mgl32.Vec2{-100, 100}, mgl32.Vec2{20, 10}},
	} {
		q := Rectangle(r.xy, r.wh)
		require.Len(t, q.Vertices, 4)
		require.Equal(t, FullScreen().Indices, q.Indices)
		for i := 0; i < len(q.Indices); i += 3 {
			a, b, c := q.Vertices[q.Indices[i]], q.Vertices[q.Indices[i+1]], q.Vertices[q.Indices[i+2]]
			assert.Greater(t, signedArea(a, b, c), float32(0))
		}
	}
}

func TestQuadBuffer(t *testing.T) {
	dev := gputest.NewDevice()
	q, err := NewQuadBuffer(dev, FullScreen())
	require.NoError(t, err)
	assert.Equal(t, 4, q.NumVertices)
	assert.Equal(t, 6, q.NumIndices)
	require.Len(t, dev.Buffers, 2)
	assert.Len(t, dev.Buffers[0].Data, 4*VertexSize)
	assert.Len(t, dev.Buffers[1].Data, 12)
	assert.Equal(t, VertexSize, VertexLayout().ArrayStride)
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
