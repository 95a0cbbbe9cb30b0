package glfwcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentredPointer(t *testing.T) {
	x, y := centredPointer(0, 0, 800, 400, 800, 400)
	assert.Equal(t, float32(-400), x)
	assert.Equal(t, float32(200), y)

	x, y = centredPointer(400, 200, 800, 400, 800, 400)
	assert.Zero(t, x)
	assert.Zero(t, y)

	// HiDPI framebuffer at twice the window size.
	x, y = centredPointer(600, 100, 800, 400, 1600, 800)
	assert.Equal(t, float32(400), x)
	assert.Equal(t, float32(200), y)

	x, y = centredPointer(10, 10, 0, 0, 0, 0)
	assert.Equal(t, float32(10), x)
	assert.Equal(t, float32(-10), y)
}
