package graphics

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	// GetPointer returns the cursor relative to the window centre with y up,
	// in framebuffer pixels, followed by the framebuffer size.
	GetPointer() (x, y, width, height float32)
}
