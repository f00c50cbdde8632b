package overlay

import (
	"github.com/gogpu/ggoverlay/d3d11"
	"github.com/gogpu/ggoverlay/dxgi"
)

// IO carries per-frame input from the platform backend to the overlay.
type IO struct {
	// DisplaySize is the drawable area in pixels.
	DisplaySize Vec2

	// DeltaTime is the time since the previous frame in seconds.
	DeltaTime float64

	// Framerate is a rolling average of frames per second.
	Framerate float64

	// FrameCount counts started frames, starting at 1 for the first.
	FrameCount uint64
}

// Platform binds the overlay to the host window. Init is called once with
// the swap chain's output window, NewFrame at the start of every frame and
// Shutdown once when the swap chain is destroyed.
type Platform interface {
	Init(window dxgi.HWND) error
	NewFrame(io *IO)
	Shutdown()
}

// Renderer draws finalised DrawData onto the render target bound on the
// device context it was initialised with. Init receives borrowed device
// and context references; a renderer that keeps them must AddRef.
type Renderer interface {
	Init(dev d3d11.Device, ctx d3d11.DeviceContext) error
	NewFrame()
	RenderDrawData(data *DrawData)
	Shutdown()
}
