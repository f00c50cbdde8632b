package overlay

import (
	"sync"
	"time"

	"github.com/gogpu/ggoverlay/dxgi"
)

// HeadlessPlatform is a Platform without window integration. It reports a
// fixed display size and measures frame time with the wall clock.
type HeadlessPlatform struct {
	mu     sync.Mutex
	width  uint32
	height uint32
	window dxgi.HWND
	last   time.Time

	// Now returns the current time. Tests replace it; nil means time.Now.
	Now func() time.Time
}

// NewHeadlessPlatform returns a platform reporting a width×height display.
func NewHeadlessPlatform(width, height uint32) *HeadlessPlatform {
	return &HeadlessPlatform{width: width, height: height}
}

func (p *HeadlessPlatform) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Init implements Platform.
func (p *HeadlessPlatform) Init(window dxgi.HWND) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.window = window
	p.last = p.now()
	return nil
}

// Window returns the window passed to Init.
func (p *HeadlessPlatform) Window() dxgi.HWND {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.window
}

// Resize changes the reported display size.
func (p *HeadlessPlatform) Resize(width, height uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width, p.height = width, height
}

// NewFrame implements Platform.
func (p *HeadlessPlatform) NewFrame(io *IO) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if !p.last.IsZero() {
		io.DeltaTime = now.Sub(p.last).Seconds()
	}
	p.last = now
	io.DisplaySize = Vec2{X: float64(p.width), Y: float64(p.height)}
}

// Shutdown implements Platform.
func (p *HeadlessPlatform) Shutdown() {}

// descSize returns the back-buffer size of desc, or 0×0 for nil.
func descSize(desc *dxgi.SwapChainDesc) (uint32, uint32) {
	if desc == nil {
		return 0, 0
	}
	return desc.BufferDesc.Width, desc.BufferDesc.Height
}
