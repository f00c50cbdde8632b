// Package overlay holds the per-swap-chain overlay state: the frame
// lifecycle, immediate-mode windows, draw lists and the platform and
// renderer backends that connect them to the host.
//
// A Context is driven from the swap chain's Present:
//
//	data := ctx.Render()      // run the DrawFunc, finalise DrawData
//	ctx.RenderDrawData(data)  // composite onto the bound render target
//	// ... real Present ...
//	ctx.NewFrame()            // renderer, platform, then logical frame
//
// Every swap chain owns its own Context; nothing is shared between them
// apart from the parsed default font.
package overlay

import (
	"sync"

	"github.com/gogpu/gg/text"
	"github.com/gogpu/ggoverlay"
	"github.com/gogpu/ggoverlay/d3d11"
	"github.com/gogpu/ggoverlay/dxgi"
)

// DrawFunc submits the overlay content of one frame.
type DrawFunc func(f *Frame)

type state uint8

const (
	stateIdle state = iota
	stateFrame
	stateRendered
	stateShutdown
)

// framerateWindow is the number of frames the IO.Framerate average spans.
const framerateWindow = 60

// Context is the overlay state of one swap chain. Its methods are safe for
// concurrent use, although a host normally drives it from one thread.
type Context struct {
	mu sync.Mutex

	cfg  Config
	draw DrawFunc
	face text.Face

	platform Platform
	renderer Renderer

	state state
	io    IO
	frame Frame
	data  DrawData

	deltas   [framerateWindow]float64
	deltaIdx int
	deltaN   int
	deltaSum float64
}

// NewContext returns a Context that draws with draw. A nil draw selects
// StatsWindow(cfg.Title). Zero config fields take their DefaultConfig
// values.
func NewContext(cfg Config, draw DrawFunc) *Context {
	def := DefaultConfig()
	if cfg.FontSize <= 0 {
		cfg.FontSize = def.FontSize
	}
	if cfg.Style == (Style{}) {
		cfg.Style = def.Style
	}
	if cfg.Title == "" {
		cfg.Title = def.Title
	}
	if draw == nil {
		draw = StatsWindow(cfg.Title)
	}

	face, err := DefaultFace(cfg.FontSize)
	if err != nil {
		ggoverlay.Logger().Warn("overlay: default font unavailable, text disabled", "err", err)
	}

	c := &Context{cfg: cfg, draw: draw, face: face}
	c.frame.ctx = c
	return c
}

// Config returns the effective configuration.
func (c *Context) Config() Config {
	return c.cfg
}

// Face returns the font text is measured and drawn with. It is nil when the
// default font could not be loaded.
func (c *Context) Face() text.Face {
	return c.face
}

// IO returns a copy of the current frame input.
func (c *Context) IO() IO {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.io
}

// InitPlatform attaches the platform backend and initialises it for window.
// The backend is attached even when Init fails so that the frame and
// shutdown sequence stays the same; the error is returned for logging.
func (c *Context) InitPlatform(p Platform, window dxgi.HWND) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateShutdown || p == nil {
		return nil
	}
	c.platform = p
	return p.Init(window)
}

// InitRenderer attaches the renderer backend and initialises it with the
// device and its immediate context. As with InitPlatform, a failing Init
// still attaches the backend.
func (c *Context) InitRenderer(r Renderer, dev d3d11.Device, dc d3d11.DeviceContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateShutdown || r == nil {
		return nil
	}
	c.renderer = r
	return r.Init(dev, dc)
}

// HasRenderer reports whether a renderer backend is attached.
func (c *Context) HasRenderer() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderer != nil
}

// NewFrame starts a frame: the renderer, then the platform, then the
// logical frame. Starting a frame discards any unrendered content of the
// previous one.
func (c *Context) NewFrame() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateShutdown {
		return
	}

	if c.renderer != nil {
		c.renderer.NewFrame()
	}
	if c.platform != nil {
		c.platform.NewFrame(&c.io)
	}

	c.io.FrameCount++
	c.updateFramerate(c.io.DeltaTime)
	c.frame.begin(c.displayRect())
	c.state = stateFrame
}

func (c *Context) updateFramerate(dt float64) {
	if dt <= 0 {
		return
	}
	if c.deltaN == framerateWindow {
		c.deltaSum -= c.deltas[c.deltaIdx]
	} else {
		c.deltaN++
	}
	c.deltas[c.deltaIdx] = dt
	c.deltaSum += dt
	c.deltaIdx = (c.deltaIdx + 1) % framerateWindow
	c.io.Framerate = float64(c.deltaN) / c.deltaSum
}

func (c *Context) displayRect() Rect {
	return Rect{Max: c.io.DisplaySize}
}

// Render runs the DrawFunc and finalises the frame. Outside a frame (before
// the first NewFrame, twice in a row, or after Shutdown) it returns draw
// data that is not Valid and holds no commands. The DrawFunc runs without
// the Context lock held; a NewFrame or Shutdown it triggers leaves the
// returned draw data invalid.
//
// The returned DrawData is owned by the Context and valid until the next
// NewFrame.
func (c *Context) Render() *DrawData {
	c.mu.Lock()
	if c.state != stateFrame {
		c.mu.Unlock()
		return &DrawData{}
	}
	c.state = stateRendered
	c.mu.Unlock()

	// The DrawFunc may call back into the Context.
	c.draw(&c.frame)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateRendered {
		return &DrawData{}
	}

	d := &c.data
	*d = DrawData{
		Valid:       true,
		DisplaySize: c.io.DisplaySize,
		CmdLists:    d.CmdLists[:0],
		Face:        c.face,
		FrameCount:  c.io.FrameCount,
	}
	for _, l := range c.frame.lists() {
		if len(l.Cmds) == 0 {
			continue
		}
		d.CmdLists = append(d.CmdLists, l)
		d.TotalVtxCount += l.VtxCount
		d.TotalIdxCount += l.IdxCount
	}
	return d
}

// RenderDrawData hands data to the renderer. It does nothing without a
// renderer or for draw data that is not Valid.
func (c *Context) RenderDrawData(data *DrawData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.renderer == nil || data == nil || !data.Valid || c.state == stateShutdown {
		return
	}
	c.renderer.RenderDrawData(data)
}

// Shutdown shuts down the renderer, then the platform, and detaches both.
// Later calls do nothing.
func (c *Context) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateShutdown {
		return
	}
	c.state = stateShutdown
	if c.renderer != nil {
		c.renderer.Shutdown()
		c.renderer = nil
	}
	if c.platform != nil {
		c.platform.Shutdown()
		c.platform = nil
	}
}
