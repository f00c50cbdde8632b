package software

import (
	"image"
	"sync"

	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/d3d11"
	"github.com/gogpu/ggoverlay/dxgi"
)

// SwapChain is an in-memory IDXGISwapChain. Presenting snapshots buffer
// zero and hands it to the factory's PresentFunc.
type SwapChain struct {
	object
	factory *Factory
	device  *Device

	mu         sync.Mutex
	desc       dxgi.SwapChainDesc
	buffers    []*Texture2D
	fullscreen bool
	target     dxgi.Output
	occluded   bool
	presents   uint32
	refreshes  uint32
	last       *image.RGBA
}

func newSwapChain(f *Factory, dev *Device, desc dxgi.SwapChainDesc) *SwapChain {
	f.AddRef()
	dev.AddRef()
	sc := &SwapChain{factory: f, device: dev, desc: desc}
	sc.buffers = sc.createBuffers()
	sc.init(sc, sc.destroy, dxgi.IIDObject, dxgi.IIDDeviceSubObject, dxgi.IIDSwapChain)
	return sc
}

func (sc *SwapChain) createBuffers() []*Texture2D {
	bufs := make([]*Texture2D, sc.desc.BufferCount)
	for i := range bufs {
		bufs[i] = newTexture2D(sc.device, d3d11.Texture2DDesc{
			Width:      sc.desc.BufferDesc.Width,
			Height:     sc.desc.BufferDesc.Height,
			MipLevels:  1,
			ArraySize:  1,
			Format:     sc.desc.BufferDesc.Format,
			SampleDesc: dxgi.SampleDesc{Count: 1},
			Usage:      d3d11.UsageDefault,
			BindFlags:  d3d11.BindRenderTarget | d3d11.BindShaderResource,
		})
	}
	return bufs
}

func (sc *SwapChain) destroy() {
	for _, b := range sc.buffers {
		b.Release()
	}
	sc.buffers = nil
	com.SafeRelease(sc.target)
	sc.device.Release()
	sc.factory.Release()
}

// SetOccluded makes later presents report dxgi.StatusOccluded without
// presenting, as when the output window is hidden.
func (sc *SwapChain) SetOccluded(occluded bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.occluded = occluded
}

// Buffer returns back buffer i without adding a reference.
func (sc *SwapChain) Buffer(i int) *Texture2D {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.buffers[i]
}

// LastFrame returns the most recently presented frame, or nil.
func (sc *SwapChain) LastFrame() *image.RGBA {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.last
}

// GetParent implements dxgi.Object.
func (sc *SwapChain) GetParent(iid com.IID) (com.Unknown, error) {
	return sc.factory.QueryInterface(iid)
}

// GetDevice implements dxgi.DeviceSubObject.
func (sc *SwapChain) GetDevice(iid com.IID) (com.Unknown, error) {
	return sc.device.QueryInterface(iid)
}

// Present implements dxgi.SwapChain.
func (sc *SwapChain) Present(syncInterval, flags uint32) error {
	if syncInterval > 4 {
		return dxgi.ErrInvalidCall
	}
	sc.mu.Lock()
	if sc.occluded {
		sc.mu.Unlock()
		return dxgi.StatusOccluded
	}
	if flags&dxgi.PresentTest != 0 {
		sc.mu.Unlock()
		return nil
	}
	img := sc.buffers[0].Image()
	sc.presents++
	sc.refreshes += max(syncInterval, 1)
	sc.last = img
	sc.mu.Unlock()

	if fn := sc.factory.opts.onPresent; fn != nil {
		return fn(sc, img)
	}
	return nil
}

// GetBuffer implements dxgi.SwapChain. With the discard effects only buffer
// zero is accessible.
func (sc *SwapChain) GetBuffer(buffer uint32, iid com.IID) (com.Unknown, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	limit := uint32(len(sc.buffers))
	if sc.desc.SwapEffect == dxgi.SwapEffectDiscard {
		limit = 1
	}
	if buffer >= limit {
		return nil, dxgi.ErrInvalidCall
	}
	return sc.buffers[buffer].QueryInterface(iid)
}

// SetFullscreenState implements dxgi.SwapChain.
func (sc *SwapChain) SetFullscreenState(fullscreen bool, target dxgi.Output) error {
	if target != nil {
		target.AddRef()
	}
	sc.mu.Lock()
	old := sc.target
	sc.fullscreen, sc.target = fullscreen, target
	sc.mu.Unlock()
	com.SafeRelease(old)
	return nil
}

// GetFullscreenState implements dxgi.SwapChain.
func (sc *SwapChain) GetFullscreenState() (bool, dxgi.Output, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.target != nil {
		sc.target.AddRef()
	}
	return sc.fullscreen, sc.target, nil
}

// GetDesc implements dxgi.SwapChain.
func (sc *SwapChain) GetDesc() (dxgi.SwapChainDesc, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.desc, nil
}

// ResizeBuffers implements dxgi.SwapChain. Zero arguments keep the current
// value. It fails with dxgi.ErrInvalidCall while any back buffer is still
// referenced outside the swap chain, including through a bound render
// target view.
func (sc *SwapChain) ResizeBuffers(bufferCount, width, height uint32, format dxgi.Format, flags uint32) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for _, b := range sc.buffers {
		if b.RefCount() > 1 {
			return dxgi.ErrInvalidCall
		}
	}
	d := sc.desc
	if bufferCount != 0 {
		d.BufferCount = bufferCount
	}
	if width != 0 {
		d.BufferDesc.Width = width
	}
	if height != 0 {
		d.BufferDesc.Height = height
	}
	if format != dxgi.FormatUnknown {
		if !supportedFormat(format) {
			return dxgi.ErrInvalidCall
		}
		d.BufferDesc.Format = format
	}
	if d.BufferCount == 0 || d.BufferCount > maxBufferCount {
		return dxgi.ErrInvalidCall
	}
	d.Flags = flags

	for _, b := range sc.buffers {
		b.Release()
	}
	sc.desc = d
	sc.buffers = sc.createBuffers()
	return nil
}

// ResizeTarget implements dxgi.SwapChain.
func (sc *SwapChain) ResizeTarget(mode *dxgi.ModeDesc) error {
	if mode == nil {
		return dxgi.ErrInvalidCall
	}
	return nil
}

// GetContainingOutput implements dxgi.SwapChain.
func (sc *SwapChain) GetContainingOutput() (dxgi.Output, error) {
	return sc.factory.adapter.EnumOutputs(0)
}

// GetFrameStatistics implements dxgi.SwapChain.
func (sc *SwapChain) GetFrameStatistics() (dxgi.FrameStatistics, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return dxgi.FrameStatistics{
		PresentCount:        sc.presents,
		PresentRefreshCount: sc.refreshes,
		SyncRefreshCount:    sc.refreshes,
	}, nil
}

// GetLastPresentCount implements dxgi.SwapChain.
func (sc *SwapChain) GetLastPresentCount() (uint32, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.presents, nil
}
