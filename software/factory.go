package software

import (
	"image"
	"sync"

	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/d3d11"
	"github.com/gogpu/ggoverlay/dxgi"
)

// Default back-buffer size used when a swap chain is created with a zero
// width or height.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// maxBufferCount is DXGI_MAX_SWAP_CHAIN_BUFFERS.
const maxBufferCount = 16

// PresentFunc observes presented frames. img is a snapshot of buffer zero in
// RGBA order. A non-nil error is returned from Present.
type PresentFunc func(sc *SwapChain, img *image.RGBA) error

// Option configures a software Factory.
type Option func(*options)

type options struct {
	onPresent   PresentFunc
	adapterName string
	outputRect  dxgi.Rect
}

// WithPresentHandler calls fn on every presented frame.
func WithPresentHandler(fn PresentFunc) Option {
	return func(o *options) { o.onPresent = fn }
}

// WithAdapterName sets the adapter description.
func WithAdapterName(name string) Option {
	return func(o *options) { o.adapterName = name }
}

func buildOptions(opts []Option) options {
	o := options{
		adapterName: "ggoverlay software adapter",
		outputRect:  dxgi.Rect{Right: 1920, Bottom: 1080},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Factory is an in-memory IDXGIFactory with one adapter and one output.
type Factory struct {
	object
	opts    options
	adapter *Adapter

	mu     sync.Mutex
	window dxgi.HWND
	chains int
}

// NewFactory returns a factory holding one reference.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{opts: buildOptions(opts)}
	f.adapter = newAdapter(f)
	f.init(f, func() { f.adapter.Release() }, dxgi.IIDObject, dxgi.IIDFactory)
	return f
}

// GetParent implements dxgi.Object. A factory has no parent.
func (f *Factory) GetParent(iid com.IID) (com.Unknown, error) {
	return nil, com.E_NOINTERFACE
}

// EnumAdapters implements dxgi.Factory.
func (f *Factory) EnumAdapters(i uint32) (dxgi.Adapter, error) {
	if i != 0 {
		return nil, dxgi.ErrNotFound
	}
	f.adapter.AddRef()
	return f.adapter, nil
}

// MakeWindowAssociation implements dxgi.Factory.
func (f *Factory) MakeWindowAssociation(window dxgi.HWND, flags uint32) error {
	if flags&^(dxgi.MWANoWindowChanges|dxgi.MWANoAltEnter|dxgi.MWANoPrintScreen) != 0 {
		return dxgi.ErrInvalidCall
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.window = window
	return nil
}

// GetWindowAssociation implements dxgi.Factory.
func (f *Factory) GetWindowAssociation() (dxgi.HWND, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.window, nil
}

// CreateSoftwareAdapter implements dxgi.Factory.
func (f *Factory) CreateSoftwareAdapter(module uintptr) (dxgi.Adapter, error) {
	if module == 0 {
		return nil, dxgi.ErrInvalidCall
	}
	f.adapter.AddRef()
	return f.adapter, nil
}

// SwapChains returns how many swap chains the factory has created.
func (f *Factory) SwapChains() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chains
}

// CreateSwapChain implements dxgi.Factory. device must be a *Device from
// this package; any other object, including a wrapper around one, is
// rejected with dxgi.ErrInvalidCall.
func (f *Factory) CreateSwapChain(device com.Unknown, desc *dxgi.SwapChainDesc) (dxgi.SwapChain, error) {
	if device == nil || desc == nil {
		return nil, dxgi.ErrInvalidCall
	}
	dev, ok := device.(*Device)
	if !ok {
		return nil, dxgi.ErrInvalidCall
	}

	d := *desc
	minBuffers := uint32(1)
	if d.SwapEffect == dxgi.SwapEffectFlipSequential || d.SwapEffect == dxgi.SwapEffectFlipDiscard {
		minBuffers = 2
	}
	if d.BufferCount < minBuffers || d.BufferCount > maxBufferCount {
		return nil, dxgi.ErrInvalidCall
	}
	if !supportedFormat(d.BufferDesc.Format) || d.SampleDesc.Count > 1 {
		return nil, dxgi.ErrInvalidCall
	}
	if d.BufferDesc.Width == 0 || d.BufferDesc.Height == 0 {
		d.BufferDesc.Width, d.BufferDesc.Height = DefaultWidth, DefaultHeight
	}
	if d.SampleDesc.Count == 0 {
		d.SampleDesc.Count = 1
	}

	f.mu.Lock()
	f.chains++
	f.mu.Unlock()
	return newSwapChain(f, dev, d), nil
}

// Adapter is the factory's single adapter.
type Adapter struct {
	object
	factory *Factory
	output  *Output
}

func newAdapter(f *Factory) *Adapter {
	a := &Adapter{factory: f}
	a.output = newOutput(a)
	a.init(a, func() { a.output.Release() }, dxgi.IIDObject, dxgi.IIDAdapter)
	return a
}

// GetParent implements dxgi.Object.
func (a *Adapter) GetParent(iid com.IID) (com.Unknown, error) {
	return a.factory.QueryInterface(iid)
}

// EnumOutputs implements dxgi.Adapter.
func (a *Adapter) EnumOutputs(i uint32) (dxgi.Output, error) {
	if i != 0 {
		return nil, dxgi.ErrNotFound
	}
	a.output.AddRef()
	return a.output, nil
}

// GetDesc implements dxgi.Adapter.
func (a *Adapter) GetDesc() (dxgi.AdapterDesc, error) {
	return dxgi.AdapterDesc{
		Description:        a.factory.opts.adapterName,
		SharedSystemMemory: 1 << 30,
		AdapterLUID:        dxgi.LUID{LowPart: 1},
	}, nil
}

// CheckInterfaceSupport implements dxgi.Adapter. Only the D3D11 device is
// supported.
func (a *Adapter) CheckInterfaceSupport(iid com.IID) (int64, error) {
	if com.IsEqualIID(iid, d3d11.IIDDevice) {
		return 0x000B_0000_0000_0000, nil
	}
	return 0, dxgi.ErrUnsupported
}

// Output is the adapter's single output.
type Output struct {
	object
	adapter *Adapter
}

func newOutput(a *Adapter) *Output {
	o := &Output{adapter: a}
	o.init(o, nil, dxgi.IIDObject, dxgi.IIDOutput)
	return o
}

// GetParent implements dxgi.Object.
func (o *Output) GetParent(iid com.IID) (com.Unknown, error) {
	return o.adapter.QueryInterface(iid)
}

// GetDesc implements dxgi.Output.
func (o *Output) GetDesc() (dxgi.OutputDesc, error) {
	return dxgi.OutputDesc{
		DeviceName:         `\\.\DISPLAY1`,
		DesktopCoordinates: o.adapter.factory.opts.outputRect,
		AttachedToDesktop:  true,
	}, nil
}

// WaitForVBlank implements dxgi.Output.
func (o *Output) WaitForVBlank() error { return nil }
