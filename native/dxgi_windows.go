// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package native

import (
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"

	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/dxgi"
)

// DXGI vtable indices. IUnknown occupies 0-2.
const (
	objectSetPrivateData          = 3
	objectSetPrivateDataInterface = 4
	objectGetPrivateData          = 5
	objectGetParent               = 6

	factoryEnumAdapters          = 7
	factoryMakeWindowAssociation = 8
	factoryGetWindowAssociation  = 9
	factoryCreateSwapChain       = 10
	factoryCreateSoftwareAdapter = 11

	adapterEnumOutputs           = 7
	adapterGetDesc               = 8
	adapterCheckInterfaceSupport = 9

	outputGetDesc       = 7
	outputWaitForVBlank = 10

	subObjectGetDevice = 7

	swapChainPresent             = 8
	swapChainGetBuffer           = 9
	swapChainSetFullscreenState  = 10
	swapChainGetFullscreenState  = 11
	swapChainGetDesc             = 12
	swapChainResizeBuffers       = 13
	swapChainResizeTarget        = 14
	swapChainGetContainingOutput = 15
	swapChainGetFrameStatistics  = 16
	swapChainGetLastPresentCount = 17
)

// rawSwapChainDesc matches DXGI_SWAP_CHAIN_DESC.
type rawSwapChainDesc struct {
	BufferDesc   dxgi.ModeDesc
	SampleDesc   dxgi.SampleDesc
	BufferUsage  uint32
	BufferCount  uint32
	OutputWindow uintptr
	Windowed     int32
	SwapEffect   uint32
	Flags        uint32
}

func toRawSwapChainDesc(d *dxgi.SwapChainDesc) rawSwapChainDesc {
	r := rawSwapChainDesc{
		BufferDesc:   d.BufferDesc,
		SampleDesc:   d.SampleDesc,
		BufferUsage:  uint32(d.BufferUsage),
		BufferCount:  d.BufferCount,
		OutputWindow: uintptr(d.OutputWindow),
		SwapEffect:   uint32(d.SwapEffect),
		Flags:        d.Flags,
	}
	if d.Windowed {
		r.Windowed = 1
	}
	return r
}

func (r *rawSwapChainDesc) desc() dxgi.SwapChainDesc {
	return dxgi.SwapChainDesc{
		BufferDesc:   r.BufferDesc,
		SampleDesc:   r.SampleDesc,
		BufferUsage:  dxgi.Usage(r.BufferUsage),
		BufferCount:  r.BufferCount,
		OutputWindow: dxgi.HWND(r.OutputWindow),
		Windowed:     r.Windowed != 0,
		SwapEffect:   dxgi.SwapEffect(r.SwapEffect),
		Flags:        r.Flags,
	}
}

// rawAdapterDesc matches DXGI_ADAPTER_DESC.
type rawAdapterDesc struct {
	Description           [128]uint16
	VendorID              uint32
	DeviceID              uint32
	SubSysID              uint32
	Revision              uint32
	DedicatedVideoMemory  uintptr
	DedicatedSystemMemory uintptr
	SharedSystemMemory    uintptr
	AdapterLUID           dxgi.LUID
}

// rawOutputDesc matches DXGI_OUTPUT_DESC.
type rawOutputDesc struct {
	DeviceName         [32]uint16
	DesktopCoordinates dxgi.Rect
	AttachedToDesktop  int32
	Rotation           uint32
	Monitor            uintptr
}

// Object wraps IDXGIObject.
type Object struct {
	Unknown
}

// SetPrivateData implements dxgi.Object.
func (o *Object) SetPrivateData(name com.IID, data []byte) error {
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}
	return hresult(comCall(o.unk, objectSetPrivateData,
		uintptr(unsafe.Pointer(&name)), uintptr(len(data)), uintptr(p)))
}

// SetPrivateDataInterface implements dxgi.Object. u must be a native
// object or nil.
func (o *Object) SetPrivateDataInterface(name com.IID, u com.Unknown) error {
	var raw *ole.IUnknown
	if u != nil {
		var ok bool
		if raw, ok = rawOf(u); !ok {
			return dxgi.ErrInvalidCall
		}
	}
	return hresult(comCall(o.unk, objectSetPrivateDataInterface,
		uintptr(unsafe.Pointer(&name)), uintptr(unsafe.Pointer(raw))))
}

// GetPrivateData implements dxgi.Object.
func (o *Object) GetPrivateData(name com.IID, buf []byte) (int, error) {
	size := uint32(len(buf))
	var p unsafe.Pointer
	if len(buf) > 0 {
		p = unsafe.Pointer(&buf[0])
	}
	ret := comCall(o.unk, objectGetPrivateData,
		uintptr(unsafe.Pointer(&name)), uintptr(unsafe.Pointer(&size)), uintptr(p))
	return int(size), hresult(ret)
}

// GetParent implements dxgi.Object.
func (o *Object) GetParent(iid com.IID) (com.Unknown, error) {
	return o.getObject(objectGetParent, iid)
}

// getObject calls a method with the (REFIID, void**) shape.
func (o *Object) getObject(index int, iid com.IID) (com.Unknown, error) {
	var out *ole.IUnknown
	if err := hresult(comCall(o.unk, index, uintptr(unsafe.Pointer(&iid)), uintptr(unsafe.Pointer(&out)))); com.Failed(err) {
		return nil, err
	}
	if out == nil {
		return nil, com.E_POINTER
	}
	return wrap(out, iid), nil
}

// getIndexed calls a method with the (UINT, void**) shape.
func (o *Object) getIndexed(index int, i uint32) (*ole.IUnknown, error) {
	var out *ole.IUnknown
	if err := hresult(comCall(o.unk, index, uintptr(i), uintptr(unsafe.Pointer(&out)))); com.Failed(err) {
		return nil, err
	}
	if out == nil {
		return nil, com.E_POINTER
	}
	return out, nil
}

// Factory wraps IDXGIFactory.
type Factory struct {
	Object
}

var _ dxgi.Factory = (*Factory)(nil)

// EnumAdapters implements dxgi.Factory.
func (f *Factory) EnumAdapters(i uint32) (dxgi.Adapter, error) {
	out, err := f.getIndexed(factoryEnumAdapters, i)
	if err != nil {
		return nil, err
	}
	return &Adapter{Object{Unknown{out}}}, nil
}

// MakeWindowAssociation implements dxgi.Factory.
func (f *Factory) MakeWindowAssociation(window dxgi.HWND, flags uint32) error {
	return hresult(comCall(f.unk, factoryMakeWindowAssociation, uintptr(window), uintptr(flags)))
}

// GetWindowAssociation implements dxgi.Factory.
func (f *Factory) GetWindowAssociation() (dxgi.HWND, error) {
	var h uintptr
	err := hresult(comCall(f.unk, factoryGetWindowAssociation, uintptr(unsafe.Pointer(&h))))
	return dxgi.HWND(h), err
}

// CreateSwapChain implements dxgi.Factory. device must be a native
// object.
func (f *Factory) CreateSwapChain(device com.Unknown, desc *dxgi.SwapChainDesc) (dxgi.SwapChain, error) {
	dev, ok := rawOf(device)
	if !ok || desc == nil {
		return nil, dxgi.ErrInvalidCall
	}
	raw := toRawSwapChainDesc(desc)
	var out *ole.IUnknown
	err := hresult(comCall(f.unk, factoryCreateSwapChain,
		uintptr(unsafe.Pointer(dev)), uintptr(unsafe.Pointer(&raw)), uintptr(unsafe.Pointer(&out))))
	if com.Failed(err) || out == nil {
		if err == nil {
			err = com.E_POINTER
		}
		return nil, err
	}
	return &SwapChain{Object{Unknown{out}}}, err
}

// CreateSoftwareAdapter implements dxgi.Factory.
func (f *Factory) CreateSoftwareAdapter(module uintptr) (dxgi.Adapter, error) {
	var out *ole.IUnknown
	err := hresult(comCall(f.unk, factoryCreateSoftwareAdapter, module, uintptr(unsafe.Pointer(&out))))
	if com.Failed(err) || out == nil {
		if err == nil {
			err = com.E_POINTER
		}
		return nil, err
	}
	return &Adapter{Object{Unknown{out}}}, nil
}

// Adapter wraps IDXGIAdapter.
type Adapter struct {
	Object
}

var _ dxgi.Adapter = (*Adapter)(nil)

// EnumOutputs implements dxgi.Adapter.
func (a *Adapter) EnumOutputs(i uint32) (dxgi.Output, error) {
	out, err := a.getIndexed(adapterEnumOutputs, i)
	if err != nil {
		return nil, err
	}
	return &Output{Object{Unknown{out}}}, nil
}

// GetDesc implements dxgi.Adapter.
func (a *Adapter) GetDesc() (dxgi.AdapterDesc, error) {
	var r rawAdapterDesc
	if err := hresult(comCall(a.unk, adapterGetDesc, uintptr(unsafe.Pointer(&r)))); err != nil {
		return dxgi.AdapterDesc{}, err
	}
	return dxgi.AdapterDesc{
		Description:           windows.UTF16ToString(r.Description[:]),
		VendorID:              r.VendorID,
		DeviceID:              r.DeviceID,
		SubSysID:              r.SubSysID,
		Revision:              r.Revision,
		DedicatedVideoMemory:  uint64(r.DedicatedVideoMemory),
		DedicatedSystemMemory: uint64(r.DedicatedSystemMemory),
		SharedSystemMemory:    uint64(r.SharedSystemMemory),
		AdapterLUID:           r.AdapterLUID,
	}, nil
}

// CheckInterfaceSupport implements dxgi.Adapter.
func (a *Adapter) CheckInterfaceSupport(iid com.IID) (int64, error) {
	var version int64
	err := hresult(comCall(a.unk, adapterCheckInterfaceSupport,
		uintptr(unsafe.Pointer(&iid)), uintptr(unsafe.Pointer(&version))))
	return version, err
}

// Output wraps IDXGIOutput.
type Output struct {
	Object
}

var _ dxgi.Output = (*Output)(nil)

// GetDesc implements dxgi.Output.
func (o *Output) GetDesc() (dxgi.OutputDesc, error) {
	var r rawOutputDesc
	if err := hresult(comCall(o.unk, outputGetDesc, uintptr(unsafe.Pointer(&r)))); err != nil {
		return dxgi.OutputDesc{}, err
	}
	return dxgi.OutputDesc{
		DeviceName:         windows.UTF16ToString(r.DeviceName[:]),
		DesktopCoordinates: r.DesktopCoordinates,
		AttachedToDesktop:  r.AttachedToDesktop != 0,
		Rotation:           r.Rotation,
		Monitor:            r.Monitor,
	}, nil
}

// WaitForVBlank implements dxgi.Output.
func (o *Output) WaitForVBlank() error {
	return hresult(comCall(o.unk, outputWaitForVBlank))
}

// SwapChain wraps IDXGISwapChain.
type SwapChain struct {
	Object
}

var _ dxgi.SwapChain = (*SwapChain)(nil)

// GetDevice implements dxgi.DeviceSubObject.
func (sc *SwapChain) GetDevice(iid com.IID) (com.Unknown, error) {
	return sc.getObject(subObjectGetDevice, iid)
}

// Present implements dxgi.SwapChain.
func (sc *SwapChain) Present(syncInterval, flags uint32) error {
	return hresult(comCall(sc.unk, swapChainPresent, uintptr(syncInterval), uintptr(flags)))
}

// GetBuffer implements dxgi.SwapChain.
func (sc *SwapChain) GetBuffer(buffer uint32, iid com.IID) (com.Unknown, error) {
	var out *ole.IUnknown
	err := hresult(comCall(sc.unk, swapChainGetBuffer,
		uintptr(buffer), uintptr(unsafe.Pointer(&iid)), uintptr(unsafe.Pointer(&out))))
	if com.Failed(err) || out == nil {
		if err == nil {
			err = com.E_POINTER
		}
		return nil, err
	}
	return wrap(out, iid), nil
}

// SetFullscreenState implements dxgi.SwapChain. target must be a native
// output or nil.
func (sc *SwapChain) SetFullscreenState(fullscreen bool, target dxgi.Output) error {
	var raw *ole.IUnknown
	if target != nil {
		var ok bool
		if raw, ok = rawOf(target); !ok {
			return dxgi.ErrInvalidCall
		}
	}
	return hresult(comCall(sc.unk, swapChainSetFullscreenState, boolArg(fullscreen), uintptr(unsafe.Pointer(raw))))
}

// GetFullscreenState implements dxgi.SwapChain.
func (sc *SwapChain) GetFullscreenState() (bool, dxgi.Output, error) {
	var state int32
	var out *ole.IUnknown
	err := hresult(comCall(sc.unk, swapChainGetFullscreenState,
		uintptr(unsafe.Pointer(&state)), uintptr(unsafe.Pointer(&out))))
	if com.Failed(err) {
		return false, nil, err
	}
	var target dxgi.Output
	if out != nil {
		target = &Output{Object{Unknown{out}}}
	}
	return state != 0, target, err
}

// GetDesc implements dxgi.SwapChain.
func (sc *SwapChain) GetDesc() (dxgi.SwapChainDesc, error) {
	var r rawSwapChainDesc
	if err := hresult(comCall(sc.unk, swapChainGetDesc, uintptr(unsafe.Pointer(&r)))); err != nil {
		return dxgi.SwapChainDesc{}, err
	}
	return r.desc(), nil
}

// ResizeBuffers implements dxgi.SwapChain.
func (sc *SwapChain) ResizeBuffers(bufferCount, width, height uint32, format dxgi.Format, flags uint32) error {
	return hresult(comCall(sc.unk, swapChainResizeBuffers,
		uintptr(bufferCount), uintptr(width), uintptr(height), uintptr(format), uintptr(flags)))
}

// ResizeTarget implements dxgi.SwapChain.
func (sc *SwapChain) ResizeTarget(mode *dxgi.ModeDesc) error {
	if mode == nil {
		return dxgi.ErrInvalidCall
	}
	return hresult(comCall(sc.unk, swapChainResizeTarget, uintptr(unsafe.Pointer(mode))))
}

// GetContainingOutput implements dxgi.SwapChain.
func (sc *SwapChain) GetContainingOutput() (dxgi.Output, error) {
	var out *ole.IUnknown
	err := hresult(comCall(sc.unk, swapChainGetContainingOutput, uintptr(unsafe.Pointer(&out))))
	if com.Failed(err) || out == nil {
		if err == nil {
			err = com.E_POINTER
		}
		return nil, err
	}
	return &Output{Object{Unknown{out}}}, nil
}

// GetFrameStatistics implements dxgi.SwapChain.
func (sc *SwapChain) GetFrameStatistics() (dxgi.FrameStatistics, error) {
	var stats dxgi.FrameStatistics
	err := hresult(comCall(sc.unk, swapChainGetFrameStatistics, uintptr(unsafe.Pointer(&stats))))
	return stats, err
}

// GetLastPresentCount implements dxgi.SwapChain.
func (sc *SwapChain) GetLastPresentCount() (uint32, error) {
	var n uint32
	err := hresult(comCall(sc.unk, swapChainGetLastPresentCount, uintptr(unsafe.Pointer(&n))))
	return n, err
}
