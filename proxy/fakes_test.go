// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package proxy

import (
	"slices"
	"sync"

	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/d3d11"
	"github.com/gogpu/ggoverlay/dxgi"
	"github.com/gogpu/ggoverlay/overlay"
)

// Identifiers no proxy answers locally.
var (
	iidFactory1   = com.MustIID("{770AAE78-F26F-4DBA-A829-253C83D1B387}")
	iidSwapChain1 = com.MustIID("{790A45F7-0D42-4876-983A-0A55CFE6F4AA}")
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, s)
}

func (l *callLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = nil
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.calls)
}

func (l *callLog) has(s string) bool {
	return slices.Contains(l.list(), s)
}

// fakeObject is a reference-counted object that logs "<name>.final" when
// its last reference is released.
type fakeObject struct {
	com.RefCount
	log  *callLog
	name string
	self com.Unknown
	iids []com.IID
}

func (o *fakeObject) QueryInterface(iid com.IID) (com.Unknown, error) {
	if com.IsEqualIID(iid, com.IIDUnknown) || slices.ContainsFunc(o.iids, func(id com.IID) bool { return com.IsEqualIID(id, iid) }) {
		o.AddRef()
		return o.self, nil
	}
	return nil, com.E_NOINTERFACE
}

func (o *fakeObject) Release() uint32 {
	n := o.RefCount.Release()
	if n == 0 {
		o.log.add(o.name + ".final")
	}
	return n
}

func (o *fakeObject) SetPrivateData(com.IID, []byte) error               { return nil }
func (o *fakeObject) SetPrivateDataInterface(com.IID, com.Unknown) error { return nil }
func (o *fakeObject) GetPrivateData(com.IID, []byte) (int, error)        { return 0, dxgi.ErrNotFound }

type fakeFactory struct {
	fakeObject
	devices   []com.Unknown
	createErr error
	nilChain  bool
	parentErr error
	chain     *fakeSwapChain
}

func newFakeFactory(log *callLog) *fakeFactory {
	f := &fakeFactory{parentErr: com.E_NOINTERFACE}
	f.fakeObject = fakeObject{log: log, name: "factory", iids: []com.IID{dxgi.IIDObject, dxgi.IIDFactory, iidFactory1}}
	f.self = f
	return f
}

func (f *fakeFactory) GetParent(com.IID) (com.Unknown, error)              { return nil, f.parentErr }
func (f *fakeFactory) EnumAdapters(uint32) (dxgi.Adapter, error)           { return nil, dxgi.ErrNotFound }
func (f *fakeFactory) MakeWindowAssociation(dxgi.HWND, uint32) error       { return nil }
func (f *fakeFactory) GetWindowAssociation() (dxgi.HWND, error)            { return 0, nil }
func (f *fakeFactory) CreateSoftwareAdapter(uintptr) (dxgi.Adapter, error) { return nil, dxgi.ErrUnsupported }

func (f *fakeFactory) CreateSwapChain(device com.Unknown, desc *dxgi.SwapChainDesc) (dxgi.SwapChain, error) {
	f.log.add("factory.CreateSwapChain")
	f.devices = append(f.devices, device)
	if f.createErr != nil || f.nilChain {
		return nil, f.createErr
	}
	f.chain = newFakeSwapChain(f.log)
	return f.chain, nil
}

type fakeSwapChain struct {
	fakeObject
	presentErr error
	bufferErr  error
	buffer     *fakeResource
	desc       dxgi.SwapChainDesc
}

func newFakeSwapChain(log *callLog) *fakeSwapChain {
	sc := &fakeSwapChain{buffer: &fakeResource{}}
	sc.fakeObject = fakeObject{log: log, name: "swapchain", iids: []com.IID{dxgi.IIDObject, dxgi.IIDDeviceSubObject, dxgi.IIDSwapChain, iidSwapChain1}}
	sc.self = sc
	sc.buffer.fakeObject = fakeObject{log: log, name: "buffer", iids: []com.IID{d3d11.IIDResource}}
	sc.buffer.self = sc.buffer
	return sc
}

func (sc *fakeSwapChain) GetParent(com.IID) (com.Unknown, error) { return nil, com.E_NOINTERFACE }
func (sc *fakeSwapChain) GetDevice(com.IID) (com.Unknown, error) { return nil, com.E_NOINTERFACE }

func (sc *fakeSwapChain) Present(uint32, uint32) error {
	sc.log.add("swapchain.Present")
	return sc.presentErr
}

func (sc *fakeSwapChain) GetBuffer(_ uint32, iid com.IID) (com.Unknown, error) {
	sc.log.add("swapchain.GetBuffer")
	if sc.bufferErr != nil {
		return nil, sc.bufferErr
	}
	return sc.buffer.QueryInterface(iid)
}

func (sc *fakeSwapChain) SetFullscreenState(bool, dxgi.Output) error        { return nil }
func (sc *fakeSwapChain) GetFullscreenState() (bool, dxgi.Output, error)    { return false, nil, nil }
func (sc *fakeSwapChain) GetDesc() (dxgi.SwapChainDesc, error)              { return sc.desc, nil }
func (sc *fakeSwapChain) ResizeTarget(*dxgi.ModeDesc) error                 { return nil }
func (sc *fakeSwapChain) GetContainingOutput() (dxgi.Output, error)         { return nil, dxgi.ErrNotFound }
func (sc *fakeSwapChain) GetFrameStatistics() (dxgi.FrameStatistics, error) { return dxgi.FrameStatistics{}, nil }
func (sc *fakeSwapChain) GetLastPresentCount() (uint32, error)              { return 0, nil }

func (sc *fakeSwapChain) ResizeBuffers(count, w, h uint32, format dxgi.Format, flags uint32) error {
	sc.desc.BufferDesc.Width, sc.desc.BufferDesc.Height = w, h
	return nil
}

type fakeResource struct {
	fakeObject
}

func (r *fakeResource) GetDevice() d3d11.Device          { return nil }
func (r *fakeResource) GetType() d3d11.ResourceDimension { return d3d11.ResourceDimensionTexture2D }

type fakeView struct {
	fakeObject
	res d3d11.Resource
}

func (v *fakeView) GetDevice() d3d11.Device { return nil }
func (v *fakeView) GetResource() d3d11.Resource {
	v.res.AddRef()
	return v.res
}

type fakeDevice struct {
	fakeObject
	ctx     *fakeContext
	viewErr error
}

func newFakeDevice(log *callLog) *fakeDevice {
	d := &fakeDevice{ctx: &fakeContext{}}
	d.fakeObject = fakeObject{log: log, name: "device", iids: []com.IID{d3d11.IIDDevice}}
	d.self = d
	d.ctx.fakeObject = fakeObject{log: log, name: "context", iids: []com.IID{d3d11.IIDDeviceContext}}
	d.ctx.self = d.ctx
	return d
}

func (d *fakeDevice) CreateTexture2D(*d3d11.Texture2DDesc, []d3d11.SubresourceData) (d3d11.Texture2D, error) {
	return nil, com.E_NOTIMPL
}

func (d *fakeDevice) CreateRenderTargetView(res d3d11.Resource, _ *d3d11.RenderTargetViewDesc) (d3d11.RenderTargetView, error) {
	d.log.add("device.CreateRenderTargetView")
	if d.viewErr != nil {
		return nil, d.viewErr
	}
	v := &fakeView{res: res}
	v.fakeObject = fakeObject{log: d.log, name: "view", iids: []com.IID{d3d11.IIDRenderTargetView}}
	v.self = v
	return v, nil
}

func (d *fakeDevice) GetImmediateContext() d3d11.DeviceContext {
	d.ctx.AddRef()
	return d.ctx
}

type fakeContext struct {
	fakeObject
	bound []d3d11.RenderTargetView
}

func (c *fakeContext) GetDevice() d3d11.Device { return nil }

func (c *fakeContext) OMSetRenderTargets(views []d3d11.RenderTargetView, _ d3d11.DepthStencilView) {
	c.log.add("context.OMSetRenderTargets")
	c.bound = views
}

func (c *fakeContext) OMGetRenderTargets(n int) ([]d3d11.RenderTargetView, d3d11.DepthStencilView) {
	return make([]d3d11.RenderTargetView, n), nil
}

func (c *fakeContext) CopySubresourceRegion(d3d11.Resource, uint32, uint32, uint32, uint32, d3d11.Resource, uint32, *d3d11.Box) {
}
func (c *fakeContext) UpdateSubresource(d3d11.Resource, uint32, *d3d11.Box, []byte, uint32, uint32) {}
func (c *fakeContext) Map(d3d11.Resource, uint32, d3d11.MapType, uint32) (d3d11.MappedSubresource, error) {
	return d3d11.MappedSubresource{}, com.E_NOTIMPL
}
func (c *fakeContext) Unmap(d3d11.Resource, uint32) {}
func (c *fakeContext) Flush()                       {}

type recPlatform struct {
	log *callLog
}

func (p *recPlatform) Init(dxgi.HWND) error { p.log.add("platform.Init"); return nil }
func (p *recPlatform) NewFrame(io *overlay.IO) {
	p.log.add("platform.NewFrame")
	io.DisplaySize = overlay.Vec2{X: 100, Y: 100}
}
func (p *recPlatform) Shutdown() { p.log.add("platform.Shutdown") }

type recRenderer struct {
	log     *callLog
	initErr error
}

func (r *recRenderer) Init(d3d11.Device, d3d11.DeviceContext) error {
	r.log.add("renderer.Init")
	return r.initErr
}
func (r *recRenderer) NewFrame()                        { r.log.add("renderer.NewFrame") }
func (r *recRenderer) RenderDrawData(*overlay.DrawData) { r.log.add("renderer.RenderDrawData") }
func (r *recRenderer) Shutdown()                        { r.log.add("renderer.Shutdown") }

type recCloser struct {
	log *callLog
}

func (c recCloser) Close() error {
	c.log.add("module.Close")
	return nil
}
