// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package proxy

import (
	"sync/atomic"

	"github.com/gogpu/ggoverlay"
	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/d3d11"
	"github.com/gogpu/ggoverlay/dxgi"
	"github.com/gogpu/ggoverlay/overlay"
)

// presentLogInterval is how many presents pass between Debug log lines.
const presentLogInterval = 600

// SwapChain is the IDXGISwapChain proxy. It keeps the factory proxy that
// created it and the device object the caller passed alive until it is
// destroyed.
type SwapChain struct {
	com.Proxy[dxgi.SwapChain]

	factory  *Factory
	device   com.Unknown
	overlay  *overlay.Context
	platform overlay.Platform
	presents atomic.Uint64
}

var _ dxgi.SwapChain = (*SwapChain)(nil)

// resizer is implemented by platforms that track the back-buffer size.
type resizer interface {
	Resize(width, height uint32)
}

func newSwapChain(orig dxgi.SwapChain, f *Factory, device com.Unknown, desc *dxgi.SwapChainDesc) *SwapChain {
	f.AddRef()
	device.AddRef()
	sc := &SwapChain{factory: f, device: device}
	sc.Bind(sc, orig, []com.IID{dxgi.IIDObject, dxgi.IIDDeviceSubObject, dxgi.IIDSwapChain}, sc.final)
	if !f.opts.disabled {
		sc.initOverlay(desc)
	}
	return sc
}

func (sc *SwapChain) initOverlay(desc *dxgi.SwapChainDesc) {
	log := ggoverlay.Logger()
	opts := &sc.factory.opts

	o := overlay.NewContext(opts.overlay, opts.draw)
	sc.platform = opts.platform(desc)
	if err := o.InitPlatform(sc.platform, desc.OutputWindow); err != nil {
		log.Warn("proxy: overlay platform init failed", "err", err)
	}

	dev, err := com.As[d3d11.Device](sc.device, d3d11.IIDDevice)
	if err != nil {
		log.Debug("proxy: device has no D3D11 interface, overlay will not render", "err", err)
	} else {
		dc := dev.GetImmediateContext()
		if r := opts.renderer(); r == nil {
			log.Warn("proxy: no overlay renderer available")
		} else if err := o.InitRenderer(r, dev, dc); err != nil {
			log.Warn("proxy: overlay renderer init failed", "err", err)
		}
		com.SafeRelease(dc)
		dev.Release()
	}

	o.NewFrame()
	sc.overlay = o
}

// final tears down in order: overlay backends, the original swap chain,
// then the device and factory references taken at construction.
func (sc *SwapChain) final(releaseOriginal func()) {
	if sc.overlay != nil {
		sc.overlay.Shutdown()
	}
	releaseOriginal()
	sc.device.Release()
	sc.factory.Release()
}

// Overlay returns the swap chain's overlay context, or nil when the overlay
// is disabled.
func (sc *SwapChain) Overlay() *overlay.Context {
	return sc.overlay
}

// Present renders the overlay into back buffer zero, presents through the
// original and starts the next overlay frame. The original's result is
// returned unchanged, including success statuses such as
// dxgi.StatusOccluded.
func (sc *SwapChain) Present(syncInterval, flags uint32) error {
	o := sc.overlay
	if o == nil {
		return sc.Original().Present(syncInterval, flags)
	}

	data := o.Render()
	if data.TotalVtxCount > 0 {
		sc.bindBackBuffer()
	}
	o.RenderDrawData(data)

	err := sc.Original().Present(syncInterval, flags)
	o.NewFrame()

	if n := sc.presents.Add(1); n%presentLogInterval == 0 {
		ggoverlay.Logger().Debug("proxy: present", "count", n, "err", err)
	}
	return err
}

// bindBackBuffer makes back buffer zero the device's render target. Any
// failure leaves the bindings as they were.
func (sc *SwapChain) bindBackBuffer() {
	dev, err := com.As[d3d11.Device](sc.device, d3d11.IIDDevice)
	if err != nil {
		return
	}
	defer dev.Release()

	obj, err := sc.Original().GetBuffer(0, d3d11.IIDResource)
	if err != nil {
		ggoverlay.Logger().Debug("proxy: back buffer unavailable", "err", err)
		return
	}
	defer obj.Release()
	buf, ok := obj.(d3d11.Resource)
	if !ok {
		return
	}

	rtv, err := dev.CreateRenderTargetView(buf, nil)
	if err != nil {
		ggoverlay.Logger().Debug("proxy: CreateRenderTargetView failed", "err", err)
		return
	}
	defer rtv.Release()

	dc := dev.GetImmediateContext()
	if dc == nil {
		return
	}
	defer dc.Release()
	dc.OMSetRenderTargets([]d3d11.RenderTargetView{rtv}, nil)
}

// GetParent queries the factory proxy that created the swap chain.
func (sc *SwapChain) GetParent(iid com.IID) (com.Unknown, error) {
	return sc.factory.QueryInterface(iid)
}

// GetDevice queries the device object the caller passed to
// CreateSwapChain, not the one the original swap chain was created with.
func (sc *SwapChain) GetDevice(iid com.IID) (com.Unknown, error) {
	return sc.device.QueryInterface(iid)
}

// ResizeBuffers forwards to the original. On success a platform that tracks
// the back-buffer size is told the new size.
func (sc *SwapChain) ResizeBuffers(bufferCount, width, height uint32, format dxgi.Format, flags uint32) error {
	err := sc.Original().ResizeBuffers(bufferCount, width, height, format, flags)
	if com.Failed(err) {
		return err
	}
	if r, ok := sc.platform.(resizer); ok {
		if desc, derr := sc.Original().GetDesc(); derr == nil {
			r.Resize(desc.BufferDesc.Width, desc.BufferDesc.Height)
		}
	}
	return err
}

// SetPrivateData forwards to the original.
func (sc *SwapChain) SetPrivateData(name com.IID, data []byte) error {
	return sc.Original().SetPrivateData(name, data)
}

// SetPrivateDataInterface forwards to the original.
func (sc *SwapChain) SetPrivateDataInterface(name com.IID, u com.Unknown) error {
	return sc.Original().SetPrivateDataInterface(name, u)
}

// GetPrivateData forwards to the original.
func (sc *SwapChain) GetPrivateData(name com.IID, buf []byte) (int, error) {
	return sc.Original().GetPrivateData(name, buf)
}

// GetBuffer forwards to the original.
func (sc *SwapChain) GetBuffer(buffer uint32, iid com.IID) (com.Unknown, error) {
	return sc.Original().GetBuffer(buffer, iid)
}

// SetFullscreenState forwards to the original.
func (sc *SwapChain) SetFullscreenState(fullscreen bool, target dxgi.Output) error {
	return sc.Original().SetFullscreenState(fullscreen, target)
}

// GetFullscreenState forwards to the original.
func (sc *SwapChain) GetFullscreenState() (bool, dxgi.Output, error) {
	return sc.Original().GetFullscreenState()
}

// GetDesc forwards to the original.
func (sc *SwapChain) GetDesc() (dxgi.SwapChainDesc, error) {
	return sc.Original().GetDesc()
}

// ResizeTarget forwards to the original.
func (sc *SwapChain) ResizeTarget(mode *dxgi.ModeDesc) error {
	return sc.Original().ResizeTarget(mode)
}

// GetContainingOutput forwards to the original.
func (sc *SwapChain) GetContainingOutput() (dxgi.Output, error) {
	return sc.Original().GetContainingOutput()
}

// GetFrameStatistics forwards to the original.
func (sc *SwapChain) GetFrameStatistics() (dxgi.FrameStatistics, error) {
	return sc.Original().GetFrameStatistics()
}

// GetLastPresentCount forwards to the original.
func (sc *SwapChain) GetLastPresentCount() (uint32, error) {
	return sc.Original().GetLastPresentCount()
}
