// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package proxy interposes on the DXGI factory and swap chain.
//
// A [Factory] wraps a real factory and intercepts CreateSwapChain; every
// swap chain it creates comes back as a [SwapChain] proxy that renders the
// overlay into the back buffer before each Present. Every other method and
// every capability query the proxies do not answer themselves is forwarded
// to the original unchanged, so callers can keep discovering interfaces the
// proxies know nothing about.
//
// Both proxies answer com.IIDWrapperObject, and the factory looks through
// one such wrapper on the device it is given: a device proxied by another
// layer reaches the real factory unwrapped, while the swap chain still
// reports the caller's object from GetDevice.
package proxy

import (
	"io"

	"github.com/gogpu/ggoverlay"
	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/dxgi"
)

// Factory is the IDXGIFactory proxy.
type Factory struct {
	com.Proxy[dxgi.Factory]

	module io.Closer
	opts   options
}

var _ dxgi.Factory = (*Factory)(nil)

// NewFactory wraps orig. The returned proxy holds one reference and owns
// the caller's reference to orig. module, typically the library orig came
// from, is closed after orig is released; it may be nil.
func NewFactory(module io.Closer, orig dxgi.Factory, opts ...Option) *Factory {
	f := &Factory{module: module, opts: buildOptions(opts)}
	f.Bind(f, orig, []com.IID{dxgi.IIDObject, dxgi.IIDFactory}, f.final)
	return f
}

func (f *Factory) final(releaseOriginal func()) {
	releaseOriginal()
	if f.module == nil {
		return
	}
	if err := f.module.Close(); err != nil {
		ggoverlay.Logger().Warn("proxy: closing graphics library failed", "err", err)
	}
}

// CreateSwapChain creates a swap chain through the original factory and
// wraps it. A nil device or desc fails with dxgi.ErrInvalidCall before the
// original is called. When device is itself a proxy, the object it wraps is
// passed to the original instead.
func (f *Factory) CreateSwapChain(device com.Unknown, desc *dxgi.SwapChainDesc) (dxgi.SwapChain, error) {
	if device == nil || desc == nil {
		return nil, dxgi.ErrInvalidCall
	}

	target := device
	unwrapped := false
	if u, ok := com.Underlying(device, com.IIDUnknown); ok {
		defer u.Release()
		target = u
		unwrapped = true
	}

	chain, err := f.Original().CreateSwapChain(target, desc)
	if com.Failed(err) || chain == nil {
		if !com.Failed(err) {
			err = com.E_POINTER
		}
		ggoverlay.Logger().Debug("proxy: CreateSwapChain failed", "err", err, "unwrapped", unwrapped)
		return nil, err
	}

	ggoverlay.Logger().Info("proxy: swap chain wrapped",
		"width", desc.BufferDesc.Width,
		"height", desc.BufferDesc.Height,
		"format", desc.BufferDesc.Format.String(),
		"unwrapped", unwrapped)
	return newSwapChain(chain, f, device, desc), err
}

// SetPrivateData forwards to the original.
func (f *Factory) SetPrivateData(name com.IID, data []byte) error {
	return f.Original().SetPrivateData(name, data)
}

// SetPrivateDataInterface forwards to the original.
func (f *Factory) SetPrivateDataInterface(name com.IID, u com.Unknown) error {
	return f.Original().SetPrivateDataInterface(name, u)
}

// GetPrivateData forwards to the original.
func (f *Factory) GetPrivateData(name com.IID, buf []byte) (int, error) {
	return f.Original().GetPrivateData(name, buf)
}

// GetParent forwards to the original.
func (f *Factory) GetParent(iid com.IID) (com.Unknown, error) {
	return f.Original().GetParent(iid)
}

// EnumAdapters forwards to the original.
func (f *Factory) EnumAdapters(adapter uint32) (dxgi.Adapter, error) {
	return f.Original().EnumAdapters(adapter)
}

// MakeWindowAssociation forwards to the original.
func (f *Factory) MakeWindowAssociation(window dxgi.HWND, flags uint32) error {
	return f.Original().MakeWindowAssociation(window, flags)
}

// GetWindowAssociation forwards to the original.
func (f *Factory) GetWindowAssociation() (dxgi.HWND, error) {
	return f.Original().GetWindowAssociation()
}

// CreateSoftwareAdapter forwards to the original.
func (f *Factory) CreateSoftwareAdapter(module uintptr) (dxgi.Adapter, error) {
	return f.Original().CreateSoftwareAdapter(module)
}
