// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package dxgi declares the Go contract of the DXGI factory and swap-chain
// interfaces that ggoverlay interposes on.
//
// The interfaces mirror IDXGIObject, IDXGIFactory, IDXGIAdapter, IDXGIOutput,
// IDXGIDeviceSubObject and IDXGISwapChain method for method. Out-parameters
// become return values and HRESULTs become errors of type [com.HRESULT]; a
// nil error is S_OK. Implementations live in the native package (real
// DXGI on Windows) and the software package (in-memory).
package dxgi

import "github.com/gogpu/ggoverlay/com"

// Interface identifiers.
var (
	IIDObject          = com.MustIID("{AEC22FB8-76F3-4639-9BE0-28EB43A67A2E}")
	IIDDeviceSubObject = com.MustIID("{3D3E0379-F9DE-4D58-BB6C-18D62992F1A6}")
	IIDFactory         = com.MustIID("{7B7166EC-21C7-44AE-B21A-C9AE321AE369}")
	IIDAdapter         = com.MustIID("{2411E7E1-12AC-4CCF-BD14-9798E8534DC0}")
	IIDOutput          = com.MustIID("{AE02EEDB-C735-4690-8D52-5A8DC20213AA}")
	IIDSwapChain       = com.MustIID("{310D36A0-D2E7-4C0A-AA04-6A9D23B8886A}")
	IIDDevice          = com.MustIID("{54EC77FA-1377-44E6-8C32-88FD5F44C84C}")
	IIDSurface         = com.MustIID("{CAFCB56C-6AC3-4889-BF47-9E23BBD260EC}")
)

// Object is IDXGIObject.
type Object interface {
	com.Unknown

	// SetPrivateData stores a copy of data under name. nil data removes
	// the entry.
	SetPrivateData(name com.IID, data []byte) error

	// SetPrivateDataInterface stores a reference to u under name.
	SetPrivateDataInterface(name com.IID, u com.Unknown) error

	// GetPrivateData copies the data stored under name into buf and
	// returns its size. A buf that is too small yields ErrMoreData together
	// with the required size.
	GetPrivateData(name com.IID, buf []byte) (int, error)

	// GetParent returns the object's parent queried for iid.
	GetParent(iid com.IID) (com.Unknown, error)
}

// DeviceSubObject is IDXGIDeviceSubObject.
type DeviceSubObject interface {
	Object

	// GetDevice returns the device the object was created on, queried for iid.
	GetDevice(iid com.IID) (com.Unknown, error)
}

// Factory is IDXGIFactory.
type Factory interface {
	Object

	EnumAdapters(adapter uint32) (Adapter, error)
	MakeWindowAssociation(window HWND, flags uint32) error
	GetWindowAssociation() (HWND, error)

	// CreateSwapChain creates a swap chain for device, an object the
	// implementation recognises as a rendering device.
	CreateSwapChain(device com.Unknown, desc *SwapChainDesc) (SwapChain, error)

	CreateSoftwareAdapter(module uintptr) (Adapter, error)
}

// Adapter is IDXGIAdapter.
type Adapter interface {
	Object

	EnumOutputs(output uint32) (Output, error)
	GetDesc() (AdapterDesc, error)
	CheckInterfaceSupport(iid com.IID) (umdVersion int64, err error)
}

// Output is the subset of IDXGIOutput the overlay layer touches.
type Output interface {
	Object

	GetDesc() (OutputDesc, error)
	WaitForVBlank() error
}

// SwapChain is IDXGISwapChain.
type SwapChain interface {
	DeviceSubObject

	// Present shows the current back buffer. It may return success
	// statuses such as StatusOccluded; use com.Succeeded to tell them from
	// failures.
	Present(syncInterval, flags uint32) error

	// GetBuffer returns back buffer index queried for iid.
	GetBuffer(buffer uint32, iid com.IID) (com.Unknown, error)

	SetFullscreenState(fullscreen bool, target Output) error
	GetFullscreenState() (fullscreen bool, target Output, err error)
	GetDesc() (SwapChainDesc, error)
	ResizeBuffers(bufferCount, width, height uint32, format Format, flags uint32) error
	ResizeTarget(mode *ModeDesc) error
	GetContainingOutput() (Output, error)
	GetFrameStatistics() (FrameStatistics, error)
	GetLastPresentCount() (uint32, error)
}

// CreateFactoryFunc is the signature of the CreateDXGIFactory entry point:
// it returns a new factory queried for iid.
type CreateFactoryFunc func(iid com.IID) (Factory, error)
