// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dxgi

import "strconv"

// HWND is a native window handle.
type HWND uintptr

// Format is DXGI_FORMAT. Only the values the overlay layer reasons about are
// named; any other value passes through untouched.
type Format uint32

// Pixel formats.
const (
	FormatUnknown           Format = 0
	FormatR16G16B16A16Float Format = 10
	FormatR10G10B10A2Unorm  Format = 24
	FormatR8G8B8A8Unorm     Format = 28
	FormatR8G8B8A8UnormSRGB Format = 29
	FormatB8G8R8A8Unorm     Format = 87
	FormatB8G8R8A8UnormSRGB Format = 91
	FormatB8G8R8X8Unorm     Format = 88
)

// String returns the DXGI name of the format.
func (f Format) String() string {
	switch f {
	case FormatUnknown:
		return "DXGI_FORMAT_UNKNOWN"
	case FormatR16G16B16A16Float:
		return "DXGI_FORMAT_R16G16B16A16_FLOAT"
	case FormatR10G10B10A2Unorm:
		return "DXGI_FORMAT_R10G10B10A2_UNORM"
	case FormatR8G8B8A8Unorm:
		return "DXGI_FORMAT_R8G8B8A8_UNORM"
	case FormatR8G8B8A8UnormSRGB:
		return "DXGI_FORMAT_R8G8B8A8_UNORM_SRGB"
	case FormatB8G8R8A8Unorm:
		return "DXGI_FORMAT_B8G8R8A8_UNORM"
	case FormatB8G8R8A8UnormSRGB:
		return "DXGI_FORMAT_B8G8R8A8_UNORM_SRGB"
	case FormatB8G8R8X8Unorm:
		return "DXGI_FORMAT_B8G8R8X8_UNORM"
	default:
		return "DXGI_FORMAT(" + strconv.FormatUint(uint64(f), 10) + ")"
	}
}

// Usage is DXGI_USAGE.
type Usage uint32

// Buffer usage flags.
const (
	UsageShaderInput        Usage = 0x10
	UsageRenderTargetOutput Usage = 0x20
	UsageBackBuffer         Usage = 0x40
	UsageShared             Usage = 0x80
	UsageReadOnly           Usage = 0x100
)

// SwapEffect is DXGI_SWAP_EFFECT.
type SwapEffect uint32

// Swap effects.
const (
	SwapEffectDiscard        SwapEffect = 0
	SwapEffectSequential     SwapEffect = 1
	SwapEffectFlipSequential SwapEffect = 3
	SwapEffectFlipDiscard    SwapEffect = 4
)

// Present flags.
const (
	PresentTest          uint32 = 0x1
	PresentDoNotSequence uint32 = 0x2
	PresentRestart       uint32 = 0x4
	PresentDoNotWait     uint32 = 0x8
	PresentAllowTearing  uint32 = 0x200
)

// MakeWindowAssociation flags.
const (
	MWANoWindowChanges uint32 = 1 << 0
	MWANoAltEnter      uint32 = 1 << 1
	MWANoPrintScreen   uint32 = 1 << 2
)

// Rational is DXGI_RATIONAL.
type Rational struct {
	Numerator   uint32
	Denominator uint32
}

// ModeDesc is DXGI_MODE_DESC.
type ModeDesc struct {
	Width            uint32
	Height           uint32
	RefreshRate      Rational
	Format           Format
	ScanlineOrdering uint32
	Scaling          uint32
}

// SampleDesc is DXGI_SAMPLE_DESC.
type SampleDesc struct {
	Count   uint32
	Quality uint32
}

// SwapChainDesc is DXGI_SWAP_CHAIN_DESC.
type SwapChainDesc struct {
	BufferDesc   ModeDesc
	SampleDesc   SampleDesc
	BufferUsage  Usage
	BufferCount  uint32
	OutputWindow HWND
	Windowed     bool
	SwapEffect   SwapEffect
	Flags        uint32
}

// FrameStatistics is DXGI_FRAME_STATISTICS.
type FrameStatistics struct {
	PresentCount        uint32
	PresentRefreshCount uint32
	SyncRefreshCount    uint32
	SyncQPCTime         int64
	SyncGPUTime         int64
}

// LUID is a locally unique adapter identifier.
type LUID struct {
	LowPart  uint32
	HighPart int32
}

// AdapterDesc is DXGI_ADAPTER_DESC.
type AdapterDesc struct {
	Description           string
	VendorID              uint32
	DeviceID              uint32
	SubSysID              uint32
	Revision              uint32
	DedicatedVideoMemory  uint64
	DedicatedSystemMemory uint64
	SharedSystemMemory    uint64
	AdapterLUID           LUID
}

// Rect is a RECT in desktop coordinates.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// OutputDesc is DXGI_OUTPUT_DESC.
type OutputDesc struct {
	DeviceName         string
	DesktopCoordinates Rect
	AttachedToDesktop  bool
	Rotation           uint32
	Monitor            uintptr
}
