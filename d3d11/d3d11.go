// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package d3d11 declares the slice of the Direct3D 11 device contract the
// overlay needs: creating textures and render-target views, binding them on
// the immediate context and moving pixels in and out of resources.
//
// A swap chain's device argument that answers [IIDDevice] is treated as a
// Direct3D 11 device; anything else leaves the overlay without a render
// backend.
package d3d11

import (
	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/dxgi"
)

// Interface identifiers.
var (
	IIDDevice           = com.MustIID("{DB6F6DDB-AC77-4E88-8253-819DF9BBF140}")
	IIDDeviceContext    = com.MustIID("{C0BFA96C-E089-44FB-8EAF-26F8796190DA}")
	IIDDeviceChild      = com.MustIID("{1841E5C8-16B0-489B-BCC8-44CFB0D5DEAE}")
	IIDResource         = com.MustIID("{DC8E63F3-D12B-4952-B47B-5E45026A862D}")
	IIDTexture2D        = com.MustIID("{6F15AAF2-D208-4E89-9AB4-489535D34F9C}")
	IIDView             = com.MustIID("{839D1216-BB2E-412B-B7F4-A9DBEBE08ED1}")
	IIDRenderTargetView = com.MustIID("{DFDBA067-0B8D-4865-875B-D7B4516CC164}")
	IIDDepthStencilView = com.MustIID("{9FDAC92A-1876-48C3-AFAD-25B94F84A9B6}")
)

// Device is ID3D11Device.
type Device interface {
	com.Unknown

	// CreateTexture2D creates a texture. initial may be nil.
	CreateTexture2D(desc *Texture2DDesc, initial []SubresourceData) (Texture2D, error)

	// CreateRenderTargetView creates a view for rendering into res. A nil
	// desc selects the resource's own format and mip 0.
	CreateRenderTargetView(res Resource, desc *RenderTargetViewDesc) (RenderTargetView, error)

	// GetImmediateContext returns a new reference to the immediate context.
	GetImmediateContext() DeviceContext
}

// DeviceChild is ID3D11DeviceChild.
type DeviceChild interface {
	com.Unknown

	// GetDevice returns a new reference to the owning device.
	GetDevice() Device
}

// Resource is ID3D11Resource.
type Resource interface {
	DeviceChild

	GetType() ResourceDimension
}

// Texture2D is ID3D11Texture2D.
type Texture2D interface {
	Resource

	GetDesc() Texture2DDesc
}

// View is ID3D11View.
type View interface {
	DeviceChild

	// GetResource returns a new reference to the viewed resource.
	GetResource() Resource
}

// RenderTargetView is ID3D11RenderTargetView.
type RenderTargetView interface {
	View
}

// DepthStencilView is ID3D11DepthStencilView.
type DepthStencilView interface {
	View
}

// DeviceContext is the subset of ID3D11DeviceContext used by the overlay.
type DeviceContext interface {
	DeviceChild

	// OMSetRenderTargets binds views as the render targets and dsv as the
	// depth-stencil target. The context keeps its own references.
	OMSetRenderTargets(views []RenderTargetView, dsv DepthStencilView)

	// OMGetRenderTargets returns new references to the first n bound render
	// targets (nil entries for empty slots) and the bound depth-stencil view.
	OMGetRenderTargets(n int) ([]RenderTargetView, DepthStencilView)

	CopySubresourceRegion(dst Resource, dstSubresource, dstX, dstY, dstZ uint32, src Resource, srcSubresource uint32, srcBox *Box)
	UpdateSubresource(dst Resource, dstSubresource uint32, dstBox *Box, data []byte, rowPitch, depthPitch uint32)

	Map(res Resource, subresource uint32, mapType MapType, flags uint32) (MappedSubresource, error)
	Unmap(res Resource, subresource uint32)

	Flush()
}

// ResourceDimension is D3D11_RESOURCE_DIMENSION.
type ResourceDimension uint32

// Resource dimensions.
const (
	ResourceDimensionUnknown   ResourceDimension = 0
	ResourceDimensionBuffer    ResourceDimension = 1
	ResourceDimensionTexture1D ResourceDimension = 2
	ResourceDimensionTexture2D ResourceDimension = 3
	ResourceDimensionTexture3D ResourceDimension = 4
)

// Usage is D3D11_USAGE.
type Usage uint32

// Resource usages.
const (
	UsageDefault   Usage = 0
	UsageImmutable Usage = 1
	UsageDynamic   Usage = 2
	UsageStaging   Usage = 3
)

// Bind flags (D3D11_BIND_FLAG).
const (
	BindShaderResource uint32 = 0x8
	BindRenderTarget   uint32 = 0x20
	BindDepthStencil   uint32 = 0x40
)

// CPU access flags (D3D11_CPU_ACCESS_FLAG).
const (
	CPUAccessWrite uint32 = 0x10000
	CPUAccessRead  uint32 = 0x20000
)

// MapType is D3D11_MAP.
type MapType uint32

// Map types.
const (
	MapRead         MapType = 1
	MapWrite        MapType = 2
	MapReadWrite    MapType = 3
	MapWriteDiscard MapType = 4
)

// Texture2DDesc is D3D11_TEXTURE2D_DESC.
type Texture2DDesc struct {
	Width          uint32
	Height         uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         dxgi.Format
	SampleDesc     dxgi.SampleDesc
	Usage          Usage
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

// RenderTargetViewDesc is the Texture2D form of D3D11_RENDER_TARGET_VIEW_DESC.
type RenderTargetViewDesc struct {
	Format        dxgi.Format
	ViewDimension uint32
	MipSlice      uint32
}

// SubresourceData is D3D11_SUBRESOURCE_DATA.
type SubresourceData struct {
	Data       []byte
	RowPitch   uint32
	SlicePitch uint32
}

// Box is D3D11_BOX. Right, Bottom and Back are exclusive.
type Box struct {
	Left, Top, Front, Right, Bottom, Back uint32
}

// Width returns the box width.
func (b Box) Width() uint32 { return b.Right - b.Left }

// Height returns the box height.
func (b Box) Height() uint32 { return b.Bottom - b.Top }

// Empty reports whether the box covers no texels.
func (b Box) Empty() bool { return b.Right <= b.Left || b.Bottom <= b.Top || b.Back <= b.Front }

// MappedSubresource is D3D11_MAPPED_SUBRESOURCE. Data is valid until Unmap.
type MappedSubresource struct {
	Data       []byte
	RowPitch   uint32
	DepthPitch uint32
}
