// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package native

import (
	"unsafe"

	ole "github.com/go-ole/go-ole"

	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/d3d11"
)

// D3D11 vtable indices. IUnknown occupies 0-2.
const (
	deviceCreateTexture2D        = 5
	deviceCreateRenderTargetView = 9
	deviceGetImmediateContext    = 40

	childGetDevice = 3

	resourceGetType  = 7
	texture2DGetDesc = 10
	viewGetResource  = 7

	contextMap                   = 14
	contextUnmap                 = 15
	contextOMSetRenderTargets    = 33
	contextCopySubresourceRegion = 46
	contextUpdateSubresource     = 48
	contextOMGetRenderTargets    = 89
	contextFlush                 = 111
)

// maxRenderTargets is D3D11_SIMULTANEOUS_RENDER_TARGET_COUNT.
const maxRenderTargets = 8

// rawRenderTargetViewDesc matches D3D11_RENDER_TARGET_VIEW_DESC; the union
// is sized for its largest member.
type rawRenderTargetViewDesc struct {
	Format        uint32
	ViewDimension uint32
	Union         [3]uint32
}

// rawSubresourceData matches D3D11_SUBRESOURCE_DATA.
type rawSubresourceData struct {
	SysMem           unsafe.Pointer
	SysMemPitch      uint32
	SysMemSlicePitch uint32
}

// rawMappedSubresource matches D3D11_MAPPED_SUBRESOURCE.
type rawMappedSubresource struct {
	Data       unsafe.Pointer
	RowPitch   uint32
	DepthPitch uint32
}

// Device wraps ID3D11Device.
type Device struct {
	Unknown
}

var _ d3d11.Device = (*Device)(nil)

// CreateTexture2D implements d3d11.Device.
func (d *Device) CreateTexture2D(desc *d3d11.Texture2DDesc, initial []d3d11.SubresourceData) (d3d11.Texture2D, error) {
	if desc == nil {
		return nil, com.E_INVALIDARG
	}
	var init unsafe.Pointer
	if len(initial) > 0 {
		raw := make([]rawSubresourceData, len(initial))
		for i, s := range initial {
			if len(s.Data) == 0 {
				return nil, com.E_INVALIDARG
			}
			raw[i] = rawSubresourceData{SysMem: unsafe.Pointer(&s.Data[0]), SysMemPitch: s.RowPitch, SysMemSlicePitch: s.SlicePitch}
		}
		init = unsafe.Pointer(&raw[0])
	}
	var out *ole.IUnknown
	err := hresult(comCall(d.unk, deviceCreateTexture2D,
		uintptr(unsafe.Pointer(desc)), uintptr(init), uintptr(unsafe.Pointer(&out))))
	if com.Failed(err) || out == nil {
		if err == nil {
			err = com.E_POINTER
		}
		return nil, err
	}
	return &Texture2D{Resource{DeviceChild{Unknown{out}}}}, nil
}

// CreateRenderTargetView implements d3d11.Device. res must be a native
// resource.
func (d *Device) CreateRenderTargetView(res d3d11.Resource, desc *d3d11.RenderTargetViewDesc) (d3d11.RenderTargetView, error) {
	r, ok := rawOf(res)
	if !ok {
		return nil, com.E_INVALIDARG
	}
	var rawDesc unsafe.Pointer
	if desc != nil {
		rd := &rawRenderTargetViewDesc{Format: uint32(desc.Format), ViewDimension: desc.ViewDimension}
		rd.Union[0] = desc.MipSlice
		rawDesc = unsafe.Pointer(rd)
	}
	var out *ole.IUnknown
	err := hresult(comCall(d.unk, deviceCreateRenderTargetView,
		uintptr(unsafe.Pointer(r)), uintptr(rawDesc), uintptr(unsafe.Pointer(&out))))
	if com.Failed(err) || out == nil {
		if err == nil {
			err = com.E_POINTER
		}
		return nil, err
	}
	return &View{DeviceChild{Unknown{out}}}, nil
}

// GetImmediateContext implements d3d11.Device.
func (d *Device) GetImmediateContext() d3d11.DeviceContext {
	var out *ole.IUnknown
	comCall(d.unk, deviceGetImmediateContext, uintptr(unsafe.Pointer(&out)))
	if out == nil {
		return nil
	}
	return &DeviceContext{DeviceChild{Unknown{out}}}
}

// DeviceChild wraps ID3D11DeviceChild.
type DeviceChild struct {
	Unknown
}

// GetDevice implements d3d11.DeviceChild.
func (c *DeviceChild) GetDevice() d3d11.Device {
	var out *ole.IUnknown
	comCall(c.unk, childGetDevice, uintptr(unsafe.Pointer(&out)))
	if out == nil {
		return nil
	}
	return &Device{Unknown{out}}
}

// Resource wraps ID3D11Resource.
type Resource struct {
	DeviceChild
}

var _ d3d11.Resource = (*Resource)(nil)

// GetType implements d3d11.Resource.
func (r *Resource) GetType() d3d11.ResourceDimension {
	var dim d3d11.ResourceDimension
	comCall(r.unk, resourceGetType, uintptr(unsafe.Pointer(&dim)))
	return dim
}

// Texture2D wraps ID3D11Texture2D.
type Texture2D struct {
	Resource
}

var _ d3d11.Texture2D = (*Texture2D)(nil)

// GetDesc implements d3d11.Texture2D.
func (t *Texture2D) GetDesc() d3d11.Texture2DDesc {
	var desc d3d11.Texture2DDesc
	comCall(t.unk, texture2DGetDesc, uintptr(unsafe.Pointer(&desc)))
	return desc
}

// View wraps ID3D11View and the render-target and depth-stencil views
// derived from it.
type View struct {
	DeviceChild
}

var (
	_ d3d11.RenderTargetView = (*View)(nil)
	_ d3d11.DepthStencilView = (*View)(nil)
)

// GetResource implements d3d11.View.
func (v *View) GetResource() d3d11.Resource {
	var out *ole.IUnknown
	comCall(v.unk, viewGetResource, uintptr(unsafe.Pointer(&out)))
	if out == nil {
		return nil
	}
	return &Resource{DeviceChild{Unknown{out}}}
}

// DeviceContext wraps ID3D11DeviceContext.
type DeviceContext struct {
	DeviceChild
}

var _ d3d11.DeviceContext = (*DeviceContext)(nil)

// OMSetRenderTargets implements d3d11.DeviceContext. Views that are not
// native objects leave the bindings unchanged.
func (c *DeviceContext) OMSetRenderTargets(views []d3d11.RenderTargetView, dsv d3d11.DepthStencilView) {
	if len(views) > maxRenderTargets {
		return
	}
	raw := make([]*ole.IUnknown, len(views))
	for i, v := range views {
		if v == nil {
			continue
		}
		p, ok := rawOf(v)
		if !ok {
			return
		}
		raw[i] = p
	}
	var rawDSV *ole.IUnknown
	if dsv != nil {
		p, ok := rawOf(dsv)
		if !ok {
			return
		}
		rawDSV = p
	}
	var list unsafe.Pointer
	if len(raw) > 0 {
		list = unsafe.Pointer(&raw[0])
	}
	comCall(c.unk, contextOMSetRenderTargets, uintptr(len(raw)), uintptr(list), uintptr(unsafe.Pointer(rawDSV)))
}

// OMGetRenderTargets implements d3d11.DeviceContext.
func (c *DeviceContext) OMGetRenderTargets(n int) ([]d3d11.RenderTargetView, d3d11.DepthStencilView) {
	n = min(max(n, 0), maxRenderTargets)
	raw := make([]*ole.IUnknown, maxRenderTargets)
	var rawDSV *ole.IUnknown
	comCall(c.unk, contextOMGetRenderTargets, uintptr(n), uintptr(unsafe.Pointer(&raw[0])), uintptr(unsafe.Pointer(&rawDSV)))

	views := make([]d3d11.RenderTargetView, n)
	for i := range views {
		if raw[i] != nil {
			views[i] = &View{DeviceChild{Unknown{raw[i]}}}
		}
	}
	var dsv d3d11.DepthStencilView
	if rawDSV != nil {
		dsv = &View{DeviceChild{Unknown{rawDSV}}}
	}
	return views, dsv
}

// CopySubresourceRegion implements d3d11.DeviceContext. Non-native
// resources are ignored.
func (c *DeviceContext) CopySubresourceRegion(dst d3d11.Resource, dstSubresource, dstX, dstY, dstZ uint32, src d3d11.Resource, srcSubresource uint32, srcBox *d3d11.Box) {
	d, ok := rawOf(dst)
	if !ok {
		return
	}
	s, ok := rawOf(src)
	if !ok {
		return
	}
	comCall(c.unk, contextCopySubresourceRegion,
		uintptr(unsafe.Pointer(d)), uintptr(dstSubresource), uintptr(dstX), uintptr(dstY), uintptr(dstZ),
		uintptr(unsafe.Pointer(s)), uintptr(srcSubresource), uintptr(unsafe.Pointer(srcBox)))
}

// UpdateSubresource implements d3d11.DeviceContext.
func (c *DeviceContext) UpdateSubresource(dst d3d11.Resource, dstSubresource uint32, dstBox *d3d11.Box, data []byte, rowPitch, depthPitch uint32) {
	d, ok := rawOf(dst)
	if !ok || len(data) == 0 {
		return
	}
	comCall(c.unk, contextUpdateSubresource,
		uintptr(unsafe.Pointer(d)), uintptr(dstSubresource), uintptr(unsafe.Pointer(dstBox)),
		uintptr(unsafe.Pointer(&data[0])), uintptr(rowPitch), uintptr(depthPitch))
}

// Map implements d3d11.DeviceContext. For textures the returned Data
// covers the whole subresource.
func (c *DeviceContext) Map(res d3d11.Resource, subresource uint32, mapType d3d11.MapType, flags uint32) (d3d11.MappedSubresource, error) {
	r, ok := rawOf(res)
	if !ok {
		return d3d11.MappedSubresource{}, com.E_INVALIDARG
	}
	var m rawMappedSubresource
	err := hresult(comCall(c.unk, contextMap,
		uintptr(unsafe.Pointer(r)), uintptr(subresource), uintptr(mapType), uintptr(flags), uintptr(unsafe.Pointer(&m))))
	if com.Failed(err) {
		return d3d11.MappedSubresource{}, err
	}
	size := m.DepthPitch
	if t, ok := res.(d3d11.Texture2D); ok {
		size = m.RowPitch * t.GetDesc().Height
	}
	var data []byte
	if m.Data != nil && size > 0 {
		data = unsafe.Slice((*byte)(m.Data), size)
	}
	return d3d11.MappedSubresource{Data: data, RowPitch: m.RowPitch, DepthPitch: m.DepthPitch}, nil
}

// Unmap implements d3d11.DeviceContext.
func (c *DeviceContext) Unmap(res d3d11.Resource, subresource uint32) {
	if r, ok := rawOf(res); ok {
		comCall(c.unk, contextUnmap, uintptr(unsafe.Pointer(r)), uintptr(subresource))
	}
}

// Flush implements d3d11.DeviceContext.
func (c *DeviceContext) Flush() {
	comCall(c.unk, contextFlush)
}
