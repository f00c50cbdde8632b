package software

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/d3d11"
)

// Device is an in-memory D3D11 device. It creates CPU-backed textures and
// render-target views and owns one immediate context.
type Device struct {
	object
	ctx *DeviceContext
}

// NewDevice returns a device holding one reference.
func NewDevice() *Device {
	d := &Device{}
	d.ctx = newDeviceContext(d)
	d.init(d, func() { d.ctx.ClearState() }, d3d11.IIDDevice)
	return d
}

// CreateTexture2D implements d3d11.Device. Only single-mip, single-slice
// textures in 32-bit formats are supported.
func (d *Device) CreateTexture2D(desc *d3d11.Texture2DDesc, initial []d3d11.SubresourceData) (d3d11.Texture2D, error) {
	if desc == nil || desc.Width == 0 || desc.Height == 0 {
		return nil, com.E_INVALIDARG
	}
	if !supportedFormat(desc.Format) || desc.MipLevels > 1 || desc.ArraySize > 1 {
		return nil, com.E_INVALIDARG
	}
	if desc.Usage == d3d11.UsageStaging && desc.BindFlags != 0 {
		return nil, com.E_INVALIDARG
	}
	if desc.Usage == d3d11.UsageImmutable && len(initial) == 0 {
		return nil, com.E_INVALIDARG
	}

	td := *desc
	td.MipLevels, td.ArraySize = 1, 1
	t := newTexture2D(d, td)
	if len(initial) > 0 {
		src := initial[0]
		pitch := int(src.RowPitch)
		if pitch == 0 {
			pitch = t.rowPitch()
		}
		copyRows(t.pix, t.rowPitch(), 0, 0, src.Data, pitch, 0, 0, int(td.Width), int(td.Height))
	}
	return t, nil
}

// CreateRenderTargetView implements d3d11.Device. res must be a render
// target texture of this device.
func (d *Device) CreateRenderTargetView(res d3d11.Resource, desc *d3d11.RenderTargetViewDesc) (d3d11.RenderTargetView, error) {
	tex, ok := res.(*Texture2D)
	if !ok || tex.device != d || tex.desc.BindFlags&d3d11.BindRenderTarget == 0 {
		return nil, com.E_INVALIDARG
	}
	if desc != nil && desc.Format != tex.desc.Format && desc.Format != 0 {
		return nil, com.E_INVALIDARG
	}
	return newRenderTargetView(d, tex), nil
}

// GetImmediateContext implements d3d11.Device.
func (d *Device) GetImmediateContext() d3d11.DeviceContext {
	d.ctx.AddRef()
	return d.ctx
}

// Context returns the immediate context without adding a reference.
func (d *Device) Context() *DeviceContext {
	return d.ctx
}

// DeviceContext is the immediate context of a software Device.
type DeviceContext struct {
	object
	device *Device

	mu      sync.Mutex
	targets []d3d11.RenderTargetView
	dsv     d3d11.DepthStencilView
	flushes atomic.Int64
}

func newDeviceContext(dev *Device) *DeviceContext {
	c := &DeviceContext{device: dev}
	c.init(c, nil, d3d11.IIDDeviceChild, d3d11.IIDDeviceContext)
	return c
}

// GetDevice implements d3d11.DeviceChild.
func (c *DeviceContext) GetDevice() d3d11.Device {
	c.device.AddRef()
	return c.device
}

// OMSetRenderTargets implements d3d11.DeviceContext.
func (c *DeviceContext) OMSetRenderTargets(views []d3d11.RenderTargetView, dsv d3d11.DepthStencilView) {
	for _, v := range views {
		if v != nil {
			v.AddRef()
		}
	}
	if dsv != nil {
		dsv.AddRef()
	}

	c.mu.Lock()
	old, oldDSV := c.targets, c.dsv
	c.targets = append([]d3d11.RenderTargetView(nil), views...)
	c.dsv = dsv
	c.mu.Unlock()

	for _, v := range old {
		com.SafeRelease(v)
	}
	com.SafeRelease(oldDSV)
}

// OMGetRenderTargets implements d3d11.DeviceContext.
func (c *DeviceContext) OMGetRenderTargets(n int) ([]d3d11.RenderTargetView, d3d11.DepthStencilView) {
	c.mu.Lock()
	defer c.mu.Unlock()

	views := make([]d3d11.RenderTargetView, n)
	for i := 0; i < n && i < len(c.targets); i++ {
		if v := c.targets[i]; v != nil {
			v.AddRef()
			views[i] = v
		}
	}
	if c.dsv != nil {
		c.dsv.AddRef()
	}
	return views, c.dsv
}

// ClearState unbinds every render target.
func (c *DeviceContext) ClearState() {
	c.OMSetRenderTargets(nil, nil)
}

// ClearRenderTargetView fills the texture behind view with rgba, each
// component in [0, 1].
func (c *DeviceContext) ClearRenderTargetView(view d3d11.RenderTargetView, rgba [4]float32) {
	v, ok := view.(*RenderTargetView)
	if !ok {
		return
	}
	var px [4]byte
	for i, f := range rgba {
		px[i] = uint8(math.Round(float64(min(max(f, 0), 1)) * 255))
	}
	v.tex.fill(px)
}

// CopySubresourceRegion implements d3d11.DeviceContext. Copies between
// textures of different texel layout are ignored, as are out-of-range
// subresources.
func (c *DeviceContext) CopySubresourceRegion(dst d3d11.Resource, dstSubresource, dstX, dstY, dstZ uint32, src d3d11.Resource, srcSubresource uint32, srcBox *d3d11.Box) {
	d, ok1 := dst.(*Texture2D)
	s, ok2 := src.(*Texture2D)
	if !ok1 || !ok2 || dstSubresource != 0 || srcSubresource != 0 || dstZ != 0 {
		return
	}
	if isBGRA(d.desc.Format) != isBGRA(s.desc.Format) {
		return
	}
	box := d3d11.Box{Right: s.desc.Width, Bottom: s.desc.Height, Back: 1}
	if srcBox != nil {
		box = *srcBox
	}
	box.Right = min(box.Right, s.desc.Width)
	box.Bottom = min(box.Bottom, s.desc.Height)
	if box.Empty() || dstX >= d.desc.Width || dstY >= d.desc.Height {
		return
	}
	w := min(box.Width(), d.desc.Width-dstX)
	h := min(box.Height(), d.desc.Height-dstY)

	if d == s {
		s.mu.Lock()
		defer s.mu.Unlock()
		tmp := append([]byte(nil), s.pix...)
		copyRows(d.pix, d.rowPitch(), int(dstX), int(dstY), tmp, s.rowPitch(), int(box.Left), int(box.Top), int(w), int(h))
		return
	}
	s.mu.Lock()
	d.mu.Lock()
	copyRows(d.pix, d.rowPitch(), int(dstX), int(dstY), s.pix, s.rowPitch(), int(box.Left), int(box.Top), int(w), int(h))
	d.mu.Unlock()
	s.mu.Unlock()
}

// UpdateSubresource implements d3d11.DeviceContext. A nil dstBox updates
// the whole texture.
func (c *DeviceContext) UpdateSubresource(dst d3d11.Resource, dstSubresource uint32, dstBox *d3d11.Box, data []byte, rowPitch, depthPitch uint32) {
	d, ok := dst.(*Texture2D)
	if !ok || dstSubresource != 0 || d.desc.Usage != d3d11.UsageDefault {
		return
	}
	box := d3d11.Box{Right: d.desc.Width, Bottom: d.desc.Height, Back: 1}
	if dstBox != nil {
		box = *dstBox
	}
	box.Right = min(box.Right, d.desc.Width)
	box.Bottom = min(box.Bottom, d.desc.Height)
	if box.Empty() {
		return
	}
	pitch := int(rowPitch)
	if pitch == 0 {
		pitch = int(box.Width()) * bytesPerPixel
	}
	if len(data) < pitch*(int(box.Height())-1)+int(box.Width())*bytesPerPixel {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	copyRows(d.pix, d.rowPitch(), int(box.Left), int(box.Top), data, pitch, 0, 0, int(box.Width()), int(box.Height()))
}

// Map implements d3d11.DeviceContext. The returned Data aliases the
// texture memory until Unmap.
func (c *DeviceContext) Map(res d3d11.Resource, subresource uint32, mapType d3d11.MapType, flags uint32) (d3d11.MappedSubresource, error) {
	t, ok := res.(*Texture2D)
	if !ok || subresource != 0 {
		return d3d11.MappedSubresource{}, com.E_INVALIDARG
	}
	var need uint32
	switch mapType {
	case d3d11.MapRead:
		need = d3d11.CPUAccessRead
	case d3d11.MapWrite, d3d11.MapWriteDiscard:
		need = d3d11.CPUAccessWrite
	case d3d11.MapReadWrite:
		need = d3d11.CPUAccessRead | d3d11.CPUAccessWrite
	default:
		return d3d11.MappedSubresource{}, com.E_INVALIDARG
	}
	if t.desc.CPUAccessFlags&need != need {
		return d3d11.MappedSubresource{}, com.E_INVALIDARG
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mapped {
		return d3d11.MappedSubresource{}, com.E_INVALIDARG
	}
	t.mapped = true
	return d3d11.MappedSubresource{
		Data:       t.pix,
		RowPitch:   uint32(t.rowPitch()),
		DepthPitch: uint32(len(t.pix)),
	}, nil
}

// Unmap implements d3d11.DeviceContext.
func (c *DeviceContext) Unmap(res d3d11.Resource, subresource uint32) {
	if t, ok := res.(*Texture2D); ok {
		t.mu.Lock()
		t.mapped = false
		t.mu.Unlock()
	}
}

// Flush implements d3d11.DeviceContext.
func (c *DeviceContext) Flush() {
	c.flushes.Add(1)
}

// copyRows copies a w×h texel block between two row-major images.
func copyRows(dst []byte, dstPitch, dx, dy int, src []byte, srcPitch, sx, sy, w, h int) {
	n := w * bytesPerPixel
	for y := 0; y < h; y++ {
		do := (dy+y)*dstPitch + dx*bytesPerPixel
		so := (sy+y)*srcPitch + sx*bytesPerPixel
		if do+n > len(dst) || so+n > len(src) {
			return
		}
		copy(dst[do:do+n], src[so:so+n])
	}
}

// Flushes returns how many times Flush was called.
func (c *DeviceContext) Flushes() int64 {
	return c.flushes.Load()
}
