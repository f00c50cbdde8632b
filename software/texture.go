package software

import (
	"image"
	"image/color"
	"sync"

	"github.com/gogpu/ggoverlay/d3d11"
	"github.com/gogpu/ggoverlay/dxgi"
)

// bytesPerPixel is the texel size of every format the software device
// stores.
const bytesPerPixel = 4

func supportedFormat(f dxgi.Format) bool {
	switch f {
	case dxgi.FormatR8G8B8A8Unorm, dxgi.FormatR8G8B8A8UnormSRGB,
		dxgi.FormatB8G8R8A8Unorm, dxgi.FormatB8G8R8A8UnormSRGB,
		dxgi.FormatB8G8R8X8Unorm, dxgi.FormatR10G10B10A2Unorm:
		return true
	}
	return false
}

func isBGRA(f dxgi.Format) bool {
	switch f {
	case dxgi.FormatB8G8R8A8Unorm, dxgi.FormatB8G8R8A8UnormSRGB, dxgi.FormatB8G8R8X8Unorm:
		return true
	}
	return false
}

// Texture2D is an in-memory 2D texture with a single subresource.
type Texture2D struct {
	object
	device *Device
	desc   d3d11.Texture2DDesc

	mu     sync.Mutex
	pix    []byte
	mapped bool
}

func newTexture2D(dev *Device, desc d3d11.Texture2DDesc) *Texture2D {
	t := &Texture2D{
		device: dev,
		desc:   desc,
		pix:    make([]byte, int(desc.Width)*int(desc.Height)*bytesPerPixel),
	}
	t.init(t, nil, d3d11.IIDDeviceChild, d3d11.IIDResource, d3d11.IIDTexture2D)
	return t
}

func (t *Texture2D) rowPitch() int { return int(t.desc.Width) * bytesPerPixel }

// GetDevice implements d3d11.DeviceChild.
func (t *Texture2D) GetDevice() d3d11.Device {
	t.device.AddRef()
	return t.device
}

// GetType implements d3d11.Resource.
func (t *Texture2D) GetType() d3d11.ResourceDimension {
	return d3d11.ResourceDimensionTexture2D
}

// GetDesc implements d3d11.Texture2D.
func (t *Texture2D) GetDesc() d3d11.Texture2DDesc {
	return t.desc
}

// Image returns a copy of the texture in RGBA channel order. Formats
// without alpha read back opaque.
func (t *Texture2D) Image() *image.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, int(t.desc.Width), int(t.desc.Height)))
	copy(img.Pix, t.pix)
	if isBGRA(t.desc.Format) {
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+2] = img.Pix[i+2], img.Pix[i]
		}
	}
	if t.desc.Format == dxgi.FormatB8G8R8X8Unorm {
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 0xff
		}
	}
	return img
}

// At returns the texel at x, y in RGBA order.
func (t *Texture2D) At(x, y int) color.RGBA {
	return t.Image().RGBAAt(x, y)
}

// fill sets every texel to c, given in RGBA order.
func (t *Texture2D) fill(c [4]byte) {
	if isBGRA(t.desc.Format) {
		c[0], c[2] = c[2], c[0]
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := 0; i < len(t.pix); i += 4 {
		copy(t.pix[i:i+4], c[:])
	}
}

// RenderTargetView is a render-target view of a software Texture2D.
type RenderTargetView struct {
	object
	device *Device
	tex    *Texture2D
}

func newRenderTargetView(dev *Device, tex *Texture2D) *RenderTargetView {
	tex.AddRef()
	v := &RenderTargetView{device: dev, tex: tex}
	v.init(v, func() { v.tex.Release() },
		d3d11.IIDDeviceChild, d3d11.IIDView, d3d11.IIDRenderTargetView)
	return v
}

// GetDevice implements d3d11.DeviceChild.
func (v *RenderTargetView) GetDevice() d3d11.Device {
	v.device.AddRef()
	return v.device
}

// GetResource implements d3d11.View.
func (v *RenderTargetView) GetResource() d3d11.Resource {
	v.tex.AddRef()
	return v.tex
}
