package main

import (
	"sync/atomic"

	"github.com/gogpu/ggoverlay"
	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/d3d11"
)

// tracedDevice is a device proxy that logs resource creation, standing in
// for the debugging layers applications commonly wrap their devices in.
// The overlay's factory proxy unwraps it before the swap chain is created.
type tracedDevice struct {
	com.Proxy[d3d11.Device]
	views    atomic.Int64
	textures atomic.Int64
}

func newTracedDevice(dev d3d11.Device) *tracedDevice {
	d := &tracedDevice{}
	dev.AddRef()
	d.Bind(d, dev, []com.IID{d3d11.IIDDevice}, nil)
	return d
}

func (d *tracedDevice) CreateTexture2D(desc *d3d11.Texture2DDesc, initial []d3d11.SubresourceData) (d3d11.Texture2D, error) {
	n := d.textures.Add(1)
	ggoverlay.Logger().Debug("trace: CreateTexture2D", "n", n, "width", desc.Width, "height", desc.Height)
	return d.Original().CreateTexture2D(desc, initial)
}

func (d *tracedDevice) CreateRenderTargetView(res d3d11.Resource, desc *d3d11.RenderTargetViewDesc) (d3d11.RenderTargetView, error) {
	d.views.Add(1)
	return d.Original().CreateRenderTargetView(res, desc)
}

func (d *tracedDevice) GetImmediateContext() d3d11.DeviceContext {
	return d.Original().GetImmediateContext()
}

// Views returns how many render target views were created.
func (d *tracedDevice) Views() int64 { return d.views.Load() }
