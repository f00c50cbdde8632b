// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package proxy

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/d3d11"
	"github.com/gogpu/ggoverlay/dxgi"
	"github.com/gogpu/ggoverlay/overlay"
	"github.com/gogpu/ggoverlay/overlay/ggrender"
	"github.com/gogpu/ggoverlay/software"
)

// tracedDevice is a device proxy of the kind a debugging layer installs.
type tracedDevice struct {
	com.Proxy[d3d11.Device]
	views atomic.Int32
}

func newTracedDevice(dev d3d11.Device) *tracedDevice {
	d := &tracedDevice{}
	dev.AddRef()
	d.Bind(d, dev, []com.IID{d3d11.IIDDevice}, nil)
	return d
}

func (d *tracedDevice) CreateTexture2D(desc *d3d11.Texture2DDesc, initial []d3d11.SubresourceData) (d3d11.Texture2D, error) {
	return d.Original().CreateTexture2D(desc, initial)
}

func (d *tracedDevice) CreateRenderTargetView(res d3d11.Resource, desc *d3d11.RenderTargetViewDesc) (d3d11.RenderTargetView, error) {
	d.views.Add(1)
	return d.Original().CreateRenderTargetView(res, desc)
}

func (d *tracedDevice) GetImmediateContext() d3d11.DeviceContext {
	return d.Original().GetImmediateContext()
}

type stack struct {
	dev     *software.Device
	traced  *tracedDevice
	factory *Factory
	chain   *SwapChain
	inner   *software.SwapChain
}

func newStack(t *testing.T, width, height uint32) *stack {
	t.Helper()
	s := &stack{dev: software.NewDevice()}
	s.traced = newTracedDevice(s.dev)
	s.factory = NewFactory(nil, software.NewFactory(),
		WithRenderer(func() overlay.Renderer { return ggrender.New() }),
		WithPlatform(func(desc *dxgi.SwapChainDesc) overlay.Platform {
			return overlay.NewHeadlessPlatform(desc.BufferDesc.Width, desc.BufferDesc.Height)
		}),
	)

	sc, err := s.factory.CreateSwapChain(s.traced, &dxgi.SwapChainDesc{
		BufferDesc:  dxgi.ModeDesc{Width: width, Height: height, Format: dxgi.FormatB8G8R8A8Unorm},
		SampleDesc:  dxgi.SampleDesc{Count: 1},
		BufferUsage: dxgi.UsageRenderTargetOutput,
		BufferCount: 2,
		Windowed:    true,
	})
	if err != nil {
		t.Fatalf("CreateSwapChain() = %v", err)
	}
	s.chain = sc.(*SwapChain)
	s.inner = s.chain.Original().(*software.SwapChain)

	t.Cleanup(func() {
		s.dev.Context().ClearState()
		s.chain.Release()
		s.factory.Release()
		s.traced.Release()
		s.dev.Release()
	})
	return s
}

func TestWrappedDeviceIsUnwrapped(t *testing.T) {
	// The software factory only accepts its own device type.
	plain := software.NewFactory()
	defer plain.Release()
	dev := software.NewDevice()
	defer dev.Release()
	traced := newTracedDevice(dev)
	defer traced.Release()
	if _, err := plain.CreateSwapChain(traced, &dxgi.SwapChainDesc{BufferCount: 1, BufferDesc: dxgi.ModeDesc{Format: dxgi.FormatR8G8B8A8Unorm}}); !errors.Is(err, dxgi.ErrInvalidCall) {
		t.Fatalf("software CreateSwapChain(wrapped) = %v, want ErrInvalidCall", err)
	}

	s := newStack(t, 64, 64)
	got, err := s.chain.GetDevice(com.IIDUnknown)
	if err != nil {
		t.Fatalf("GetDevice() = %v", err)
	}
	defer got.Release()
	if got != com.Unknown(s.traced) {
		t.Errorf("GetDevice() = %T, want the wrapped device the caller passed", got)
	}
}

func TestUnwrapIsOneHop(t *testing.T) {
	dev := software.NewDevice()
	defer dev.Release()
	inner := newTracedDevice(dev)
	defer inner.Release()
	outer := newTracedDevice(inner)
	defer outer.Release()

	f := NewFactory(nil, software.NewFactory(), WithOverlayDisabled())
	defer f.Release()
	_, err := f.CreateSwapChain(outer, &dxgi.SwapChainDesc{BufferCount: 1, BufferDesc: dxgi.ModeDesc{Format: dxgi.FormatR8G8B8A8Unorm}})
	if !errors.Is(err, dxgi.ErrInvalidCall) {
		t.Errorf("CreateSwapChain(two wrappers) = %v, want ErrInvalidCall", err)
	}
}

func TestOverlayReachesBackBuffer(t *testing.T) {
	s := newStack(t, 800, 600)

	if err := s.chain.Present(1, 0); err != nil {
		t.Fatalf("Present() = %v", err)
	}
	frame := s.inner.LastFrame()
	if frame == nil {
		t.Fatal("nothing presented")
	}

	painted := 0
	for y := 10; y < 30; y++ {
		for x := 10; x < 50; x++ {
			if c := frame.RGBAAt(x, y); c.R != 0 || c.G != 0 || c.B != 0 {
				painted++
			}
		}
	}
	if painted == 0 {
		t.Error("no overlay pixels near the window origin")
	}
	if c := frame.RGBAAt(700, 500); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("pixel far from the overlay = %v, want black", c)
	}
	if s.traced.views.Load() == 0 {
		t.Error("render target view was not created through the caller's device")
	}
}

func TestOcclusionPassesThrough(t *testing.T) {
	s := newStack(t, 64, 64)
	s.inner.SetOccluded(true)
	if err := s.chain.Present(0, 0); err != dxgi.StatusOccluded {
		t.Errorf("Present() = %v, want StatusOccluded", err)
	}
	s.inner.SetOccluded(false)
	if err := s.chain.Present(0, 0); err != nil {
		t.Errorf("Present() after occlusion = %v", err)
	}
}

func TestResizeAfterUnbind(t *testing.T) {
	s := newStack(t, 800, 600)
	if err := s.chain.Present(0, 0); err != nil {
		t.Fatalf("Present() = %v", err)
	}

	// The overlay leaves back buffer zero bound.
	if err := s.chain.ResizeBuffers(0, 320, 240, dxgi.FormatUnknown, 0); !errors.Is(err, dxgi.ErrInvalidCall) {
		t.Fatalf("ResizeBuffers() while bound = %v, want ErrInvalidCall", err)
	}

	s.dev.Context().ClearState()
	if err := s.chain.ResizeBuffers(0, 320, 240, dxgi.FormatUnknown, 0); err != nil {
		t.Fatalf("ResizeBuffers() = %v", err)
	}
	if err := s.chain.Present(0, 0); err != nil {
		t.Fatalf("Present() = %v", err)
	}
	if got := s.chain.Overlay().IO().DisplaySize; got != (overlay.Vec2{X: 320, Y: 240}) {
		t.Errorf("DisplaySize = %+v, want 320x240", got)
	}
	if b := s.inner.LastFrame().Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("presented frame = %v, want 320x240", b)
	}
}
