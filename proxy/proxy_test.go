// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package proxy

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/dxgi"
	"github.com/gogpu/ggoverlay/overlay"
)

type harness struct {
	log     *callLog
	orig    *fakeFactory
	dev     *fakeDevice
	factory *Factory
	chain   *SwapChain
}

func drawNothing(*overlay.Frame) {}

// refs returns the reference count of u without changing it.
func refs(u com.Unknown) uint32 {
	u.AddRef()
	return u.Release()
}

func drawSquare(f *overlay.Frame) {
	f.ForegroundDrawList().AddRectFilled(overlay.Vec2{X: 1, Y: 1}, overlay.Vec2{X: 9, Y: 9}, gg.White)
}

func newHarness(t *testing.T, draw overlay.DrawFunc, opts ...Option) *harness {
	t.Helper()
	h := &harness{log: &callLog{}}
	h.orig = newFakeFactory(h.log)
	h.dev = newFakeDevice(h.log)

	base := []Option{
		WithDrawFunc(draw),
		WithPlatform(func(*dxgi.SwapChainDesc) overlay.Platform { return &recPlatform{log: h.log} }),
		WithRenderer(func() overlay.Renderer { return &recRenderer{log: h.log} }),
	}
	h.factory = NewFactory(recCloser{log: h.log}, h.orig, append(base, opts...)...)

	sc, err := h.factory.CreateSwapChain(h.dev, &dxgi.SwapChainDesc{BufferCount: 1})
	if err != nil {
		t.Fatalf("CreateSwapChain() = %v", err)
	}
	h.chain = sc.(*SwapChain)
	h.log.reset()
	return h
}

func TestCapabilityQueries(t *testing.T) {
	h := newHarness(t, drawNothing)

	tests := []struct {
		name string
		obj  com.Unknown
		iid  com.IID
		want com.Unknown
	}{
		{"factory IUnknown", h.factory, com.IIDUnknown, h.factory},
		{"factory IDXGIObject", h.factory, dxgi.IIDObject, h.factory},
		{"factory IDXGIFactory", h.factory, dxgi.IIDFactory, h.factory},
		{"factory wrapper marker", h.factory, com.IIDWrapperObject, h.factory},
		{"factory delegated", h.factory, iidFactory1, h.orig},
		{"swap chain IUnknown", h.chain, com.IIDUnknown, h.chain},
		{"swap chain IDXGIDeviceSubObject", h.chain, dxgi.IIDDeviceSubObject, h.chain},
		{"swap chain IDXGISwapChain", h.chain, dxgi.IIDSwapChain, h.chain},
		{"swap chain wrapper marker", h.chain, com.IIDWrapperObject, h.chain},
		{"swap chain delegated", h.chain, iidSwapChain1, h.orig.chain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.obj.QueryInterface(tt.iid)
			if err != nil {
				t.Fatalf("QueryInterface() = %v", err)
			}
			defer got.Release()
			if got != tt.want {
				t.Errorf("QueryInterface() = %T %p, want %T %p", got, got, tt.want, tt.want)
			}
		})
	}

	unknown := com.MustIID("{DEADBEEF-0000-0000-0000-000000000000}")
	if _, err := h.chain.QueryInterface(unknown); !errors.Is(err, com.E_NOINTERFACE) {
		t.Errorf("QueryInterface(unknown) = %v, want E_NOINTERFACE", err)
	}
}

func TestCreateSwapChainNilArguments(t *testing.T) {
	log := &callLog{}
	orig := newFakeFactory(log)
	f := NewFactory(nil, orig)
	defer f.Release()

	tests := []struct {
		name   string
		device com.Unknown
		desc   *dxgi.SwapChainDesc
	}{
		{"nil device", nil, &dxgi.SwapChainDesc{}},
		{"nil desc", newFakeDevice(log), nil},
		{"both nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := f.CreateSwapChain(tt.device, tt.desc)
			if !errors.Is(err, dxgi.ErrInvalidCall) || sc != nil {
				t.Errorf("CreateSwapChain() = %v, %v; want nil, ErrInvalidCall", sc, err)
			}
		})
	}
	if log.has("factory.CreateSwapChain") {
		t.Error("original factory was called")
	}
}

func TestCreateSwapChainFailure(t *testing.T) {
	log := &callLog{}
	orig := newFakeFactory(log)
	orig.createErr = dxgi.ErrUnsupported
	f := NewFactory(nil, orig)
	defer f.Release()
	dev := newFakeDevice(log)

	sc, err := f.CreateSwapChain(dev, &dxgi.SwapChainDesc{})
	if !errors.Is(err, dxgi.ErrUnsupported) || sc != nil {
		t.Errorf("CreateSwapChain() = %v, %v; want nil, ErrUnsupported", sc, err)
	}
	if refs(f) != 1 || dev.Count() != 1 {
		t.Errorf("refs after failure: factory=%d device=%d, want 1 and 1", refs(f), dev.Count())
	}
}

func TestCreateSwapChainNilResult(t *testing.T) {
	for _, status := range []error{nil, dxgi.StatusOccluded} {
		name := "S_OK"
		if status != nil {
			name = status.Error()
		}
		t.Run(name, func(t *testing.T) {
			log := &callLog{}
			orig := newFakeFactory(log)
			orig.createErr = status
			orig.nilChain = true
			f := NewFactory(nil, orig)
			defer f.Release()

			sc, err := f.CreateSwapChain(newFakeDevice(log), &dxgi.SwapChainDesc{})
			if sc != nil || !errors.Is(err, com.E_POINTER) {
				t.Errorf("CreateSwapChain() = %v, %v; want nil, E_POINTER", sc, err)
			}
		})
	}
}

func TestCreateSwapChainPassesPlainDevice(t *testing.T) {
	h := newHarness(t, drawNothing)
	if len(h.orig.devices) != 1 || h.orig.devices[0] != com.Unknown(h.dev) {
		t.Errorf("original received %v, want the caller's device", h.orig.devices)
	}
}

func TestGetParentIdentity(t *testing.T) {
	h := newHarness(t, drawNothing)

	parent, err := h.chain.GetParent(dxgi.IIDFactory)
	if err != nil {
		t.Fatalf("GetParent() = %v", err)
	}
	defer parent.Release()
	if parent != com.Unknown(h.factory) {
		t.Errorf("GetParent() = %T, want the factory proxy", parent)
	}

	h.orig.parentErr = dxgi.ErrNotFound
	if _, err := h.factory.GetParent(dxgi.IIDFactory); !errors.Is(err, dxgi.ErrNotFound) {
		t.Errorf("factory GetParent() = %v, want the original's result", err)
	}
}

func TestGetDeviceReturnsCallerObject(t *testing.T) {
	h := newHarness(t, drawNothing)
	dev, err := h.chain.GetDevice(com.IIDUnknown)
	if err != nil {
		t.Fatalf("GetDevice() = %v", err)
	}
	defer dev.Release()
	if dev != com.Unknown(h.dev) {
		t.Errorf("GetDevice() = %T, want the caller's device", dev)
	}
}

func TestPresentEmptyFrame(t *testing.T) {
	h := newHarness(t, drawNothing)

	if err := h.chain.Present(1, 0); err != nil {
		t.Fatalf("Present() = %v", err)
	}
	want := []string{
		"renderer.RenderDrawData",
		"swapchain.Present",
		"renderer.NewFrame",
		"platform.NewFrame",
	}
	if got := h.log.list(); !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestPresentBindsBackBuffer(t *testing.T) {
	h := newHarness(t, drawSquare)

	if err := h.chain.Present(1, 0); err != nil {
		t.Fatalf("Present() = %v", err)
	}
	want := []string{
		"swapchain.GetBuffer",
		"device.CreateRenderTargetView",
		"context.OMSetRenderTargets",
		"view.final",
		"renderer.RenderDrawData",
		"swapchain.Present",
		"renderer.NewFrame",
		"platform.NewFrame",
	}
	if got := h.log.list(); !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
	if h.orig.chain.buffer.Count() != 1 {
		t.Errorf("back buffer refs = %d, want 1", h.orig.chain.buffer.Count())
	}
}

func TestPresentSkipsBindOnFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *harness)
	}{
		{"GetBuffer", func(h *harness) { h.orig.chain.bufferErr = dxgi.ErrInvalidCall }},
		{"CreateRenderTargetView", func(h *harness) { h.dev.viewErr = com.E_INVALIDARG }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, drawSquare)
			tt.setup(h)
			if err := h.chain.Present(0, 0); err != nil {
				t.Fatalf("Present() = %v", err)
			}
			calls := h.log.list()
			if slices.Contains(calls, "context.OMSetRenderTargets") {
				t.Error("render target bound after a failure")
			}
			if !slices.Contains(calls, "swapchain.Present") || !slices.Contains(calls, "renderer.RenderDrawData") {
				t.Errorf("calls = %v, want render and present to proceed", calls)
			}
		})
	}
}

func TestPresentResultUnchanged(t *testing.T) {
	for _, want := range []error{dxgi.ErrDeviceRemoved, dxgi.StatusOccluded} {
		t.Run(want.Error(), func(t *testing.T) {
			h := newHarness(t, drawNothing)
			h.orig.chain.presentErr = want

			if err := h.chain.Present(1, 0); err != want {
				t.Errorf("Present() = %v, want %v", err, want)
			}
			if !h.log.has("platform.NewFrame") {
				t.Error("no new overlay frame after Present")
			}
			if d := h.chain.Overlay().Render(); !d.Valid {
				t.Error("overlay is not inside a frame after Present")
			}
		})
	}
}

func TestDrawFuncQueriesOverlay(t *testing.T) {
	var (
		h    *harness
		seen overlay.IO
	)
	h = newHarness(t, func(f *overlay.Frame) {
		seen = h.chain.Overlay().IO()
		drawSquare(f)
	})

	done := make(chan error, 1)
	go func() { done <- h.chain.Present(0, 0) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Present() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Present() did not return")
	}
	if seen.FrameCount != 1 {
		t.Errorf("IO().FrameCount inside DrawFunc = %d, want 1", seen.FrameCount)
	}
	if !h.log.has("renderer.RenderDrawData") {
		t.Error("overlay was not rendered")
	}
}

func TestDestructionOrder(t *testing.T) {
	for _, presents := range []int{0, 3} {
		h := newHarness(t, drawSquare)
		for range presents {
			_ = h.chain.Present(0, 0)
		}
		h.log.reset()

		if n := h.chain.Release(); n != 0 {
			t.Fatalf("Release() = %d, want 0", n)
		}
		want := []string{"renderer.Shutdown", "platform.Shutdown", "swapchain.final"}
		if got := h.log.list(); !slices.Equal(got, want) {
			t.Errorf("%d presents: teardown = %v, want %v", presents, got, want)
		}
		if refs(h.factory) != 1 || h.dev.Count() != 1 {
			t.Errorf("%d presents: refs factory=%d device=%d, want 1 and 1", presents, refs(h.factory), h.dev.Count())
		}

		h.log.reset()
		h.factory.Release()
		if got, want := h.log.list(), []string{"factory.final", "module.Close"}; !slices.Equal(got, want) {
			t.Errorf("factory teardown = %v, want %v", got, want)
		}
	}
}

func TestSwapChainKeepsFactoryAlive(t *testing.T) {
	h := newHarness(t, drawNothing)
	h.factory.Release()
	if h.log.has("factory.final") {
		t.Fatal("factory released while a swap chain holds it")
	}
	h.chain.Release()
	if got := h.log.list(); !slices.Contains(got, "module.Close") {
		t.Errorf("calls = %v, want the module closed after the last swap chain", got)
	}
}

func TestOverlayDisabled(t *testing.T) {
	h := newHarness(t, drawSquare, WithOverlayDisabled())
	if h.chain.Overlay() != nil {
		t.Fatal("Overlay() != nil with the overlay disabled")
	}
	if err := h.chain.Present(0, 0); err != nil {
		t.Fatalf("Present() = %v", err)
	}
	if got, want := h.log.list(), []string{"swapchain.Present"}; !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestRendererInitFailureKeepsSequence(t *testing.T) {
	log := &callLog{}
	f := NewFactory(nil, newFakeFactory(log),
		WithDrawFunc(drawNothing),
		WithPlatform(func(*dxgi.SwapChainDesc) overlay.Platform { return &recPlatform{log: log} }),
		WithRenderer(func() overlay.Renderer { return &recRenderer{log: log, initErr: errors.New("boom")} }),
	)
	defer f.Release()
	dev := newFakeDevice(log)
	sc, err := f.CreateSwapChain(dev, &dxgi.SwapChainDesc{BufferCount: 1})
	if err != nil {
		t.Fatalf("CreateSwapChain() = %v", err)
	}
	want := []string{"factory.CreateSwapChain", "platform.Init", "renderer.Init", "renderer.NewFrame", "platform.NewFrame"}
	if got := log.list(); !slices.Equal(got, want) {
		t.Errorf("construction calls = %v, want %v", got, want)
	}
	sc.Release()
}

func TestNonD3D11DeviceHasNoRenderer(t *testing.T) {
	log := &callLog{}
	f := NewFactory(nil, newFakeFactory(log),
		WithPlatform(func(*dxgi.SwapChainDesc) overlay.Platform { return &recPlatform{log: log} }),
		WithRenderer(func() overlay.Renderer { return &recRenderer{log: log} }),
	)
	defer f.Release()

	// A swap chain device that only answers IUnknown.
	plain := &fakeObject{log: log, name: "plain"}
	plain.self = plain
	sc, err := f.CreateSwapChain(plain, &dxgi.SwapChainDesc{BufferCount: 1})
	if err != nil {
		t.Fatalf("CreateSwapChain() = %v", err)
	}
	defer sc.Release()
	if sc.(*SwapChain).Overlay().HasRenderer() {
		t.Error("renderer attached for a device without a D3D11 interface")
	}
	if log.has("renderer.Init") {
		t.Error("renderer initialised without a device")
	}
}

func TestResizeBuffersUpdatesPlatform(t *testing.T) {
	log := &callLog{}
	platform := overlay.NewHeadlessPlatform(10, 10)
	f := NewFactory(nil, newFakeFactory(log),
		WithDrawFunc(drawNothing),
		WithPlatform(func(*dxgi.SwapChainDesc) overlay.Platform { return platform }),
		WithRenderer(func() overlay.Renderer { return nil }),
	)
	defer f.Release()
	sc, _ := f.CreateSwapChain(newFakeDevice(log), &dxgi.SwapChainDesc{BufferCount: 1})
	defer sc.Release()

	if err := sc.ResizeBuffers(0, 320, 240, dxgi.FormatUnknown, 0); err != nil {
		t.Fatalf("ResizeBuffers() = %v", err)
	}
	_ = sc.Present(0, 0)
	if got := sc.(*SwapChain).Overlay().IO().DisplaySize; got != (overlay.Vec2{X: 320, Y: 240}) {
		t.Errorf("DisplaySize = %+v, want 320x240", got)
	}
}
