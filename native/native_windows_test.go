// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package native

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/d3d11"
	"github.com/gogpu/ggoverlay/dxgi"
)

func TestRawLayouts(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("layouts checked on 64-bit only")
	}
	tests := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"DXGI_MODE_DESC", unsafe.Sizeof(dxgi.ModeDesc{}), 28},
		{"DXGI_SWAP_CHAIN_DESC", unsafe.Sizeof(rawSwapChainDesc{}), 72},
		{"DXGI_ADAPTER_DESC", unsafe.Sizeof(rawAdapterDesc{}), 304},
		{"DXGI_OUTPUT_DESC", unsafe.Sizeof(rawOutputDesc{}), 96},
		{"DXGI_FRAME_STATISTICS", unsafe.Sizeof(dxgi.FrameStatistics{}), 32},
		{"D3D11_TEXTURE2D_DESC", unsafe.Sizeof(d3d11.Texture2DDesc{}), 44},
		{"D3D11_BOX", unsafe.Sizeof(d3d11.Box{}), 24},
		{"D3D11_RENDER_TARGET_VIEW_DESC", unsafe.Sizeof(rawRenderTargetViewDesc{}), 20},
		{"D3D11_SUBRESOURCE_DATA", unsafe.Sizeof(rawSubresourceData{}), 16},
		{"D3D11_MAPPED_SUBRESOURCE", unsafe.Sizeof(rawMappedSubresource{}), 16},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("sizeof(%s) = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestSwapChainDescRoundTrip(t *testing.T) {
	in := dxgi.SwapChainDesc{
		BufferDesc:   dxgi.ModeDesc{Width: 640, Height: 480, Format: dxgi.FormatB8G8R8A8Unorm},
		SampleDesc:   dxgi.SampleDesc{Count: 1},
		BufferUsage:  dxgi.UsageRenderTargetOutput,
		BufferCount:  2,
		OutputWindow: 0x1234,
		Windowed:     true,
		SwapEffect:   dxgi.SwapEffectFlipDiscard,
	}
	raw := toRawSwapChainDesc(&in)
	if raw.Windowed != 1 {
		t.Errorf("Windowed = %d, want 1", raw.Windowed)
	}
	if got := raw.desc(); got != in {
		t.Errorf("desc() = %+v, want %+v", got, in)
	}
}

func TestForeignObjectsRejected(t *testing.T) {
	f := &Factory{}
	if _, err := f.CreateSwapChain(nil, &dxgi.SwapChainDesc{}); !errors.Is(err, dxgi.ErrInvalidCall) {
		t.Errorf("CreateSwapChain(nil) = %v, want ErrInvalidCall", err)
	}
	if _, ok := rawOf(foreign{}); ok {
		t.Error("rawOf accepted a non-native object")
	}
	d := &Device{}
	if _, err := d.CreateRenderTargetView(nil, nil); !errors.Is(err, com.E_INVALIDARG) {
		t.Errorf("CreateRenderTargetView(nil) = %v, want E_INVALIDARG", err)
	}
}

type foreign struct{}

func (foreign) QueryInterface(com.IID) (com.Unknown, error) { return nil, com.E_NOINTERFACE }
func (foreign) AddRef() uint32                              { return 1 }
func (foreign) Release() uint32                             { return 1 }

func TestFactoryFromSystemLibrary(t *testing.T) {
	lib, err := Open("dxgi")
	if err != nil {
		t.Skipf("dxgi unavailable: %v", err)
	}
	defer lib.Close()

	create, err := lib.Lookup("CreateDXGIFactory")
	if err != nil {
		t.Fatalf("Lookup() = %v", err)
	}
	f, err := create(dxgi.IIDFactory)
	if err != nil {
		t.Skipf("CreateDXGIFactory: %v", err)
	}
	defer f.Release()

	obj, err := f.QueryInterface(dxgi.IIDFactory)
	if err != nil {
		t.Fatalf("QueryInterface(IIDFactory) = %v", err)
	}
	defer obj.Release()
	if _, ok := obj.(*Factory); !ok {
		t.Errorf("QueryInterface(IIDFactory) = %T, want *Factory", obj)
	}

	if _, err := lib.Lookup("NoSuchProc"); err == nil {
		t.Error("Lookup(NoSuchProc) succeeded")
	}
}
