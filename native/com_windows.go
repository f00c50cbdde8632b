// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package native

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"

	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/d3d11"
	"github.com/gogpu/ggoverlay/dxgi"
)

// maxMethods bounds vtable indexing; ID3D11DeviceContext is the widest
// interface used here.
const maxMethods = 128

// comCall invokes vtable method index on obj with obj as the implicit
// first argument.
func comCall(obj *ole.IUnknown, index int, args ...uintptr) uintptr {
	table := (*[maxMethods]uintptr)(unsafe.Pointer(obj.RawVTable))
	all := make([]uintptr, 0, 1+len(args))
	all = append(all, uintptr(unsafe.Pointer(obj)))
	all = append(all, args...)
	ret, _, _ := syscall.SyscallN(table[index], all...)
	return ret
}

// hresult converts a returned HRESULT to an error. S_OK is nil; success
// statuses are returned as non-nil values that com.Succeeded accepts.
func hresult(ret uintptr) error {
	if hr := com.HRESULT(uint32(ret)); hr != com.S_OK {
		return hr
	}
	return nil
}

// resultOf maps a go-ole error to its HRESULT.
func resultOf(err error) error {
	var oe *ole.OleError
	if errors.As(err, &oe) {
		return com.HRESULT(uint32(oe.Code()))
	}
	return com.E_FAIL
}

func boolArg(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}

// nativeObject is implemented by every wrapper in this package.
type nativeObject interface {
	IUnknown() *ole.IUnknown
}

// rawOf returns the native pointer behind u.
func rawOf(u com.Unknown) (*ole.IUnknown, bool) {
	if u == nil {
		return nil, false
	}
	n, ok := u.(nativeObject)
	if !ok || n.IUnknown() == nil {
		return nil, false
	}
	return n.IUnknown(), true
}

// Unknown wraps a native IUnknown pointer.
type Unknown struct {
	unk *ole.IUnknown
}

// IUnknown returns the native pointer without adding a reference.
func (u *Unknown) IUnknown() *ole.IUnknown { return u.unk }

// AddRef implements com.Unknown.
func (u *Unknown) AddRef() uint32 { return uint32(u.unk.AddRef()) }

// Release implements com.Unknown.
func (u *Unknown) Release() uint32 { return uint32(u.unk.Release()) }

// QueryInterface implements com.Unknown. The result is wrapped in the type
// matching iid.
func (u *Unknown) QueryInterface(iid com.IID) (com.Unknown, error) {
	disp, err := u.unk.QueryInterface(&iid)
	if err != nil {
		return nil, resultOf(err)
	}
	return wrap(&disp.IUnknown, iid), nil
}

func wrap(unk *ole.IUnknown, iid com.IID) com.Unknown {
	u := Unknown{unk: unk}
	switch {
	case com.IsEqualIID(iid, dxgi.IIDFactory):
		return &Factory{Object{u}}
	case com.IsEqualIID(iid, dxgi.IIDAdapter):
		return &Adapter{Object{u}}
	case com.IsEqualIID(iid, dxgi.IIDOutput):
		return &Output{Object{u}}
	case com.IsEqualIID(iid, dxgi.IIDSwapChain):
		return &SwapChain{Object{u}}
	case com.IsEqualIID(iid, dxgi.IIDObject), com.IsEqualIID(iid, dxgi.IIDDeviceSubObject):
		return &Object{u}
	case com.IsEqualIID(iid, d3d11.IIDDevice):
		return &Device{u}
	case com.IsEqualIID(iid, d3d11.IIDDeviceContext):
		return &DeviceContext{DeviceChild{u}}
	case com.IsEqualIID(iid, d3d11.IIDTexture2D):
		return &Texture2D{Resource{DeviceChild{u}}}
	case com.IsEqualIID(iid, d3d11.IIDResource):
		return &Resource{DeviceChild{u}}
	case com.IsEqualIID(iid, d3d11.IIDView),
		com.IsEqualIID(iid, d3d11.IIDRenderTargetView),
		com.IsEqualIID(iid, d3d11.IIDDepthStencilView):
		return &View{DeviceChild{u}}
	case com.IsEqualIID(iid, d3d11.IIDDeviceChild):
		return &DeviceChild{u}
	default:
		return &u
	}
}

// Library is a graphics DLL loaded from the system directory.
type Library struct {
	name   string
	handle windows.Handle
}

// Open loads the system library name, "dxgi" for instance.
func Open(name string) (*Library, error) {
	h, err := windows.LoadLibraryEx(name+".dll", 0, windows.LOAD_LIBRARY_SEARCH_SYSTEM32)
	if err != nil {
		return nil, fmt.Errorf("native: load %s: %w", name, err)
	}
	return &Library{name: name, handle: h}, nil
}

// Lookup resolves a CreateDXGIFactory-style entry point exported as proc.
func (l *Library) Lookup(proc string) (dxgi.CreateFactoryFunc, error) {
	if l.handle == 0 {
		return nil, fmt.Errorf("native: %s is closed", l.name)
	}
	addr, err := windows.GetProcAddress(l.handle, proc)
	if err != nil {
		return nil, fmt.Errorf("native: %s!%s: %w", l.name, proc, err)
	}
	return func(iid com.IID) (dxgi.Factory, error) {
		var out *ole.IUnknown
		ret, _, _ := syscall.SyscallN(addr, uintptr(unsafe.Pointer(&iid)), uintptr(unsafe.Pointer(&out)))
		if err := hresult(ret); com.Failed(err) || out == nil {
			if err == nil {
				err = com.E_POINTER
			}
			return nil, err
		}
		return &Factory{Object{Unknown{unk: out}}}, nil
	}, nil
}

// Close unloads the library.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := windows.FreeLibrary(l.handle)
	l.handle = 0
	return err
}
