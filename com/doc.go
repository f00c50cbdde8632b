// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package com models the reference-counted, multi-interface object protocol
// used by DXGI and Direct3D, and provides the building blocks for transparent
// proxies over it.
//
// # Objects
//
// Every object implements [Unknown]: QueryInterface asks for another interface
// of the same object by [IID], AddRef and Release manage shared ownership. A
// successful QueryInterface hands the caller a new reference that must be
// released.
//
// # Proxies
//
// [Proxy] is embedded by types that interpose on an original object. It owns
// the original, answers capability queries from a flat table of interfaces
// the proxy implements itself, and delegates every other query to the
// original:
//
//	type tracedDevice struct {
//	    com.Proxy[d3d11.Device]
//	}
//
//	func newTracedDevice(orig d3d11.Device) *tracedDevice {
//	    d := &tracedDevice{}
//	    d.Bind(d, orig, []com.IID{d3d11.IIDDevice}, nil)
//	    return d
//	}
//
// Queries for interfaces the proxy does not implement return the original's
// own object. Proxies are never applied transitively.
//
// # Unwrapping
//
// Every proxy answers [IIDWrapperObject] with itself and implements
// [WrapperObject]. [Underlying] uses that marker to see through exactly one
// proxy layer before an argument is handed to an implementation that does
// not know about proxies.
package com
