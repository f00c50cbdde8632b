// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native binds the dxgi and d3d11 contracts to the real Windows
// COM objects. Calls go straight through each object's vtable with
// syscall.SyscallN; no cgo is involved.
//
// Every wrapper holds exactly the reference it was created with.
// QueryInterface and the methods that return objects create new wrappers,
// so two wrappers of the same native object are distinct Go values.
//
// Objects that were not produced by this package cannot be passed to
// native methods: a swap chain device, fullscreen output or view that is
// not a native wrapper fails with dxgi.ErrInvalidCall or is ignored where
// the method has no result. On platforms other than Windows the package is
// empty.
package native
