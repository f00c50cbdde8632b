// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package com

import "sync/atomic"

// Unknown is the base interface of every object.
type Unknown interface {
	// QueryInterface returns the object's implementation of iid. On success
	// the caller owns a new reference to the returned object. When the
	// object does not support iid it returns E_NOINTERFACE.
	QueryInterface(iid IID) (Unknown, error)

	// AddRef adds a reference and returns the new count.
	AddRef() uint32

	// Release drops a reference and returns the new count. The object is
	// destroyed when the count reaches zero.
	Release() uint32
}

// RefCount is an atomic reference count that starts at one.
// The zero value is ready to use.
type RefCount struct {
	released atomic.Int32
}

// AddRef increments the count and returns the new value.
func (r *RefCount) AddRef() uint32 {
	return uint32(1 - r.released.Add(-1))
}

// Release decrements the count and returns the new value.
// It panics when called on a count that already reached zero.
func (r *RefCount) Release() uint32 {
	n := 1 - r.released.Add(1)
	if n < 0 {
		panic("com: Release called on a destroyed object")
	}
	return uint32(n)
}

// Count returns the current value.
func (r *RefCount) Count() uint32 {
	n := 1 - r.released.Load()
	if n < 0 {
		return 0
	}
	return uint32(n)
}

// As queries u for iid and asserts the result to T. The returned value holds
// a new reference. A result that does not implement T is released and
// reported as E_NOINTERFACE.
func As[T Unknown](u Unknown, iid IID) (T, error) {
	var zero T
	if u == nil {
		return zero, E_POINTER
	}
	obj, err := u.QueryInterface(iid)
	if err != nil {
		return zero, err
	}
	t, ok := obj.(T)
	if !ok {
		obj.Release()
		return zero, E_NOINTERFACE
	}
	return t, nil
}

// SafeRelease releases u when it is non-nil.
func SafeRelease(u Unknown) {
	if u != nil {
		u.Release()
	}
}
