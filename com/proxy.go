// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package com

// IIDWrapperObject marks objects that wrap an original and can hand it out
// through [WrapperObject]. It is private to this layer: the original API
// never answers it.
var IIDWrapperObject = MustIID("{B1A7E5C0-6F1D-4E8B-9C2A-7D3E5F10A2B4}")

// WrapperObject is implemented by every proxy.
type WrapperObject interface {
	Unknown

	// GetUnderlyingInterface queries the wrapped original for iid. It looks
	// through exactly one layer: an original that is itself a proxy is
	// returned as is.
	GetUnderlyingInterface(iid IID) (Unknown, error)
}

// Underlying returns the object wrapped by u, queried for iid, when u is a
// proxy. ok is false when u does not expose the wrapper marker or its
// original does not support iid. The result holds a new reference.
func Underlying(u Unknown, iid IID) (orig Unknown, ok bool) {
	w, err := As[WrapperObject](u, IIDWrapperObject)
	if err != nil {
		return nil, false
	}
	defer w.Release()

	orig, err = w.GetUnderlyingInterface(iid)
	if err != nil {
		return nil, false
	}
	return orig, true
}

// Proxy is the common part of every proxy over an original object of type T.
// Embed it by value and call Bind from the constructor before the proxy is
// shared.
//
// Proxy resolves capability queries in two steps: the proxy's own table
// first (IIDUnknown, IIDWrapperObject and the identifiers given to Bind, all
// answered with the outer object), then the original's QueryInterface, whose
// result is returned unchanged.
type Proxy[T Unknown] struct {
	refs  RefCount
	outer Unknown
	orig  T
	iids  []IID
	final func(releaseOriginal func())
}

// Bind initialises the proxy. outer is the object that embeds p and is
// returned from local capability queries. iids lists the interfaces outer
// implements besides IUnknown. final runs when the last reference is
// released and must call releaseOriginal exactly once; a nil final just
// releases the original. The proxy takes ownership of the caller's
// reference to orig.
func (p *Proxy[T]) Bind(outer Unknown, orig T, iids []IID, final func(releaseOriginal func())) {
	p.outer = outer
	p.orig = orig
	p.iids = iids
	p.final = final
}

// Original returns the wrapped object without adding a reference.
func (p *Proxy[T]) Original() T {
	return p.orig
}

// Implements reports whether the proxy answers iid itself.
func (p *Proxy[T]) Implements(iid IID) bool {
	return IsEqualIID(iid, IIDUnknown) ||
		IsEqualIID(iid, IIDWrapperObject) ||
		containsIID(p.iids, iid)
}

// QueryInterface implements Unknown.
func (p *Proxy[T]) QueryInterface(iid IID) (Unknown, error) {
	if p.Implements(iid) {
		p.refs.AddRef()
		return p.outer, nil
	}
	return p.orig.QueryInterface(iid)
}

// AddRef implements Unknown.
func (p *Proxy[T]) AddRef() uint32 {
	return p.refs.AddRef()
}

// Release implements Unknown. Dropping the last reference runs the final
// hook and releases the original.
func (p *Proxy[T]) Release() uint32 {
	n := p.refs.Release()
	if n == 0 {
		releaseOriginal := func() { p.orig.Release() }
		if p.final != nil {
			p.final(releaseOriginal)
		} else {
			releaseOriginal()
		}
	}
	return n
}

// GetUnderlyingInterface implements WrapperObject.
func (p *Proxy[T]) GetUnderlyingInterface(iid IID) (Unknown, error) {
	return p.orig.QueryInterface(iid)
}
