// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package proxy

import (
	"github.com/gogpu/ggoverlay/dxgi"
	"github.com/gogpu/ggoverlay/overlay"
)

// Option configures a Factory and the swap chains it creates.
type Option func(*options)

type options struct {
	overlay  overlay.Config
	draw     overlay.DrawFunc
	renderer overlay.RendererFactory
	platform func(desc *dxgi.SwapChainDesc) overlay.Platform
	disabled bool
}

func buildOptions(opts []Option) options {
	o := options{
		overlay:  overlay.DefaultConfig(),
		renderer: overlay.DefaultRenderer,
		platform: overlay.NewPlatform,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithOverlayConfig sets the overlay configuration of every swap chain.
func WithOverlayConfig(cfg overlay.Config) Option {
	return func(o *options) { o.overlay = cfg }
}

// WithDrawFunc sets the overlay content. The default is
// overlay.StatsWindow with the configured title.
func WithDrawFunc(fn overlay.DrawFunc) Option {
	return func(o *options) { o.draw = fn }
}

// WithRenderer selects the render backend. The default is
// overlay.DefaultRenderer, which needs a backend package such as ggrender
// to be imported. A factory returning nil leaves swap chains without a
// renderer.
func WithRenderer(factory overlay.RendererFactory) Option {
	return func(o *options) {
		if factory != nil {
			o.renderer = factory
		}
	}
}

// WithPlatform selects the platform backend. The default is
// overlay.NewPlatform.
func WithPlatform(fn func(desc *dxgi.SwapChainDesc) overlay.Platform) Option {
	return func(o *options) {
		if fn != nil {
			o.platform = fn
		}
	}
}

// WithOverlayDisabled makes swap chains plain pass-through proxies: they are
// still wrapped, but Present draws nothing.
func WithOverlayDisabled() Option {
	return func(o *options) { o.disabled = true }
}
