//go:build !windows

package overlay

import "github.com/gogpu/ggoverlay/dxgi"

// NewPlatform returns the platform backend for a swap chain described by
// desc. Without a window system it is a HeadlessPlatform sized from the
// back buffer.
func NewPlatform(desc *dxgi.SwapChainDesc) Platform {
	return NewHeadlessPlatform(descSize(desc))
}
