//go:build windows

package overlay

import (
	"unsafe"

	"github.com/gogpu/ggoverlay/dxgi"
	"golang.org/x/sys/windows"
)

var (
	modUser32         = windows.NewLazySystemDLL("user32.dll")
	procGetClientRect = modUser32.NewProc("GetClientRect")
)

// win32Platform reports the client area of the output window, falling back
// to the back-buffer size when the window cannot be queried.
type win32Platform struct {
	*HeadlessPlatform
}

// NewPlatform returns the platform backend for a swap chain described by
// desc: the client area of desc.OutputWindow.
func NewPlatform(desc *dxgi.SwapChainDesc) Platform {
	return &win32Platform{HeadlessPlatform: NewHeadlessPlatform(descSize(desc))}
}

func (p *win32Platform) NewFrame(io *IO) {
	p.HeadlessPlatform.NewFrame(io)
	if w, h, ok := clientSize(p.Window()); ok {
		io.DisplaySize = Vec2{X: float64(w), Y: float64(h)}
	}
}

func clientSize(hwnd dxgi.HWND) (int32, int32, bool) {
	if hwnd == 0 {
		return 0, 0, false
	}
	var rc windows.Rect
	r, _, _ := procGetClientRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&rc)))
	if r == 0 || rc.Right <= rc.Left || rc.Bottom <= rc.Top {
		return 0, 0, false
	}
	return rc.Right - rc.Left, rc.Bottom - rc.Top, true
}
