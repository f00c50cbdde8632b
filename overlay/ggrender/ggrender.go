// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package ggrender is the overlay render backend built on the gg software
// rasteriser.
//
// The host owns the device; ggrender only borrows it. Each frame it reads
// the region of the bound render target the overlay covers into a
// CPU-readable staging texture, draws the overlay over those pixels with
// gg, and uploads the result back into the render target:
//
//	OMGetRenderTargets -> CopySubresourceRegion -> Map/Unmap
//	    -> gg.NewContextForImage + draw -> UpdateSubresource
//
// Importing the package registers the backend as [overlay.RendererGG].
package ggrender

import (
	"errors"
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggoverlay"
	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/d3d11"
	"github.com/gogpu/ggoverlay/dxgi"
	"github.com/gogpu/ggoverlay/overlay"
	"github.com/gogpu/gputypes"
)

func init() {
	overlay.RegisterRenderer(overlay.RendererGG, func() overlay.Renderer { return New() })
}

// ErrNoDevice is returned by Init when the device or its context is nil.
var ErrNoDevice = errors.New("ggrender: device and context are required")

// Renderer composites overlay draw data onto the render target bound on a
// D3D11 device context.
type Renderer struct {
	mu sync.Mutex

	dev d3d11.Device
	dc  d3d11.DeviceContext

	staging     d3d11.Texture2D
	stagingDesc d3d11.Texture2DDesc

	warned map[dxgi.Format]bool
	frames uint64
}

// New returns an uninitialised renderer.
func New() *Renderer {
	return &Renderer{warned: make(map[dxgi.Format]bool)}
}

// Init implements overlay.Renderer. The renderer keeps its own references
// to dev and dc until Shutdown.
func (r *Renderer) Init(dev d3d11.Device, dc d3d11.DeviceContext) error {
	if dev == nil || dc == nil {
		return ErrNoDevice
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.release()
	dev.AddRef()
	dc.AddRef()
	r.dev, r.dc = dev, dc
	return nil
}

// NewFrame implements overlay.Renderer.
func (r *Renderer) NewFrame() {
	r.mu.Lock()
	r.frames++
	r.mu.Unlock()
}

// Shutdown implements overlay.Renderer. It releases the staging texture,
// the context and the device.
func (r *Renderer) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.release()
}

func (r *Renderer) release() {
	com.SafeRelease(r.staging)
	com.SafeRelease(r.dc)
	com.SafeRelease(r.dev)
	r.staging, r.dc, r.dev = nil, nil, nil
	r.stagingDesc = d3d11.Texture2DDesc{}
}

// TextureFormat maps a render-target format to the texture format gg can
// draw into. It returns gputypes.TextureFormatUndefined for anything other
// than 8-bit RGBA or BGRA.
func TextureFormat(f dxgi.Format) gputypes.TextureFormat {
	switch f {
	case dxgi.FormatR8G8B8A8Unorm:
		return gputypes.TextureFormatRGBA8Unorm
	case dxgi.FormatR8G8B8A8UnormSRGB:
		return gputypes.TextureFormatRGBA8UnormSrgb
	case dxgi.FormatB8G8R8A8Unorm, dxgi.FormatB8G8R8X8Unorm:
		return gputypes.TextureFormatBGRA8Unorm
	case dxgi.FormatB8G8R8A8UnormSRGB:
		return gputypes.TextureFormatBGRA8UnormSrgb
	default:
		return gputypes.TextureFormatUndefined
	}
}

func isBGRA(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatBGRA8Unorm || f == gputypes.TextureFormatBGRA8UnormSrgb
}

// RenderDrawData implements overlay.Renderer.
func (r *Renderer) RenderDrawData(data *overlay.DrawData) {
	if data == nil || !data.Valid || data.TotalVtxCount == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dc == nil {
		return
	}

	views, dsv := r.dc.OMGetRenderTargets(1)
	com.SafeRelease(dsv)
	defer func() {
		for _, v := range views {
			com.SafeRelease(v)
		}
	}()
	if len(views) == 0 || views[0] == nil {
		ggoverlay.Logger().Debug("ggrender: no render target bound", "frame", data.FrameCount)
		return
	}

	res := views[0].GetResource()
	if res == nil {
		return
	}
	defer res.Release()
	target, err := com.As[d3d11.Texture2D](res, d3d11.IIDTexture2D)
	if err != nil {
		ggoverlay.Logger().Debug("ggrender: render target is not a 2D texture", "err", err)
		return
	}
	defer target.Release()

	desc := target.GetDesc()
	format := TextureFormat(desc.Format)
	if format == gputypes.TextureFormatUndefined {
		if !r.warned[desc.Format] {
			r.warned[desc.Format] = true
			ggoverlay.Logger().Warn("ggrender: unsupported render target format, overlay skipped",
				"format", desc.Format.String())
		}
		return
	}

	box, ok := pixelBox(data.Bounds(), desc.Width, desc.Height)
	if !ok {
		return
	}
	if err := r.composite(target, desc, format, box, data); err != nil {
		ggoverlay.Logger().Debug("ggrender: composite failed", "err", err, "frame", data.FrameCount)
	}
}

// pixelBox converts overlay bounds to a texel box inside a w×h texture.
func pixelBox(b overlay.Rect, w, h uint32) (d3d11.Box, bool) {
	left := clampTexel(math.Floor(b.Min.X), w)
	top := clampTexel(math.Floor(b.Min.Y), h)
	right := clampTexel(math.Ceil(b.Max.X), w)
	bottom := clampTexel(math.Ceil(b.Max.Y), h)
	box := d3d11.Box{Left: left, Top: top, Front: 0, Right: right, Bottom: bottom, Back: 1}
	return box, !box.Empty()
}

func clampTexel(v float64, limit uint32) uint32 {
	if v <= 0 {
		return 0
	}
	if v >= float64(limit) {
		return limit
	}
	return uint32(v)
}

func (r *Renderer) stagingFor(desc d3d11.Texture2DDesc) (d3d11.Texture2D, error) {
	if r.staging != nil &&
		r.stagingDesc.Width == desc.Width &&
		r.stagingDesc.Height == desc.Height &&
		r.stagingDesc.Format == desc.Format {
		return r.staging, nil
	}
	com.SafeRelease(r.staging)
	r.staging = nil

	sd := d3d11.Texture2DDesc{
		Width:          desc.Width,
		Height:         desc.Height,
		MipLevels:      1,
		ArraySize:      1,
		Format:         desc.Format,
		SampleDesc:     dxgi.SampleDesc{Count: 1},
		Usage:          d3d11.UsageStaging,
		CPUAccessFlags: d3d11.CPUAccessRead,
	}
	tex, err := r.dev.CreateTexture2D(&sd, nil)
	if err != nil {
		return nil, err
	}
	r.staging, r.stagingDesc = tex, sd
	ggoverlay.Logger().Debug("ggrender: staging texture created",
		"width", sd.Width, "height", sd.Height, "format", sd.Format.String())
	return tex, nil
}

func (r *Renderer) composite(target d3d11.Texture2D, desc d3d11.Texture2DDesc, format gputypes.TextureFormat, box d3d11.Box, data *overlay.DrawData) error {
	staging, err := r.stagingFor(desc)
	if err != nil {
		return err
	}
	r.dc.CopySubresourceRegion(staging, 0, box.Left, box.Top, 0, target, 0, &box)

	m, err := r.dc.Map(staging, 0, d3d11.MapRead, 0)
	if err != nil {
		return err
	}
	img := image.NewRGBA(image.Rect(0, 0, int(box.Width()), int(box.Height())))
	rowBytes := int(box.Width()) * 4
	for y := 0; y < int(box.Height()); y++ {
		src := int(box.Top+uint32(y))*int(m.RowPitch) + int(box.Left)*4
		copy(img.Pix[y*img.Stride:y*img.Stride+rowBytes], m.Data[src:src+rowBytes])
	}
	r.dc.Unmap(staging, 0)

	bgra := isBGRA(format)
	if bgra {
		swapRB(img.Pix)
	}
	setOpaque(img.Pix)

	out := drawCommands(img, box, data)
	if bgra {
		swapRB(out.Pix)
	}
	r.dc.UpdateSubresource(target, 0, &box, out.Pix, uint32(out.Stride), 0)
	return nil
}

// drawCommands draws data over img, which holds the pixels of box.
func drawCommands(img *image.RGBA, box d3d11.Box, data *overlay.DrawData) *image.RGBA {
	dc := gg.NewContextForImage(img)
	defer dc.Close()

	dc.Translate(-float64(box.Left), -float64(box.Top))
	if data.Face != nil {
		dc.SetFont(data.Face)
	}
	var ascent float64
	if data.Face != nil {
		ascent = data.Face.Metrics().Ascent
	}

	for _, l := range data.CmdLists {
		for _, cmd := range l.Cmds {
			dc.Push()
			dc.ClipRect(cmd.Clip.Min.X, cmd.Clip.Min.Y, cmd.Clip.Width(), cmd.Clip.Height())
			dc.SetRGBA(cmd.Color.R, cmd.Color.G, cmd.Color.B, cmd.Color.A)
			switch cmd.Kind {
			case overlay.CmdRectFilled:
				dc.DrawRectangle(cmd.Min.X, cmd.Min.Y, cmd.Max.X-cmd.Min.X, cmd.Max.Y-cmd.Min.Y)
				_ = dc.Fill()
			case overlay.CmdRect:
				h := cmd.Thickness / 2
				dc.SetLineWidth(cmd.Thickness)
				dc.DrawRectangle(cmd.Min.X+h, cmd.Min.Y+h, cmd.Max.X-cmd.Min.X-cmd.Thickness, cmd.Max.Y-cmd.Min.Y-cmd.Thickness)
				_ = dc.Stroke()
			case overlay.CmdLine:
				dc.SetLineWidth(cmd.Thickness)
				dc.DrawLine(cmd.Min.X, cmd.Min.Y, cmd.Max.X, cmd.Max.Y)
				_ = dc.Stroke()
			case overlay.CmdText:
				dc.DrawString(cmd.Text, cmd.Min.X, cmd.Min.Y+ascent)
			}
			dc.Pop()
		}
	}

	if rgba, ok := dc.Image().(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return out
}

// setOpaque forces full alpha. Back buffers are presented opaque whatever
// their alpha channel holds.
func setOpaque(pix []byte) {
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 0xff
	}
}

// swapRB swaps the red and blue channels of 8-bit four-channel pixels.
func swapRB(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
