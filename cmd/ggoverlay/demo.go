package main

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"
	"github.com/spf13/cobra"

	"github.com/gogpu/ggoverlay"
	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/d3d11"
	"github.com/gogpu/ggoverlay/dxgi"
	"github.com/gogpu/ggoverlay/internal/config"
	"github.com/gogpu/ggoverlay/loader"
	"github.com/gogpu/ggoverlay/overlay"
	"github.com/gogpu/ggoverlay/overlay/ggrender"
	"github.com/gogpu/ggoverlay/proxy"
	"github.com/gogpu/ggoverlay/software"
)

var demoFlags struct {
	frames int
	output string
	width  uint32
	height uint32
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Render overlay frames on the software implementation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		f := cmd.Flags()
		if f.Changed("frames") {
			cfg.Demo.Frames = demoFlags.frames
		}
		if f.Changed("output") {
			cfg.Demo.Output = demoFlags.output
		}
		if f.Changed("width") {
			cfg.Demo.Width = demoFlags.width
		}
		if f.Changed("height") {
			cfg.Demo.Height = demoFlags.height
		}
		for _, err := range cfg.Validate() {
			ggoverlay.Logger().Warn("demo flags", "err", err)
		}
		return runDemo(cfg, cmd.OutOrStdout())
	},
}

func init() {
	f := demoCmd.Flags()
	f.IntVar(&demoFlags.frames, "frames", 3, "number of frames to present")
	f.StringVar(&demoFlags.output, "output", "frames", "directory for the presented PNG frames")
	f.Uint32Var(&demoFlags.width, "width", 800, "back buffer width")
	f.Uint32Var(&demoFlags.height, "height", 600, "back buffer height")
}

// proxyOptions translates the overlay section into factory proxy options.
func proxyOptions(cfg *config.Config) ([]proxy.Option, error) {
	opts := []proxy.Option{proxy.WithOverlayConfig(cfg.ToOverlay())}
	if !cfg.Overlay.Enabled {
		opts = append(opts, proxy.WithOverlayDisabled())
	}
	if name := cfg.Overlay.Renderer; name != "" {
		if !slices.Contains(overlay.AvailableRenderers(), name) {
			return nil, fmt.Errorf("unknown renderer %q (available: %v)", name, overlay.AvailableRenderers())
		}
		opts = append(opts, proxy.WithRenderer(func() overlay.Renderer { return overlay.NewRenderer(name) }))
	}
	return opts, nil
}

// runDemo presents cfg.Demo.Frames frames and writes each presented frame
// to cfg.Demo.Output. The written paths are printed to stdout.
func runDemo(cfg *config.Config, stdout io.Writer) error {
	log := ggoverlay.Logger()
	if err := os.MkdirAll(cfg.Demo.Output, 0o755); err != nil {
		return err
	}

	saved := 0
	save := func(sc *software.SwapChain, img *image.RGBA) error {
		path := filepath.Join(cfg.Demo.Output, fmt.Sprintf("frame-%03d.png", saved))
		dc := gg.NewContextForImage(img)
		defer dc.Close()
		if err := dc.SavePNG(path); err != nil {
			return err
		}
		saved++
		fmt.Fprintln(stdout, path)
		return nil
	}
	open := func(name string) (loader.Library, error) {
		log.Info("demo: using the software implementation", "library", name)
		return software.NewLibrary(
			software.WithPresentHandler(save),
			software.WithAdapterName("ggoverlay software adapter"),
		), nil
	}

	popts, err := proxyOptions(cfg)
	if err != nil {
		return err
	}
	u, err := loader.CreateFactory(dxgi.IIDFactory,
		loader.WithLibrary(cfg.Library),
		loader.WithOpener(open),
		loader.WithProxyOptions(popts...))
	if err != nil {
		return fmt.Errorf("create factory: %w", err)
	}
	defer u.Release()
	factory, ok := u.(dxgi.Factory)
	if !ok {
		return fmt.Errorf("create factory: %w", com.E_NOINTERFACE)
	}

	dev := software.NewDevice()
	defer dev.Release()
	traced := newTracedDevice(dev)
	defer traced.Release()

	desc := &dxgi.SwapChainDesc{
		BufferDesc:  dxgi.ModeDesc{Width: cfg.Demo.Width, Height: cfg.Demo.Height, Format: cfg.BufferFormat()},
		SampleDesc:  dxgi.SampleDesc{Count: 1},
		BufferUsage: dxgi.UsageRenderTargetOutput,
		BufferCount: 2,
		Windowed:    true,
		SwapEffect:  dxgi.SwapEffectFlipDiscard,
	}
	chain, err := factory.CreateSwapChain(traced, desc)
	if err != nil {
		return fmt.Errorf("create swap chain: %w", err)
	}
	defer chain.Release()

	w, h := int(desc.BufferDesc.Width), int(desc.BufferDesc.Height)
	scene := gg.NewContext(w, h)
	defer scene.Close()

	for i := range cfg.Demo.Frames {
		drawScene(scene, w, h, i)
		if err := upload(chain, traced, scene.Image(), desc.BufferDesc.Format); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := chain.Present(1, 0); com.Failed(err) {
			return fmt.Errorf("present frame %d: %w", i, err)
		}
	}
	// The overlay leaves its render target bound; unbind it before the
	// swap chain goes away.
	dev.Context().ClearState()

	log.Info("demo: done", "frames", saved, "views", traced.Views())
	return nil
}

// upload copies img into back buffer zero, converting to the buffer's
// channel order. Buffers in formats gg cannot produce are left untouched.
func upload(chain dxgi.SwapChain, dev d3d11.Device, img image.Image, format dxgi.Format) error {
	obj, err := chain.GetBuffer(0, d3d11.IIDTexture2D)
	if err != nil {
		return err
	}
	defer obj.Release()
	tex, ok := obj.(d3d11.Texture2D)
	if !ok {
		return com.E_NOINTERFACE
	}

	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	pix := slices.Clone(rgba.Pix)
	switch ggrender.TextureFormat(format) {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		for i := 0; i+3 < len(pix); i += 4 {
			pix[i], pix[i+2] = pix[i+2], pix[i]
		}
	case gputypes.TextureFormatUndefined:
		ggoverlay.Logger().Debug("demo: scene not uploaded", "format", format.String())
		return nil
	}

	dc := dev.GetImmediateContext()
	defer dc.Release()
	dc.UpdateSubresource(tex, 0, nil, pix, uint32(rgba.Stride), 0)
	return nil
}
