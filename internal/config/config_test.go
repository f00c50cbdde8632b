package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggoverlay/dxgi"
	"github.com/gogpu/ggoverlay/overlay"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ggoverlay.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("Default().Validate() = %v, want no errors", errs)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
overlay:
  title: HUD
  font_size: 18
  x: 20
demo:
  width: 320
  height: 200
  format: rgba-srgb
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
	if cfg.Overlay.Title != "HUD" || cfg.Overlay.FontSize != 18 || cfg.Overlay.X != 20 {
		t.Errorf("Overlay = %+v", cfg.Overlay)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Overlay.Y != Default().Overlay.Y || !cfg.Overlay.Enabled || cfg.Library != "dxgi" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Demo.Width != 320 || cfg.Demo.Height != 200 || cfg.Demo.Frames != Default().Demo.Frames {
		t.Errorf("Demo = %+v", cfg.Demo)
	}
	if got := cfg.BufferFormat(); got != dxgi.FormatR8G8B8A8UnormSRGB {
		t.Errorf("BufferFormat() = %v, want %v", got, dxgi.FormatR8G8B8A8UnormSRGB)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GGOVERLAY_OVERLAY_TITLE", "from-env")
	t.Setenv("GGOVERLAY_DEMO_FRAMES", "7")

	cfg, err := Load(writeConfig(t, "overlay:\n  title: from-file\n"))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Overlay.Title != "from-env" {
		t.Errorf("Overlay.Title = %q, want from-env", cfg.Overlay.Title)
	}
	if cfg.Demo.Frames != 7 {
		t.Errorf("Demo.Frames = %d, want 7", cfg.Demo.Frames)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) succeeded")
	}
}

func TestLoadMalformed(t *testing.T) {
	if _, err := Load(writeConfig(t, "overlay: [unclosed\n")); err == nil {
		t.Error("Load(malformed) succeeded")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
		check  func(*Config) bool
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level", nil},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format", nil},
		{"library", func(c *Config) { c.Library = "" }, "library", nil},
		{"small font", func(c *Config) { c.Overlay.FontSize = 1 }, "font_size",
			func(c *Config) bool { return c.Overlay.FontSize == minFontSize }},
		{"large font", func(c *Config) { c.Overlay.FontSize = 500 }, "font_size",
			func(c *Config) bool { return c.Overlay.FontSize == maxFontSize }},
		{"negative position", func(c *Config) { c.Overlay.X = -5 }, "position",
			func(c *Config) bool { return c.Overlay.X == 0 }},
		{"accent", func(c *Config) { c.Overlay.Accent = "blue" }, "accent", nil},
		{"zero width", func(c *Config) { c.Demo.Width = 0 }, "demo.width",
			func(c *Config) bool { return c.Demo.Width == 1 }},
		{"frames", func(c *Config) { c.Demo.Frames = 5000 }, "demo.frames",
			func(c *Config) bool { return c.Demo.Frames == maxFrames }},
		{"format", func(c *Config) { c.Demo.Format = "yuv" }, "demo.format", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) != 1 || !strings.Contains(errs[0].Error(), tt.want) {
				t.Fatalf("Validate() = %v, want one error mentioning %q", errs, tt.want)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("value not clamped: %+v", cfg)
			}
		})
	}
}

func TestToOverlay(t *testing.T) {
	cfg := Default()
	cfg.Overlay.Title = "HUD"
	cfg.Overlay.X, cfg.Overlay.Y = 4, 6
	cfg.Overlay.Accent = "#ff0000"

	o := cfg.ToOverlay()
	if o.Title != "HUD" || o.Position != (overlay.Vec2{X: 4, Y: 6}) {
		t.Errorf("ToOverlay() = %+v", o)
	}
	if o.Style.Accent != gg.Hex("#ff0000") {
		t.Errorf("Accent = %+v, want red", o.Style.Accent)
	}
	if o.Style.WindowBg != overlay.DefaultStyle().WindowBg {
		t.Error("default style not kept")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "debug"

	l := cfg.NewLogger(&buf)
	l.Debug("hello", "k", 1)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output %q is not JSON: %v", buf.String(), err)
	}
	if rec["msg"] != "hello" || rec["level"] != "DEBUG" {
		t.Errorf("record = %v", rec)
	}

	buf.Reset()
	cfg.Log.Format = "text"
	cfg.Log.Level = "warn"
	l = cfg.NewLogger(&buf)
	l.Info("hidden")
	l.Warn("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "msg=shown") {
		t.Errorf("text output = %q", out)
	}
}
