// Package config loads the ggoverlay command configuration from a YAML
// file and GGOVERLAY_ environment variables.
package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggoverlay/dxgi"
	"github.com/gogpu/ggoverlay/overlay"
)

// FileName is the configuration file searched for without --config.
const FileName = "ggoverlay"

// EnvPrefix prefixes environment overrides, e.g. GGOVERLAY_LOG_LEVEL.
const EnvPrefix = "GGOVERLAY"

// Config is the command configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Library string        `mapstructure:"library" yaml:"library"`
	Overlay OverlayConfig `mapstructure:"overlay" yaml:"overlay"`
	Demo    DemoConfig    `mapstructure:"demo" yaml:"demo"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// OverlayConfig configures the overlay drawn on every swap chain.
type OverlayConfig struct {
	Enabled  bool    `mapstructure:"enabled" yaml:"enabled"`
	Renderer string  `mapstructure:"renderer" yaml:"renderer"`
	Title    string  `mapstructure:"title" yaml:"title"`
	FontSize float64 `mapstructure:"font_size" yaml:"font_size"`
	X        float64 `mapstructure:"x" yaml:"x"`
	Y        float64 `mapstructure:"y" yaml:"y"`
	Accent   string  `mapstructure:"accent" yaml:"accent"`
}

// DemoConfig configures the demo command.
type DemoConfig struct {
	Width  uint32 `mapstructure:"width" yaml:"width"`
	Height uint32 `mapstructure:"height" yaml:"height"`
	Frames int    `mapstructure:"frames" yaml:"frames"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// Default returns the built-in configuration.
func Default() *Config {
	o := overlay.DefaultConfig()
	return &Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Library: "dxgi",
		Overlay: OverlayConfig{
			Enabled:  true,
			Title:    o.Title,
			FontSize: o.FontSize,
			X:        o.Position.X,
			Y:        o.Position.Y,
			Accent:   "#4296fa",
		},
		Demo: DemoConfig{
			Width:  800,
			Height: 600,
			Frames: 3,
			Format: "bgra",
			Output: "frames",
		},
	}
}

// Load reads cfgFile, or ggoverlay.yaml from the working directory or the
// user configuration directory when cfgFile is empty, and applies
// environment overrides. A missing file is only an error when cfgFile
// names it.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return nil, err
		}
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, FileName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so that environment overrides reach
// nested fields.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("library", d.Library)
	v.SetDefault("overlay.enabled", d.Overlay.Enabled)
	v.SetDefault("overlay.renderer", d.Overlay.Renderer)
	v.SetDefault("overlay.title", d.Overlay.Title)
	v.SetDefault("overlay.font_size", d.Overlay.FontSize)
	v.SetDefault("overlay.x", d.Overlay.X)
	v.SetDefault("overlay.y", d.Overlay.Y)
	v.SetDefault("overlay.accent", d.Overlay.Accent)
	v.SetDefault("demo.width", d.Demo.Width)
	v.SetDefault("demo.height", d.Demo.Height)
	v.SetDefault("demo.frames", d.Demo.Frames)
	v.SetDefault("demo.format", d.Demo.Format)
	v.SetDefault("demo.output", d.Demo.Output)
}

// ToOverlay converts the overlay section to an overlay.Config on top
// of the default style.
func (c *Config) ToOverlay() overlay.Config {
	o := overlay.DefaultConfig()
	o.Title = c.Overlay.Title
	o.FontSize = c.Overlay.FontSize
	o.Position = overlay.Vec2{X: c.Overlay.X, Y: c.Overlay.Y}
	if c.Overlay.Accent != "" {
		o.Style.Accent = gg.Hex(c.Overlay.Accent)
	}
	return o
}

// demoFormats maps demo format names to back-buffer formats.
var demoFormats = map[string]dxgi.Format{
	"bgra":      dxgi.FormatB8G8R8A8Unorm,
	"bgra-srgb": dxgi.FormatB8G8R8A8UnormSRGB,
	"bgrx":      dxgi.FormatB8G8R8X8Unorm,
	"rgba":      dxgi.FormatR8G8B8A8Unorm,
	"rgba-srgb": dxgi.FormatR8G8B8A8UnormSRGB,
	"rgb10a2":   dxgi.FormatR10G10B10A2Unorm,
}

// BufferFormat returns the demo back-buffer format.
func (c *Config) BufferFormat() dxgi.Format {
	if f, ok := demoFormats[strings.ToLower(c.Demo.Format)]; ok {
		return f
	}
	return dxgi.FormatB8G8R8A8Unorm
}

// NewLogger builds the slog logger described by the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: parseLevel(c.Log.Level)}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
