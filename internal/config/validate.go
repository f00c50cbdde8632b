package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

const (
	minFontSize  = 6
	maxFontSize  = 72
	maxDimension = 8192
	maxFrames    = 1000
)

// Validate checks the configuration and returns every problem found.
// Out-of-range numbers are clamped to the nearest valid value and still
// reported.
func (c *Config) Validate() []error {
	var errs []error

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	if c.Library == "" {
		errs = append(errs, fmt.Errorf("library must not be empty"))
	}

	if c.Overlay.FontSize < minFontSize {
		errs = append(errs, fmt.Errorf("overlay.font_size %g is below minimum %d, clamping", c.Overlay.FontSize, minFontSize))
		c.Overlay.FontSize = minFontSize
	} else if c.Overlay.FontSize > maxFontSize {
		errs = append(errs, fmt.Errorf("overlay.font_size %g exceeds maximum %d, clamping", c.Overlay.FontSize, maxFontSize))
		c.Overlay.FontSize = maxFontSize
	}
	if c.Overlay.X < 0 || c.Overlay.Y < 0 {
		errs = append(errs, fmt.Errorf("overlay position (%g, %g) is negative, clamping", c.Overlay.X, c.Overlay.Y))
		c.Overlay.X, c.Overlay.Y = max(c.Overlay.X, 0), max(c.Overlay.Y, 0)
	}
	if a := c.Overlay.Accent; a != "" && !isHexColor(a) {
		errs = append(errs, fmt.Errorf("overlay.accent %q is not a hex color", a))
	}

	if c.Demo.Width == 0 || c.Demo.Width > maxDimension {
		errs = append(errs, fmt.Errorf("demo.width %d is outside 1..%d", c.Demo.Width, maxDimension))
		c.Demo.Width = min(max(c.Demo.Width, 1), maxDimension)
	}
	if c.Demo.Height == 0 || c.Demo.Height > maxDimension {
		errs = append(errs, fmt.Errorf("demo.height %d is outside 1..%d", c.Demo.Height, maxDimension))
		c.Demo.Height = min(max(c.Demo.Height, 1), maxDimension)
	}
	if c.Demo.Frames < 1 || c.Demo.Frames > maxFrames {
		errs = append(errs, fmt.Errorf("demo.frames %d is outside 1..%d, clamping", c.Demo.Frames, maxFrames))
		c.Demo.Frames = min(max(c.Demo.Frames, 1), maxFrames)
	}
	if _, ok := demoFormats[strings.ToLower(c.Demo.Format)]; !ok {
		errs = append(errs, fmt.Errorf("demo.format %q is unknown", c.Demo.Format))
	}

	return errs
}

// isHexColor accepts the forms gg.Hex understands: #rgb, #rgba, #rrggbb
// and #rrggbbaa, with or without the leading '#'.
func isHexColor(s string) bool {
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
