package overlay

import "github.com/gogpu/gg"

// Style holds the colors and metrics windows are drawn with.
type Style struct {
	WindowBg gg.RGBA
	TitleBg  gg.RGBA
	Text     gg.RGBA
	Border   gg.RGBA
	Accent   gg.RGBA

	// Padding is the space between a window edge and its content.
	Padding float64

	// ItemSpacing is the vertical gap between items.
	ItemSpacing float64

	// BorderSize is the outline thickness. Zero disables the outline.
	BorderSize float64
}

// Config configures an overlay Context.
type Config struct {
	// Title is the caption of the built-in stats window.
	Title string

	// FontSize is the text size in points.
	FontSize float64

	// Position is the top-left corner of the first window in display pixels.
	Position Vec2

	Style Style
}

// DefaultStyle returns the built-in dark style.
func DefaultStyle() Style {
	return Style{
		WindowBg:    gg.RGBA{R: 0.06, G: 0.06, B: 0.08, A: 0.85},
		TitleBg:     gg.Hex("#29446e"),
		Text:        gg.RGBA{R: 1, G: 1, B: 1, A: 1},
		Border:      gg.RGBA{R: 0.43, G: 0.43, B: 0.5, A: 0.5},
		Accent:      gg.Hex("#4296fa"),
		Padding:     8,
		ItemSpacing: 4,
		BorderSize:  1,
	}
}

// DefaultConfig returns a configuration with the default style, a 14pt font
// and windows anchored 10 pixels from the top-left corner.
func DefaultConfig() Config {
	return Config{
		Title:    "ggoverlay",
		FontSize: 14,
		Position: Vec2{X: 10, Y: 10},
		Style:    DefaultStyle(),
	}
}
