package overlay

import (
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

// DefaultFace returns the built-in Go Regular face at size points.
// The font source is parsed once per process and shared by every Context.
func DefaultFace(size float64) (text.Face, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return fontSource.Face(size), nil
}
