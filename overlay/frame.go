package overlay

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// minProgressWidth is the narrowest a progress bar is laid out.
const minProgressWidth = 160

// Frame is the drawing surface of one overlay frame. It is only valid inside
// the DrawFunc it was passed to.
type Frame struct {
	ctx *Context

	windows []*DrawList
	used    int
	fg      *DrawList
	cursor  Vec2
	clip    Rect
}

func (f *Frame) begin(display Rect) {
	f.clip = display
	f.used = 0
	f.cursor = f.ctx.cfg.Position
	if f.fg == nil {
		f.fg = NewDrawList(f.ctx.face, display)
	} else {
		f.fg.Reset(display)
	}
}

// lists returns the window lists in submission order followed by the
// foreground list.
func (f *Frame) lists() []*DrawList {
	out := make([]*DrawList, 0, f.used+1)
	out = append(out, f.windows[:f.used]...)
	if f.fg != nil {
		out = append(out, f.fg)
	}
	return out
}

func (f *Frame) nextList() *DrawList {
	if f.used == len(f.windows) {
		f.windows = append(f.windows, NewDrawList(f.ctx.face, f.clip))
	} else {
		f.windows[f.used].Reset(f.clip)
	}
	f.used++
	return f.windows[f.used-1]
}

// IO returns the frame input.
func (f *Frame) IO() IO {
	return f.ctx.io
}

// Style returns the style windows are drawn with.
func (f *Frame) Style() Style {
	return f.ctx.cfg.Style
}

// ForegroundDrawList returns the list drawn on top of every window.
func (f *Frame) ForegroundDrawList() *DrawList {
	return f.fg
}

// Window lays out and draws an auto-sized window. body adds the items;
// windows stack downwards from Config.Position in call order.
func (f *Frame) Window(title string, body func(w *Window)) {
	w := &Window{face: f.ctx.face, lineHeight: lineHeight(f.ctx.face, f.ctx.cfg.FontSize)}
	if body != nil {
		body(w)
	}

	st := f.ctx.cfg.Style
	titleW, _ := text.Measure(title, w.face)
	contentW := math.Max(w.contentWidth(), titleW)
	titleH := w.lineHeight + st.Padding

	width := math.Ceil(contentW + 2*st.Padding)
	height := math.Ceil(titleH + st.Padding + w.contentHeight(st) + st.Padding)

	pos := f.cursor
	frame := Rect{Min: pos, Max: pos.Add(Vec2{width, height})}
	f.cursor.Y += height + 2*st.ItemSpacing

	l := f.nextList()
	l.AddRectFilled(frame.Min, frame.Max, st.WindowBg)
	l.AddRectFilled(frame.Min, Vec2{frame.Max.X, pos.Y + titleH}, st.TitleBg)
	l.AddText(Vec2{pos.X + st.Padding, pos.Y + st.Padding/2}, st.Text, title)
	if st.BorderSize > 0 {
		l.AddRect(frame.Min, frame.Max, st.Border, st.BorderSize)
	}

	content := Rect{
		Min: Vec2{pos.X + st.Padding, pos.Y + titleH + st.Padding},
		Max: Vec2{frame.Max.X - st.Padding, frame.Max.Y - st.Padding},
	}
	l.PushClipRect(content)
	w.emit(l, content, st)
	l.PopClipRect()
}

func lineHeight(face text.Face, size float64) float64 {
	if face == nil {
		return math.Ceil(size * 1.2)
	}
	return math.Ceil(face.Metrics().LineHeight())
}

type itemKind uint8

const (
	itemText itemKind = iota
	itemSeparator
	itemProgress
	itemSpacing
)

type item struct {
	kind     itemKind
	text     string
	fraction float64
}

// Window collects the items of one Frame.Window call.
type Window struct {
	face       text.Face
	lineHeight float64
	items      []item
}

// Text adds a line of text.
func (w *Window) Text(s string) {
	w.items = append(w.items, item{kind: itemText, text: s})
}

// Textf adds a line of formatted text.
func (w *Window) Textf(format string, args ...any) {
	w.Text(fmt.Sprintf(format, args...))
}

// Separator adds a horizontal rule.
func (w *Window) Separator() {
	w.items = append(w.items, item{kind: itemSeparator})
}

// ProgressBar adds a bar filled to fraction (clamped to [0, 1]) with label
// drawn over it.
func (w *Window) ProgressBar(fraction float64, label string) {
	w.items = append(w.items, item{kind: itemProgress, text: label, fraction: math.Min(math.Max(fraction, 0), 1)})
}

// Spacing adds a half-line gap.
func (w *Window) Spacing() {
	w.items = append(w.items, item{kind: itemSpacing})
}

func (w *Window) contentWidth() float64 {
	var width float64
	for _, it := range w.items {
		tw, _ := text.Measure(it.text, w.face)
		if it.kind == itemProgress {
			tw = math.Max(tw, minProgressWidth)
		}
		width = math.Max(width, tw)
	}
	return width
}

func (w *Window) itemHeight(it item) float64 {
	switch it.kind {
	case itemSeparator:
		return 1
	case itemSpacing:
		return math.Ceil(w.lineHeight / 2)
	default:
		return w.lineHeight
	}
}

func (w *Window) contentHeight(st Style) float64 {
	var h float64
	for i, it := range w.items {
		if i > 0 {
			h += st.ItemSpacing
		}
		h += w.itemHeight(it)
	}
	return h
}

func (w *Window) emit(l *DrawList, content Rect, st Style) {
	y := content.Min.Y
	for _, it := range w.items {
		h := w.itemHeight(it)
		switch it.kind {
		case itemText:
			l.AddText(Vec2{content.Min.X, y}, st.Text, it.text)
		case itemSeparator:
			l.AddLine(Vec2{content.Min.X, y + 0.5}, Vec2{content.Max.X, y + 0.5}, st.Border, 1)
		case itemProgress:
			bar := Rect{Min: Vec2{content.Min.X, y}, Max: Vec2{content.Max.X, y + h}}
			l.AddRectFilled(bar.Min, bar.Max, dim(st.WindowBg))
			fill := bar.Min.X + it.fraction*bar.Width()
			l.AddRectFilled(bar.Min, Vec2{fill, bar.Max.Y}, st.Accent)
			tw, _ := text.Measure(it.text, w.face)
			l.AddText(Vec2{bar.Min.X + (bar.Width()-tw)/2, y}, st.Text, it.text)
		}
		y += h + st.ItemSpacing
	}
}

// dim returns a lighter, more opaque variant of a background color, used
// for progress bar tracks.
func dim(c gg.RGBA) gg.RGBA {
	return c.Lerp(gg.RGBA{R: 1, G: 1, B: 1, A: 1}, 0.15)
}
