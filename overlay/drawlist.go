package overlay

import (
	"math"
	"unicode"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// Vec2 is a point or extent in display pixels.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Rect is an axis-aligned rectangle. Max is exclusive.
type Rect struct {
	Min, Max Vec2
}

// Empty reports whether r covers no area.
func (r Rect) Empty() bool { return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y }

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Union returns the smallest rectangle containing r and o. Empty operands
// are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		Min: Vec2{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Vec2{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Intersect returns the overlap of r and o, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Min: Vec2{math.Max(r.Min.X, o.Min.X), math.Max(r.Min.Y, o.Min.Y)},
		Max: Vec2{math.Min(r.Max.X, o.Max.X), math.Min(r.Max.Y, o.Max.Y)},
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// CmdKind identifies a draw command.
type CmdKind uint8

// Draw command kinds.
const (
	CmdRectFilled CmdKind = iota
	CmdRect
	CmdLine
	CmdText
)

// DrawCmd is one primitive recorded in a DrawList. For rectangles Min and
// Max are the corners; for lines they are the end points; for text Min is
// the top-left corner of the line box and Max its bottom-right.
type DrawCmd struct {
	Kind      CmdKind
	Min, Max  Vec2
	Color     gg.RGBA
	Thickness float64
	Text      string
	Clip      Rect
}

// Bounds returns the pixels the command may touch, clipped.
func (c DrawCmd) Bounds() Rect {
	r := Rect{
		Min: Vec2{math.Min(c.Min.X, c.Max.X), math.Min(c.Min.Y, c.Max.Y)},
		Max: Vec2{math.Max(c.Min.X, c.Max.X), math.Max(c.Min.Y, c.Max.Y)},
	}
	if c.Kind == CmdLine || c.Kind == CmdRect {
		h := math.Max(c.Thickness, 1) / 2
		r.Min = r.Min.Add(Vec2{-h, -h})
		r.Max = r.Max.Add(Vec2{h, h})
	}
	return r.Intersect(c.Clip)
}

// Per-primitive geometry sizes. A renderer that tessellates would produce
// exactly these counts; DrawData totals are built from them.
const (
	quadVertices    = 4
	quadIndices     = 6
	outlineVertices = 16
	outlineIndices  = 24
)

// DrawList records the primitives of one window or layer in submission order.
type DrawList struct {
	Cmds     []DrawCmd
	VtxCount int
	IdxCount int

	face  text.Face
	clips []Rect
}

// NewDrawList returns an empty list clipped to clip. face measures AddText
// extents and may be nil, in which case text has no extent.
func NewDrawList(face text.Face, clip Rect) *DrawList {
	return &DrawList{face: face, clips: []Rect{clip}}
}

// Reset clears the list and its clip stack, keeping allocations.
func (l *DrawList) Reset(clip Rect) {
	l.Cmds = l.Cmds[:0]
	l.VtxCount, l.IdxCount = 0, 0
	l.clips = append(l.clips[:0], clip)
}

// PushClipRect narrows the clip rectangle for subsequent commands.
func (l *DrawList) PushClipRect(r Rect) {
	l.clips = append(l.clips, l.clip().Intersect(r))
}

// PopClipRect restores the previous clip rectangle. The outermost clip
// cannot be popped.
func (l *DrawList) PopClipRect() {
	if len(l.clips) > 1 {
		l.clips = l.clips[:len(l.clips)-1]
	}
}

func (l *DrawList) clip() Rect {
	return l.clips[len(l.clips)-1]
}

func (l *DrawList) add(cmd DrawCmd, vtx, idx int) {
	cmd.Clip = l.clip()
	if cmd.Clip.Empty() {
		return
	}
	l.Cmds = append(l.Cmds, cmd)
	l.VtxCount += vtx
	l.IdxCount += idx
}

// AddRectFilled records a solid rectangle.
func (l *DrawList) AddRectFilled(min, max Vec2, col gg.RGBA) {
	if col.A <= 0 || (Rect{min, max}).Empty() {
		return
	}
	l.add(DrawCmd{Kind: CmdRectFilled, Min: min, Max: max, Color: col}, quadVertices, quadIndices)
}

// AddRect records a rectangle outline.
func (l *DrawList) AddRect(min, max Vec2, col gg.RGBA, thickness float64) {
	if col.A <= 0 || thickness <= 0 {
		return
	}
	l.add(DrawCmd{Kind: CmdRect, Min: min, Max: max, Color: col, Thickness: thickness}, outlineVertices, outlineIndices)
}

// AddLine records a line segment.
func (l *DrawList) AddLine(p1, p2 Vec2, col gg.RGBA, thickness float64) {
	if col.A <= 0 || thickness <= 0 {
		return
	}
	l.add(DrawCmd{Kind: CmdLine, Min: p1, Max: p2, Color: col, Thickness: thickness}, quadVertices, quadIndices)
}

// AddText records a single line of text with its top-left corner at pos.
// Each visible rune costs one quad.
func (l *DrawList) AddText(pos Vec2, col gg.RGBA, s string) {
	glyphs := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			glyphs++
		}
	}
	if glyphs == 0 || col.A <= 0 {
		return
	}
	w, h := text.Measure(s, l.face)
	l.add(DrawCmd{Kind: CmdText, Min: pos, Max: pos.Add(Vec2{w, h}), Color: col, Text: s},
		glyphs*quadVertices, glyphs*quadIndices)
}

// Bounds returns the union of the command bounds.
func (l *DrawList) Bounds() Rect {
	var r Rect
	for i := range l.Cmds {
		r = r.Union(l.Cmds[i].Bounds())
	}
	return r
}

// DrawData is the finalised output of one overlay frame, handed to a
// Renderer. It stays valid until the next NewFrame.
type DrawData struct {
	// Valid is false when Render was called outside a frame.
	Valid bool

	DisplayPos  Vec2
	DisplaySize Vec2

	// CmdLists are drawn in order, back to front.
	CmdLists []*DrawList

	TotalVtxCount int
	TotalIdxCount int

	// Face is the font the text commands were measured with.
	Face text.Face

	// FrameCount is the index of the frame the data belongs to.
	FrameCount uint64
}

// Bounds returns the display area touched by the draw data.
func (d *DrawData) Bounds() Rect {
	var r Rect
	for _, l := range d.CmdLists {
		r = r.Union(l.Bounds())
	}
	return r.Intersect(Rect{Min: d.DisplayPos, Max: d.DisplayPos.Add(d.DisplaySize)})
}
