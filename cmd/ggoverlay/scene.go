package main

import (
	"math"

	"github.com/gogpu/gg"
)

// drawScene paints the application content of one frame. The scene fills
// the whole canvas so every pixel of the back buffer is rewritten.
func drawScene(dc *gg.Context, w, h, frame int) {
	drawGradientBackground(dc, w, h)
	drawOrbit(dc, w, h, frame)
	drawStar(dc, w, h, frame)
}

func drawGradientBackground(dc *gg.Context, w, h int) {
	steps := 64
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps)
		dc.SetColor(gg.RGB(0.1+t*0.4, 0.2+t*0.3, 0.4+t*0.2))
		y := float64(h) * t
		dc.DrawRectangle(0, y, float64(w), float64(h)/float64(steps)+1)
		_ = dc.Fill()
	}
}

// drawOrbit draws eight squares circling the canvas centre, advanced a
// little every frame.
func drawOrbit(dc *gg.Context, w, h, frame int) {
	cx, cy := float64(w)/2, float64(h)/2
	radius := math.Min(cx, cy) / 2
	phase := float64(frame) * math.Pi / 16

	for i := 0; i < 8; i++ {
		angle := phase + float64(i)*math.Pi/4
		dc.Push()
		dc.Translate(cx+radius*math.Cos(angle), cy+radius*math.Sin(angle))
		dc.Rotate(angle)
		dc.SetColor(gg.HSL(float64(i)*45, 0.8, 0.6))
		size := radius / 4
		dc.DrawRectangle(-size/2, -size/2, size, size)
		_ = dc.Fill()
		dc.Pop()
	}
}

func drawStar(dc *gg.Context, w, h, frame int) {
	const points = 5
	outerR := math.Min(float64(w), float64(h)) / 10
	innerR := outerR / 2

	dc.Push()
	dc.Translate(float64(w)/2, float64(h)/2)
	dc.Rotate(float64(frame) * math.Pi / 30)
	dc.SetRGB(1, 1, 0)
	for i := 0; i < points*2; i++ {
		angle := float64(i) * math.Pi / points
		r := outerR
		if i%2 == 1 {
			r = innerR
		}
		x := r * math.Cos(angle-math.Pi/2)
		y := r * math.Sin(angle-math.Pi/2)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	_ = dc.Fill()
	dc.Pop()
}
