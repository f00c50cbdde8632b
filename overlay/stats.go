package overlay

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// frameBudget is the frame time, in milliseconds, of a 60 Hz display.
const frameBudget = 1000.0 / 60

// StatsWindow returns the built-in overlay content: one window titled title
// showing the frame counter, the average framerate, the frame time against
// a 60 Hz budget and the display size.
func StatsWindow(title string) DrawFunc {
	p := message.NewPrinter(language.English)
	return func(f *Frame) {
		io := f.IO()
		f.Window(title, func(w *Window) {
			w.Text(p.Sprintf("Frame %d", io.FrameCount))
			w.Text(p.Sprintf("%.1f FPS", io.Framerate))
			w.Separator()

			ms := 0.0
			if io.Framerate > 0 {
				ms = 1000 / io.Framerate
			}
			w.ProgressBar(ms/frameBudget, p.Sprintf("%.2f ms", ms))
			w.Spacing()
			w.Text(p.Sprintf("Display %d x %d", int(io.DisplaySize.X), int(io.DisplaySize.Y)))
		})
	}
}
