package ggoverlay

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gg"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting altogether.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Proxies log from whatever thread the
// host presents on, so every access is atomic.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for ggoverlay, its sub-packages and the gg
// rasteriser the overlay draws with. By default nothing is logged.
// Pass nil to restore the silent default.
//
// Log levels used by ggoverlay:
//   - [slog.LevelDebug]: per-call diagnostics (unwrapped devices, present counts)
//   - [slog.LevelInfo]: lifecycle events (library loaded, swap chain wrapped)
//   - [slog.LevelWarn]: degradations (renderer unavailable, unsupported back-buffer format)
//
// Example:
//
//	ggoverlay.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gg.SetLogger(l)
}

// Logger returns the current logger. Sub-packages call it instead of holding
// their own copy so that SetLogger takes effect immediately.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
