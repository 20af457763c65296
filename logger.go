package debugdraw

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	SetLogger(nil)
}

// SetLogger routes the diagnostics of debugdraw, remote and
// backends/raster to l. A nil l discards them, which is the default.
//
// Warn carries what a caller would want to fix: non-finite or malformed
// draw arguments, unknown draw group ids, failing sinks and lost remote
// connections. Debug adds connection lifecycle and frames the remote
// client had to drop.
//
//	debugdraw.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
//
// It may be called at any time, from any goroutine.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger.Store(l)
}

// Logger returns the logger installed by SetLogger. The sub-packages log
// through it so one call configures the whole module.
func Logger() *slog.Logger {
	return logger.Load()
}
