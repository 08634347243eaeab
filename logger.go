package fpcase

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards all records. Enabled reports
// false so callers skip attribute formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that SetLogger
// can race with case generation running on pool workers.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for fpcase and its sub-packages.
// By default fpcase produces no log output.
//
// Pass nil to restore the silent default.
//
// Log levels used by fpcase:
//   - [slog.LevelDebug]: per-variant generation (case counts, elapsed time)
//   - [slog.LevelInfo]: cache registration and prefetch summaries
//   - [slog.LevelWarn]: generators that failed and whose error was memoized
//
// Example:
//
//	fpcase.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages (harness, suites) call
// this to share one logger configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
