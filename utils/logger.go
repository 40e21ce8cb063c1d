package utils

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record; Enabled reports false so callers skip
// formatting altogether.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger installs the logger shared by every package of the kernel.
// The kernel is silent by default; nil restores the silent logger.
//
// Levels in use:
//   - [slog.LevelDebug]: iteration progress of the refinement and
//     orthogonalization engines, face derivation statistics
//   - [slog.LevelWarn]: skipped work (degenerate faces, unlocated samples)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current kernel logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
