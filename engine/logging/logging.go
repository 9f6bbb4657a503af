// Package logging holds the logger shared by every engine package. By default the engine produces
// no log output.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all records. Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by the engine and all of its sub-packages.
// Pass nil to restore the default silent behavior.
//
// Log levels used by the engine:
//   - slog.LevelDebug: elided native calls, resource lifecycle
//   - slog.LevelInfo: capability detection results
//   - slog.LevelWarn: context version downgrade, instanced draws without divisors
//
// Parameters:
//   - l: the logger, or nil
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current engine logger.
//
// Returns:
//   - *slog.Logger: the logger, never nil
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// ParseLevel maps a config level name ("debug", "info", "warn", "error") to a slog level.
// Unknown names map to slog.LevelInfo.
//
// Parameters:
//   - name: the level name, case-insensitive
//
// Returns:
//   - slog.Level: the level
func ParseLevel(name string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
