// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled reports false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while engines run on other goroutines.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by the dithering engines.
// By default the package produces no log output.
//
// Pass nil to restore the silent default. SetLogger is safe for
// concurrent use.
//
// Log levels used by dither:
//   - [slog.LevelDebug]: per-call diagnostics (engine chosen, buffer size, passes)
//   - [slog.LevelWarn]: algorithm identifiers resolved to the default engine
//
// The pipeline and playback packages keep their own loggers; the CLI
// installs the same handler into all three.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by dither.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
