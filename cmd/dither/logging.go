package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lmittmann/tint"

	"github.com/gogpu/dither"
	"github.com/gogpu/dither/pipeline"
	"github.com/gogpu/dither/playback"
)

// Log components.
const (
	componentEngine   = "engine"
	componentPipeline = "pipeline"
	componentPlayback = "playback"
	componentCLI      = "cli"
)

var cliLog atomic.Pointer[slog.Logger]

func init() {
	cliLog.Store(slog.New(tint.NewHandler(io.Discard, nil)))
}

func cliLogger() *slog.Logger {
	return cliLog.Load()
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// setupLogging installs a tint handler on w for the CLI and every library
// package, each tagged with its component.
func setupLogging(w io.Writer, level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	base := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
	}))

	cliLog.Store(base.With("component", componentCLI))
	dither.SetLogger(base.With("component", componentEngine))
	pipeline.SetLogger(base.With("component", componentPipeline))
	playback.SetLogger(base.With("component", componentPlayback))
	return nil
}
