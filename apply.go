// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import (
	"context"
	"log/slog"
)

// Apply dithers a copy of src with the default registry. See
// Registry.Apply.
func Apply(src *PixelBuffer, s Settings) *PixelBuffer {
	return defaultRegistry.Apply(src, s)
}

// Apply returns a dithered copy of src. src is never modified.
//
// The copy is first quantized to s.ColorReduction() bits, then offset by
// position noise when s.NoiseAmount() is non-zero, then handed to the
// engine resolved for s.Algorithm() s.Passes() times. Unregistered
// algorithms use the fallback engine. Zero-area buffers are returned as
// an empty copy.
func (r *Registry) Apply(src *PixelBuffer, s Settings) *PixelBuffer {
	out := src.Clone()
	if out.Empty() {
		return out
	}

	Quantize(out, s.ColorReduction())
	AddNoise(out, s.NoiseAmount())

	entry, ok := r.Resolve(s.Algorithm())
	if !ok {
		level := slog.LevelDebug
		if !s.Algorithm().Known() {
			level = slog.LevelWarn
		}
		Logger().Log(context.Background(), level, "dither: algorithm resolved to fallback",
			"algorithm", s.Algorithm(), "fallback", entry.Algorithm)
	}

	for range s.Passes() {
		entry.Engine.Dither(out, s)
	}

	Logger().Debug("dither: applied",
		"algorithm", entry.Algorithm,
		"width", out.width, "height", out.height,
		"bits", s.ColorReduction(), "passes", s.Passes())
	return out
}
