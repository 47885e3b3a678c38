// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package keyframe

import (
	"math"

	"github.com/gogpu/dither"
)

// Interpolate returns the effective settings at time.
//
// An empty (or nil) track yields fallback unchanged. Before the first
// keyframe the first keyframe's settings are returned, after the last the
// last one's; there is no extrapolation. Between two keyframes the result
// is Lerp(before, after, f) with f the fractional position of time.
func Interpolate(time float64, track *Track, fallback dither.Settings) dither.Settings {
	if track == nil {
		return fallback
	}
	if math.IsNaN(time) {
		time = 0
	}

	track.mu.RLock()
	defer track.mu.RUnlock()

	keys := track.keys
	if len(keys) == 0 {
		return fallback
	}
	if time <= keys[0].Time {
		return keys[0].Settings
	}
	last := keys[len(keys)-1]
	if time >= last.Time {
		return last.Settings
	}

	// keys[i-1].Time <= time < keys[i].Time
	i := 1
	for keys[i].Time <= time {
		i++
	}
	before, after := keys[i-1], keys[i]

	span := after.Time - before.Time
	if span <= 0 {
		return before.Settings
	}
	return Lerp(before.Settings, after.Settings, (time-before.Time)/span)
}

// Lerp blends a toward b by f in [0,1].
//
// Threshold, diffusion factor, color reduction, noise amount and passes
// are interpolated linearly; integer fields are rounded to nearest and the
// matrix size is snapped to the nearest power of two. Algorithm,
// serpentine and seed are taken from a.
func Lerp(a, b dither.Settings, f float64) dither.Settings {
	if math.IsNaN(f) {
		f = 0
	}
	f = min(max(f, 0), 1)
	return a.
		WithThreshold(lerpInt(a.Threshold(), b.Threshold(), f)).
		WithDiffusionFactor(lerp(a.DiffusionFactor(), b.DiffusionFactor(), f)).
		WithMatrixSize(lerpInt(a.MatrixSize(), b.MatrixSize(), f)).
		WithColorReduction(lerpInt(a.ColorReduction(), b.ColorReduction(), f)).
		WithNoiseAmount(lerp(a.NoiseAmount(), b.NoiseAmount(), f)).
		WithPasses(lerpInt(a.Passes(), b.Passes(), f))
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}

func lerpInt(a, b int, f float64) int {
	return int(math.Round(lerp(float64(a), float64(b), f)))
}
