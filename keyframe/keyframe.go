// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package keyframe produces time-varying dithering settings for video
// playback.
//
// A Track holds user-authored (time, settings) anchors. Interpolate turns a
// track and a playback time into the effective settings for that frame:
// numeric fields are blended linearly between the surrounding keyframes,
// discrete fields (algorithm, serpentine, seed) are held from the earlier
// one.
package keyframe

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/gogpu/dither"
)

// Tolerance is the distance in seconds within which two keyframe times are
// considered the same. Setting a keyframe within Tolerance of an existing
// one replaces it.
const Tolerance = 0.1

// Keyframe anchors a settings value at a playback time in seconds.
type Keyframe struct {
	Time     float64
	Settings dither.Settings
}

func (k Keyframe) String() string {
	return fmt.Sprintf("%s %s", FormatTime(k.Time), k.Settings)
}

// Track is a set of keyframes sorted by time with at most one keyframe per
// Tolerance window.
//
// The zero value is an empty track ready to use. Track is safe for
// concurrent use.
type Track struct {
	mu   sync.RWMutex
	keys []Keyframe
}

// NewTrack builds a track from keyframes, applying Set to each in order.
func NewTrack(keys ...Keyframe) *Track {
	t := &Track{}
	for _, k := range keys {
		t.Set(k.Time, k.Settings)
	}
	return t
}

// Set adds a keyframe at time, or replaces the settings of the keyframe
// within Tolerance of it. Negative times are clamped to 0.
//
// A replaced keyframe keeps its time, so keyframes never move closer than
// Tolerance to each other.
func (t *Track) Set(time float64, s dither.Settings) {
	time = clampTime(time)

	t.mu.Lock()
	defer t.mu.Unlock()

	if i := t.indexLocked(time); i >= 0 {
		t.keys[i].Settings = s
		return
	}
	t.keys = append(t.keys, Keyframe{Time: time, Settings: s})
	slices.SortStableFunc(t.keys, func(a, b Keyframe) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
}

// Delete removes the keyframe within Tolerance of time and reports whether
// one was found.
func (t *Track) Delete(time float64) bool {
	time = clampTime(time)

	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexLocked(time)
	if i < 0 {
		return false
	}
	t.keys = slices.Delete(t.keys, i, i+1)
	return true
}

// At returns the keyframe within Tolerance of time.
func (t *Track) At(time float64) (Keyframe, bool) {
	time = clampTime(time)

	t.mu.RLock()
	defer t.mu.RUnlock()

	if i := t.indexLocked(time); i >= 0 {
		return t.keys[i], true
	}
	return Keyframe{}, false
}

// Keyframes returns a copy of the keyframes in ascending time order.
func (t *Track) Keyframes() []Keyframe {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.keys)
}

// Len returns the number of keyframes.
func (t *Track) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.keys)
}

// Clear removes every keyframe.
func (t *Track) Clear() {
	t.mu.Lock()
	t.keys = nil
	t.mu.Unlock()
}

// indexLocked returns the index of the first keyframe within Tolerance of
// time, or -1.
func (t *Track) indexLocked(time float64) int {
	return slices.IndexFunc(t.keys, func(k Keyframe) bool {
		return math.Abs(k.Time-time) < Tolerance
	})
}

func clampTime(time float64) float64 {
	if time < 0 || math.IsNaN(time) {
		return 0
	}
	return time
}

// FormatTime renders seconds as MM:SS.cc with hundredths, the format used
// on the timeline. Negative values render as 00:00.00.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	// The epsilon absorbs binary representation error, e.g. 1.23*100.
	cs := int64(math.Floor(seconds*100 + 1e-6))
	return fmt.Sprintf("%02d:%02d.%02d", cs/6000, cs/100%60, cs%100)
}
