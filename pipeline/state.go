// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"

	"github.com/gogpu/dither"
)

// State is the lifecycle state of a Pipeline.
type State uint32

const (
	// StateUninitialized is the state of a new pipeline, and of one whose
	// initialization failed.
	StateUninitialized State = iota

	// StateReady accepts uploads, updates and renders.
	StateReady

	// StateRendering is held for the duration of one Render call.
	StateRendering

	// StateDisposed is terminal.
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateReady:
		return "Ready"
	case StateRendering:
		return "Rendering"
	case StateDisposed:
		return "Disposed"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// RenderState is the parameter set a Pipeline renders with. The pipeline
// owns its RenderState and replaces it as a whole on every update, so a
// value obtained from Pipeline.RenderState never changes afterwards.
type RenderState struct {
	Settings          dither.Settings
	TemporalDithering bool
}

// DefaultRenderState returns default settings with temporal dithering off.
func DefaultRenderState() RenderState {
	return RenderState{Settings: dither.DefaultSettings()}
}

// Update is a partial RenderState. Nil fields keep their current value.
type Update struct {
	dither.Patch
	TemporalDithering *bool
}

// UpdateFrom returns an Update that replaces every setting with s.
func UpdateFrom(s dither.Settings) Update {
	return Update{Patch: dither.PatchOf(s)}
}

// Apply returns rs with u merged in.
func (rs RenderState) Apply(u Update) RenderState {
	rs.Settings = rs.Settings.Merge(u.Patch)
	if u.TemporalDithering != nil {
		rs.TemporalDithering = *u.TemporalDithering
	}
	return rs
}
