// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import (
	"math"
	"slices"
	"testing"
)

func TestKernelFloydSteinbergTaps(t *testing.T) {
	want := []Tap{
		{DX: 1, DY: 0, Weight: 7.0 / 16},
		{DX: -1, DY: 1, Weight: 3.0 / 16},
		{DX: 0, DY: 1, Weight: 5.0 / 16},
		{DX: 1, DY: 1, Weight: 1.0 / 16},
	}
	if got := KernelFloydSteinberg.Taps(); !slices.Equal(got, want) {
		t.Errorf("Taps() = %v, want %v", got, want)
	}
}

func TestKernelAtkinsonTaps(t *testing.T) {
	want := []Tap{
		{DX: 1, DY: 0, Weight: 1.0 / 8},
		{DX: 2, DY: 0, Weight: 1.0 / 8},
		{DX: -1, DY: 1, Weight: 1.0 / 8},
		{DX: 0, DY: 1, Weight: 1.0 / 8},
		{DX: 1, DY: 1, Weight: 1.0 / 8},
		{DX: 0, DY: 2, Weight: 1.0 / 8},
	}
	if got := KernelAtkinson.Taps(); !slices.Equal(got, want) {
		t.Errorf("Taps() = %v, want %v", got, want)
	}
}

func TestKernelSums(t *testing.T) {
	tests := []struct {
		k    Kernel
		want float64
	}{
		{KernelFloydSteinberg, 1},
		{KernelAtkinson, 0.75},
		{KernelJarvisJudiceNinke, 1},
		{KernelStucki, 1},
		{KernelBurkes, 1},
		{KernelSierra, 1},
		{KernelTwoRowSierra, 1},
		{KernelSierraLite, 1},
		{KernelFalseDiffusion, 1},
		{KernelErrorDiffusion, 1},
	}
	for _, tt := range tests {
		t.Run(tt.k.Name(), func(t *testing.T) {
			if got := tt.k.Sum(); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Sum() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKernelTapsForward(t *testing.T) {
	for _, k := range []Kernel{
		KernelFloydSteinberg, KernelAtkinson, KernelJarvisJudiceNinke, KernelStucki,
		KernelBurkes, KernelSierra, KernelTwoRowSierra, KernelSierraLite,
		KernelFalseDiffusion, KernelErrorDiffusion,
	} {
		for _, tap := range k.Taps() {
			if tap.DY < 0 || (tap.DY == 0 && tap.DX <= 0) {
				t.Errorf("%s: tap %+v points at an already visited pixel", k.Name(), tap)
			}
		}
	}
}

func TestNewKernelDropsZeroWeights(t *testing.T) {
	k := NewKernel("k", Tap{DX: 1, Weight: 0.5}, Tap{DX: 2, Weight: 0}, Tap{DY: 1, Weight: 0.5})
	if n := len(k.Taps()); n != 2 {
		t.Errorf("len(Taps()) = %d, want 2", n)
	}
}
