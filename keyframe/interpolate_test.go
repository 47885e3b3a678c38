// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package keyframe

import (
	"math"
	"testing"

	"github.com/gogpu/dither"
)

func thresholdTrack() *Track {
	s := dither.DefaultSettings()
	return NewTrack(
		Keyframe{Time: 0, Settings: s.WithThreshold(0)},
		Keyframe{Time: 10, Settings: s.WithThreshold(100)},
	)
}

func TestInterpolateThreshold(t *testing.T) {
	tr := thresholdTrack()
	tests := []struct {
		time float64
		want int
	}{
		{5, 50},
		{-1, 0},
		{0, 0},
		{2.5, 25},
		{10, 100},
		{20, 100},
	}
	for _, tt := range tests {
		got := Interpolate(tt.time, tr, dither.DefaultSettings())
		if got.Threshold() != tt.want {
			t.Errorf("Interpolate(%v).Threshold() = %d, want %d", tt.time, got.Threshold(), tt.want)
		}
	}
}

func TestInterpolateEmptyTrack(t *testing.T) {
	fallback := dither.DefaultSettings().WithAlgorithm(dither.Stucki).WithThreshold(7)
	if got := Interpolate(3, &Track{}, fallback); got != fallback {
		t.Errorf("empty track = %v, want fallback %v", got, fallback)
	}
	if got := Interpolate(3, nil, fallback); got != fallback {
		t.Errorf("nil track = %v, want fallback %v", got, fallback)
	}
}

func TestInterpolateDiscreteFields(t *testing.T) {
	a := dither.DefaultSettings().WithAlgorithm(dither.Atkinson).WithSerpentine(false).WithSeed(1)
	b := dither.DefaultSettings().WithAlgorithm(dither.Bayer).WithSerpentine(true).WithSeed(2)
	tr := NewTrack(Keyframe{Time: 1, Settings: a}, Keyframe{Time: 2, Settings: b})

	got := Interpolate(1.9, tr, dither.DefaultSettings())
	if got.Algorithm() != dither.Atkinson || got.Serpentine() || got.Seed() != 1 {
		t.Errorf("discrete fields = %s/%v/%d, want atkinson/false/1",
			got.Algorithm(), got.Serpentine(), got.Seed())
	}

	if got := Interpolate(2, tr, dither.DefaultSettings()); got != b {
		t.Errorf("at last keyframe = %v, want %v", got, b)
	}
}

func TestInterpolateNumericFields(t *testing.T) {
	a := dither.DefaultSettings().
		WithDiffusionFactor(0).
		WithMatrixSize(2).
		WithColorReduction(1).
		WithNoiseAmount(0).
		WithPasses(1)
	b := dither.DefaultSettings().
		WithDiffusionFactor(1).
		WithMatrixSize(16).
		WithColorReduction(8).
		WithNoiseAmount(0.5).
		WithPasses(4)
	tr := NewTrack(Keyframe{Time: 0, Settings: a}, Keyframe{Time: 4, Settings: b})

	got := Interpolate(1, tr, dither.DefaultSettings()) // f = 0.25
	if math.Abs(got.DiffusionFactor()-0.25) > 1e-9 {
		t.Errorf("DiffusionFactor = %v, want 0.25", got.DiffusionFactor())
	}
	if math.Abs(got.NoiseAmount()-0.125) > 1e-9 {
		t.Errorf("NoiseAmount = %v, want 0.125", got.NoiseAmount())
	}
	// 2 + 14*0.25 = 5.5 -> 6 -> nearest power of two 8.
	if got.MatrixSize() != 8 {
		t.Errorf("MatrixSize = %d, want 8", got.MatrixSize())
	}
	// 1 + 7*0.25 = 2.75 -> 3.
	if got.ColorReduction() != 3 {
		t.Errorf("ColorReduction = %d, want 3", got.ColorReduction())
	}
	// 1 + 3*0.25 = 1.75 -> 2.
	if got.Passes() != 2 {
		t.Errorf("Passes = %d, want 2", got.Passes())
	}
}

func TestInterpolateThreeKeyframes(t *testing.T) {
	s := dither.DefaultSettings()
	tr := NewTrack(
		Keyframe{Time: 0, Settings: s.WithThreshold(0)},
		Keyframe{Time: 2, Settings: s.WithThreshold(200)},
		Keyframe{Time: 4, Settings: s.WithThreshold(100)},
	)
	if got := Interpolate(3, tr, s).Threshold(); got != 150 {
		t.Errorf("Interpolate(3) = %d, want 150", got)
	}
	if got := Interpolate(2, tr, s).Threshold(); got != 200 {
		t.Errorf("Interpolate(2) = %d, want 200", got)
	}
}

func TestLerpClampsFactor(t *testing.T) {
	a := dither.DefaultSettings().WithThreshold(10)
	b := dither.DefaultSettings().WithThreshold(20)
	if got := Lerp(a, b, 5).Threshold(); got != 20 {
		t.Errorf("Lerp(f=5) = %d, want 20", got)
	}
	if got := Lerp(a, b, -1).Threshold(); got != 10 {
		t.Errorf("Lerp(f=-1) = %d, want 10", got)
	}
}
