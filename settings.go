// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import (
	"fmt"
	"math"
)

// Parameter ranges. Every numeric Settings field is clamped into its range
// when the value is produced.
const (
	MinThreshold      = 0
	MaxThreshold      = 255
	MinMatrixSize     = 2
	MaxMatrixSize     = 16
	MinColorReduction = 1
	MaxColorReduction = 8
	MinPasses         = 1
	MaxPasses         = 4
)

// Default parameter values.
const (
	DefaultAlgorithm       = FloydSteinberg
	DefaultThreshold       = 128
	DefaultDiffusionFactor = 0.75
	DefaultMatrixSize      = 8
	DefaultColorReduction  = 8
	DefaultSerpentine      = true
	DefaultPasses          = 1
)

// Settings describes one dithering configuration.
//
// Settings is an immutable value: the With methods and Merge return a new
// value and never modify the receiver. Fields are clamped to their ranges
// at the point of mutation, so every Settings value is valid.
type Settings struct {
	algorithm       Algorithm
	threshold       int
	diffusionFactor float64
	matrixSize      int
	colorReduction  int
	serpentine      bool
	noiseAmount     float64
	passes          int
	seed            int64
}

// DefaultSettings returns the settings a new session starts with.
func DefaultSettings() Settings {
	return Settings{
		algorithm:       DefaultAlgorithm,
		threshold:       DefaultThreshold,
		diffusionFactor: DefaultDiffusionFactor,
		matrixSize:      DefaultMatrixSize,
		colorReduction:  DefaultColorReduction,
		serpentine:      DefaultSerpentine,
		passes:          DefaultPasses,
	}
}

func (s Settings) Algorithm() Algorithm     { return s.algorithm }
func (s Settings) Threshold() int           { return s.threshold }
func (s Settings) DiffusionFactor() float64 { return s.diffusionFactor }
func (s Settings) MatrixSize() int          { return s.matrixSize }
func (s Settings) ColorReduction() int      { return s.colorReduction }
func (s Settings) Serpentine() bool         { return s.serpentine }
func (s Settings) NoiseAmount() float64     { return s.noiseAmount }
func (s Settings) Passes() int              { return s.passes }

// Seed returns the random seed. Zero means a fresh seed per call.
func (s Settings) Seed() int64 { return s.seed }

// WithSeed returns a copy using seed for the random engine and noise.
func (s Settings) WithSeed(seed int64) Settings {
	s.seed = seed
	return s
}

// WithAlgorithm returns a copy using algorithm a. An empty identifier
// selects the default algorithm.
func (s Settings) WithAlgorithm(a Algorithm) Settings {
	if a == "" {
		a = DefaultAlgorithm
	}
	s.algorithm = a
	return s
}

// WithThreshold returns a copy with the threshold clamped to [0,255].
func (s Settings) WithThreshold(t int) Settings {
	s.threshold = clampInt(t, MinThreshold, MaxThreshold)
	return s
}

// WithDiffusionFactor returns a copy with the factor clamped to [0,1].
func (s Settings) WithDiffusionFactor(f float64) Settings {
	s.diffusionFactor = clampFloat(f, 0, 1)
	return s
}

// WithMatrixSize returns a copy with the matrix size snapped to the nearest
// power of two in [2,16].
func (s Settings) WithMatrixSize(n int) Settings {
	s.matrixSize = NearestMatrixSize(n)
	return s
}

// WithColorReduction returns a copy with the bit depth clamped to [1,8].
func (s Settings) WithColorReduction(bits int) Settings {
	s.colorReduction = clampInt(bits, MinColorReduction, MaxColorReduction)
	return s
}

func (s Settings) WithSerpentine(on bool) Settings {
	s.serpentine = on
	return s
}

// WithNoiseAmount returns a copy with the noise amount clamped to [0,1].
func (s Settings) WithNoiseAmount(n float64) Settings {
	s.noiseAmount = clampFloat(n, 0, 1)
	return s
}

// WithPasses returns a copy with the pass count clamped to [1,4].
func (s Settings) WithPasses(n int) Settings {
	s.passes = clampInt(n, MinPasses, MaxPasses)
	return s
}

// String implements fmt.Stringer.
func (s Settings) String() string {
	return fmt.Sprintf("%s(threshold=%d diffusion=%.2f matrix=%d bits=%d serpentine=%t noise=%.2f passes=%d)",
		s.algorithm, s.threshold, s.diffusionFactor, s.matrixSize, s.colorReduction,
		s.serpentine, s.noiseAmount, s.passes)
}

// Patch is a partial settings update. Nil fields leave the corresponding
// value unchanged when merged.
type Patch struct {
	Algorithm       *Algorithm
	Threshold       *int
	DiffusionFactor *float64
	MatrixSize      *int
	ColorReduction  *int
	Serpentine      *bool
	NoiseAmount     *float64
	Passes          *int
	Seed            *int64
}

// Ref returns a pointer to v. It is a convenience for building a Patch.
func Ref[T any](v T) *T { return &v }

// PatchOf returns a Patch that sets every field to the values of s.
func PatchOf(s Settings) Patch {
	return Patch{
		Algorithm:       Ref(s.algorithm),
		Threshold:       Ref(s.threshold),
		DiffusionFactor: Ref(s.diffusionFactor),
		MatrixSize:      Ref(s.matrixSize),
		ColorReduction:  Ref(s.colorReduction),
		Serpentine:      Ref(s.serpentine),
		NoiseAmount:     Ref(s.noiseAmount),
		Passes:          Ref(s.passes),
		Seed:            Ref(s.seed),
	}
}

// Merge returns s with every non-nil field of p applied (shallow merge).
func (s Settings) Merge(p Patch) Settings {
	if p.Algorithm != nil {
		s = s.WithAlgorithm(*p.Algorithm)
	}
	if p.Threshold != nil {
		s = s.WithThreshold(*p.Threshold)
	}
	if p.DiffusionFactor != nil {
		s = s.WithDiffusionFactor(*p.DiffusionFactor)
	}
	if p.MatrixSize != nil {
		s = s.WithMatrixSize(*p.MatrixSize)
	}
	if p.ColorReduction != nil {
		s = s.WithColorReduction(*p.ColorReduction)
	}
	if p.Serpentine != nil {
		s = s.WithSerpentine(*p.Serpentine)
	}
	if p.NoiseAmount != nil {
		s = s.WithNoiseAmount(*p.NoiseAmount)
	}
	if p.Passes != nil {
		s = s.WithPasses(*p.Passes)
	}
	if p.Seed != nil {
		s = s.WithSeed(*p.Seed)
	}
	return s
}

// NearestMatrixSize snaps n to the closest power of two in [2,16]. Ties
// round up.
func NearestMatrixSize(n int) int {
	if n <= MinMatrixSize {
		return MinMatrixSize
	}
	if n >= MaxMatrixSize {
		return MaxMatrixSize
	}
	lo := MinMatrixSize
	for lo*2 <= n {
		lo *= 2
	}
	hi := lo * 2
	if n-lo < hi-n {
		return lo
	}
	return hi
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampFloat maps NaN to lo.
func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
