// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/dither"
)

func readF32(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestUniformsBytes(t *testing.T) {
	rs := RenderState{
		Settings: dither.DefaultSettings().
			WithThreshold(51).
			WithColorReduction(3).
			WithNoiseAmount(0.25).
			WithMatrixSize(2),
		TemporalDithering: true,
	}
	u := newUniforms(rs, 640, 480, 0.75, true, 2.5)
	buf := u.Bytes()

	if len(buf) != uniformSize {
		t.Fatalf("len = %d, want %d", len(buf), uniformSize)
	}

	floats := []struct {
		name string
		off  int
		want float32
	}{
		{"width", offResolution, 640},
		{"height", offResolution + 4, 480},
		{"threshold", offThreshold, 0.2},
		{"color reduction", offColorReduction, 3},
		{"noise", offNoiseAmount, 0.25},
		{"split", offSplitPosition, 0.75},
		{"time", offTime, 2.5},
		{"matrix[0]", offMatrix, 0},
		{"matrix[1]", offMatrix + 4, 0.5},
		{"matrix[2]", offMatrix + 8, 0.75},
		{"matrix[3]", offMatrix + 12, 0.25},
	}
	for _, tc := range floats {
		if got := readF32(buf, tc.off); got != tc.want {
			t.Errorf("%s = %v, want %v", tc.name, got, tc.want)
		}
	}

	words := map[string]struct {
		off  int
		want uint32
	}{
		"show split":  {offShowSplit, 1},
		"temporal":    {offTemporal, 1},
		"matrix size": {offMatrixSize, 2},
	}
	for name, tc := range words {
		if got := binary.LittleEndian.Uint32(buf[tc.off:]); got != tc.want {
			t.Errorf("%s = %d, want %d", name, got, tc.want)
		}
	}

	// Cells past n×n stay zero.
	if got := readF32(buf, offMatrix+16); got != 0 {
		t.Errorf("matrix[4] = %v, want 0", got)
	}
}

func TestUniformsFullMatrix(t *testing.T) {
	rs := RenderState{Settings: dither.DefaultSettings().WithMatrixSize(16)}
	u := newUniforms(rs, 1, 1, 0, false, 0)
	buf := u.Bytes()

	m := dither.MustOrderedMatrix(16)
	for i, v := range m.Values() {
		if got := readF32(buf, offMatrix+i*4); got != float32(v) {
			t.Fatalf("matrix[%d] = %v, want %v", i, got, v)
		}
	}
	if binary.LittleEndian.Uint32(buf[offShowSplit:]) != 0 {
		t.Error("show split should be 0")
	}
}

func TestUniformsSplitClamped(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{-0.5, 0}, {0.3, 0.3}, {1.5, 1},
	} {
		u := newUniforms(DefaultRenderState(), 1, 1, tc.in, true, 0)
		if u.SplitPosition != tc.want {
			t.Errorf("split %v = %v, want %v", tc.in, u.SplitPosition, tc.want)
		}
	}
}

func TestTemporalOffsets(t *testing.T) {
	if got := thresholdOffset(0); got != 0 {
		t.Errorf("thresholdOffset(0) = %v, want 0", got)
	}
	if got := thresholdOffset(5 * math.Pi); math.Abs(got-0.02) > 1e-12 {
		t.Errorf("thresholdOffset(5π) = %v, want 0.02", got)
	}

	dx, dy := sampleOffset(0)
	if dx != 0 || dy != 0.5 {
		t.Errorf("sampleOffset(0) = %v,%v, want 0,0.5", dx, dy)
	}
	for _, tm := range []float64{1, 7.3, 100} {
		dx, dy := sampleOffset(tm)
		if r := math.Hypot(dx, dy); math.Abs(r-0.5) > 1e-12 {
			t.Errorf("sampleOffset(%v) radius = %v, want 0.5", tm, r)
		}
	}
}
