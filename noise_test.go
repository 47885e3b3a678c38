// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import "testing"

func TestNoiseHashRange(t *testing.T) {
	for i := range 100 {
		u := float64(i) / 100
		v := float64(100-i) / 37
		h := NoiseHash(u, v)
		if h < 0 || h >= 1 {
			t.Fatalf("NoiseHash(%v,%v) = %v, outside [0,1)", u, v, h)
		}
		if h != NoiseHash(u, v) {
			t.Fatalf("NoiseHash(%v,%v) is not deterministic", u, v)
		}
	}
}

func TestAddNoiseZeroAmount(t *testing.T) {
	b := gradient(8, 8)
	orig := b.Clone()
	AddNoise(b, 0)
	if !b.Equal(orig) {
		t.Error("AddNoise(0) changed the buffer")
	}
}

func TestAddNoise(t *testing.T) {
	b := NewPixelBuffer(16, 16)
	b.Fill(128, 128, 128, 200)
	AddNoise(b, 0.5)

	changed := false
	for y := range 16 {
		for x := range 16 {
			r, g, bb, a := b.RGBA(x, y)
			if r != g || g != bb {
				t.Fatalf("(%d,%d) channels diverged: %d,%d,%d", x, y, r, g, bb)
			}
			if a != 200 {
				t.Fatalf("(%d,%d) alpha = %d, want 200", x, y, a)
			}
			// |n| <= 0.5*255.
			if d := int(r) - 128; d < -128 || d > 128 {
				t.Fatalf("(%d,%d) offset %d too large", x, y, d)
			}
			if r != 128 {
				changed = true
			}
		}
	}
	if !changed {
		t.Error("AddNoise(0.5) left every pixel unchanged")
	}

	again := NewPixelBuffer(16, 16)
	again.Fill(128, 128, 128, 200)
	AddNoise(again, 0.5)
	if !again.Equal(b) {
		t.Error("AddNoise is not deterministic")
	}
}
