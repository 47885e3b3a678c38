// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import "testing"

func TestThresholdDitherStrict(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		t       int
		want    uint8
	}{
		{128, 128, 128, 128, 0},
		{129, 129, 129, 128, 255},
		{255, 0, 130, 128, 255}, // mean 128.33
		{255, 0, 128, 128, 0},   // mean 127.67
		{0, 0, 0, 0, 0},
		{1, 0, 0, 0, 255},
		{255, 255, 255, 255, 0},
	}
	for _, tt := range tests {
		b := NewPixelBuffer(1, 1)
		b.SetRGBA(0, 0, tt.r, tt.g, tt.b, 42)
		ThresholdDither(b, tt.t)
		r, g, bb, a := b.RGBA(0, 0)
		if r != tt.want || g != tt.want || bb != tt.want || a != 42 {
			t.Errorf("(%d,%d,%d) t=%d: got %d,%d,%d,%d, want %d with alpha 42",
				tt.r, tt.g, tt.b, tt.t, r, g, bb, a, tt.want)
		}
	}
}

func TestRandomDitherBounds(t *testing.T) {
	// Factors lie in [0.8,1.2): 100 < 0.8*128 is always black and
	// 160 >= 1.2*128 is always white.
	dark := NewPixelBuffer(16, 16)
	dark.Fill(100, 100, 100, 255)
	RandomDither(dark, 128, nil)
	assertUniform(t, dark, 0)

	light := NewPixelBuffer(16, 16)
	light.Fill(160, 160, 160, 255)
	RandomDither(light, 128, nil)
	assertUniform(t, light, 255)
}

func TestRandomDitherSeeded(t *testing.T) {
	a := NewPixelBuffer(32, 32)
	a.Fill(128, 128, 128, 255)
	b := a.Clone()

	RandomDither(a, 128, newRand(42))
	RandomDither(b, 128, newRand(42))
	if !a.Equal(b) {
		t.Error("same seed produced different output")
	}
	if frac := whiteFraction(a); frac == 0 || frac == 1 {
		t.Errorf("white fraction = %v, want a mix", frac)
	}
}

func TestOrderedDitherPerChannel(t *testing.T) {
	m := MustOrderedMatrix(2) // thresholds 0, 127.5, 191.25, 63.75

	b := NewPixelBuffer(2, 2)
	b.Fill(200, 100, 0, 9)
	OrderedDither(b, m)

	want := [2][2][3]uint8{
		{{255, 255, 0}, {255, 0, 0}},
		{{255, 0, 0}, {255, 255, 0}},
	}
	for y := range 2 {
		for x := range 2 {
			r, g, bb, a := b.RGBA(x, y)
			if [3]uint8{r, g, bb} != want[y][x] || a != 9 {
				t.Errorf("(%d,%d) = %d,%d,%d,%d, want %v alpha 9", x, y, r, g, bb, a, want[y][x])
			}
		}
	}
}

func TestOrderedDitherTiles(t *testing.T) {
	m := MustOrderedMatrix(4)
	b := NewPixelBuffer(9, 7)
	b.Fill(120, 120, 120, 255)
	OrderedDither(b, m)

	for y := range 7 {
		for x := range 9 {
			r, _, _, _ := b.RGBA(x, y)
			want := uint8(0)
			if 120 > m.At(x, y)*255 {
				want = 255
			}
			if r != want {
				t.Fatalf("(%d,%d) = %d, want %d", x, y, r, want)
			}
		}
	}
}
