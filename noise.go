// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import "math"

// NoiseHash is the position hash shared with the fragment programs:
// fract(sin(dot(uv, (12.9898, 78.233))) * 43758.5453). The result is in
// [0,1).
func NoiseHash(u, v float64) float64 {
	s := math.Sin(u*12.9898+v*78.233) * 43758.5453
	return s - math.Floor(s)
}

// AddNoise offsets the RGB channels of buf in place by
// (NoiseHash(u,v)*2-1)*amount*255, where (u,v) is the pixel-centre
// texture coordinate. amount is clamped to [0,1]; zero is a no-op.
func AddNoise(buf *PixelBuffer, amount float64) {
	amount = clampFloat(amount, 0, 1)
	if amount == 0 || buf.Empty() {
		return
	}
	w, h := float64(buf.width), float64(buf.height)
	d := buf.data
	for y := 0; y < buf.height; y++ {
		v := (float64(y) + 0.5) / h
		for x := 0; x < buf.width; x++ {
			u := (float64(x) + 0.5) / w
			n := (NoiseHash(u, v)*2 - 1) * amount * 255
			i := (y*buf.width + x) * 4
			d[i+0] = toByte(float64(d[i+0]) + n)
			d[i+1] = toByte(float64(d[i+1]) + n)
			d[i+2] = toByte(float64(d[i+2]) + n)
		}
	}
}
