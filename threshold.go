// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import "math/rand/v2"

// mean returns the unweighted RGB mean used as the luminance proxy.
func mean(r, g, b uint8) float64 {
	return float64(int(r)+int(g)+int(b)) / 3
}

// ThresholdDither binarizes every pixel of buf in place: RGB becomes 255
// when the channel mean is strictly greater than t, else 0. Alpha is
// untouched.
func ThresholdDither(buf *PixelBuffer, t int) {
	if buf.Empty() {
		return
	}
	th := float64(clampInt(t, MinThreshold, MaxThreshold))
	d := buf.data
	for i := 0; i < len(d); i += 4 {
		v := uint8(0)
		if mean(d[i], d[i+1], d[i+2]) > th {
			v = 255
		}
		d[i], d[i+1], d[i+2] = v, v, v
	}
}

// RandomDither is ThresholdDither with the threshold of each pixel scaled
// by an independent uniform factor in [0.8, 1.2). rng supplies the
// factors; results are only reproducible for a seeded source.
func RandomDither(buf *PixelBuffer, t int, rng *rand.Rand) {
	if buf.Empty() {
		return
	}
	if rng == nil {
		rng = newRand(0)
	}
	th := float64(clampInt(t, MinThreshold, MaxThreshold))
	d := buf.data
	for i := 0; i < len(d); i += 4 {
		local := th * (0.8 + rng.Float64()*0.4)
		v := uint8(0)
		if mean(d[i], d[i+1], d[i+2]) > local {
			v = 255
		}
		d[i], d[i+1], d[i+2] = v, v, v
	}
}

// OrderedDither binarizes each channel of buf in place against the local
// threshold m.At(x, y)*255. The global threshold is not used.
func OrderedDither(buf *PixelBuffer, m *Matrix) {
	if buf.Empty() {
		return
	}
	n := m.Size()
	d := buf.data
	for y := 0; y < buf.height; y++ {
		row := m.values[(y%n)*n : (y%n+1)*n]
		for x := 0; x < buf.width; x++ {
			local := row[x%n] * 255
			i := (y*buf.width + x) * 4
			for c := 0; c < 3; c++ {
				if float64(d[i+c]) > local {
					d[i+c] = 255
				} else {
					d[i+c] = 0
				}
			}
		}
	}
}

// newRand returns a PCG source for seed, or a randomly seeded one for 0.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
}
