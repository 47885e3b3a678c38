// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import "math"

const (
	riemersmaHistory = 16 // remembered quantization errors
	riemersmaRatio   = 16 // weight of the newest error relative to the oldest
)

// riemersmaWeights grow geometrically from 1 (oldest) to the ratio
// (newest) and are pre-divided by the ratio.
var riemersmaWeights = func() [riemersmaHistory]float64 {
	var w [riemersmaHistory]float64
	m := math.Exp(math.Log(riemersmaRatio) / (riemersmaHistory - 1))
	v := 1.0
	for i := range w {
		w[i] = v / riemersmaRatio
		v *= m
	}
	return w
}()

// RiemersmaDither dithers buf in place by walking a Hilbert curve and
// feeding each pixel the weighted sum of the last 16 quantization errors
// along the curve, scaled by factor. Binarization follows Diffuse: the
// RGB mean against threshold.
func RiemersmaDither(buf *PixelBuffer, threshold int, factor float64) {
	if buf.Empty() {
		return
	}
	p := newPlane(buf)
	th := float64(clampInt(threshold, MinThreshold, MaxThreshold))
	factor = clampFloat(factor, 0, 1)

	side := 1
	for side < p.w || side < p.h {
		side *= 2
	}

	var hist [riemersmaHistory][3]float64
	for d := 0; d < side*side; d++ {
		x, y := hilbertPoint(side, d)
		if x >= p.w || y >= p.h {
			continue
		}

		var acc [3]float64
		for i, e := range hist {
			w := riemersmaWeights[i] * factor
			acc[0] += e[0] * w
			acc[1] += e[1] * w
			acc[2] += e[2] * w
		}
		j := (y*p.w + x) * 3
		for c := range 3 {
			p.v[j+c] = clampFloat(p.v[j+c]+acc[c], 0, 255)
		}

		copy(hist[:], hist[1:])
		hist[riemersmaHistory-1] = p.binarize(x, y, th)
	}
	p.store(buf)
}

// hilbertPoint maps distance d along the Hilbert curve filling a side×side
// square (side a power of two) to its coordinates.
func hilbertPoint(side, d int) (x, y int) {
	t := d
	for s := 1; s < side; s *= 2 {
		rx := 1 & (t / 2)
		ry := 1 & (t ^ rx)
		if ry == 0 {
			if rx == 1 {
				x = s - 1 - x
				y = s - 1 - y
			}
			x, y = y, x
		}
		x += s * rx
		y += s * ry
		t /= 4
	}
	return x, y
}
