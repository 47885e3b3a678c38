// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

// DiffuseOptions controls an error-diffusion scan.
type DiffuseOptions struct {
	// Threshold is the luminance cut-off. A pixel whose RGB mean is strictly
	// greater becomes white.
	Threshold int

	// Factor scales every kernel weight. Zero disables error propagation.
	Factor float64

	// Serpentine traverses odd rows right to left with mirrored kernel
	// offsets.
	Serpentine bool
}

// plane holds RGB channels as floats so that propagated error is not
// rounded between writes. Values are kept within [0,255].
type plane struct {
	w, h int
	v    []float64
}

func newPlane(buf *PixelBuffer) *plane {
	p := &plane{w: buf.width, h: buf.height, v: make([]float64, buf.width*buf.height*3)}
	for i, j := 0, 0; i < len(buf.data); i, j = i+4, j+3 {
		p.v[j+0] = float64(buf.data[i+0])
		p.v[j+1] = float64(buf.data[i+1])
		p.v[j+2] = float64(buf.data[i+2])
	}
	return p
}

// store writes the RGB channels back, leaving alpha alone.
func (p *plane) store(buf *PixelBuffer) {
	for i, j := 0, 0; i < len(buf.data); i, j = i+4, j+3 {
		buf.data[i+0] = toByte(p.v[j+0])
		buf.data[i+1] = toByte(p.v[j+1])
		buf.data[i+2] = toByte(p.v[j+2])
	}
}

// binarize replaces pixel (x, y) with black or white by its RGB mean and
// returns the per-channel error.
func (p *plane) binarize(x, y int, threshold float64) [3]float64 {
	j := (y*p.w + x) * 3
	r, g, b := p.v[j], p.v[j+1], p.v[j+2]
	out := 0.0
	if (r+g+b)/3 > threshold {
		out = 255
	}
	p.v[j], p.v[j+1], p.v[j+2] = out, out, out
	return [3]float64{r - out, g - out, b - out}
}

// distribute spreads err from (x, y) to the kernel targets. dir is -1 on
// reversed rows. Targets outside the plane are dropped.
func (p *plane) distribute(x, y, dir int, err [3]float64, k Kernel, factor float64) {
	if factor == 0 {
		return
	}
	for _, t := range k.taps {
		nx, ny := x+t.DX*dir, y+t.DY
		if nx < 0 || nx >= p.w || ny >= p.h {
			continue
		}
		w := t.Weight * factor
		j := (ny*p.w + nx) * 3
		p.v[j+0] = clampFloat(p.v[j+0]+err[0]*w, 0, 255)
		p.v[j+1] = clampFloat(p.v[j+1]+err[1]*w, 0, 255)
		p.v[j+2] = clampFloat(p.v[j+2]+err[2]*w, 0, 255)
	}
}

// Diffuse dithers buf in place to black and white with error diffusion.
//
// Every pixel is visited once in row-major order. Its RGB mean is
// compared against the threshold, all three channels are set to 0 or
// 255, and the signed per-channel error is pushed to not-yet-visited
// neighbors through k, scaled by opts.Factor. Alpha is untouched and
// zero-area buffers are left as they are.
func Diffuse(buf *PixelBuffer, k Kernel, opts DiffuseOptions) {
	if buf.Empty() {
		return
	}
	p := newPlane(buf)
	threshold := float64(clampInt(opts.Threshold, MinThreshold, MaxThreshold))
	factor := clampFloat(opts.Factor, 0, 1)

	for y := 0; y < p.h; y++ {
		reversed := opts.Serpentine && y%2 == 1
		dir := 1
		if reversed {
			dir = -1
		}
		for i := 0; i < p.w; i++ {
			x := i
			if reversed {
				x = p.w - 1 - i
			}
			err := p.binarize(x, y, threshold)
			p.distribute(x, y, dir, err, k, factor)
		}
	}
	p.store(buf)
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
