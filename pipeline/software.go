// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"
	"math"

	"github.com/gogpu/dither"
)

// softwareRenderer evaluates the fragment programs on the CPU, one
// invocation per pixel, with the same uniforms the GPU programs receive.
type softwareRenderer struct {
	source *dither.PixelBuffer
}

func newSoftwareRenderer() *softwareRenderer {
	return &softwareRenderer{}
}

func (r *softwareRenderer) Name() string { return "software" }

func (r *softwareRenderer) Init() error { return nil }

func (r *softwareRenderer) Upload(frame *dither.PixelBuffer) error {
	r.source = frame.Clone()
	return nil
}

func (r *softwareRenderer) Draw(family dither.Family, u *Uniforms) (*dither.PixelBuffer, error) {
	if r.source.Empty() {
		return nil, ErrNoSource
	}
	var shade fragmentFunc
	switch family {
	case dither.FamilyDiffusion:
		shade = diffusionFragment
	case dither.FamilyOrdered:
		shade = orderedFragment
	default:
		return nil, fmt.Errorf("no program for %s family", family)
	}

	w, h := r.source.Width(), r.source.Height()
	out := dither.NewPixelBuffer(w, h)
	for y := range h {
		for x := range w {
			in := fragment{
				x: x, y: y,
				u: (float64(x) + 0.5) / float64(w),
				v: (float64(y) + 0.5) / float64(h),
			}
			in.r, in.g, in.b, in.a = r.source.RGBA(x, y)
			cr, cg, cb := shade(in, u)
			out.SetRGBA(x, y, cr, cg, cb, in.a)
		}
	}
	return out, nil
}

func (r *softwareRenderer) Destroy() { r.source = nil }

// fragment is the input of one fragment invocation.
type fragment struct {
	x, y       int     // pixel
	u, v       float64 // pixel-centre texture coordinate
	r, g, b, a uint8   // source sample
}

type fragmentFunc func(in fragment, u *Uniforms) (r, g, b uint8)

// quantized returns the color-quantized source and the same color with
// noise applied. Both are on the 0..255 scale so that comparisons without
// noise or temporal offsets are exact.
func quantized(in fragment, u *Uniforms) (q [3]uint8, c [3]float64) {
	q = [3]uint8{
		dither.QuantizeValue(in.r, u.ColorReduction),
		dither.QuantizeValue(in.g, u.ColorReduction),
		dither.QuantizeValue(in.b, u.ColorReduction),
	}
	n := 0.0
	if u.NoiseAmount > 0 {
		n = (dither.NoiseHash(in.u, in.v)*2 - 1) * u.NoiseAmount * 255
	}
	for i := range c {
		c[i] = min(max(float64(q[i])+n, 0), 255)
	}
	return q, c
}

func inSplit(in fragment, u *Uniforms) bool {
	return u.ShowSplit && in.u < u.SplitPosition
}

func diffusionFragment(in fragment, u *Uniforms) (r, g, b uint8) {
	q, c := quantized(in, u)
	if inSplit(in, u) {
		return q[0], q[1], q[2]
	}
	th := float64(u.Threshold)
	if u.Temporal {
		th += thresholdOffset(u.Time) * 255
	}
	if (c[0]+c[1]+c[2])/3 > th {
		return 255, 255, 255
	}
	return 0, 0, 0
}

func orderedFragment(in fragment, u *Uniforms) (r, g, b uint8) {
	q, c := quantized(in, u)
	if inSplit(in, u) {
		return q[0], q[1], q[2]
	}
	px, py := float64(in.x)+0.5, float64(in.y)+0.5
	if u.Temporal {
		dx, dy := sampleOffset(u.Time)
		px += dx
		py += dy
	}
	t := u.Matrix.At(int(math.Floor(px)), int(math.Floor(py))) * 255

	var o [3]uint8
	for i := range o {
		if c[i] > t {
			o[i] = 255
		}
	}
	return o[0], o[1], o[2]
}
