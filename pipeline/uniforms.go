// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/dither"
)

// uniformSize is the byte size of the Uniforms block. Layout (std140-like,
// matching struct Uniforms in the fragment programs):
//
//	resolution      vec2<f32>             offset 0
//	threshold       f32                   offset 8   normalized to [0,1]
//	color_reduction f32                   offset 12  bits per channel
//	noise_amount    f32                   offset 16
//	split_position  f32                   offset 20
//	show_split      u32                   offset 24
//	temporal        u32                   offset 28
//	time            f32                   offset 32  seconds since Initialize
//	matrix_size     u32                   offset 36
//	padding         2×u32                 offset 40
//	matrix          array<vec4<f32>, 64>  offset 48  row-major n×n thresholds
//
// Total = 48 + 64*16 = 1072 bytes.
const uniformSize = 1072

const (
	offResolution     = 0
	offThreshold      = 8
	offColorReduction = 12
	offNoiseAmount    = 16
	offSplitPosition  = 20
	offShowSplit      = 24
	offTemporal       = 28
	offTime           = 32
	offMatrixSize     = 36
	offMatrix         = 48
)

// maxMatrixCells is the capacity of the matrix array.
const maxMatrixCells = dither.MaxMatrixSize * dither.MaxMatrixSize

// Uniforms is the per-draw parameter block shared by every program. Both
// backends read the same values; the GPU backend uploads Bytes().
type Uniforms struct {
	Width, Height  int
	Threshold      int // 0..255
	ColorReduction int
	NoiseAmount    float64
	SplitPosition  float64
	ShowSplit      bool
	Temporal       bool
	Time           float64
	Matrix         *dither.Matrix
}

// newUniforms resolves the draw parameters for one frame.
func newUniforms(rs RenderState, w, h int, split float64, showSplit bool, elapsed float64) Uniforms {
	s := rs.Settings
	return Uniforms{
		Width:          w,
		Height:         h,
		Threshold:      s.Threshold(),
		ColorReduction: s.ColorReduction(),
		NoiseAmount:    s.NoiseAmount(),
		SplitPosition:  min(max(split, 0), 1),
		ShowSplit:      showSplit,
		Temporal:       rs.TemporalDithering,
		Time:           elapsed,
		Matrix:         dither.MustOrderedMatrix(s.MatrixSize()),
	}
}

// Bytes encodes u in the fragment program layout.
func (u *Uniforms) Bytes() []byte {
	buf := make([]byte, uniformSize)
	putF32 := func(off int, v float64) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(v)))
	}
	putU32 := func(off int, v uint32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], v)
	}
	putBool := func(off int, v bool) {
		if v {
			putU32(off, 1)
		}
	}

	putF32(offResolution, float64(u.Width))
	putF32(offResolution+4, float64(u.Height))
	putF32(offThreshold, float64(u.Threshold)/255)
	putF32(offColorReduction, float64(u.ColorReduction))
	putF32(offNoiseAmount, u.NoiseAmount)
	putF32(offSplitPosition, u.SplitPosition)
	putBool(offShowSplit, u.ShowSplit)
	putBool(offTemporal, u.Temporal)
	putF32(offTime, u.Time)

	if u.Matrix != nil {
		putU32(offMatrixSize, uint32(u.Matrix.Size())) //nolint:gosec // size is at most 16
		for i, v := range u.Matrix.Values() {
			if i >= maxMatrixCells {
				break
			}
			putF32(offMatrix+i*4, v)
		}
	}
	return buf
}

// thresholdOffset is the temporal perturbation of the diffusion threshold,
// in normalized units.
func thresholdOffset(t float64) float64 {
	return math.Sin(t*0.1) * 0.02
}

// sampleOffset is the temporal perturbation of the ordered sampling
// position, in pixels.
func sampleOffset(t float64) (dx, dy float64) {
	return math.Sin(t*0.2) * 0.5, math.Cos(t*0.2) * 0.5
}
